package domain

import "github.com/shopspring/decimal"

// MonthlySummary holds income/expense/balance totals for one viewed month,
// computed over real plus projected occurrences.
type MonthlySummary struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	IncomeTotal  decimal.Decimal `json:"incomeTotal"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	Balance      decimal.Decimal `json:"balance"`
}

// PendingSummary holds totals and counts for pending transactions across all
// time, split by type.
type PendingSummary struct {
	IncomeTotal  decimal.Decimal `json:"incomeTotal"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	IncomeCount  int             `json:"incomeCount"`
	ExpenseCount int             `json:"expenseCount"`
}

// DailyTotal holds per-day totals for the calendar view. Net is income minus
// expense for that day.
type DailyTotal struct {
	Day          int             `json:"day"`
	IncomeTotal  decimal.Decimal `json:"incomeTotal"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	Net          decimal.Decimal `json:"net"`
}
