package service

import (
	"time"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/fiskal-app/fiskal-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SummaryService computes the aggregation views: monthly balance, pending
// summary and the per-day calendar totals. All views are full linear
// recomputes over the relevant transaction list.
type SummaryService struct {
	transactionRepo   domain.TransactionRepository
	projectionService *ProjectionService
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(transactionRepo domain.TransactionRepository, projectionService *ProjectionService) *SummaryService {
	return &SummaryService{
		transactionRepo:   transactionRepo,
		projectionService: projectionService,
	}
}

// MonthlySummary computes income/expense/balance totals for the viewed month
// over real plus projected occurrences.
func (s *SummaryService) MonthlySummary(userID uuid.UUID, year int, month time.Month) (*domain.MonthlySummary, error) {
	occurrences, err := s.projectionService.MonthOccurrences(userID, year, month)
	if err != nil {
		return nil, err
	}

	summary := ReduceMonthly(occurrences)
	summary.Year = year
	summary.Month = int(month)
	return summary, nil
}

// PendingSummary computes totals and counts for pending transactions across
// all time. Pending rows are selected by their stored status, not by date.
func (s *SummaryService) PendingSummary(userID uuid.UUID) (*domain.PendingSummary, error) {
	pending, err := s.transactionRepo.ListPending(userID)
	if err != nil {
		return nil, err
	}
	return ReducePending(pending), nil
}

// Calendar computes per-day totals for every day of the viewed month.
func (s *SummaryService) Calendar(userID uuid.UUID, year int, month time.Month) ([]*domain.DailyTotal, error) {
	occurrences, err := s.projectionService.MonthOccurrences(userID, year, month)
	if err != nil {
		return nil, err
	}
	return ReduceDaily(occurrences, year, month), nil
}

// ReduceMonthly sums occurrence amounts by type. An empty list yields zeroes.
func ReduceMonthly(occurrences []*domain.Occurrence) *domain.MonthlySummary {
	income := decimal.Zero
	expense := decimal.Zero

	for _, o := range occurrences {
		switch o.Type {
		case domain.TransactionTypeIncome:
			income = income.Add(o.Amount)
		case domain.TransactionTypeExpense:
			expense = expense.Add(o.Amount)
		}
	}

	return &domain.MonthlySummary{
		IncomeTotal:  income,
		ExpenseTotal: expense,
		Balance:      income.Sub(expense),
	}
}

// ReducePending sums and counts pending transactions by type.
func ReducePending(transactions []*domain.Transaction) *domain.PendingSummary {
	summary := &domain.PendingSummary{
		IncomeTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
	}

	for _, t := range transactions {
		switch t.Type {
		case domain.TransactionTypeIncome:
			summary.IncomeTotal = summary.IncomeTotal.Add(t.Amount)
			summary.IncomeCount++
		case domain.TransactionTypeExpense:
			summary.ExpenseTotal = summary.ExpenseTotal.Add(t.Amount)
			summary.ExpenseCount++
		}
	}

	return summary
}

// ReduceDaily buckets occurrences by calendar day, producing one entry per
// day of the month including empty days.
func ReduceDaily(occurrences []*domain.Occurrence, year int, month time.Month) []*domain.DailyTotal {
	days := util.DaysInMonth(year, month)
	totals := make([]*domain.DailyTotal, days)
	for i := range totals {
		totals[i] = &domain.DailyTotal{
			Day:          i + 1,
			IncomeTotal:  decimal.Zero,
			ExpenseTotal: decimal.Zero,
			Net:          decimal.Zero,
		}
	}

	for _, o := range occurrences {
		if o.TransactionDate.Year() != year || o.TransactionDate.Month() != month {
			continue
		}
		day := totals[o.TransactionDate.Day()-1]
		switch o.Type {
		case domain.TransactionTypeIncome:
			day.IncomeTotal = day.IncomeTotal.Add(o.Amount)
		case domain.TransactionTypeExpense:
			day.ExpenseTotal = day.ExpenseTotal.Add(o.Amount)
		}
	}

	for _, day := range totals {
		day.Net = day.IncomeTotal.Sub(day.ExpenseTotal)
	}

	return totals
}
