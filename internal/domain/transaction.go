package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
)

type Transaction struct {
	ID              int32             `json:"id"`
	UserID          uuid.UUID         `json:"userId"`
	CategoryID      *int32            `json:"categoryId,omitempty"`
	Description     *string           `json:"description,omitempty"`
	Amount          decimal.Decimal   `json:"amount"`
	Type            TransactionType   `json:"type"`
	TransactionDate time.Time         `json:"transactionDate"`
	Status          TransactionStatus `json:"status"`
	IsRecurring     bool              `json:"isRecurring"`
	RecurrenceDay   *int32            `json:"recurrenceDay,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// StatusForDate derives a transaction's status from its date relative to now.
// Both values are reduced to date-only granularity; a strictly future date is
// pending, today or earlier is completed. The status is written once at
// create/update time and never recomputed for stored rows.
func StatusForDate(date, now time.Time) TransactionStatus {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(n) {
		return TransactionStatusPending
	}
	return TransactionStatusCompleted
}

type TransactionFilters struct {
	CategoryID *int32
	StartDate  *time.Time
	EndDate    *time.Time
	Type       *TransactionType
	Page       int32
	PageSize   int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

// UpdateTransactionData holds the updatable fields of a transaction. Status is
// not user-settable: the service derives it from TransactionDate at write time.
type UpdateTransactionData struct {
	CategoryID      *int32
	Description     *string
	Amount          decimal.Decimal
	Type            TransactionType
	TransactionDate time.Time
	Status          TransactionStatus
	IsRecurring     bool
	RecurrenceDay   *int32
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID uuid.UUID, id int32) (*Transaction, error)
	GetByUser(userID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
	// GetByDateRange returns all transactions dated within [start, end] inclusive.
	GetByDateRange(userID uuid.UUID, start, end time.Time) ([]*Transaction, error)
	// ListRecurring returns the recurring templates (is_recurring = true).
	ListRecurring(userID uuid.UUID) ([]*Transaction, error)
	// ListPending returns pending transactions across all time.
	ListPending(userID uuid.UUID) ([]*Transaction, error)
	Update(userID uuid.UUID, id int32, data *UpdateTransactionData) (*Transaction, error)
	// Delete removes the transaction; attachment rows cascade at the store
	// level, blobs are removed by the service beforehand.
	Delete(userID uuid.UUID, id int32) error
}
