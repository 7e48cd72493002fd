package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, category_id, description, amount, type,
	transaction_date, status, is_recurring, recurrence_day, created_at, updated_at`

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var categoryID pgtype.Int4
	if transaction.CategoryID != nil {
		categoryID = pgtype.Int4{Int32: *transaction.CategoryID, Valid: true}
	}
	var description pgtype.Text
	if transaction.Description != nil {
		description = pgtype.Text{String: *transaction.Description, Valid: true}
	}
	var recurrenceDay pgtype.Int4
	if transaction.RecurrenceDay != nil {
		recurrenceDay = pgtype.Int4{Int32: *transaction.RecurrenceDay, Valid: true}
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO transactions
		 (user_id, category_id, description, amount, type, transaction_date, status, is_recurring, recurrence_day)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+transactionColumns,
		transaction.UserID, categoryID, description, amount, string(transaction.Type),
		pgtype.Date{Time: transaction.TransactionDate, Valid: true},
		string(transaction.Status), transaction.IsRecurring, recurrenceDay)

	return scanTransaction(row)
}

// GetByID retrieves a transaction by its ID, scoped to the owning user
func (r *TransactionRepository) GetByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 AND id = $2`,
		userID, id)
	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// GetByUser retrieves transactions for a user with optional filters and pagination
func (r *TransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()

	// Set default pagination values
	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)

	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
	}

	offset := (page - 1) * pageSize

	where := []string{"user_id = $1"}
	args := []interface{}{userID}

	if filters != nil {
		if filters.CategoryID != nil {
			args = append(args, *filters.CategoryID)
			where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
		}
		if filters.StartDate != nil {
			args = append(args, pgtype.Date{Time: *filters.StartDate, Valid: true})
			where = append(where, fmt.Sprintf("transaction_date >= $%d", len(args)))
		}
		if filters.EndDate != nil {
			args = append(args, pgtype.Date{Time: *filters.EndDate, Valid: true})
			where = append(where, fmt.Sprintf("transaction_date <= $%d", len(args)))
		}
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			where = append(where, fmt.Sprintf("type = $%d", len(args)))
		}
	}

	whereClause := strings.Join(where, " AND ")

	var totalItems int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE `+whereClause, args...).Scan(&totalItems)
	if err != nil {
		return nil, err
	}

	args = append(args, pageSize, offset)
	query := fmt.Sprintf(
		`SELECT %s FROM transactions WHERE %s
		 ORDER BY transaction_date DESC, id DESC
		 LIMIT $%d OFFSET $%d`,
		transactionColumns, whereClause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// GetByDateRange retrieves all transactions dated within [start, end] inclusive
func (r *TransactionRepository) GetByDateRange(userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date <= $3
		 ORDER BY transaction_date, id`,
		userID, pgtype.Date{Time: start, Valid: true}, pgtype.Date{Time: end, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListRecurring retrieves the user's recurring transaction templates
func (r *TransactionRepository) ListRecurring(userID uuid.UUID) ([]*domain.Transaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = $1 AND is_recurring = TRUE
		 ORDER BY recurrence_day, id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListPending retrieves pending transactions across all time
func (r *TransactionRepository) ListPending(userID uuid.UUID) ([]*domain.Transaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = $1 AND status = 'pending'
		 ORDER BY transaction_date, id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// Update updates a transaction's details, including the rewritten status
func (r *TransactionRepository) Update(userID uuid.UUID, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var categoryID pgtype.Int4
	if data.CategoryID != nil {
		categoryID = pgtype.Int4{Int32: *data.CategoryID, Valid: true}
	}
	var description pgtype.Text
	if data.Description != nil {
		description = pgtype.Text{String: *data.Description, Valid: true}
	}
	var recurrenceDay pgtype.Int4
	if data.RecurrenceDay != nil {
		recurrenceDay = pgtype.Int4{Int32: *data.RecurrenceDay, Valid: true}
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE transactions SET
		   category_id = $3, description = $4, amount = $5, type = $6,
		   transaction_date = $7, status = $8, is_recurring = $9, recurrence_day = $10,
		   updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+transactionColumns,
		userID, id, categoryID, description, amount, string(data.Type),
		pgtype.Date{Time: data.TransactionDate, Valid: true},
		string(data.Status), data.IsRecurring, recurrenceDay)

	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// Delete removes a transaction. Attachment rows are removed by the ON DELETE
// CASCADE foreign key; blobs must be removed by the caller first.
func (r *TransactionRepository) Delete(userID uuid.UUID, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND id = $2`,
		userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// Helper functions

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction   domain.Transaction
		categoryID    pgtype.Int4
		description   pgtype.Text
		amount        pgtype.Numeric
		txType        string
		txDate        pgtype.Date
		status        string
		recurrenceDay pgtype.Int4
	)
	err := row.Scan(&transaction.ID, &transaction.UserID, &categoryID, &description,
		&amount, &txType, &txDate, &status, &transaction.IsRecurring, &recurrenceDay,
		&transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		return nil, err
	}

	transaction.Amount = pgNumericToDecimal(amount)
	transaction.Type = domain.TransactionType(txType)
	transaction.TransactionDate = txDate.Time
	transaction.Status = domain.TransactionStatus(status)
	if categoryID.Valid {
		transaction.CategoryID = &categoryID.Int32
	}
	if description.Valid {
		transaction.Description = &description.String
	}
	if recurrenceDay.Valid {
		transaction.RecurrenceDay = &recurrenceDay.Int32
	}
	return &transaction, nil
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}
