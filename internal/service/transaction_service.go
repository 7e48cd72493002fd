package service

import (
	"context"
	"strings"
	"time"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/fiskal-app/fiskal-backend/internal/repository/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	attachmentRepo  domain.AttachmentRepository
	receiptStorage  storage.ReceiptRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	attachmentRepo domain.AttachmentRepository,
	receiptStorage storage.ReceiptRepository,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		attachmentRepo:  attachmentRepo,
		receiptStorage:  receiptStorage,
	}
}

// TransactionInput holds the input for creating or updating a transaction
type TransactionInput struct {
	CategoryID      *int32
	Description     *string
	Amount          decimal.Decimal
	Type            domain.TransactionType
	TransactionDate *time.Time
	IsRecurring     bool
	RecurrenceDay   *int32
}

type validatedTransactionInput struct {
	categoryID      *int32
	description     *string
	amount          decimal.Decimal
	txType          domain.TransactionType
	transactionDate time.Time
	status          domain.TransactionStatus
	isRecurring     bool
	recurrenceDay   *int32
}

func (s *TransactionService) validate(userID uuid.UUID, input TransactionInput) (*validatedTransactionInput, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if input.Type != domain.TransactionTypeIncome && input.Type != domain.TransactionTypeExpense {
		return nil, domain.ErrInvalidTransactionType
	}

	// Recurrence day is required iff the transaction is recurring
	var recurrenceDay *int32
	if input.IsRecurring {
		if input.RecurrenceDay == nil {
			return nil, domain.ErrRecurrenceDayRequired
		}
		if *input.RecurrenceDay < 1 || *input.RecurrenceDay > 31 {
			return nil, domain.ErrInvalidRecurrenceDay
		}
		recurrenceDay = input.RecurrenceDay
	}

	// Validate category exists and belongs to the user if provided
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(userID, *input.CategoryID); err != nil {
			return nil, domain.ErrCategoryNotFound
		}
	}

	// Trim and validate description if provided
	var description *string
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed != "" {
			if len(trimmed) > domain.MaxDescriptionLength {
				return nil, domain.ErrDescriptionTooLong
			}
			description = &trimmed
		}
	}

	// Default transaction_date to today if not provided
	now := time.Now().UTC()
	transactionDate := now.Truncate(24 * time.Hour)
	if input.TransactionDate != nil {
		transactionDate = *input.TransactionDate
	}

	return &validatedTransactionInput{
		categoryID:      input.CategoryID,
		description:     description,
		amount:          input.Amount,
		txType:          input.Type,
		transactionDate: transactionDate,
		// Status is derived once, at write time, and never recomputed
		// retroactively for stored rows.
		status:        domain.StatusForDate(transactionDate, now),
		isRecurring:   input.IsRecurring,
		recurrenceDay: recurrenceDay,
	}, nil
}

// CreateTransaction creates a new transaction with a derived status
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	v, err := s.validate(userID, input)
	if err != nil {
		return nil, err
	}

	return s.transactionRepo.Create(&domain.Transaction{
		UserID:          userID,
		CategoryID:      v.categoryID,
		Description:     v.description,
		Amount:          v.amount,
		Type:            v.txType,
		TransactionDate: v.transactionDate,
		Status:          v.status,
		IsRecurring:     v.isRecurring,
		RecurrenceDay:   v.recurrenceDay,
	})
}

// GetTransactions retrieves transactions with optional filters and pagination
func (s *TransactionService) GetTransactions(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	return s.transactionRepo.GetByUser(userID, filters)
}

// GetTransactionByID retrieves a single transaction
func (s *TransactionService) GetTransactionByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}

// UpdateTransaction updates a transaction, re-deriving its status from the
// submitted date
func (s *TransactionService) UpdateTransaction(userID uuid.UUID, id int32, input TransactionInput) (*domain.Transaction, error) {
	if _, err := s.transactionRepo.GetByID(userID, id); err != nil {
		return nil, err
	}

	v, err := s.validate(userID, input)
	if err != nil {
		return nil, err
	}

	return s.transactionRepo.Update(userID, id, &domain.UpdateTransactionData{
		CategoryID:      v.categoryID,
		Description:     v.description,
		Amount:          v.amount,
		Type:            v.txType,
		TransactionDate: v.transactionDate,
		Status:          v.status,
		IsRecurring:     v.isRecurring,
		RecurrenceDay:   v.recurrenceDay,
	})
}

// DeleteTransaction removes a transaction and all its attachments. Blobs are
// removed from object storage first; attachment rows cascade with the
// transaction row. A blob that fails to delete is logged and skipped so the
// transaction delete still proceeds.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID uuid.UUID, id int32) error {
	if _, err := s.transactionRepo.GetByID(userID, id); err != nil {
		return err
	}

	attachments, err := s.attachmentRepo.GetByTransaction(userID, id)
	if err != nil {
		return err
	}

	for _, attachment := range attachments {
		if err := s.receiptStorage.Delete(ctx, attachment.FilePath); err != nil {
			log.Warn().Err(err).
				Str("file_path", attachment.FilePath).
				Int32("attachment_id", attachment.ID).
				Msg("Failed to delete receipt blob during transaction delete")
		}
		if attachment.ThumbnailPath != nil {
			if err := s.receiptStorage.Delete(ctx, *attachment.ThumbnailPath); err != nil {
				log.Warn().Err(err).
					Str("file_path", *attachment.ThumbnailPath).
					Int32("attachment_id", attachment.ID).
					Msg("Failed to delete receipt thumbnail during transaction delete")
			}
		}
	}

	return s.transactionRepo.Delete(userID, id)
}
