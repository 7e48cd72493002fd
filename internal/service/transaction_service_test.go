package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/fiskal-app/fiskal-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTransactionService() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository, *testutil.MockAttachmentRepository, *testutil.MockReceiptRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	attachmentRepo := testutil.NewMockAttachmentRepository()
	receiptRepo := testutil.NewMockReceiptRepository()
	svc := NewTransactionService(transactionRepo, categoryRepo, attachmentRepo, receiptRepo)
	return svc, transactionRepo, categoryRepo, attachmentRepo, receiptRepo
}

func TestCreateTransaction_TodayIsCompleted(t *testing.T) {
	svc, _, _, _, _ := newTransactionService()
	userID := uuid.New()

	today := time.Now().UTC()
	input := TransactionInput{
		Amount:          decimal.NewFromFloat(150.00),
		Type:            domain.TransactionTypeExpense,
		TransactionDate: &today,
	}

	transaction, err := svc.CreateTransaction(userID, input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if transaction.Status != domain.TransactionStatusCompleted {
		t.Errorf("Expected status 'completed' for a transaction dated today, got %s", transaction.Status)
	}
	if !transaction.Amount.Equal(decimal.NewFromFloat(150.00)) {
		t.Errorf("Expected amount '150', got %s", transaction.Amount.String())
	}
	if transaction.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, transaction.UserID)
	}
}

func TestCreateTransaction_FutureDateIsPending(t *testing.T) {
	svc, _, _, _, _ := newTransactionService()
	userID := uuid.New()

	future := time.Now().UTC().AddDate(0, 0, 10)
	input := TransactionInput{
		Amount:          decimal.NewFromFloat(500.00),
		Type:            domain.TransactionTypeIncome,
		TransactionDate: &future,
	}

	transaction, err := svc.CreateTransaction(userID, input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if transaction.Status != domain.TransactionStatusPending {
		t.Errorf("Expected status 'pending' for a future-dated transaction, got %s", transaction.Status)
	}
}

func TestCreateTransaction_DefaultsDateToToday(t *testing.T) {
	svc, _, _, _, _ := newTransactionService()
	userID := uuid.New()

	transaction, err := svc.CreateTransaction(userID, TransactionInput{
		Amount: decimal.NewFromFloat(25.00),
		Type:   domain.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	now := time.Now().UTC()
	if transaction.TransactionDate.Year() != now.Year() ||
		transaction.TransactionDate.Month() != now.Month() ||
		transaction.TransactionDate.Day() != now.Day() {
		t.Errorf("Expected date to default to today, got %v", transaction.TransactionDate)
	}
	if transaction.Status != domain.TransactionStatusCompleted {
		t.Errorf("Expected status 'completed' for today's date, got %s", transaction.Status)
	}
}

func TestCreateTransaction_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, _, _, _ := newTransactionService()
	userID := uuid.New()

	_, err := svc.CreateTransaction(userID, TransactionInput{
		Amount: decimal.Zero,
		Type:   domain.TransactionTypeExpense,
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount for zero amount, got %v", err)
	}

	_, err = svc.CreateTransaction(userID, TransactionInput{
		Amount: decimal.NewFromFloat(-10.00),
		Type:   domain.TransactionTypeExpense,
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount for negative amount, got %v", err)
	}
}

func TestCreateTransaction_RejectsInvalidType(t *testing.T) {
	svc, _, _, _, _ := newTransactionService()

	_, err := svc.CreateTransaction(uuid.New(), TransactionInput{
		Amount: decimal.NewFromFloat(10.00),
		Type:   domain.TransactionType("transfer"),
	})
	if !errors.Is(err, domain.ErrInvalidTransactionType) {
		t.Errorf("Expected ErrInvalidTransactionType, got %v", err)
	}
}

func TestCreateTransaction_RecurringRequiresDay(t *testing.T) {
	svc, _, _, _, _ := newTransactionService()

	_, err := svc.CreateTransaction(uuid.New(), TransactionInput{
		Amount:      decimal.NewFromFloat(1200.00),
		Type:        domain.TransactionTypeExpense,
		IsRecurring: true,
	})
	if !errors.Is(err, domain.ErrRecurrenceDayRequired) {
		t.Errorf("Expected ErrRecurrenceDayRequired, got %v", err)
	}
}

func TestCreateTransaction_RecurrenceDayOutOfRange(t *testing.T) {
	svc, _, _, _, _ := newTransactionService()

	for _, day := range []int32{0, 32, -1} {
		d := day
		_, err := svc.CreateTransaction(uuid.New(), TransactionInput{
			Amount:        decimal.NewFromFloat(1200.00),
			Type:          domain.TransactionTypeExpense,
			IsRecurring:   true,
			RecurrenceDay: &d,
		})
		if !errors.Is(err, domain.ErrInvalidRecurrenceDay) {
			t.Errorf("Expected ErrInvalidRecurrenceDay for day %d, got %v", day, err)
		}
	}
}

func TestCreateTransaction_IgnoresRecurrenceDayWhenNotRecurring(t *testing.T) {
	svc, _, _, _, _ := newTransactionService()

	day := int32(15)
	transaction, err := svc.CreateTransaction(uuid.New(), TransactionInput{
		Amount:        decimal.NewFromFloat(10.00),
		Type:          domain.TransactionTypeExpense,
		IsRecurring:   false,
		RecurrenceDay: &day,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if transaction.RecurrenceDay != nil {
		t.Errorf("Expected recurrence day to be dropped for non-recurring transaction, got %d", *transaction.RecurrenceDay)
	}
}

func TestCreateTransaction_RejectsForeignCategory(t *testing.T) {
	svc, _, categoryRepo, _, _ := newTransactionService()
	owner := uuid.New()
	other := uuid.New()

	category, err := categoryRepo.Create(&domain.Category{
		UserID: owner,
		Name:   "Groceries",
		Icon:   "shopping-cart",
		Type:   domain.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}

	_, err = svc.CreateTransaction(other, TransactionInput{
		CategoryID: &category.ID,
		Amount:     decimal.NewFromFloat(50.00),
		Type:       domain.TransactionTypeExpense,
	})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound for another user's category, got %v", err)
	}
}

func TestCreateTransaction_TrimsDescription(t *testing.T) {
	svc, _, _, _, _ := newTransactionService()

	description := "  weekly shop  "
	transaction, err := svc.CreateTransaction(uuid.New(), TransactionInput{
		Description: &description,
		Amount:      decimal.NewFromFloat(45.00),
		Type:        domain.TransactionTypeExpense,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if transaction.Description == nil || *transaction.Description != "weekly shop" {
		t.Errorf("Expected trimmed description 'weekly shop', got %v", transaction.Description)
	}
}

func TestUpdateTransaction_RederivesStatus(t *testing.T) {
	svc, _, _, _, _ := newTransactionService()
	userID := uuid.New()

	future := time.Now().UTC().AddDate(0, 0, 5)
	transaction, err := svc.CreateTransaction(userID, TransactionInput{
		Amount:          decimal.NewFromFloat(100.00),
		Type:            domain.TransactionTypeExpense,
		TransactionDate: &future,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if transaction.Status != domain.TransactionStatusPending {
		t.Fatalf("Expected pending status before update, got %s", transaction.Status)
	}

	past := time.Now().UTC().AddDate(0, 0, -5)
	updated, err := svc.UpdateTransaction(userID, transaction.ID, TransactionInput{
		Amount:          decimal.NewFromFloat(100.00),
		Type:            domain.TransactionTypeExpense,
		TransactionDate: &past,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Status != domain.TransactionStatusCompleted {
		t.Errorf("Expected status re-derived to 'completed', got %s", updated.Status)
	}
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	svc, _, _, _, _ := newTransactionService()

	_, err := svc.UpdateTransaction(uuid.New(), 999, TransactionInput{
		Amount: decimal.NewFromFloat(10.00),
		Type:   domain.TransactionTypeExpense,
	})
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestDeleteTransaction_RemovesAttachmentBlobs(t *testing.T) {
	svc, transactionRepo, _, attachmentRepo, receiptRepo := newTransactionService()
	userID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              1,
		UserID:          userID,
		Amount:          decimal.NewFromFloat(80.00),
		Type:            domain.TransactionTypeExpense,
		TransactionDate: time.Now().UTC(),
		Status:          domain.TransactionStatusCompleted,
	})

	thumbPath := userID.String() + "/receipt_thumb.jpg"
	attachmentRepo.AddAttachment(&domain.Attachment{
		ID:            1,
		UserID:        userID,
		TransactionID: 1,
		FilePath:      userID.String() + "/receipt.jpg",
		FileName:      "receipt.jpg",
		ThumbnailPath: &thumbPath,
	})
	receiptRepo.Objects[userID.String()+"/receipt.jpg"] = []byte("blob")
	receiptRepo.Objects[thumbPath] = []byte("thumb")

	if err := svc.DeleteTransaction(context.Background(), userID, 1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(receiptRepo.Deleted) != 2 {
		t.Errorf("Expected 2 blob deletes (original and thumbnail), got %d", len(receiptRepo.Deleted))
	}
	if _, err := transactionRepo.GetByID(userID, 1); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected transaction row to be gone, got %v", err)
	}
}

func TestDeleteTransaction_ProceedsWhenBlobDeleteFails(t *testing.T) {
	svc, transactionRepo, _, attachmentRepo, receiptRepo := newTransactionService()
	userID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              1,
		UserID:          userID,
		Amount:          decimal.NewFromFloat(80.00),
		Type:            domain.TransactionTypeExpense,
		TransactionDate: time.Now().UTC(),
		Status:          domain.TransactionStatusCompleted,
	})
	attachmentRepo.AddAttachment(&domain.Attachment{
		ID:            1,
		UserID:        userID,
		TransactionID: 1,
		FilePath:      userID.String() + "/receipt.jpg",
		FileName:      "receipt.jpg",
	})
	receiptRepo.DeleteFn = func(ctx context.Context, objectPath string) error {
		return errors.New("storage unavailable")
	}

	if err := svc.DeleteTransaction(context.Background(), userID, 1); err != nil {
		t.Fatalf("Expected delete to proceed despite blob failure, got %v", err)
	}
	if _, err := transactionRepo.GetByID(userID, 1); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected transaction row to be gone, got %v", err)
	}
}
