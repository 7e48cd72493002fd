package service

import (
	"testing"
	"time"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func recurringTemplate(userID uuid.UUID, id int32, day int32, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:              id,
		UserID:          userID,
		Amount:          decimal.NewFromFloat(1200.00),
		Type:            domain.TransactionTypeExpense,
		TransactionDate: date,
		Status:          domain.TransactionStatusCompleted,
		IsRecurring:     true,
		RecurrenceDay:   &day,
	}
}

func TestProjectMonth_OneVirtualPerTemplate(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	templates := []*domain.Transaction{
		recurringTemplate(userID, 1, 5, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)),
		recurringTemplate(userID, 2, 20, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)),
	}

	occurrences := ProjectMonth(nil, templates, 2026, time.March, now)

	if len(occurrences) != 2 {
		t.Fatalf("Expected 2 virtual occurrences, got %d", len(occurrences))
	}
	for _, o := range occurrences {
		if !o.IsVirtual {
			t.Error("Expected occurrence to be virtual")
		}
		if o.TemplateID == nil {
			t.Error("Expected virtual occurrence to reference its template")
		}
		if o.ID != 0 {
			t.Errorf("Expected virtual occurrence to have no persisted ID, got %d", o.ID)
		}
	}
	if occurrences[0].TransactionDate.Day() != 5 || occurrences[1].TransactionDate.Day() != 20 {
		t.Errorf("Expected projected days 5 and 20, got %d and %d",
			occurrences[0].TransactionDate.Day(), occurrences[1].TransactionDate.Day())
	}
}

func TestProjectMonth_ClampsDayToShorterMonth(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	templates := []*domain.Transaction{
		recurringTemplate(userID, 1, 31, time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)),
	}

	// April has 30 days; day 31 clamps to the 30th
	occurrences := ProjectMonth(nil, templates, 2026, time.April, now)
	if len(occurrences) != 1 {
		t.Fatalf("Expected 1 occurrence, got %d", len(occurrences))
	}
	if occurrences[0].TransactionDate.Day() != 30 {
		t.Errorf("Expected day 31 to clamp to 30 in April, got %d", occurrences[0].TransactionDate.Day())
	}

	// February 2026 has 28 days
	occurrences = ProjectMonth(nil, templates, 2026, time.February, now)
	if occurrences[0].TransactionDate.Day() != 28 {
		t.Errorf("Expected day 31 to clamp to 28 in February 2026, got %d", occurrences[0].TransactionDate.Day())
	}
}

func TestProjectMonth_SkipsTemplateOwnMonth(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	template := recurringTemplate(userID, 1, 5, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC))
	real := []*domain.Transaction{template}

	// Viewing the month the template row itself is dated in: the stored row
	// is the occurrence, no virtual duplicate.
	occurrences := ProjectMonth(real, []*domain.Transaction{template}, 2026, time.January, now)

	if len(occurrences) != 1 {
		t.Fatalf("Expected 1 occurrence (no double-counting), got %d", len(occurrences))
	}
	if occurrences[0].IsVirtual {
		t.Error("Expected the stored template row, not a virtual occurrence")
	}
}

func TestProjectMonth_VirtualStatusDerivedFromDate(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	templates := []*domain.Transaction{
		recurringTemplate(userID, 1, 10, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)),
		recurringTemplate(userID, 2, 20, time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)),
	}

	occurrences := ProjectMonth(nil, templates, 2026, time.March, now)
	if len(occurrences) != 2 {
		t.Fatalf("Expected 2 occurrences, got %d", len(occurrences))
	}

	if occurrences[0].Status != domain.TransactionStatusCompleted {
		t.Errorf("Expected past occurrence (Mar 10) to be completed, got %s", occurrences[0].Status)
	}
	if occurrences[1].Status != domain.TransactionStatusPending {
		t.Errorf("Expected future occurrence (Mar 20) to be pending, got %s", occurrences[1].Status)
	}
}

func TestProjectMonth_IgnoresTemplatesWithoutDay(t *testing.T) {
	userID := uuid.New()
	now := time.Now().UTC()

	broken := &domain.Transaction{
		ID:              1,
		UserID:          userID,
		Amount:          decimal.NewFromFloat(100.00),
		Type:            domain.TransactionTypeExpense,
		TransactionDate: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		IsRecurring:     true,
	}

	occurrences := ProjectMonth(nil, []*domain.Transaction{broken}, 2026, time.March, now)
	if len(occurrences) != 0 {
		t.Errorf("Expected no occurrences from a template without a recurrence day, got %d", len(occurrences))
	}
}

func TestProjectMonth_RealTransactionsPassThrough(t *testing.T) {
	userID := uuid.New()
	now := time.Now().UTC()

	real := []*domain.Transaction{
		{
			ID:              7,
			UserID:          userID,
			Amount:          decimal.NewFromFloat(55.00),
			Type:            domain.TransactionTypeExpense,
			TransactionDate: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
			Status:          domain.TransactionStatusCompleted,
		},
	}

	occurrences := ProjectMonth(real, nil, 2026, time.March, now)
	if len(occurrences) != 1 {
		t.Fatalf("Expected 1 occurrence, got %d", len(occurrences))
	}
	if occurrences[0].IsVirtual {
		t.Error("Expected stored transaction to not be virtual")
	}
	if occurrences[0].ID != 7 {
		t.Errorf("Expected stored transaction ID 7, got %d", occurrences[0].ID)
	}
}
