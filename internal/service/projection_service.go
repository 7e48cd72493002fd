package service

import (
	"time"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/fiskal-app/fiskal-backend/internal/util"
	"github.com/google/uuid"
)

// ProjectionService expands recurring transaction templates into virtual
// occurrences for a viewed month. Virtual occurrences are computed on read
// and never persisted.
type ProjectionService struct {
	transactionRepo domain.TransactionRepository
}

// NewProjectionService creates a new ProjectionService
func NewProjectionService(transactionRepo domain.TransactionRepository) *ProjectionService {
	return &ProjectionService{transactionRepo: transactionRepo}
}

// MonthOccurrences returns the union of stored transactions in the viewed
// month and virtual occurrences projected from recurring templates.
func (s *ProjectionService) MonthOccurrences(userID uuid.UUID, year int, month time.Month) ([]*domain.Occurrence, error) {
	start, end := util.MonthRange(year, month)

	real, err := s.transactionRepo.GetByDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	templates, err := s.transactionRepo.ListRecurring(userID)
	if err != nil {
		return nil, err
	}

	return ProjectMonth(real, templates, year, month, time.Now().UTC()), nil
}

// ProjectMonth merges stored transactions with one synthesized occurrence per
// recurring template for the viewed month. A template whose own stored date
// already falls on the projected date is skipped to avoid double-counting.
// Recurrence days past the end of a shorter month clamp to the month's last
// day.
func ProjectMonth(real []*domain.Transaction, templates []*domain.Transaction, year int, month time.Month, now time.Time) []*domain.Occurrence {
	occurrences := make([]*domain.Occurrence, 0, len(real)+len(templates))

	for _, t := range real {
		occurrences = append(occurrences, &domain.Occurrence{Transaction: t})
	}

	for _, template := range templates {
		if !template.IsRecurring || template.RecurrenceDay == nil {
			continue
		}

		projectedDate := util.ActualRecurrenceDate(*template.RecurrenceDay, year, month)

		// The template row itself is the concrete occurrence when its date
		// lands on the projected date; it is already in the real list.
		if util.SameDate(template.TransactionDate, projectedDate) {
			continue
		}

		templateID := template.ID
		virtual := &domain.Transaction{
			UserID:          template.UserID,
			CategoryID:      template.CategoryID,
			Description:     template.Description,
			Amount:          template.Amount,
			Type:            template.Type,
			TransactionDate: projectedDate,
			Status:          domain.StatusForDate(projectedDate, now),
			IsRecurring:     true,
			RecurrenceDay:   template.RecurrenceDay,
		}
		occurrences = append(occurrences, &domain.Occurrence{
			Transaction: virtual,
			IsVirtual:   true,
			TemplateID:  &templateID,
		})
	}

	return occurrences
}
