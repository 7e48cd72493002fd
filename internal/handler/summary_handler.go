package handler

import (
	"net/http"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/fiskal-app/fiskal-backend/internal/middleware"
	"github.com/fiskal-app/fiskal-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SummaryHandler handles aggregation view HTTP requests
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// MonthlySummaryResponse represents the monthly totals view
type MonthlySummaryResponse struct {
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	IncomeTotal  string `json:"incomeTotal"`
	ExpenseTotal string `json:"expenseTotal"`
	Balance      string `json:"balance"`
}

// PendingSummaryResponse represents the pending transactions view
type PendingSummaryResponse struct {
	IncomeTotal  string `json:"incomeTotal"`
	ExpenseTotal string `json:"expenseTotal"`
	IncomeCount  int    `json:"incomeCount"`
	ExpenseCount int    `json:"expenseCount"`
}

// DailyTotalResponse represents one calendar day's totals
type DailyTotalResponse struct {
	Day          int    `json:"day"`
	IncomeTotal  string `json:"incomeTotal"`
	ExpenseTotal string `json:"expenseTotal"`
	Net          string `json:"net"`
}

// GetMonthlySummary godoc
// @Summary Monthly summary
// @Description Income, expense and balance totals for the month, including projected recurring occurrences
// @Tags summary
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} MonthlySummaryResponse
// @Router /summary/monthly/{year}/{month} [get]
func (h *SummaryHandler) GetMonthlySummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, respErr := parseYearMonth(c)
	if respErr != nil {
		return respErr
	}

	summary, err := h.summaryService.MonthlySummary(userID, year, month)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute monthly summary")
		return NewInternalError(c, "Failed to compute monthly summary")
	}

	return c.JSON(http.StatusOK, MonthlySummaryResponse{
		Year:         summary.Year,
		Month:        summary.Month,
		IncomeTotal:  summary.IncomeTotal.String(),
		ExpenseTotal: summary.ExpenseTotal.String(),
		Balance:      summary.Balance.String(),
	})
}

// GetPendingSummary godoc
// @Summary Pending summary
// @Description Totals and counts for all pending transactions regardless of month
// @Tags summary
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PendingSummaryResponse
// @Router /summary/pending [get]
func (h *SummaryHandler) GetPendingSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	summary, err := h.summaryService.PendingSummary(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute pending summary")
		return NewInternalError(c, "Failed to compute pending summary")
	}

	return c.JSON(http.StatusOK, PendingSummaryResponse{
		IncomeTotal:  summary.IncomeTotal.String(),
		ExpenseTotal: summary.ExpenseTotal.String(),
		IncomeCount:  summary.IncomeCount,
		ExpenseCount: summary.ExpenseCount,
	})
}

// GetCalendar godoc
// @Summary Calendar totals
// @Description Per-day income/expense/net totals for every day of the month
// @Tags summary
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {array} DailyTotalResponse
// @Router /summary/calendar/{year}/{month} [get]
func (h *SummaryHandler) GetCalendar(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, respErr := parseYearMonth(c)
	if respErr != nil {
		return respErr
	}

	totals, err := h.summaryService.Calendar(userID, year, month)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute calendar totals")
		return NewInternalError(c, "Failed to compute calendar totals")
	}

	response := make([]DailyTotalResponse, len(totals))
	for i, day := range totals {
		response[i] = dailyTotalToResponse(day)
	}
	return c.JSON(http.StatusOK, response)
}

func dailyTotalToResponse(d *domain.DailyTotal) DailyTotalResponse {
	return DailyTotalResponse{
		Day:          d.Day,
		IncomeTotal:  d.IncomeTotal.String(),
		ExpenseTotal: d.ExpenseTotal.String(),
		Net:          d.Net.String(),
	}
}
