package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/fiskal-app/fiskal-backend/internal/middleware"
	"github.com/fiskal-app/fiskal-backend/internal/service"
	"github.com/fiskal-app/fiskal-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	projectionService  *service.ProjectionService
	publisher          websocket.EventPublisher
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, projectionService *service.ProjectionService, publisher websocket.EventPublisher) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		projectionService:  projectionService,
		publisher:          publisher,
	}
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	CategoryID    *int32  `json:"categoryId,omitempty"`
	Description   *string `json:"description,omitempty"`
	Amount        string  `json:"amount"`
	Type          string  `json:"type"`
	Date          *string `json:"date,omitempty"`
	IsRecurring   bool    `json:"isRecurring"`
	RecurrenceDay *int32  `json:"recurrenceDay,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            int32   `json:"id"`
	CategoryID    *int32  `json:"categoryId,omitempty"`
	Description   *string `json:"description,omitempty"`
	Amount        string  `json:"amount"`
	Type          string  `json:"type"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	IsRecurring   bool    `json:"isRecurring"`
	RecurrenceDay *int32  `json:"recurrenceDay,omitempty"`
	IsVirtual     bool    `json:"isVirtual,omitempty"`
	TemplateID    *int32  `json:"templateId,omitempty"`
	CreatedAt     string  `json:"createdAt,omitempty"`
	UpdatedAt     string  `json:"updatedAt,omitempty"`
}

func transactionToResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		CategoryID:    t.CategoryID,
		Description:   t.Description,
		Amount:        t.Amount.String(),
		Type:          string(t.Type),
		Date:          t.TransactionDate.Format("2006-01-02"),
		Status:        string(t.Status),
		IsRecurring:   t.IsRecurring,
		RecurrenceDay: t.RecurrenceDay,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.Format(time.RFC3339),
	}
}

func occurrenceToResponse(o *domain.Occurrence) TransactionResponse {
	resp := transactionToResponse(o.Transaction)
	resp.IsVirtual = o.IsVirtual
	resp.TemplateID = o.TemplateID
	if o.IsVirtual {
		resp.CreatedAt = ""
		resp.UpdatedAt = ""
	}
	return resp
}

// PaginatedTransactionsResponse represents a paginated transaction list
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

func (h *TransactionHandler) parseRequest(c echo.Context, req *TransactionRequest) (*service.TransactionInput, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	var transactionDate *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		transactionDate = &parsed
	}

	return &service.TransactionInput{
		CategoryID:      req.CategoryID,
		Description:     req.Description,
		Amount:          amount,
		Type:            domain.TransactionType(req.Type),
		TransactionDate: transactionDate,
		IsRecurring:     req.IsRecurring,
		RecurrenceDay:   req.RecurrenceDay,
	}, nil
}

func transactionValidationResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidTransactionType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be one of: income, expense"},
		})
	case errors.Is(err, domain.ErrRecurrenceDayRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "recurrenceDay", Message: "Recurrence day is required for recurring transactions"},
		})
	case errors.Is(err, domain.ErrInvalidRecurrenceDay):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "recurrenceDay", Message: "Recurrence day must be between 1 and 31"},
		})
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category not found"},
		})
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 500 characters or less"},
		})
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	default:
		log.Error().Err(err).Msg("Transaction operation failed")
		return NewInternalError(c, "Operation failed")
	}
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create a new income or expense transaction; status is derived from the date
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "Transaction creation request"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, respErr := h.parseRequest(c, &req)
	if respErr != nil {
		return respErr
	}

	transaction, err := h.transactionService.CreateTransaction(userID, *input)
	if err != nil {
		return transactionValidationResponse(c, err)
	}

	h.publisher.Publish(userID, websocket.TransactionCreated(transaction.ID))
	return c.JSON(http.StatusCreated, transactionToResponse(transaction))
}

// GetTransactions godoc
// @Summary List transactions
// @Description List transactions with optional date-range, type, category and pagination filters
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Param type query string false "Transaction type (income|expense)"
// @Param categoryId query int false "Category ID"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} PaginatedTransactionsResponse
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters := &domain.TransactionFilters{}

	if v := c.QueryParam("startDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", nil)
		}
		filters.StartDate = &parsed
	}
	if v := c.QueryParam("endDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return NewValidationError(c, "Invalid endDate", nil)
		}
		filters.EndDate = &parsed
	}
	if v := c.QueryParam("type"); v != "" {
		t := domain.TransactionType(v)
		if t != domain.TransactionTypeIncome && t != domain.TransactionTypeExpense {
			return NewValidationError(c, "Invalid type", nil)
		}
		filters.Type = &t
	}
	if v := c.QueryParam("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return NewValidationError(c, "Invalid categoryId", nil)
		}
		categoryID := int32(id)
		filters.CategoryID = &categoryID
	}
	if v := c.QueryParam("page"); v != "" {
		page, err := strconv.ParseInt(v, 10, 32)
		if err != nil || page < 1 {
			return NewValidationError(c, "Invalid page", nil)
		}
		filters.Page = int32(page)
	}
	if v := c.QueryParam("pageSize"); v != "" {
		pageSize, err := strconv.ParseInt(v, 10, 32)
		if err != nil || pageSize < 1 {
			return NewValidationError(c, "Invalid pageSize", nil)
		}
		filters.PageSize = int32(pageSize)
	}

	result, err := h.transactionService.GetTransactions(userID, filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list transactions")
		return NewInternalError(c, "Failed to list transactions")
	}

	data := make([]TransactionResponse, len(result.Data))
	for i, t := range result.Data {
		data[i] = transactionToResponse(t)
	}

	return c.JSON(http.StatusOK, PaginatedTransactionsResponse{
		Data:       data,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// GetMonth godoc
// @Summary Month view
// @Description Stored transactions of the month plus virtual occurrences projected from recurring templates
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {array} TransactionResponse
// @Router /transactions/month/{year}/{month} [get]
func (h *TransactionHandler) GetMonth(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, respErr := parseYearMonth(c)
	if respErr != nil {
		return respErr
	}

	occurrences, err := h.projectionService.MonthOccurrences(userID, year, month)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build month view")
		return NewInternalError(c, "Failed to build month view")
	}

	response := make([]TransactionResponse, len(occurrences))
	for i, o := range occurrences {
		response[i] = occurrenceToResponse(o)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Update a transaction; status is re-derived from the submitted date
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param request body TransactionRequest true "Transaction update request"
// @Success 200 {object} TransactionResponse
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, respErr := h.parseRequest(c, &req)
	if respErr != nil {
		return respErr
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, int32(id), *input)
	if err != nil {
		return transactionValidationResponse(c, err)
	}

	h.publisher.Publish(userID, websocket.TransactionUpdated(transaction.ID))
	return c.JSON(http.StatusOK, transactionToResponse(transaction))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Delete a transaction and all of its attachments
// @Tags transactions
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(c.Request().Context(), userID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	h.publisher.Publish(userID, websocket.TransactionDeleted(int32(id)))
	return c.NoContent(http.StatusNoContent)
}

// parseYearMonth parses the :year/:month path params shared by the month and
// calendar routes
func parseYearMonth(c echo.Context) (int, time.Month, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 9999 {
		return 0, 0, NewValidationError(c, "Invalid year", nil)
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, NewValidationError(c, "Invalid month", nil)
	}
	return year, time.Month(month), nil
}
