package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/fiskal-app/fiskal-backend/internal/service"
	"github.com/fiskal-app/fiskal-backend/internal/testutil"
	"github.com/fiskal-app/fiskal-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func newTransactionHandler() (*TransactionHandler, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	attachmentRepo := testutil.NewMockAttachmentRepository()
	receiptRepo := testutil.NewMockReceiptRepository()
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, attachmentRepo, receiptRepo)
	projectionService := service.NewProjectionService(transactionRepo)
	handler := NewTransactionHandler(transactionService, projectionService, &websocket.NoOpPublisher{})
	return handler, transactionRepo, categoryRepo
}

func TestCreateTransactionHandler_Success(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTransactionHandler()
	userID := uuid.New()

	reqBody := `{"amount": "150.00", "type": "expense", "description": "Groceries"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "Test User", "", userID)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var response TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != "150" {
		t.Errorf("Expected amount '150', got %s", response.Amount)
	}
	if response.Type != "expense" {
		t.Errorf("Expected type 'expense', got %s", response.Type)
	}
	if response.Status != "completed" {
		t.Errorf("Expected status 'completed' for today's date, got %s", response.Status)
	}
}

func TestCreateTransactionHandler_FutureDatePending(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTransactionHandler()
	userID := uuid.New()

	futureDate := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")
	reqBody := `{"amount": "500.00", "type": "income", "date": "` + futureDate + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "Test User", "", userID)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var response TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Status != "pending" {
		t.Errorf("Expected status 'pending' for a future date, got %s", response.Status)
	}
	if response.Date != futureDate {
		t.Errorf("Expected date %s, got %s", futureDate, response.Date)
	}
}

func TestCreateTransactionHandler_InvalidAmount(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTransactionHandler()

	reqBody := `{"amount": "abc", "type": "expense"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "Test User", "", uuid.New())

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateTransactionHandler_NoUser(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTransactionHandler()

	reqBody := `{"amount": "10.00", "type": "expense"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test", "test@example.com", "Test User", "")

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGetTransactionsHandler_FiltersByType(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, _ := newTransactionHandler()
	userID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID,
		Amount: decimal.NewFromFloat(100.00), Type: domain.TransactionTypeIncome,
		TransactionDate: time.Now().UTC(), Status: domain.TransactionStatusCompleted,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 2, UserID: userID,
		Amount: decimal.NewFromFloat(50.00), Type: domain.TransactionTypeExpense,
		TransactionDate: time.Now().UTC(), Status: domain.TransactionStatusCompleted,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?type=income", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.QueryParams().Set("type", "income")

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "Test User", "", userID)

	if err := handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response PaginatedTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response.Data) != 1 {
		t.Fatalf("Expected 1 income transaction, got %d", len(response.Data))
	}
	if response.Data[0].Type != "income" {
		t.Errorf("Expected type 'income', got %s", response.Data[0].Type)
	}
}

func TestGetMonthHandler_IncludesVirtualOccurrences(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, _ := newTransactionHandler()
	userID := uuid.New()

	day := int32(15)
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID,
		Amount: decimal.NewFromFloat(1200.00), Type: domain.TransactionTypeExpense,
		TransactionDate: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		Status:          domain.TransactionStatusCompleted,
		IsRecurring:     true, RecurrenceDay: &day,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/month/2026/3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("year", "month")
	c.SetParamValues("2026", "3")

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "Test User", "", userID)

	if err := handler.GetMonth(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response []TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 projected occurrence, got %d", len(response))
	}
	if !response[0].IsVirtual {
		t.Error("Expected occurrence to be virtual")
	}
	if response[0].TemplateID == nil || *response[0].TemplateID != 1 {
		t.Errorf("Expected template ID 1, got %v", response[0].TemplateID)
	}
	if response[0].Date != "2026-03-15" {
		t.Errorf("Expected projected date 2026-03-15, got %s", response[0].Date)
	}
}

func TestGetMonthHandler_InvalidMonth(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTransactionHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/month/2026/13", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("year", "month")
	c.SetParamValues("2026", "13")

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "Test User", "", uuid.New())

	if err := handler.GetMonth(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestUpdateTransactionHandler_NotFound(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTransactionHandler()

	reqBody := `{"amount": "10.00", "type": "expense"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/transactions/999", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("999")

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "Test User", "", uuid.New())

	if err := handler.UpdateTransaction(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteTransactionHandler_Success(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, _ := newTransactionHandler()
	userID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID,
		Amount: decimal.NewFromFloat(10.00), Type: domain.TransactionTypeExpense,
		TransactionDate: time.Now().UTC(), Status: domain.TransactionStatusCompleted,
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/transactions/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	setupAuthContextWithUser(c, "auth0|test", "test@example.com", "Test User", "", userID)

	if err := handler.DeleteTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}
