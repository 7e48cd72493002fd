package testutil

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	ByID     map[uuid.UUID]*domain.User
	CreateFn func(auth0ID, email string, name, pictureURL *string) (*domain.User, bool, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, bool, error) {
	if m.CreateFn != nil {
		return m.CreateFn(auth0ID, email, name, pictureURL)
	}
	if user, ok := m.Users[auth0ID]; ok {
		return user, false, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, true, nil
}

// UpdateName updates only the user's name by Auth0 ID
func (m *MockUserRepository) UpdateName(auth0ID string, name string) (*domain.User, error) {
	user, ok := m.Users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = &name
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	NextID     int32
	CreateFn   func(category *domain.Category) (*domain.Category, error)
	DeleteFn   func(userID uuid.UUID, id int32) error
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		NextID:     1,
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	if m.CreateFn != nil {
		return m.CreateFn(category)
	}
	for _, existing := range m.Categories {
		if existing.UserID == category.UserID && existing.Name == category.Name {
			return nil, domain.ErrCategoryAlreadyExists
		}
	}
	category.ID = m.NextID
	m.NextID++
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID scoped to the user
func (m *MockCategoryRepository) GetByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	if category, ok := m.Categories[id]; ok && category.UserID == userID {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAllByUser retrieves all categories for a user
func (m *MockCategoryRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Category, error) {
	var result []*domain.Category
	for _, category := range m.Categories {
		if category.UserID == userID {
			result = append(result, category)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update updates an existing category
func (m *MockCategoryRepository) Update(userID uuid.UUID, id int32, name, icon string, categoryType domain.TransactionType) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	for _, existing := range m.Categories {
		if existing.ID != id && existing.UserID == userID && existing.Name == name {
			return nil, domain.ErrCategoryAlreadyExists
		}
	}
	category.Name = name
	category.Icon = icon
	category.Type = categoryType
	category.UpdatedAt = time.Now()
	return category, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(userID uuid.UUID, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(userID, id)
	}
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	NextID       int32
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	UpdateFn     func(userID uuid.UUID, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error)
	DeleteFn     func(userID uuid.UUID, id int32) error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	transaction.ID = m.NextID
	m.NextID++
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction by ID scoped to the user
func (m *MockTransactionRepository) GetByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	if transaction, ok := m.Transactions[id]; ok && transaction.UserID == userID {
		return transaction, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetByUser retrieves transactions with filters and pagination
func (m *MockTransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	var matched []*domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *filters.CategoryID) {
				continue
			}
			if filters.Type != nil && t.Type != *filters.Type {
				continue
			}
			if filters.StartDate != nil && t.TransactionDate.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && t.TransactionDate.After(*filters.EndDate) {
				continue
			}
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].TransactionDate.After(matched[j].TransactionDate)
	})

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start > int32(total) {
		start = int32(total)
	}
	end := start + pageSize
	if end > int32(total) {
		end = int32(total)
	}

	totalPages := int32((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedTransactions{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// GetByDateRange retrieves transactions dated within [start, end] inclusive
func (m *MockTransactionRepository) GetByDateRange(userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID != userID {
			continue
		}
		if t.TransactionDate.Before(start) || t.TransactionDate.After(end) {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ListRecurring retrieves the recurring templates
func (m *MockTransactionRepository) ListRecurring(userID uuid.UUID) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID == userID && t.IsRecurring {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ListPending retrieves pending transactions across all time
func (m *MockTransactionRepository) ListPending(userID uuid.UUID) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID == userID && t.Status == domain.TransactionStatusPending {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update updates an existing transaction
func (m *MockTransactionRepository) Update(userID uuid.UUID, id int32, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(userID, id, data)
	}
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.CategoryID = data.CategoryID
	transaction.Description = data.Description
	transaction.Amount = data.Amount
	transaction.Type = data.Type
	transaction.TransactionDate = data.TransactionDate
	transaction.Status = data.Status
	transaction.IsRecurring = data.IsRecurring
	transaction.RecurrenceDay = data.RecurrenceDay
	transaction.UpdatedAt = time.Now()
	return transaction, nil
}

// Delete removes a transaction and its attachment rows
func (m *MockTransactionRepository) Delete(userID uuid.UUID, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(userID, id)
	}
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == 0 {
		transaction.ID = m.NextID
		m.NextID++
	} else if transaction.ID >= m.NextID {
		m.NextID = transaction.ID + 1
	}
	m.Transactions[transaction.ID] = transaction
}

// MockAttachmentRepository is a mock implementation of domain.AttachmentRepository
type MockAttachmentRepository struct {
	Attachments map[int32]*domain.Attachment
	NextID      int32
	CreateFn    func(attachment *domain.Attachment) (*domain.Attachment, error)
	DeleteFn    func(userID uuid.UUID, id int32) error
}

// NewMockAttachmentRepository creates a new MockAttachmentRepository
func NewMockAttachmentRepository() *MockAttachmentRepository {
	return &MockAttachmentRepository{
		Attachments: make(map[int32]*domain.Attachment),
		NextID:      1,
	}
}

// Create creates a new attachment row
func (m *MockAttachmentRepository) Create(attachment *domain.Attachment) (*domain.Attachment, error) {
	if m.CreateFn != nil {
		return m.CreateFn(attachment)
	}
	attachment.ID = m.NextID
	m.NextID++
	attachment.CreatedAt = time.Now()
	m.Attachments[attachment.ID] = attachment
	return attachment, nil
}

// GetByID retrieves an attachment by ID scoped to the user
func (m *MockAttachmentRepository) GetByID(userID uuid.UUID, id int32) (*domain.Attachment, error) {
	if attachment, ok := m.Attachments[id]; ok && attachment.UserID == userID {
		return attachment, nil
	}
	return nil, domain.ErrAttachmentNotFound
}

// GetByTransaction retrieves all attachments for a transaction
func (m *MockAttachmentRepository) GetByTransaction(userID uuid.UUID, transactionID int32) ([]*domain.Attachment, error) {
	var result []*domain.Attachment
	for _, a := range m.Attachments {
		if a.UserID == userID && a.TransactionID == transactionID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Delete removes an attachment row
func (m *MockAttachmentRepository) Delete(userID uuid.UUID, id int32) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(userID, id)
	}
	attachment, ok := m.Attachments[id]
	if !ok || attachment.UserID != userID {
		return domain.ErrAttachmentNotFound
	}
	delete(m.Attachments, id)
	return nil
}

// AddAttachment adds an attachment to the mock repository (helper for tests)
func (m *MockAttachmentRepository) AddAttachment(attachment *domain.Attachment) {
	if attachment.ID == 0 {
		attachment.ID = m.NextID
		m.NextID++
	} else if attachment.ID >= m.NextID {
		m.NextID = attachment.ID + 1
	}
	m.Attachments[attachment.ID] = attachment
}

// MockReceiptRepository is a mock implementation of storage.ReceiptRepository.
// It records uploaded and deleted object paths for assertions.
type MockReceiptRepository struct {
	Objects  map[string][]byte
	Deleted  []string
	UploadFn func(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	DeleteFn func(ctx context.Context, objectPath string) error
}

// NewMockReceiptRepository creates a new MockReceiptRepository
func NewMockReceiptRepository() *MockReceiptRepository {
	return &MockReceiptRepository{
		Objects: make(map[string][]byte),
	}
}

// Upload stores the blob in memory
func (m *MockReceiptRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, objectPath, data, contentType, size)
	}
	content, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.Objects[objectPath] = content
	return objectPath, nil
}

// Delete removes the blob from memory
func (m *MockReceiptRepository) Delete(ctx context.Context, objectPath string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, objectPath)
	}
	delete(m.Objects, objectPath)
	m.Deleted = append(m.Deleted, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake URL for the object
func (m *MockReceiptRepository) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + objectPath, nil
}
