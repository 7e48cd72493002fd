package service

import (
	"strings"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/google/uuid"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CategoryInput holds the input for creating or updating a category
type CategoryInput struct {
	Name string
	Icon string
	Type domain.TransactionType
}

func validateCategoryInput(input CategoryInput) (CategoryInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return input, domain.ErrNameRequired
	}
	if len(input.Name) > domain.MaxCategoryNameLength {
		return input, domain.ErrNameTooLong
	}
	input.Icon = strings.TrimSpace(input.Icon)
	if input.Icon == "" {
		return input, domain.ErrIconRequired
	}
	if input.Type != domain.TransactionTypeIncome && input.Type != domain.TransactionTypeExpense {
		return input, domain.ErrInvalidTransactionType
	}
	return input, nil
}

// CreateCategory creates a new category for the user
func (s *CategoryService) CreateCategory(userID uuid.UUID, input CategoryInput) (*domain.Category, error) {
	input, err := validateCategoryInput(input)
	if err != nil {
		return nil, err
	}

	return s.categoryRepo.Create(&domain.Category{
		UserID: userID,
		Name:   input.Name,
		Icon:   input.Icon,
		Type:   input.Type,
	})
}

// GetCategories retrieves all categories for the user
func (s *CategoryService) GetCategories(userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetAllByUser(userID)
}

// GetCategoryByID retrieves a single category
func (s *CategoryService) GetCategoryByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	return s.categoryRepo.GetByID(userID, id)
}

// UpdateCategory updates a category's name, icon and type
func (s *CategoryService) UpdateCategory(userID uuid.UUID, id int32, input CategoryInput) (*domain.Category, error) {
	input, err := validateCategoryInput(input)
	if err != nil {
		return nil, err
	}

	return s.categoryRepo.Update(userID, id, input.Name, input.Icon, input.Type)
}

// DeleteCategory removes a category. Transactions referencing it keep
// existing with a null category.
func (s *CategoryService) DeleteCategory(userID uuid.UUID, id int32) error {
	return s.categoryRepo.Delete(userID, id)
}
