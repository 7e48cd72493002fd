package service

import (
	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuthService handles login callbacks and user lookup
type AuthService struct {
	userRepo     domain.UserRepository
	categoryRepo domain.CategoryRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, categoryRepo domain.CategoryRepository) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
	}
}

// defaultCategories are seeded for every new user on first login
var defaultCategories = []struct {
	Name string
	Icon string
	Type domain.TransactionType
}{
	{"Salary", "briefcase", domain.TransactionTypeIncome},
	{"Other income", "coins", domain.TransactionTypeIncome},
	{"Groceries", "shopping-cart", domain.TransactionTypeExpense},
	{"Housing", "home", domain.TransactionTypeExpense},
	{"Transport", "bus", domain.TransactionTypeExpense},
	{"Leisure", "gamepad", domain.TransactionTypeExpense},
}

// Callback upserts the user on login and seeds default categories for new
// users. The bool result is true when this login created the user.
func (s *AuthService) Callback(auth0ID, email string, name, pictureURL *string) (*domain.User, bool, error) {
	user, created, err := s.userRepo.CreateOrGetByAuth0ID(auth0ID, email, name, pictureURL)
	if err != nil {
		return nil, false, err
	}

	if created {
		for _, c := range defaultCategories {
			if _, err := s.categoryRepo.Create(&domain.Category{
				UserID: user.ID,
				Name:   c.Name,
				Icon:   c.Icon,
				Type:   c.Type,
			}); err != nil {
				// Seeding is best-effort; the user can create categories manually
				log.Warn().Err(err).Str("category", c.Name).Msg("Failed to seed default category")
			}
		}
	}

	return user, created, nil
}

// GetUserByAuth0ID resolves the token subject to an internal user
func (s *AuthService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// GetUserByID retrieves a user profile
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateName updates the user's display name
func (s *AuthService) UpdateName(auth0ID, name string) (*domain.User, error) {
	return s.userRepo.UpdateName(auth0ID, name)
}
