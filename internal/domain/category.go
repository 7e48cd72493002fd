package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        int32           `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon"`
	Type      TransactionType `json:"type"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(userID uuid.UUID, id int32) (*Category, error)
	GetAllByUser(userID uuid.UUID) ([]*Category, error)
	Update(userID uuid.UUID, id int32, name, icon string, categoryType TransactionType) (*Category, error)
	// Delete removes the category and nulls out category_id on referencing
	// transactions within the same database transaction.
	Delete(userID uuid.UUID, id int32) error
}
