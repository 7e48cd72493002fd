package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `json:"id"`
	Auth0ID    string    `json:"auth0Id"`
	Email      string    `json:"email"`
	Name       *string   `json:"name,omitempty"`
	PictureURL *string   `json:"pictureUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetByAuth0ID(auth0ID string) (*User, error)
	// CreateOrGetByAuth0ID upserts the user on login. The bool result is true
	// when a new user row was created.
	CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*User, bool, error)
	UpdateName(auth0ID string, name string) (*User, error)
}
