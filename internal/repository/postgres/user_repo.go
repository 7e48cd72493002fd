package postgres

import (
	"context"
	"errors"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, auth0_id, email, name, picture_url, created_at, updated_at`

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByAuth0ID retrieves a user by its Auth0 subject
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE auth0_id = $1`, auth0ID)
	return scanUser(row)
}

// CreateOrGetByAuth0ID upserts a user on login. Returns true when a new row
// was inserted.
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, bool, error) {
	ctx := context.Background()

	existing, err := r.GetByAuth0ID(auth0ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	var pgName, pgPicture pgtype.Text
	if name != nil {
		pgName = pgtype.Text{String: *name, Valid: true}
	}
	if pictureURL != nil {
		pgPicture = pgtype.Text{String: *pictureURL, Valid: true}
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, auth0_id, email, name, picture_url)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (auth0_id) DO UPDATE SET email = EXCLUDED.email
		 RETURNING `+userColumns,
		uuid.New(), auth0ID, email, pgName, pgPicture)

	user, err := scanUser(row)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// UpdateName updates only the user's display name
func (r *UserRepository) UpdateName(auth0ID string, name string) (*domain.User, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET name = $2, updated_at = now()
		 WHERE auth0_id = $1
		 RETURNING `+userColumns,
		auth0ID, name)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user       domain.User
		name       pgtype.Text
		pictureURL pgtype.Text
	)
	err := row.Scan(&user.ID, &user.Auth0ID, &user.Email, &name, &pictureURL, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if name.Valid {
		user.Name = &name.String
	}
	if pictureURL.Valid {
		user.PictureURL = &pictureURL.String
	}
	return &user, nil
}
