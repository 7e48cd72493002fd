package postgres

import (
	"context"
	"errors"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, user_id, name, icon, type, created_at, updated_at`

// Create creates a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO categories (user_id, name, icon, type)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+categoryColumns,
		category.UserID, category.Name, category.Icon, string(category.Type))

	created, err := scanCategory(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a category by its ID, scoped to the owning user
func (r *CategoryRepository) GetByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 AND id = $2`,
		userID, id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetAllByUser retrieves all categories owned by the user
func (r *CategoryRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Category, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 ORDER BY name`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update updates a category's name, icon and type
func (r *CategoryRepository) Update(userID uuid.UUID, id int32, name, icon string, categoryType domain.TransactionType) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE categories SET name = $3, icon = $4, type = $5, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+categoryColumns,
		userID, id, name, icon, string(categoryType))
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		if isPgUniqueViolation(err) {
			return nil, domain.ErrCategoryAlreadyExists
		}
		return nil, err
	}
	return category, nil
}

// Delete removes a category and clears category_id on referencing
// transactions. Both statements run in one database transaction so the
// non-cascading semantics hold even on failure.
func (r *CategoryRepository) Delete(userID uuid.UUID, id int32) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE transactions SET category_id = NULL, updated_at = now()
		 WHERE user_id = $1 AND category_id = $2`,
		userID, id)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM categories WHERE user_id = $1 AND id = $2`,
		userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}

	return tx.Commit(ctx)
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		category domain.Category
		catType  string
	)
	err := row.Scan(&category.ID, &category.UserID, &category.Name, &category.Icon, &catType, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}
	category.Type = domain.TransactionType(catType)
	return &category, nil
}
