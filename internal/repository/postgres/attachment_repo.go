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

// AttachmentRepository implements domain.AttachmentRepository using PostgreSQL
type AttachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(pool *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{pool: pool}
}

const attachmentColumns = `id, user_id, transaction_id, file_path, file_name, file_type,
	file_size, thumbnail_path, attachment_month, attachment_year, created_at`

// Create inserts an attachment metadata row
func (r *AttachmentRepository) Create(attachment *domain.Attachment) (*domain.Attachment, error) {
	ctx := context.Background()

	var thumbnailPath pgtype.Text
	if attachment.ThumbnailPath != nil {
		thumbnailPath = pgtype.Text{String: *attachment.ThumbnailPath, Valid: true}
	}
	var month, year pgtype.Int4
	if attachment.AttachmentMonth != nil {
		month = pgtype.Int4{Int32: *attachment.AttachmentMonth, Valid: true}
	}
	if attachment.AttachmentYear != nil {
		year = pgtype.Int4{Int32: *attachment.AttachmentYear, Valid: true}
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO transaction_attachments
		 (user_id, transaction_id, file_path, file_name, file_type, file_size, thumbnail_path, attachment_month, attachment_year)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+attachmentColumns,
		attachment.UserID, attachment.TransactionID, attachment.FilePath,
		attachment.FileName, attachment.FileType, attachment.FileSize,
		thumbnailPath, month, year)

	return scanAttachment(row)
}

// GetByID retrieves an attachment by its ID, scoped to the owning user
func (r *AttachmentRepository) GetByID(userID uuid.UUID, id int32) (*domain.Attachment, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+attachmentColumns+` FROM transaction_attachments
		 WHERE user_id = $1 AND id = $2`,
		userID, id)
	attachment, err := scanAttachment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttachmentNotFound
		}
		return nil, err
	}
	return attachment, nil
}

// GetByTransaction retrieves all attachments for a transaction
func (r *AttachmentRepository) GetByTransaction(userID uuid.UUID, transactionID int32) ([]*domain.Attachment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+attachmentColumns+` FROM transaction_attachments
		 WHERE user_id = $1 AND transaction_id = $2
		 ORDER BY created_at, id`,
		userID, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []*domain.Attachment
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, attachment)
	}
	return attachments, rows.Err()
}

// Delete removes an attachment metadata row
func (r *AttachmentRepository) Delete(userID uuid.UUID, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM transaction_attachments WHERE user_id = $1 AND id = $2`,
		userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAttachmentNotFound
	}
	return nil
}

func scanAttachment(row pgx.Row) (*domain.Attachment, error) {
	var (
		attachment    domain.Attachment
		thumbnailPath pgtype.Text
		month, year   pgtype.Int4
	)
	err := row.Scan(&attachment.ID, &attachment.UserID, &attachment.TransactionID,
		&attachment.FilePath, &attachment.FileName, &attachment.FileType,
		&attachment.FileSize, &thumbnailPath, &month, &year, &attachment.CreatedAt)
	if err != nil {
		return nil, err
	}
	if thumbnailPath.Valid {
		attachment.ThumbnailPath = &thumbnailPath.String
	}
	if month.Valid {
		attachment.AttachmentMonth = &month.Int32
	}
	if year.Valid {
		attachment.AttachmentYear = &year.Int32
	}
	return &attachment, nil
}
