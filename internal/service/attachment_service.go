package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/fiskal-app/fiskal-backend/internal/repository/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	// Register decoders for thumbnail generation
	_ "image/png"
)

const (
	MaxAttachmentSize  = 10 * 1024 * 1024 // 10MB
	ThumbnailWidth     = 200
	ThumbnailQuality   = 85
	DownloadURLExpiry  = 5 * time.Minute
)

var (
	ErrAttachmentTooLarge     = errors.New("file too large. Maximum size is 10MB")
	ErrAttachmentEmpty        = errors.New("file is empty")
	ErrFileNameRequired       = errors.New("file name is required")
	ErrMonthYearNotRecurring  = errors.New("attachment month/year only apply to recurring transactions")
	ErrStorageNotConfigured   = errors.New("receipt storage not configured")
)

// imageExtensions lists extensions that get a thumbnail variant
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// AttachmentService handles receipt uploads, downloads and deletion
type AttachmentService struct {
	attachmentRepo  domain.AttachmentRepository
	transactionRepo domain.TransactionRepository
	receiptStorage  storage.ReceiptRepository
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	attachmentRepo domain.AttachmentRepository,
	transactionRepo domain.TransactionRepository,
	receiptStorage storage.ReceiptRepository,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo:  attachmentRepo,
		transactionRepo: transactionRepo,
		receiptStorage:  receiptStorage,
	}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *AttachmentService) IsEnabled() bool {
	return s != nil && s.receiptStorage != nil
}

// UploadAttachmentInput holds the input for uploading a receipt
type UploadAttachmentInput struct {
	TransactionID   int32
	FileName        string
	ContentType     string
	Data            []byte
	AttachmentMonth *int32
	AttachmentYear  *int32
}

// UploadAttachment stores the blob and inserts the metadata row. The blob is
// written first; the row references it by object path. Image receipts get a
// thumbnail variant alongside the original.
func (s *AttachmentService) UploadAttachment(ctx context.Context, userID uuid.UUID, input UploadAttachmentInput) (*domain.Attachment, error) {
	if !s.IsEnabled() {
		return nil, ErrStorageNotConfigured
	}

	if strings.TrimSpace(input.FileName) == "" {
		return nil, ErrFileNameRequired
	}
	if len(input.Data) == 0 {
		return nil, ErrAttachmentEmpty
	}
	if len(input.Data) > MaxAttachmentSize {
		return nil, ErrAttachmentTooLarge
	}

	// Validate transaction exists and belongs to the user
	transaction, err := s.transactionRepo.GetByID(userID, input.TransactionID)
	if err != nil {
		return nil, err
	}

	// month/year fields only make sense on recurring transactions
	if (input.AttachmentMonth != nil || input.AttachmentYear != nil) && !transaction.IsRecurring {
		return nil, ErrMonthYearNotRecurring
	}

	ext := strings.ToLower(filepath.Ext(input.FileName))
	objectPath := storage.GenerateObjectPath(userID, ext)

	if _, err := s.receiptStorage.Upload(ctx, objectPath, bytes.NewReader(input.Data), input.ContentType, int64(len(input.Data))); err != nil {
		return nil, err
	}

	var thumbnailPath *string
	if imageExtensions[ext] {
		if p, err := s.uploadThumbnail(ctx, userID, input.Data); err != nil {
			// A receipt without a thumbnail is still a valid receipt
			log.Warn().Err(err).Str("file_name", input.FileName).Msg("Failed to generate receipt thumbnail")
		} else {
			thumbnailPath = &p
		}
	}

	return s.attachmentRepo.Create(&domain.Attachment{
		UserID:          userID,
		TransactionID:   input.TransactionID,
		FilePath:        objectPath,
		FileName:        input.FileName,
		FileType:        input.ContentType,
		FileSize:        int64(len(input.Data)),
		ThumbnailPath:   thumbnailPath,
		AttachmentMonth: input.AttachmentMonth,
		AttachmentYear:  input.AttachmentYear,
	})
}

// uploadThumbnail decodes an image receipt, resizes it and stores the variant
func (s *AttachmentService) uploadThumbnail(ctx context.Context, userID uuid.UUID, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	thumb := img
	if img.Bounds().Dx() > ThumbnailWidth {
		thumb = imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: ThumbnailQuality}); err != nil {
		return "", err
	}

	thumbPath := storage.GenerateObjectPath(userID, "_thumb.jpg")
	return s.receiptStorage.Upload(ctx, thumbPath, &buf, "image/jpeg", int64(buf.Len()))
}

// GetAttachments retrieves all attachments for a transaction
func (s *AttachmentService) GetAttachments(userID uuid.UUID, transactionID int32) ([]*domain.Attachment, error) {
	if _, err := s.transactionRepo.GetByID(userID, transactionID); err != nil {
		return nil, err
	}
	return s.attachmentRepo.GetByTransaction(userID, transactionID)
}

// DownloadURL returns a short-lived presigned URL for the receipt blob
func (s *AttachmentService) DownloadURL(ctx context.Context, userID uuid.UUID, id int32) (string, error) {
	if !s.IsEnabled() {
		return "", ErrStorageNotConfigured
	}

	attachment, err := s.attachmentRepo.GetByID(userID, id)
	if err != nil {
		return "", err
	}
	return s.receiptStorage.GeneratePresignedURL(ctx, attachment.FilePath, DownloadURLExpiry)
}

// DeleteAttachment removes the blob first, then the metadata row. If the row
// delete fails after the blob is gone the two stores diverge; the error is
// surfaced and logged, there is no compensating write.
func (s *AttachmentService) DeleteAttachment(ctx context.Context, userID uuid.UUID, id int32) error {
	if !s.IsEnabled() {
		return ErrStorageNotConfigured
	}

	attachment, err := s.attachmentRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.receiptStorage.Delete(ctx, attachment.FilePath); err != nil {
		return err
	}
	if attachment.ThumbnailPath != nil {
		if err := s.receiptStorage.Delete(ctx, *attachment.ThumbnailPath); err != nil {
			log.Warn().Err(err).
				Str("file_path", *attachment.ThumbnailPath).
				Msg("Failed to delete receipt thumbnail")
		}
	}

	if err := s.attachmentRepo.Delete(userID, id); err != nil {
		log.Error().Err(err).
			Int32("attachment_id", id).
			Str("file_path", attachment.FilePath).
			Msg("Attachment row delete failed after blob removal; stores diverged")
		return err
	}
	return nil
}
