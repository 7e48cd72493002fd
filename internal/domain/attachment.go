package domain

import (
	"time"

	"github.com/google/uuid"
)

type Attachment struct {
	ID              int32     `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	TransactionID   int32     `json:"transactionId"`
	FilePath        string    `json:"filePath"`
	FileName        string    `json:"fileName"`
	FileType        string    `json:"fileType"`
	FileSize        int64     `json:"fileSize"`
	ThumbnailPath   *string   `json:"thumbnailPath,omitempty"`
	AttachmentMonth *int32    `json:"attachmentMonth,omitempty"`
	AttachmentYear  *int32    `json:"attachmentYear,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type AttachmentRepository interface {
	Create(attachment *Attachment) (*Attachment, error)
	GetByID(userID uuid.UUID, id int32) (*Attachment, error)
	GetByTransaction(userID uuid.UUID, transactionID int32) ([]*Attachment, error)
	Delete(userID uuid.UUID, id int32) error
}
