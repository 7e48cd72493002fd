package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ReceiptRepository defines the interface for receipt blob storage operations
type ReceiptRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// GenerateObjectPath creates a unique object path for a receipt, namespaced by
// the owning user. The filename is opaque: upload timestamp plus a random id.
func GenerateObjectPath(userID uuid.UUID, ext string) string {
	filename := fmt.Sprintf("%d_%s%s", time.Now().UTC().UnixMilli(), uuid.New().String(), ext)
	return path.Join(userID.String(), filename)
}
