package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/fiskal-app/fiskal-backend/internal/domain"
	"github.com/fiskal-app/fiskal-backend/internal/middleware"
	"github.com/fiskal-app/fiskal-backend/internal/service"
	"github.com/fiskal-app/fiskal-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AttachmentHandler handles receipt attachment HTTP requests
type AttachmentHandler struct {
	attachmentService *service.AttachmentService
	publisher         websocket.EventPublisher
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *service.AttachmentService, publisher websocket.EventPublisher) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		publisher:         publisher,
	}
}

// AttachmentResponse represents a receipt attachment in API responses
type AttachmentResponse struct {
	ID              int32  `json:"id"`
	TransactionID   int32  `json:"transactionId"`
	FileName        string `json:"fileName"`
	FileType        string `json:"fileType"`
	FileSize        int64  `json:"fileSize"`
	HasThumbnail    bool   `json:"hasThumbnail"`
	AttachmentMonth *int32 `json:"attachmentMonth,omitempty"`
	AttachmentYear  *int32 `json:"attachmentYear,omitempty"`
	CreatedAt       string `json:"createdAt"`
}

// DownloadURLResponse carries a short-lived presigned download URL
type DownloadURLResponse struct {
	URL string `json:"url"`
}

func attachmentToResponse(a *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:              a.ID,
		TransactionID:   a.TransactionID,
		FileName:        a.FileName,
		FileType:        a.FileType,
		FileSize:        a.FileSize,
		HasThumbnail:    a.ThumbnailPath != nil,
		AttachmentMonth: a.AttachmentMonth,
		AttachmentYear:  a.AttachmentYear,
		CreatedAt:       a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// UploadAttachment godoc
// @Summary Upload a receipt
// @Description Attach a receipt file (max 10MB) to a transaction via multipart form
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Param file formData file true "Receipt file"
// @Param month formData int false "Occurrence month (recurring transactions only)"
// @Param year formData int false "Occurrence year (recurring transactions only)"
// @Success 201 {object} AttachmentResponse
// @Failure 400 {object} ProblemDetails
// @Router /transactions/{id}/attachments [post]
func (h *AttachmentHandler) UploadAttachment(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	transactionID, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "File is required", []ValidationError{
			{Field: "file", Message: "Multipart field 'file' is missing"},
		})
	}
	if fileHeader.Size > service.MaxAttachmentSize {
		return NewValidationError(c, "File too large", []ValidationError{
			{Field: "file", Message: "Maximum file size is 10MB"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return NewValidationError(c, "Failed to read file", nil)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxAttachmentSize+1))
	if err != nil {
		return NewValidationError(c, "Failed to read file", nil)
	}

	var month, year *int32
	if v := c.FormValue("month"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 32)
		if err != nil || parsed < 1 || parsed > 12 {
			return NewValidationError(c, "Invalid month", nil)
		}
		m := int32(parsed)
		month = &m
	}
	if v := c.FormValue("year"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 32)
		if err != nil || parsed < 1970 || parsed > 9999 {
			return NewValidationError(c, "Invalid year", nil)
		}
		y := int32(parsed)
		year = &y
	}

	attachment, err := h.attachmentService.UploadAttachment(c.Request().Context(), userID, service.UploadAttachmentInput{
		TransactionID:   int32(transactionID),
		FileName:        fileHeader.Filename,
		ContentType:     fileHeader.Header.Get("Content-Type"),
		Data:            data,
		AttachmentMonth: month,
		AttachmentYear:  year,
	})
	if err != nil {
		return attachmentErrorResponse(c, err)
	}

	h.publisher.Publish(userID, websocket.AttachmentCreated(attachment.ID))
	return c.JSON(http.StatusCreated, attachmentToResponse(attachment))
}

// GetAttachments godoc
// @Summary List receipts for a transaction
// @Tags attachments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transaction ID"
// @Success 200 {array} AttachmentResponse
// @Router /transactions/{id}/attachments [get]
func (h *AttachmentHandler) GetAttachments(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	transactionID, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	attachments, err := h.attachmentService.GetAttachments(userID, int32(transactionID))
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Msg("Failed to list attachments")
		return NewInternalError(c, "Failed to list attachments")
	}

	response := make([]AttachmentResponse, len(attachments))
	for i, a := range attachments {
		response[i] = attachmentToResponse(a)
	}
	return c.JSON(http.StatusOK, response)
}

// GetDownloadURL godoc
// @Summary Receipt download URL
// @Description Returns a short-lived presigned URL for the receipt blob
// @Tags attachments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attachment ID"
// @Success 200 {object} DownloadURLResponse
// @Failure 404 {object} ProblemDetails
// @Router /attachments/{id}/download [get]
func (h *AttachmentHandler) GetDownloadURL(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "Invalid attachment ID", nil)
	}

	url, err := h.attachmentService.DownloadURL(c.Request().Context(), userID, int32(id))
	if err != nil {
		return attachmentErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, DownloadURLResponse{URL: url})
}

// DeleteAttachment godoc
// @Summary Delete a receipt
// @Description Removes the stored blob, then the metadata row
// @Tags attachments
// @Security BearerAuth
// @Param id path int true "Attachment ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /attachments/{id} [delete]
func (h *AttachmentHandler) DeleteAttachment(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return NewValidationError(c, "Invalid attachment ID", nil)
	}

	if err := h.attachmentService.DeleteAttachment(c.Request().Context(), userID, int32(id)); err != nil {
		return attachmentErrorResponse(c, err)
	}

	h.publisher.Publish(userID, websocket.AttachmentDeleted(int32(id)))
	return c.NoContent(http.StatusNoContent)
}

func attachmentErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrStorageNotConfigured):
		return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
			Type:     ErrorTypeInternal,
			Title:    "Service Unavailable",
			Status:   http.StatusServiceUnavailable,
			Detail:   "Receipt storage is not configured",
			Instance: c.Request().URL.Path,
		})
	case errors.Is(err, service.ErrAttachmentTooLarge):
		return NewValidationError(c, "File too large", []ValidationError{
			{Field: "file", Message: "Maximum file size is 10MB"},
		})
	case errors.Is(err, service.ErrAttachmentEmpty):
		return NewValidationError(c, "File is empty", []ValidationError{
			{Field: "file", Message: "File must not be empty"},
		})
	case errors.Is(err, service.ErrFileNameRequired):
		return NewValidationError(c, "File name is required", []ValidationError{
			{Field: "file", Message: "File name must not be empty"},
		})
	case errors.Is(err, service.ErrMonthYearNotRecurring):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "month", Message: "Month and year only apply to recurring transactions"},
		})
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrAttachmentNotFound):
		return NewNotFoundError(c, "Attachment not found")
	default:
		log.Error().Err(err).Msg("Attachment operation failed")
		return NewInternalError(c, "Operation failed")
	}
}
