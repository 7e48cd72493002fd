package domain

import "errors"

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrUserNotFound           = errors.New("user not found")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrCategoryAlreadyExists  = errors.New("category already exists")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrAttachmentNotFound     = errors.New("attachment not found")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrIconRequired           = errors.New("icon is required")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidRecurrenceDay   = errors.New("recurrence day must be between 1 and 31")
	ErrRecurrenceDayRequired  = errors.New("recurrence day is required for recurring transactions")
	ErrDescriptionTooLong     = errors.New("description exceeds maximum length")
)

// Validation constants
const (
	MaxCategoryNameLength = 100
	MaxDescriptionLength  = 500
)
