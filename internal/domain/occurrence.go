package domain

// Occurrence is a transaction as it appears in a month view: either a stored
// row or a virtual projection of a recurring template into the viewed month.
// Virtual occurrences are never persisted.
type Occurrence struct {
	*Transaction
	IsVirtual  bool   `json:"isVirtual"`
	TemplateID *int32 `json:"templateId,omitempty"`
}
