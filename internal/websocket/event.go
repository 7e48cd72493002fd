package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of change (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
)

// EntityType represents the entity the change is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeCategory    EntityType = "category"
	EntityTypeAttachment  EntityType = "attachment"
)

// Event is a bare change signal sent to clients. It carries the changed
// entity's id but never the row itself; consumers refetch on receipt.
// Format: { type, entity, entityId, timestamp }
type Event struct {
	Type      string     `json:"type"` // Combined type e.g. "transaction.created"
	Entity    EntityType `json:"entity"`
	EntityID  int32      `json:"entityId"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewEvent creates a new change event
func NewEvent(eventType EventType, entityType EntityType, entityID int32) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionCreated creates a transaction.created event
func TransactionCreated(id int32) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, id)
}

// TransactionUpdated creates a transaction.updated event
func TransactionUpdated(id int32) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, id)
}

// TransactionDeleted creates a transaction.deleted event
func TransactionDeleted(id int32) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, id)
}

// CategoryCreated creates a category.created event
func CategoryCreated(id int32) Event {
	return NewEvent(EventTypeCreated, EntityTypeCategory, id)
}

// CategoryUpdated creates a category.updated event
func CategoryUpdated(id int32) Event {
	return NewEvent(EventTypeUpdated, EntityTypeCategory, id)
}

// CategoryDeleted creates a category.deleted event
func CategoryDeleted(id int32) Event {
	return NewEvent(EventTypeDeleted, EntityTypeCategory, id)
}

// AttachmentCreated creates an attachment.created event
func AttachmentCreated(id int32) Event {
	return NewEvent(EventTypeCreated, EntityTypeAttachment, id)
}

// AttachmentDeleted creates an attachment.deleted event
func AttachmentDeleted(id int32) Event {
	return NewEvent(EventTypeDeleted, EntityTypeAttachment, id)
}
