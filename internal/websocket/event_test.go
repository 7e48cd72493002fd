package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_CombinedType(t *testing.T) {
	event := NewEvent(EventTypeCreated, EntityTypeTransaction, 42)

	assert.Equal(t, "transaction.created", event.Type)
	assert.Equal(t, EntityTypeTransaction, event.Entity)
	assert.Equal(t, int32(42), event.EntityID)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Second)
}

func TestEvent_ToJSON(t *testing.T) {
	event := CategoryUpdated(7)

	data, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "category.updated", decoded["type"])
	assert.Equal(t, "category", decoded["entity"])
	assert.Equal(t, float64(7), decoded["entityId"])
	assert.Contains(t, decoded, "timestamp")

	// Change signals carry no entity payload; clients refetch
	assert.Len(t, decoded, 4)
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		event    Event
		wantType string
		entity   EntityType
	}{
		{TransactionCreated(1), "transaction.created", EntityTypeTransaction},
		{TransactionUpdated(1), "transaction.updated", EntityTypeTransaction},
		{TransactionDeleted(1), "transaction.deleted", EntityTypeTransaction},
		{CategoryCreated(1), "category.created", EntityTypeCategory},
		{CategoryUpdated(1), "category.updated", EntityTypeCategory},
		{CategoryDeleted(1), "category.deleted", EntityTypeCategory},
		{AttachmentCreated(1), "attachment.created", EntityTypeAttachment},
		{AttachmentDeleted(1), "attachment.deleted", EntityTypeAttachment},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantType, tt.event.Type)
		assert.Equal(t, tt.entity, tt.event.Entity)
	}
}
