package event

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
)

// Type identifies a kind of workflow event.
type Type string

// Order lifecycle vocabulary.
const (
	TypeOrderCreated     Type = "order.created"
	TypeInventoryChecked Type = "inventory.checked"
	TypePaymentProcessed Type = "payment.processed"
	TypeOrderShipped     Type = "order.shipped"
	TypeOrderCompleted   Type = "order.completed"
	TypeOrderCancelled   Type = "order.cancelled"
	TypeInventoryLow     Type = "inventory.low"
)

// Event is a single immutable occurrence published on the Bus. ID and
// Timestamp are assigned at publish time when unset.
type Event struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	Source    string         `json:"source,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Clone returns a copy with its own payload map.
func (e Event) Clone() Event {
	clone := e
	clone.Payload = maps.Clone(e.Payload)
	return clone
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return fmt.Sprintf("Event{ID: %s, Type: %s, Source: %s}", e.ID, e.Type, e.Source)
}

func generateID() string {
	return uuid.Must(uuid.NewV7()).String()
}
