package order

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/orderflow/engine/observability"
)

// Machine holds the live orders of one workflow and enforces lifecycle
// transitions against the status table.
//
// All access is serialized through an RWMutex, making the Machine safe
// for concurrent use. Every Machine is an independent instance; create
// one per workflow rather than sharing across unrelated flows.
//
// Returned orders are always clones. The internal records never escape,
// so no caller can advance a status or edit a field without going
// through Transition.
type Machine struct {
	mu       sync.RWMutex
	orders   map[string]*Order
	observer observability.Observer
}

// NewMachine creates an empty Machine with the given observer.
//
// If observer is nil, NoOpObserver is used automatically.
//
// Example:
//
//	m := order.NewMachine(nil)
//	o, err := m.Create("order_1", "CUST01", []string{"laptop", "mouse"})
func NewMachine(observer observability.Observer) *Machine {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}

	return &Machine{
		orders:   make(map[string]*Order),
		observer: observer,
	}
}

// Create registers a new order in the CREATED status.
//
// The order starts with a zero total, payment "pending" and shipping
// "not_shipped"; the inventory check and later transitions fill those
// in. Returns ErrEmptyID for a blank id and ErrExists when the id is
// already registered.
func (m *Machine) Create(id, customerID string, items []string) (*Order, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.orders[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrExists, id)
	}

	now := time.Now()
	o := &Order{
		ID:             id,
		CustomerID:     customerID,
		Items:          slices.Clone(items),
		Status:         StatusCreated,
		PaymentStatus:  "pending",
		ShippingStatus: "not_shipped",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.orders[id] = o

	m.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventOrderCreate,
		Level:     observability.LevelVerbose,
		Timestamp: now,
		Source:    "order.machine",
		Data: map[string]any{
			"order_id":    id,
			"customer_id": customerID,
			"items":       len(items),
		},
	})

	return o.Clone(), nil
}

// Transition advances an order to the target status, merging the given
// fields into the order on success.
//
// The edge current -> target is validated against the status table
// before anything is touched: an illegal edge returns an
// *InvalidTransitionError carrying both endpoints and leaves the order
// untouched, including its fields. Unknown ids return ErrNotFound.
//
// Fields use the persisted key names: "total", "payment_status",
// "shipping_status" and "inventory_checked" update the typed order
// fields, anything else is kept verbatim in Order.Fields.
//
// Example:
//
//	o, err := m.Transition("order_1", order.StatusInventoryChecked, map[string]any{
//	    "inventory_checked": true,
//	    "total":             110,
//	})
func (m *Machine) Transition(id string, target Status, fields map[string]any) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, exists := m.orders[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if !o.Status.CanTransitionTo(target) {
		m.observer.OnEvent(context.Background(), observability.Event{
			Type:      EventTransitionDenied,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "order.machine",
			Data: map[string]any{
				"order_id": id,
				"from":     string(o.Status),
				"to":       string(target),
			},
		})
		return nil, &InvalidTransitionError{From: o.Status, To: target}
	}

	from := o.Status
	o.apply(fields)
	o.Status = target
	o.UpdatedAt = time.Now()

	m.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventOrderTransition,
		Level:     observability.LevelVerbose,
		Timestamp: o.UpdatedAt,
		Source:    "order.machine",
		Data: map[string]any{
			"order_id": id,
			"from":     string(from),
			"to":       string(target),
		},
	})

	return o.Clone(), nil
}

// CanTransition reports whether the order could legally move to the
// target status right now. Unknown ids report false. The answer is
// advisory under concurrency; Transition revalidates.
func (m *Machine) CanTransition(id string, target Status) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, exists := m.orders[id]
	if !exists {
		return false
	}
	return o.Status.CanTransitionTo(target)
}

// Get returns a clone of the order, or ErrNotFound.
func (m *Machine) Get(id string) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, exists := m.orders[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return o.Clone(), nil
}

// Count returns the number of registered orders.
func (m *Machine) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}
