package workflow

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/orderflow/engine/event"
	"github.com/orderflow/engine/order"
	"github.com/orderflow/engine/store"
)

// CreateOrder registers a new order, persists its snapshot and
// publishes order.created. The new order becomes the current one.
func (e *Engine) CreateOrder(ctx context.Context, id, customerID string, items []string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.machine.Create(id, customerID, items)
	if err != nil {
		return "", err
	}
	e.current = id

	if err := e.persist(ctx, o); err != nil {
		return "", err
	}

	err = e.publish(ctx, event.Event{
		Type:   event.TypeOrderCreated,
		Source: "workflow",
		Payload: map[string]any{
			"order_id":    id,
			"customer_id": customerID,
			"items":       slices.Clone(items),
		},
	})
	if err != nil {
		return "", err
	}

	e.journal("order_created", id, fmt.Sprintf("customer %s", customerID))

	return fmt.Sprintf("Order %s created for customer %s with items: %s",
		id, customerID, strings.Join(items, ", ")), nil
}

// CheckInventory reserves stock for the order and advances it to
// INVENTORY_CHECKED with its total. Insufficient stock publishes an
// unavailable inventory.checked event and returns
// inventory.ErrInsufficient with the order left in CREATED; the
// lifecycle has no failure state, the event carries the outcome.
func (e *Engine) CheckInventory(ctx context.Context, id string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.machine.Get(id)
	if err != nil {
		return "", err
	}

	// Validate the edge before touching the ledger: a misplaced check
	// must not reserve stock.
	if !o.Status.CanTransitionTo(order.StatusInventoryChecked) {
		return "", &order.InvalidTransitionError{From: o.Status, To: order.StatusInventoryChecked}
	}

	total, err := e.ledger.Reserve(o.Items)
	if err != nil {
		if perr := e.publish(ctx, event.Event{
			Type:   event.TypeInventoryChecked,
			Source: "workflow",
			Payload: map[string]any{
				"order_id":  id,
				"available": false,
			},
		}); perr != nil {
			return "", perr
		}
		return "", fmt.Errorf("order %s: %w", id, err)
	}

	o, err = e.machine.Transition(id, order.StatusInventoryChecked, map[string]any{
		"total":             total,
		"inventory_checked": true,
	})
	if err != nil {
		return "", err
	}

	if err := e.persist(ctx, o); err != nil {
		return "", err
	}

	err = e.publish(ctx, event.Event{
		Type:   event.TypeInventoryChecked,
		Source: "workflow",
		Payload: map[string]any{
			"order_id":  id,
			"available": true,
			"total":     total,
		},
	})
	if err != nil {
		return "", err
	}

	e.journal("inventory_reserved", strings.Join(o.Items, ", "), fmt.Sprintf("order %s", id))
	e.journal("order_updated", id, "inventory checked")

	return fmt.Sprintf("Inventory checked for order %s. Total: $%d", id, total), nil
}

// ProcessPayment advances the order to PAYMENT_PROCESSED and marks it
// paid.
func (e *Engine) ProcessPayment(ctx context.Context, id string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.machine.Transition(id, order.StatusPaymentProcessed, map[string]any{
		"payment_status": "paid",
	})
	if err != nil {
		return "", err
	}

	if err := e.persist(ctx, o); err != nil {
		return "", err
	}

	err = e.publish(ctx, event.Event{
		Type:   event.TypePaymentProcessed,
		Source: "workflow",
		Payload: map[string]any{
			"order_id": id,
			"amount":   o.Total,
		},
	})
	if err != nil {
		return "", err
	}

	e.journal("order_updated", id, "payment processed")

	return fmt.Sprintf("Payment processed for order %s. Amount: $%d", id, o.Total), nil
}

// ShipOrder advances the order to SHIPPED.
func (e *Engine) ShipOrder(ctx context.Context, id string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.machine.Transition(id, order.StatusShipped, map[string]any{
		"shipping_status": "shipped",
	})
	if err != nil {
		return "", err
	}

	if err := e.persist(ctx, o); err != nil {
		return "", err
	}

	err = e.publish(ctx, event.Event{
		Type:   event.TypeOrderShipped,
		Source: "workflow",
		Payload: map[string]any{
			"order_id":    id,
			"customer_id": o.CustomerID,
		},
	})
	if err != nil {
		return "", err
	}

	e.journal("order_updated", id, "shipped")

	return fmt.Sprintf("Order %s has been shipped!", id), nil
}

// CompleteOrder advances the order to its terminal COMPLETED status.
func (e *Engine) CompleteOrder(ctx context.Context, id string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.machine.Transition(id, order.StatusCompleted, nil)
	if err != nil {
		return "", err
	}

	if err := e.persist(ctx, o); err != nil {
		return "", err
	}

	err = e.publish(ctx, event.Event{
		Type:   event.TypeOrderCompleted,
		Source: "workflow",
		Payload: map[string]any{
			"order_id": id,
		},
	})
	if err != nil {
		return "", err
	}

	e.journal("order_updated", id, "completed")

	return fmt.Sprintf("Order %s completed", id), nil
}

// CancelOrder moves the order to its terminal CANCELLED status.
// Stock already reserved for it is not returned to the ledger.
func (e *Engine) CancelOrder(ctx context.Context, id string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.machine.Transition(id, order.StatusCancelled, nil)
	if err != nil {
		return "", err
	}

	if err := e.persist(ctx, o); err != nil {
		return "", err
	}

	err = e.publish(ctx, event.Event{
		Type:   event.TypeOrderCancelled,
		Source: "workflow",
		Payload: map[string]any{
			"order_id": id,
		},
	})
	if err != nil {
		return "", err
	}

	e.journal("order_updated", id, "cancelled")

	return fmt.Sprintf("Order %s cancelled", id), nil
}

// Undo reverses the most recent store write. Only the store snapshot
// rewinds; machine state is untouched, so Order and StoredOrder can
// disagree afterwards. Returns command.ErrNothingToUndo at history
// start.
func (e *Engine) Undo(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.history.Undo(ctx); err != nil {
		return "", err
	}
	e.journal("undo", "store", "")

	return "Last operation undone successfully", nil
}

// Redo re-applies the most recently undone store write. Returns
// command.ErrNothingToRedo at history end.
func (e *Engine) Redo(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.history.Redo(ctx); err != nil {
		return "", err
	}
	e.journal("redo", "store", "")

	return "Operation redone successfully", nil
}

// Order returns the machine's copy of the order.
func (e *Engine) Order(id string) (*order.Order, error) {
	return e.machine.Get(id)
}

// StoredOrder returns the persisted snapshot of the order, which lags
// the machine after an undo.
func (e *Engine) StoredOrder(ctx context.Context, id string) (store.Record, error) {
	return e.store.Load(ctx, e.key(id))
}

// OrderStatus formats a human-readable status block for the order from
// the machine's copy.
func (e *Engine) OrderStatus(id string) (string, error) {
	o, err := e.machine.Get(id)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Order Status for %s:
- Status: %s
- Customer: %s
- Items: %s
- Total: $%d
- Payment: %s
- Shipping: %s`,
		o.ID, o.Status, o.CustomerID, strings.Join(o.Items, ", "),
		o.Total, o.PaymentStatus, o.ShippingStatus), nil
}

// Notifications returns the last limit reactive notifications in the
// order they were produced, fewer if the log is shorter.
func (e *Engine) Notifications(limit int) []string {
	if limit <= 0 {
		return nil
	}

	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	if limit > len(e.notifications) {
		limit = len(e.notifications)
	}
	return slices.Clone(e.notifications[len(e.notifications)-limit:])
}

// RecentEvents returns the last limit events from the bus history.
func (e *Engine) RecentEvents(limit int) []event.Event {
	return e.bus.Recent(limit)
}

// EventMetrics reports the bus dispatch counters.
func (e *Engine) EventMetrics() event.MetricsSnapshot {
	return e.bus.Metrics()
}

// Summary reports order count, current order, remaining inventory and
// the last five audit entries.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	current := e.current
	changes := e.changes
	if len(changes) > 5 {
		changes = changes[len(changes)-5:]
	}
	changes = slices.Clone(changes)
	e.mu.Unlock()

	return Summary{
		Orders:        e.machine.Count(),
		CurrentOrder:  current,
		Inventory:     e.ledger.Levels(),
		RecentChanges: changes,
	}
}

// Shutdown stops the bus dispatcher, waiting up to the timeout for
// queued events to drain. Synchronous buses return immediately.
func (e *Engine) Shutdown(timeout time.Duration) error {
	return e.bus.Shutdown(timeout)
}
