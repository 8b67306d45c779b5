// Package workflow composes the order machine, state store, event bus,
// command history and inventory ledger into the order workflow engine.
//
// The engine initializes from configuration via New, creating all
// subsystems internally. Functional options allow test overrides of any
// subsystem.
//
//	cfg := workflow.DefaultConfig()
//	eng, err := workflow.New(&cfg)
//	result, err := eng.CreateOrder(ctx, "order_1", "CUST01", []string{"laptop"})
//
// The machine record and the store snapshot are two independent copies
// of an order. Workflow operations keep them aligned; Undo and Redo
// rewind only the store, so the two views can diverge afterwards. Order
// reads the machine's copy, StoredOrder the store's.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/orderflow/engine/command"
	"github.com/orderflow/engine/event"
	"github.com/orderflow/engine/inventory"
	"github.com/orderflow/engine/observability"
	"github.com/orderflow/engine/order"
	"github.com/orderflow/engine/store"
)

// Change is one entry in the engine's audit journal.
type Change struct {
	Action  string    `json:"action"`
	Target  string    `json:"target"`
	Details string    `json:"details,omitempty"`
	At      time.Time `json:"timestamp"`
}

// Summary is a point-in-time view of the whole workflow.
type Summary struct {
	Orders        int
	CurrentOrder  string
	Inventory     map[string]int
	RecentChanges []Change
}

// Option configures an Engine after config-driven initialization.
// Applied by New before the machine, history and reactive subscriptions
// are wired, so overrides are fully in effect.
type Option func(*Engine)

// WithStore overrides the config-created store.
func WithStore(s store.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithBus overrides the config-created event bus.
func WithBus(b event.Bus) Option {
	return func(e *Engine) { e.bus = b }
}

// WithLedger overrides the config-created inventory ledger.
func WithLedger(l *inventory.Ledger) Option {
	return func(e *Engine) { e.ledger = l }
}

// WithObserver overrides the config-resolved observer.
func WithObserver(o observability.Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// Engine is the single entry point for workflow operations. A mutex
// serializes them, so each operation sees and leaves a consistent
// machine, store, ledger and journal.
type Engine struct {
	mu sync.Mutex

	machine *order.Machine
	store   store.Store
	bus     event.Bus
	history *command.History
	ledger  *inventory.Ledger

	observer  observability.Observer
	keyPrefix string

	current string
	changes []Change

	notifyMu      sync.Mutex
	notifications []string
}

// New creates an Engine from configuration. The store backend, bus
// dispatch mode, inventory catalog and observer (by registry name) all
// come from their config sections; functional options applied afterward
// can override any subsystem for testing.
func New(cfg *Config, opts ...Option) (*Engine, error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	st, err := store.New(&cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	bus, err := event.New(&cfg.Bus, observer)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	e := &Engine{
		store:     st,
		bus:       bus,
		ledger:    inventory.New(&cfg.Inventory),
		observer:  observer,
		keyPrefix: cfg.KeyPrefix,
	}
	if e.keyPrefix == "" {
		e.keyPrefix = defaultKeyPrefix
	}

	for _, opt := range opts {
		opt(e)
	}

	e.machine = order.NewMachine(e.observer)
	e.history = command.NewHistory(e.observer)
	e.subscribe()

	return e, nil
}

// subscribe installs the reactive handlers. They run inside Publish
// (or on the queued dispatcher) and touch only the notification log,
// the ledger and the bus, never the engine mutex.
func (e *Engine) subscribe() {
	e.bus.Subscribe(event.TypeInventoryChecked, func(ctx context.Context, ev event.Event) error {
		orderID := ev.Payload["order_id"]
		if available, ok := ev.Payload["available"].(bool); ok && available {
			e.notify(fmt.Sprintf("Inventory confirmed for order %v", orderID))
		} else {
			e.notify(fmt.Sprintf("Inventory insufficient for order %v", orderID))
		}
		return nil
	})

	// Low-stock monitor: every inventory check re-examines the ledger
	// and publishes an alert per depleted item, re-entering dispatch.
	e.bus.Subscribe(event.TypeInventoryChecked, func(ctx context.Context, ev event.Event) error {
		for _, item := range e.ledger.Low() {
			err := e.bus.Publish(ctx, event.Event{
				Type:   event.TypeInventoryLow,
				Source: "inventory_monitor",
				Payload: map[string]any{
					"item":     item,
					"quantity": e.ledger.Level(item),
				},
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	e.bus.Subscribe(event.TypePaymentProcessed, func(ctx context.Context, ev event.Event) error {
		e.notify(fmt.Sprintf("Payment processed for order %v - preparing for shipment", ev.Payload["order_id"]))
		return nil
	})

	e.bus.Subscribe(event.TypeOrderShipped, func(ctx context.Context, ev event.Event) error {
		e.notify(fmt.Sprintf("Order %v shipped to customer %v", ev.Payload["order_id"], ev.Payload["customer_id"]))
		return nil
	})

	e.bus.Subscribe(event.TypeInventoryLow, func(ctx context.Context, ev event.Event) error {
		e.notify(fmt.Sprintf("Low stock alert: %v (%v remaining)", ev.Payload["item"], ev.Payload["quantity"]))
		return nil
	})
}

// key maps an order id to its store key.
func (e *Engine) key(orderID string) string {
	return e.keyPrefix + orderID
}

// persist writes the order snapshot through the command history so the
// write is undoable. Failures are logged and returned wrapped; the
// machine state that was already advanced stands.
func (e *Engine) persist(ctx context.Context, o *order.Order) error {
	cmd := command.NewSave(e.store, e.key(o.ID), o.Snapshot())
	if err := e.history.Execute(ctx, cmd); err != nil {
		e.observer.OnEvent(ctx, observability.Event{
			Type:      EventStoreError,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "workflow.engine",
			Data: map[string]any{
				"order_id": o.ID,
				"error":    err.Error(),
			},
		})
		return fmt.Errorf("failed to persist order %s: %w", o.ID, err)
	}
	return nil
}

// publish sends an event on the bus. A failing publish (only possible
// on a shut-down queued bus) is logged and returned wrapped.
func (e *Engine) publish(ctx context.Context, ev event.Event) error {
	if err := e.bus.Publish(ctx, ev); err != nil {
		e.observer.OnEvent(ctx, observability.Event{
			Type:      EventBusError,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "workflow.engine",
			Data: map[string]any{
				"event_type": string(ev.Type),
				"error":      err.Error(),
			},
		})
		return fmt.Errorf("failed to publish %s: %w", ev.Type, err)
	}
	return nil
}

// journal records an audit entry. Callers hold the engine mutex.
func (e *Engine) journal(action, target, details string) {
	e.changes = append(e.changes, Change{
		Action:  action,
		Target:  target,
		Details: details,
		At:      time.Now(),
	})
}

// notify appends to the notification log. Safe to call from handlers.
func (e *Engine) notify(message string) {
	e.notifyMu.Lock()
	e.notifications = append(e.notifications, message)
	e.notifyMu.Unlock()
}
