// Package event implements the workflow event bus.
//
// The bus keeps an append-only history of every published event and
// fans each event out to the handlers subscribed to its type, in
// registration order. Handler failures and panics are downgraded to
// observer events at the bus boundary: they never reach the remaining
// handlers or the publisher.
//
// Two dispatch modes exist. The synchronous bus (the default) runs
// handlers on the publishing goroutine as a plain nested call chain, so
// a handler may publish again and dispatch re-enters on the same stack.
// The queued bus pushes events through a bounded queue drained by a
// single dispatcher goroutine, which preserves publication order while
// bounding stack depth. Select the mode through Config.
package event

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/orderflow/engine/observability"
)

// Handler reacts to a published event. Returning an error marks the
// handler failed for this event; it does not stop dispatch.
type Handler func(ctx context.Context, e Event) error

// Bus is the publish/subscribe surface shared by both dispatch modes.
type Bus interface {
	// Subscribe registers a handler for an event type. Handlers for the
	// same type run in registration order. Nil handlers are ignored.
	Subscribe(t Type, handler Handler)

	// Publish records the event in history and dispatches it to the
	// handlers subscribed to its type. ID and Timestamp are assigned
	// when unset. Handler outcomes never fail a publish.
	Publish(ctx context.Context, e Event) error

	// Recent returns the last limit published events in publication
	// order, fewer if history is shorter. Non-positive limits return
	// nothing.
	Recent(limit int) []Event

	// History returns a copy of the full publication history.
	History() []Event

	// Metrics returns a snapshot of the bus dispatch counters.
	Metrics() MetricsSnapshot

	// Shutdown releases bus resources. The synchronous bus has none;
	// the queued bus stops its dispatcher, draining accepted events
	// first.
	Shutdown(timeout time.Duration) error
}

// bus is the synchronous implementation and the shared core of the
// queued one: handler registry, history and boundary handling live
// here.
type bus struct {
	handlersMutex sync.RWMutex
	handlers      map[Type][]Handler

	historyMutex sync.RWMutex
	history      []Event

	observer observability.Observer
	metrics  *Metrics
}

// NewSyncBus creates a bus that dispatches on the publishing goroutine.
//
// If observer is nil, NoOpObserver is used automatically.
func NewSyncBus(observer observability.Observer) Bus {
	return newBus(observer)
}

func newBus(observer observability.Observer) *bus {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	return &bus{
		handlers: make(map[Type][]Handler),
		observer: observer,
		metrics:  NewMetrics(),
	}
}

func (b *bus) Subscribe(t Type, handler Handler) {
	if handler == nil {
		return
	}

	b.handlersMutex.Lock()
	b.handlers[t] = append(b.handlers[t], handler)
	count := len(b.handlers[t])
	b.handlersMutex.Unlock()

	b.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventBusSubscribe,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "event.bus",
		Data: map[string]any{
			"event_type": string(t),
			"handlers":   count,
		},
	})
}

func (b *bus) Publish(ctx context.Context, e Event) error {
	e = b.record(ctx, e)
	b.dispatch(ctx, e)
	return nil
}

func (b *bus) Recent(limit int) []Event {
	if limit <= 0 {
		return nil
	}

	b.historyMutex.RLock()
	defer b.historyMutex.RUnlock()

	if limit > len(b.history) {
		limit = len(b.history)
	}
	out := make([]Event, 0, limit)
	for _, e := range b.history[len(b.history)-limit:] {
		out = append(out, e.Clone())
	}
	return out
}

func (b *bus) History() []Event {
	b.historyMutex.RLock()
	defer b.historyMutex.RUnlock()

	out := make([]Event, 0, len(b.history))
	for _, e := range b.history {
		out = append(out, e.Clone())
	}
	return out
}

func (b *bus) Metrics() MetricsSnapshot {
	return b.metrics.Snapshot()
}

func (b *bus) Shutdown(timeout time.Duration) error {
	return nil
}

// record finalizes the event and appends it to history. History is
// written before any handler runs, so Recent reflects an event as soon
// as its publish is underway.
func (b *bus) record(ctx context.Context, e Event) Event {
	if e.ID == "" {
		e.ID = generateID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	e = e.Clone()

	b.historyMutex.Lock()
	b.history = append(b.history, e)
	b.historyMutex.Unlock()
	b.metrics.RecordPublished(1)

	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventBusPublish,
		Level:     observability.LevelVerbose,
		Timestamp: e.Timestamp,
		Source:    "event.bus",
		Data: map[string]any{
			"event_type": string(e.Type),
			"event_id":   e.ID,
		},
	})

	return e
}

// dispatch fans the event out to a snapshot of the handlers registered
// for its type. Snapshotting keeps re-entrant Subscribe and Publish
// calls from handlers legal.
func (b *bus) dispatch(ctx context.Context, e Event) {
	b.handlersMutex.RLock()
	handlers := slices.Clone(b.handlers[e.Type])
	b.handlersMutex.RUnlock()

	for i, handler := range handlers {
		b.run(ctx, e, i, handler)
	}
}

// run invokes one handler, downgrading its error or panic to an
// observer event so dispatch always continues.
func (b *bus) run(ctx context.Context, e Event, index int, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.metrics.RecordFailure(1)
			b.observer.OnEvent(ctx, observability.Event{
				Type:      EventHandlerPanic,
				Level:     observability.LevelError,
				Timestamp: time.Now(),
				Source:    "event.bus",
				Data: map[string]any{
					"event_type": string(e.Type),
					"event_id":   e.ID,
					"handler":    index,
					"panic":      fmt.Sprint(r),
				},
			})
		}
	}()

	if err := handler(ctx, e); err != nil {
		b.metrics.RecordFailure(1)
		b.observer.OnEvent(ctx, observability.Event{
			Type:      EventHandlerError,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "event.bus",
			Data: map[string]any{
				"event_type": string(e.Type),
				"event_id":   e.ID,
				"handler":    index,
				"error":      err.Error(),
			},
		})
		return
	}
	b.metrics.RecordHandled(1)
}
