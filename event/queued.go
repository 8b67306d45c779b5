package event

import (
	"context"
	"fmt"
	"time"

	"github.com/orderflow/engine/observability"
)

// queuedBus dispatches through a bounded queue drained by a single
// goroutine. Publication order is preserved and handler recursion depth
// is bounded: a handler that publishes again enqueues rather than
// re-entering dispatch on its own stack.
//
// Publish blocks while the queue is full. Handlers run on the
// dispatcher goroutine, so a re-entrant publish from a handler can only
// complete once the queue has room; size QueueSize above the expected
// handler fan-out.
type queuedBus struct {
	*bus

	queue  *messageQueue[Event]
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewQueuedBus creates a bus with a dispatcher goroutine and a queue of
// the given size. Non-positive sizes fall back to DefaultQueueSize.
//
// If observer is nil, NoOpObserver is used automatically.
func NewQueuedBus(observer observability.Observer, queueSize int) Bus {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &queuedBus{
		bus:    newBus(observer),
		queue:  newMessageQueue[Event](ctx, queueSize),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go b.dispatchLoop()

	return b
}

// Publish records the event and enqueues it for the dispatcher.
// Delivery happens asynchronously; history reflects the event
// immediately. Returns ErrBusClosed after Shutdown, or the caller's
// context error when a blocked enqueue is abandoned.
func (b *queuedBus) Publish(ctx context.Context, e Event) error {
	if b.ctx.Err() != nil {
		return ErrBusClosed
	}

	e = b.record(ctx, e)

	if err := b.queue.Send(ctx, e); err != nil {
		if b.ctx.Err() != nil {
			return ErrBusClosed
		}
		return err
	}
	return nil
}

// Shutdown stops the dispatcher and waits for it to drain the accepted
// events, up to the timeout.
func (b *queuedBus) Shutdown(timeout time.Duration) error {
	b.cancel()

	select {
	case <-b.done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("bus shutdown timeout after %v", timeout)
	}
}

func (b *queuedBus) dispatchLoop() {
	defer close(b.done)

	for {
		e, err := b.queue.Receive(context.Background())
		if err != nil {
			// Shutdown: deliver what was accepted, then exit.
			for {
				e, ok := b.queue.TryReceive()
				if !ok {
					return
				}
				b.dispatch(context.Background(), e)
			}
		}
		b.dispatch(context.Background(), e)
	}
}
