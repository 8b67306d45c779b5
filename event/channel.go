package event

import "context"

// messageQueue is a bounded in-process queue. Sends select against both
// the caller's context and the owning bus's context, so a blocked
// publisher wakes up when either side gives up.
type messageQueue[T any] struct {
	channel chan T
	context context.Context
}

func newMessageQueue[T any](ctx context.Context, bufferSize int) *messageQueue[T] {
	return &messageQueue[T]{
		channel: make(chan T, bufferSize),
		context: ctx,
	}
}

func (mq *messageQueue[T]) Send(ctx context.Context, message T) error {
	select {
	case mq.channel <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-mq.context.Done():
		return mq.context.Err()
	}
}

func (mq *messageQueue[T]) Receive(ctx context.Context) (T, error) {
	select {
	case message := <-mq.channel:
		return message, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-mq.context.Done():
		var zero T
		return zero, mq.context.Err()
	}
}

func (mq *messageQueue[T]) TryReceive() (T, bool) {
	select {
	case message := <-mq.channel:
		return message, true
	default:
		var zero T
		return zero, false
	}
}
