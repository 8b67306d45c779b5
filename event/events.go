package event

import "github.com/orderflow/engine/observability"

const (
	// Bus operations
	EventBusSubscribe observability.EventType = "bus.subscribe"
	EventBusPublish   observability.EventType = "bus.publish"

	// Handler boundary
	EventHandlerError observability.EventType = "bus.handler.error"
	EventHandlerPanic observability.EventType = "bus.handler.panic"
)
