package order

import "github.com/orderflow/engine/observability"

const (
	// Machine operations
	EventOrderCreate      observability.EventType = "order.create"
	EventOrderTransition  observability.EventType = "order.transition"
	EventTransitionDenied observability.EventType = "order.transition.denied"
)
