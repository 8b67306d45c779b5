package workflow

import "github.com/orderflow/engine/observability"

const (
	// Infrastructure failures downgraded at the engine boundary
	EventStoreError observability.EventType = "workflow.store.error"
	EventBusError   observability.EventType = "workflow.bus.error"
)
