package command

import "github.com/orderflow/engine/observability"

const (
	// History operations
	EventCommandExecute observability.EventType = "command.execute"
	EventCommandUndo    observability.EventType = "command.undo"
	EventCommandRedo    observability.EventType = "command.redo"
)
