// Package command implements linear undo/redo over store mutations.
//
// A History records successfully executed commands and walks them with
// a cursor: Undo retreats, Redo re-executes, and executing a fresh
// command while undone commands remain discards the redo branch.
//
// The store-backed commands (Save, Delete) are snapshot-once: they
// capture the prior record on their first Execute only, so a Redo
// replays the recorded delta instead of re-reading whatever happens to
// be stored at redo time.
package command

import "context"

// Command is a reversible unit of work.
//
// Implementations are not safe for concurrent use on their own; History
// serializes Execute and Undo calls.
type Command interface {
	// Name identifies the command in logs and observer events.
	Name() string

	// Execute applies the command's effect. Anything Undo will need
	// must be captured on the first call only; later calls replay.
	Execute(ctx context.Context) error

	// Undo reverses the most recent Execute.
	Undo(ctx context.Context) error
}
