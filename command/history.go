package command

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/orderflow/engine/observability"
)

// History is a linear command log with a cursor.
//
// The cursor sits on the most recently applied command. Undo moves it
// back, Redo forward. Executing a new command truncates everything
// beyond the cursor first, so the log never branches.
//
// All access is serialized through a mutex; commands run while it is
// held, which keeps the log consistent with the order effects were
// applied in.
type History struct {
	mu       sync.RWMutex
	commands []Command
	cursor   int
	observer observability.Observer
}

// NewHistory creates an empty History with the given observer.
//
// If observer is nil, NoOpObserver is used automatically.
func NewHistory(observer observability.Observer) *History {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}

	return &History{
		cursor:   -1,
		observer: observer,
	}
}

// Execute runs the command and records it on success. Commands undone
// at the time of a successful Execute are discarded: redo is only
// available immediately after an undo. A failed command is not
// recorded and leaves the cursor where it was.
func (h *History) Execute(ctx context.Context, cmd Command) error {
	if cmd == nil {
		return errors.New("nil command")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := cmd.Execute(ctx); err != nil {
		return err
	}

	h.commands = append(h.commands[:h.cursor+1], cmd)
	h.cursor++

	h.emit(ctx, EventCommandExecute, cmd)
	return nil
}

// Undo reverses the command under the cursor and retreats. Returns
// ErrNothingToUndo at the start of history. A failing Undo leaves the
// cursor in place so the same command is retried next time.
func (h *History) Undo(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor < 0 {
		return ErrNothingToUndo
	}

	cmd := h.commands[h.cursor]
	if err := cmd.Undo(ctx); err != nil {
		return err
	}
	h.cursor--

	h.emit(ctx, EventCommandUndo, cmd)
	return nil
}

// Redo re-executes the command after the cursor and advances. Returns
// ErrNothingToRedo at the end of history.
func (h *History) Redo(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor >= len(h.commands)-1 {
		return ErrNothingToRedo
	}

	cmd := h.commands[h.cursor+1]
	if err := cmd.Execute(ctx); err != nil {
		return err
	}
	h.cursor++

	h.emit(ctx, EventCommandRedo, cmd)
	return nil
}

// CanUndo reports whether Undo would act.
func (h *History) CanUndo() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cursor >= 0
}

// CanRedo reports whether Redo would act.
func (h *History) CanRedo() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cursor < len(h.commands)-1
}

// Len returns the number of recorded commands, undone ones included.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.commands)
}

func (h *History) emit(ctx context.Context, t observability.EventType, cmd Command) {
	h.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "command.history",
		Data: map[string]any{
			"command": cmd.Name(),
			"cursor":  h.cursor,
			"len":     len(h.commands),
		},
	})
}
