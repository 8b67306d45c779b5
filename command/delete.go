package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/orderflow/engine/store"
)

// Delete removes a key and, on undo, restores the record it removed.
// Deleting an absent key succeeds and leaves nothing to restore.
type Delete struct {
	store store.Store
	key   string

	captured bool
	previous store.Record
}

// NewDelete creates a Delete command.
func NewDelete(st store.Store, key string) *Delete {
	return &Delete{
		store: st,
		key:   key,
	}
}

// Name implements Command.
func (c *Delete) Name() string {
	return fmt.Sprintf("delete %s", c.key)
}

// Execute captures the key's record on the first call, then deletes
// the key.
func (c *Delete) Execute(ctx context.Context) error {
	if !c.captured {
		previous, err := c.store.Load(ctx, c.key)
		switch {
		case err == nil:
			c.previous = previous
		case errors.Is(err, store.ErrKeyNotFound):
			c.previous = nil
		default:
			return err
		}
		c.captured = true
	}

	_, err := c.store.Delete(ctx, c.key)
	return err
}

// Undo restores the removed record. Undoing a delete that found
// nothing is a no-op.
func (c *Delete) Undo(ctx context.Context) error {
	if c.previous == nil {
		return nil
	}
	return c.store.Save(ctx, c.key, c.previous.Clone())
}
