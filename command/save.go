package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/orderflow/engine/store"
)

// Save writes a record snapshot to a key and, on undo, restores
// whatever the key held before the first execute. Covers both creation
// (nothing held before, undo deletes) and update (undo restores the
// prior record).
type Save struct {
	store  store.Store
	key    string
	record store.Record

	captured bool
	previous store.Record
}

// NewSave creates a Save command. The record is cloned, so later caller
// mutations do not change what Execute writes.
func NewSave(st store.Store, key string, record store.Record) *Save {
	return &Save{
		store:  st,
		key:    key,
		record: record.Clone(),
	}
}

// Name implements Command.
func (c *Save) Name() string {
	return fmt.Sprintf("save %s", c.key)
}

// Execute captures the key's prior record on the first call, then
// writes the snapshot. Re-executing from a Redo writes the same
// snapshot without re-capturing.
func (c *Save) Execute(ctx context.Context) error {
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

	return c.store.Save(ctx, c.key, c.record.Clone())
}

// Undo restores the captured prior record, or deletes the key when
// nothing preceded the first execute.
func (c *Save) Undo(ctx context.Context) error {
	if c.previous == nil {
		_, err := c.store.Delete(ctx, c.key)
		return err
	}
	return c.store.Save(ctx, c.key, c.previous.Clone())
}
