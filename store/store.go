// Package store persists keyed record snapshots behind a backend-agnostic
// interface. Two backends ship with the package: a mutex-guarded in-memory
// map and a one-file-per-key JSON directory. The backend is selected through
// Config, never by ambient typing.
package store

import (
	"context"
	"maps"
)

// Record is a schemaless snapshot of an entity's fields keyed by field name.
// The store persists whatever fields the caller provides; it imposes no
// schema of its own.
type Record map[string]any

// Clone returns a shallow copy of the record. Nested values are shared.
func (r Record) Clone() Record {
	return maps.Clone(r)
}

// Store persists full record snapshots under caller-chosen keys.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save persists a full snapshot under key, overwriting any prior value.
	Save(ctx context.Context, key string, record Record) error
	// Load retrieves the snapshot stored under key.
	// Returns ErrKeyNotFound when the key is absent.
	Load(ctx context.Context, key string) (Record, error)
	// Delete removes the snapshot under key and reports whether one existed.
	Delete(ctx context.Context, key string) (bool, error)
	// Keys returns all stored keys in sorted order.
	Keys(ctx context.Context) ([]string, error)
}
