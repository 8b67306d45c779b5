package event

import (
	"fmt"

	"github.com/orderflow/engine/observability"
)

// Dispatch modes accepted by Config.
const (
	DispatchSync   = "sync"
	DispatchQueued = "queued"
)

// DefaultQueueSize bounds the queued dispatcher when Config leaves
// QueueSize unset.
const DefaultQueueSize = 100

// Config holds bus initialization parameters.
type Config struct {
	Dispatch  string `json:"dispatch,omitempty"`   // "sync" (default) or "queued".
	QueueSize int    `json:"queue_size,omitempty"` // Queued dispatcher capacity.
}

// DefaultConfig returns the default bus configuration (synchronous
// dispatch).
func DefaultConfig() Config {
	return Config{
		Dispatch:  DispatchSync,
		QueueSize: DefaultQueueSize,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Dispatch != "" {
		c.Dispatch = source.Dispatch
	}
	if source.QueueSize > 0 {
		c.QueueSize = source.QueueSize
	}
}

// New creates a Bus from configuration.
func New(cfg *Config, observer observability.Observer) (Bus, error) {
	switch cfg.Dispatch {
	case "", DispatchSync:
		return NewSyncBus(observer), nil
	case DispatchQueued:
		return NewQueuedBus(observer, cfg.QueueSize), nil
	default:
		return nil, fmt.Errorf("unknown dispatch mode: %s", cfg.Dispatch)
	}
}
