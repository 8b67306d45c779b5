package workflow

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/orderflow/engine/event"
	"github.com/orderflow/engine/inventory"
	"github.com/orderflow/engine/store"
)

const defaultKeyPrefix = "order_"

// Config holds initialization parameters for all engine subsystems.
// Each subsystem section delegates to that subsystem's config-driven
// constructor.
type Config struct {
	Store     store.Config     `json:"store"`
	Bus       event.Config     `json:"bus"`
	Inventory inventory.Config `json:"inventory"`
	KeyPrefix string           `json:"key_prefix,omitempty"`
	Observer  string           `json:"observer,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults for all
// subsystems: in-memory store, synchronous bus, the default catalog
// and the slog observer.
func DefaultConfig() Config {
	return Config{
		Store:     store.DefaultConfig(),
		Bus:       event.DefaultConfig(),
		Inventory: inventory.DefaultConfig(),
		KeyPrefix: defaultKeyPrefix,
		Observer:  "slog",
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Store.Merge(&source.Store)
	c.Bus.Merge(&source.Bus)
	c.Inventory.Merge(&source.Inventory)

	if source.KeyPrefix != "" {
		c.KeyPrefix = source.KeyPrefix
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and
// returns the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
