package store

import "fmt"

// Backend names accepted by Config.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
)

// Config holds store initialization parameters.
type Config struct {
	Backend string `json:"backend,omitempty"` // "memory" (default) or "file".
	Path    string `json:"path,omitempty"`    // File backend root directory.
}

// DefaultConfig returns the default store configuration (in-memory backend).
func DefaultConfig() Config {
	return Config{Backend: BackendMemory}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Path != "" {
		c.Path = source.Path
	}
}

// New creates a Store from configuration.
func New(cfg *Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file backend requires a path")
		}
		return NewFileStore(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
