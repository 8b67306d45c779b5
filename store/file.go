package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const recordExt = ".json"

type fileStore struct {
	root string
}

// NewFileStore creates a Store that keeps one JSON file per key directly
// under root, named <key>.json. The directory is created on first save.
//
// Writes are not atomic: a crash mid-write can leave a truncated file for
// that one record. Load reports such a record as ErrLoadFailed.
func NewFileStore(root string) Store {
	return &fileStore{root: root}
}

func (s *fileStore) Save(_ context.Context, key string, record Record) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, key, err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, key, err)
	}

	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, key, err)
	}
	return nil
}

func (s *fileStore) Load(_ context.Context, key string) (Record, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, key, err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, key, err)
	}
	return record, nil
}

func (s *fileStore) Delete(_ context.Context, key string) (bool, error) {
	if err := os.Remove(s.path(key)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete failed: %s: %w", key, err)
	}
	return true, nil
}

func (s *fileStore) Keys(_ context.Context) ([]string, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	var keys []string
	for _, entry := range dirEntries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, recordExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, recordExt))
	}
	return keys, nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.root, key+recordExt)
}
