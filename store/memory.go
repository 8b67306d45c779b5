package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type memoryStore struct {
	records map[string]Record
	mu      sync.RWMutex
}

// NewMemoryStore creates a Store backed by an in-process map. Records are
// cloned on the way in and out, so callers can keep mutating their copies
// without aliasing stored state.
func NewMemoryStore() Store {
	return &memoryStore{
		records: make(map[string]Record),
	}
}

func (s *memoryStore) Save(_ context.Context, key string, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = record.Clone()
	return nil
}

func (s *memoryStore) Load(_ context.Context, key string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return record.Clone(), nil
}

func (s *memoryStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.records[key]
	delete(s.records, key)
	return existed, nil
}

func (s *memoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
