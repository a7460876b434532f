package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store. It backs session-scoped state (click
// identifiers live only as long as the session that captured them) and
// stands in for Redis in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key, or def when the key is absent.
func (s *MemoryStore) Get(_ context.Context, key, def string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if val, ok := s.values[key]; ok {
		return val, nil
	}
	return def, nil
}

// Set stores value under key.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Remove deletes key.
func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
