package storage

import (
	"sync"
)

// Keys persisted by the console between restarts
const (
	KeyAuthToken       = "authToken"
	KeyUser            = "user"
	KeyTokenExpiration = "tokenExpiration"
)

// Storage is a persistent client-side key/value store
type Storage interface {
	// Get returns the value stored under key and whether it exists
	Get(key string) (string, bool)
	// Set stores value under key, replacing any previous value
	Set(key, value string) error
	// Remove deletes the given keys. Missing keys are ignored.
	Remove(keys ...string) error
}

// MemoryStorage keeps values in process memory. Used in tests and when persistence is disabled.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStorage) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}
