// Package memory provides an in-memory KV used for development and tests.
package memory

import (
	"context"
	"sync"
)

// Store keeps each collection as an opaque byte slice.
// It is guarded by an RWMutex for concurrent reads/writes.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
	// failSet makes Set return the error for the given key; tests use it to
	// exercise the "nothing partial is written" path.
	failSet map[string]error
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string][]byte), failSet: make(map[string]error)}
}

// Get returns a copy of the stored value, or nil when the key is absent.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set replaces the value stored under key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failSet[key]; err != nil {
		return err
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

// FailSet makes subsequent writes to key fail with err; a nil err clears it.
func (s *Store) FailSet(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failSet, key)
		return
	}
	s.failSet[key] = err
}

// Reset drops every collection.
func (s *Store) Reset() {
	s.mu.Lock()
	s.data = map[string][]byte{}
	s.failSet = map[string]error{}
	s.mu.Unlock()
}

func (s *Store) Ready(context.Context) error { return nil }
func (s *Store) Close() error                { return nil }
