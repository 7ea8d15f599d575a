// Package memstore is an in-memory svalbard.ShareStore, intended for tests
// and local development rather than production custody.
package memstore

import (
	"context"
	"sync"

	"github.com/ruteri/svalbard/svalbard"
)

// Store keeps shares in a map guarded by an RWMutex; nothing survives a
// process restart.
type Store struct {
	mu    sync.RWMutex
	store map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{store: make(map[string][]byte)}
}

// Store implements svalbard.ShareStore.
func (s *Store) Store(_ context.Context, shareID string, value []byte) error {
	if shareID == "" {
		return svalbard.ErrInvalidShareID
	}
	if len(value) == 0 {
		return svalbard.ErrInvalidShareValue
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.store[shareID]; exists {
		return svalbard.ErrShareAlreadyExists
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	s.store[shareID] = cp
	return nil
}

// Retrieve implements svalbard.ShareStore.
func (s *Store) Retrieve(_ context.Context, shareID string) ([]byte, error) {
	if shareID == "" {
		return nil, svalbard.ErrInvalidShareID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, exists := s.store[shareID]
	if !exists {
		return nil, svalbard.ErrShareNotFound
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

// Delete implements svalbard.ShareStore.
func (s *Store) Delete(_ context.Context, shareID string) error {
	if shareID == "" {
		return svalbard.ErrInvalidShareID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.store[shareID]; !exists {
		return svalbard.ErrShareNotFound
	}
	delete(s.store, shareID)
	return nil
}
