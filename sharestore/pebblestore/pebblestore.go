// Package pebblestore is a durable svalbard.ShareStore backed by a Pebble
// key-value database, for custody servers that must survive restarts
// without losing already-accepted shares.
package pebblestore

import (
	"context"
	"errors"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/ruteri/svalbard/svalbard"
)

// Store is a ShareStore backed by an on-disk Pebble database. mu serializes
// the existence check and the write of Store and Delete.
type Store struct {
	mu sync.Mutex
	db *pebble.DB
}

// OpenOrCreate opens (creating if necessary) a Pebble database at dir to
// back a ShareStore.
func OpenOrCreate(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database. After Close, the Store must not
// be used.
func (s *Store) Close() error {
	return s.db.Close()
}

// Store implements svalbard.ShareStore.
func (s *Store) Store(_ context.Context, shareID string, value []byte) error {
	if shareID == "" {
		return svalbard.ErrInvalidShareID
	}
	if len(value) == 0 {
		return svalbard.ErrInvalidShareValue
	}
	key := []byte(shareID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, closer, err := s.db.Get(key); err == nil {
		closer.Close()
		return svalbard.ErrShareAlreadyExists
	} else if !errors.Is(err, pebble.ErrNotFound) {
		return err
	}
	return s.db.Set(key, value, pebble.Sync)
}

// Retrieve implements svalbard.ShareStore.
func (s *Store) Retrieve(_ context.Context, shareID string) ([]byte, error) {
	if shareID == "" {
		return nil, svalbard.ErrInvalidShareID
	}
	value, closer, err := s.db.Get([]byte(shareID))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, svalbard.ErrShareNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

// Delete implements svalbard.ShareStore.
func (s *Store) Delete(_ context.Context, shareID string) error {
	if shareID == "" {
		return svalbard.ErrInvalidShareID
	}
	key := []byte(shareID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, closer, err := s.db.Get(key); errors.Is(err, pebble.ErrNotFound) {
		return svalbard.ErrShareNotFound
	} else if err != nil {
		return err
	} else {
		closer.Close()
	}
	return s.db.Delete(key, pebble.Sync)
}
