// Package memstore is an in-memory, versioned store.KV. Nothing survives
// the process; it backs --backend memory and tests.
package memstore

import (
	"context"
	"sync"

	"github.com/idilsaglam/suru/internal/store"
)

var _ store.Versioned = (*Store)(nil)

type entry struct {
	value   string
	version int64
}

// Store is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	data map[string]entry
}

func New() *Store {
	return &Store{data: make(map[string]entry)}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, _, err := s.GetVersioned(ctx, key)
	return v, err
}

func (s *Store) GetVersioned(ctx context.Context, key string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	if err := store.ValidateKey(key); err != nil {
		return "", 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	if !ok {
		return "", 0, store.ErrNotFound
	}
	return e.value, e.version, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry{value: value, version: s.data[key].version + 1}
	return nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key, value string, version int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[key].version != version {
		return store.ErrConflict
	}
	s.data[key] = entry{value: value, version: version + 1}
	return nil
}
