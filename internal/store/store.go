// Package store defines the key-value contract the list controller persists
// through. Backends live in subpackages.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Get when the key was never written.
	ErrNotFound = errors.New("store: key not found")
	// ErrConflict is returned by CompareAndSwap when the stored version moved.
	ErrConflict = errors.New("store: version conflict")
	// ErrInvalidKey rejects keys that cannot be stored safely.
	ErrInvalidKey = errors.New("store: invalid key")
)

// KV is a minimal persistent string store.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Versioned is a KV that can detect concurrent writers.
// Every successful write bumps the key's version; an absent key has
// version 0.
type Versioned interface {
	KV
	GetVersioned(ctx context.Context, key string) (value string, version int64, err error)
	// CompareAndSwap writes value only if the key is still at version.
	// It returns ErrConflict otherwise.
	CompareAndSwap(ctx context.Context, key, value string, version int64) error
}

// ValidateKey accepts short printable keys without path separators.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	case len(key) > 128:
		return fmt.Errorf("%w: longer than 128 bytes", ErrInvalidKey)
	case strings.ContainsAny(key, `/\`) || key == "." || key == "..":
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, r := range key {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: control character in %q", ErrInvalidKey, key)
		}
	}
	return nil
}
