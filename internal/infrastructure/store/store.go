// Package store provides the client's local persistent state: an
// opaque key-value store holding the auth token, the cached profile
// snapshot, and the guest cart. Multi-key writes and deletes are atomic
// so paired keys are never partially persisted.
package store

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned when a key has no stored value
var ErrKeyNotFound = errors.New("store: key not found")

// Store is the local state store contract
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set stores a single value
	Set(ctx context.Context, key, value string) error

	// SetMulti stores all pairs atomically: either every pair is
	// persisted or none are
	SetMulti(ctx context.Context, pairs map[string]string) error

	// Delete removes the given keys atomically; missing keys are not
	// an error
	Delete(ctx context.Context, keys ...string) error

	// Close releases underlying resources
	Close() error
}
