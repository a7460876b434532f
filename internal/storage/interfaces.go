package storage

import "context"

// Store is the key-value contract every stateful component depends on:
// cart snapshots, the persisted external identity, the bound email, and
// session-scoped click identifiers all go through it.
type Store interface {
	// Get returns the value stored under key, or def when the key is absent.
	Get(ctx context.Context, key, def string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(ctx context.Context, key string) error
}
