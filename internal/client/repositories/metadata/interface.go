// Package metadata provides the durable local key/value store used to
// persist client state (session token and profile) across process restarts.
package metadata

import "context"

type Repository interface {
	// Get returns the value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all pairs in a single transaction: either every key is
	// persisted or none is.
	SetMany(ctx context.Context, pairs map[string][]byte) error
	Delete(ctx context.Context, key string) error
	// DeleteMany removes all keys in a single transaction.
	DeleteMany(ctx context.Context, keys ...string) error
	// Clear removes every stored key.
	Clear(ctx context.Context) error
}
