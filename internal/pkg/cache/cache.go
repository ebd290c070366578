// FILE: internal/pkg/cache/cache.go
package cache

import (
	"context"
	"time"
)

// Store is the shared key-value cache in front of the authoritative store.
// All calls are best-effort from the caller's point of view: read paths
// treat any error like a miss and fail safe.
type Store interface {
	// Get returns the value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPrefix removes every key with the given prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
}
