// Package cache holds the two caches of the engine: an in-memory LRU that
// memoizes typeset results, and a context-aware byte cache for rendered
// artifacts with file, Redis and no-op backends.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque artifacts under string keys.
type Cache interface {
	// Get returns the value for key. A miss is reported as ok == false with a
	// nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Load is Get with a miss turned into ErrCacheMiss.
func Load(ctx context.Context, c Cache, key string) ([]byte, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}
