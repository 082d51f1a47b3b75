package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU memoizes computed values in a fixed-size golang-lru cache and counts
// hits and misses. The zero value is not usable; create one with NewLRU.
type LRU[K comparable, V any] struct {
	cache        *lru.Cache[K, V]
	hits, misses atomic.Int64
}

// NewLRU returns an LRU holding at most capacity entries. A capacity below
// one is raised to one.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	c, err := lru.New[K, V](max(capacity, 1))
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &LRU[K, V]{cache: c}
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	v, ok := c.cache.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Add stores value under key unless key is already present, in which case
// the stored value wins. It returns the value now held for key and whether
// value was inserted.
func (c *LRU[K, V]) Add(key K, value V) (V, bool) {
	if prev, ok, _ := c.cache.PeekOrAdd(key, value); ok {
		return prev, false
	}
	return value, true
}

// GetOrCompute returns the cached value for key, or calls compute and caches
// its result. compute runs outside the cache lock, so concurrent callers may
// compute the same key; the first result to be added is the one every
// caller gets back. Errors are not cached.
func (c *LRU[K, V]) GetOrCompute(key K, compute func() (V, error)) (value V, hit bool, err error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}
	v, err := compute()
	if err != nil {
		return v, false, err
	}
	v, _ = c.Add(key, v)
	return v, false, nil
}

// Remove drops key.
func (c *LRU[K, V]) Remove(key K) { c.cache.Remove(key) }

// Purge drops every entry and resets the counters.
func (c *LRU[K, V]) Purge() {
	c.cache.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int { return c.cache.Len() }

// Stats returns the hit and miss counts of Get.
func (c *LRU[K, V]) Stats() (hits, misses int) {
	return int(c.hits.Load()), int(c.misses.Load())
}
