// Package cache provides a bounded in-memory key/value store with
// least-recently-used eviction.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is safe for concurrent use. A non-positive capacity is treated as 1.
// It wraps golang-lru and counts hits and misses for metrics.
type LRU[K comparable, V any] struct {
	inner *lru.Cache[K, V]

	hits   atomic.Int64
	misses atomic.Int64
}

func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	// lru.New only fails on a non-positive size
	inner, _ := lru.New[K, V](capacity)
	return &LRU[K, V]{inner: inner}
}

func (c *LRU[K, V]) Get(key K) (V, bool) {
	v, ok := c.inner.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores value under key and reports whether an older entry was evicted.
func (c *LRU[K, V]) Set(key K, value V) bool {
	return c.inner.Add(key, value)
}

func (c *LRU[K, V]) Len() int {
	return c.inner.Len()
}

// Stats returns hit and miss counts since creation.
func (c *LRU[K, V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Key hashes long text inputs into a fixed-size cache key.
func Key(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
