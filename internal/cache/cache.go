package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache stores prediction results keyed by the feature tuple. The classifier
// is deterministic, so a cached entry never goes stale in the correctness
// sense; TTL only bounds memory growth. Each backend fixes its TTL at
// construction.
type Cache interface {
	Get(ctx context.Context, key string) ([]int, bool, error)
	Set(ctx context.Context, key string, labels []int) error
}

// InMemoryCache implements Cache on an expirable LRU: bounded entry count,
// entries dropped after TTL or on LRU eviction. Safe for concurrent use.
type InMemoryCache struct {
	lru *expirable.LRU[string, []int]
}

// NewInMemoryCache creates an in-memory cache holding at most maxEntries
// predictions, each expiring after ttl.
func NewInMemoryCache(maxEntries int, ttl time.Duration) *InMemoryCache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &InMemoryCache{
		lru: expirable.NewLRU[string, []int](maxEntries, nil, ttl),
	}
}

// Get returns the cached labels for key. Returns (labels, true, nil) on hit,
// (nil, false, nil) on miss or expiry.
func (c *InMemoryCache) Get(ctx context.Context, key string) ([]int, bool, error) {
	labels, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return labels, true, nil
}

// Set stores labels under key.
func (c *InMemoryCache) Set(ctx context.Context, key string, labels []int) error {
	c.lru.Add(key, labels)
	return nil
}
