package utils

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Clock returns the current time. Injected so expiry can be tested.
type Clock func() time.Time

type cacheItem struct {
	Data      []byte
	ExpiresAt time.Time
}

// PageCache memoizes rendered pages for a fixed window. Entries leave
// the cache only by expiry, LRU eviction or Clear; writes to the
// underlying data never invalidate them.
type PageCache struct {
	lruCache *lru.Cache[string, cacheItem]
	now      Clock
}

// NewPageCache creates a cache holding at most size pages.
func NewPageCache(size int, now Clock) (*PageCache, error) {
	l, err := lru.New[string, cacheItem](size)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &PageCache{lruCache: l, now: now}, nil
}

// Set stores data under key for ttl.
func (c *PageCache) Set(key string, data []byte, ttl time.Duration) {
	c.lruCache.Add(key, cacheItem{
		Data:      data,
		ExpiresAt: c.now().Add(ttl),
	})
}

// Get returns the stored page, or false when missing or expired.
func (c *PageCache) Get(key string) ([]byte, bool) {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil, false
	}

	if !c.now().Before(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil, false
	}

	return val.Data, true
}

// GetOrCompute returns the cached page for key, or runs compute and
// stores its result for ttl. A failing compute leaves the cache
// untouched. Concurrent misses may each run compute; the last one wins.
func (c *PageCache) GetOrCompute(key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	if data, ok := c.Get(key); ok {
		return data, nil
	}

	data, err := compute()
	if err != nil {
		return nil, err
	}
	c.Set(key, data, ttl)
	return data, nil
}

// Clear drops every page regardless of TTL.
func (c *PageCache) Clear() {
	c.lruCache.Purge()
}
