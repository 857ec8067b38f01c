package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheItem wraps cached data with its expiry.
type cacheItem struct {
	data      interface{}
	expiresAt time.Time
}

// Cache is a small TTL wrapper around an LRU cache, used to keep hot query
// results (guest lookups mostly) off the database.
type Cache struct {
	lruCache *lru.Cache[string, cacheItem]
}

// NewCache creates a cache holding up to size entries.
func NewCache(size int) (*Cache, error) {
	l, err := lru.New[string, cacheItem](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lruCache: l}, nil
}

// Set stores data under key for ttl.
func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, cacheItem{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get returns the cached value, or nil if missing or expired.
func (c *Cache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(val.expiresAt) {
		c.lruCache.Remove(key)
		return nil
	}
	return val.data
}

// Purge drops everything. Called after writes that invalidate whole
// key families.
func (c *Cache) Purge() {
	c.lruCache.Purge()
}
