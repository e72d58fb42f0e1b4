// Package imagecache keeps recently fetched QR images in a bounded LRU.
package imagecache

import (
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/okian/nestudio/internal/domain/model"
	"github.com/okian/nestudio/pkg/metrics"
)

const defaultMaxEntries = 256

// Cache is safe for concurrent use. lru.Cache itself is not.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

// New returns a cache holding at most maxEntries images; non-positive means 256.
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Cache{lru: lru.New(maxEntries)}
}

// Add stores img under key. Empty images are ignored.
func (c *Cache) Add(key string, img model.Image) {
	if img.IsZero() {
		return
	}
	c.mu.Lock()
	c.lru.Add(key, img)
	n := c.lru.Len()
	c.mu.Unlock()
	metrics.UpdateQRCacheEntries(n)
}

// Get returns the image under key.
func (c *Cache) Get(key string) (model.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(key)
	if !ok {
		return model.Image{}, false
	}
	return v.(model.Image), true
}

// Remove drops key.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	c.lru.Remove(key)
	n := c.lru.Len()
	c.mu.Unlock()
	metrics.UpdateQRCacheEntries(n)
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
