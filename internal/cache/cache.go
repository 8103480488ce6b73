// Package cache memoizes composed HTML by content fingerprint.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultSize = 100
	DefaultTTL  = 10 * time.Minute
)

// Stats is a point-in-time view of the cache.
type Stats struct {
	Size    int    `json:"size"`
	MaxSize int    `json:"maxSize"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// Cache is a bounded LRU of composed documents whose entries expire after
// a fixed TTL. It is safe for concurrent use.
type Cache struct {
	lru     *expirable.LRU[string, string]
	maxSize int
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// New returns a cache holding at most size entries for ttl each.
// Non-positive values fall back to DefaultSize and DefaultTTL.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		lru:     expirable.NewLRU[string, string](size, nil, ttl),
		maxSize: size,
	}
}

// Get returns the document stored under key. Expired entries are misses.
func (c *Cache) Get(key string) (string, bool) {
	html, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return html, ok
}

// Set stores html under key, evicting the least recently used entry when
// the cache is full.
func (c *Cache) Set(key, html string) {
	c.lru.Add(key, html)
}

func (c *Cache) Len() int { return c.lru.Len() }

// Purge drops every entry. Counters are kept.
func (c *Cache) Purge() { c.lru.Purge() }

func (c *Cache) Stats() Stats {
	return Stats{
		Size:    c.lru.Len(),
		MaxSize: c.maxSize,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
