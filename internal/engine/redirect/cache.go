// Package redirect holds the short-lived cache sitting in front of the
// persistent store on the redirect path. The cache is best-effort: entries
// may be stale for up to the TTL, and cache trouble must never fail a
// redirect.
package redirect

import (
	"context"
	"sync"
	"time"
)

// Entry is the cached resolution for one short code.
type Entry struct {
	Short    string `json:"short"`
	Original string `json:"original"`
}

type Cache interface {
	Get(ctx context.Context, shortCode string) (*Entry, bool)
	Set(ctx context.Context, shortCode string, entry *Entry)
}

type cachedEntry struct {
	entry    *Entry
	cachedAt time.Time
}

// MemoryCache is an in-process TTL cache. Expired entries are evicted lazily
// on read.
type MemoryCache struct {
	store sync.Map // map[short_code]*cachedEntry
	ttl   time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl}
}

func (c *MemoryCache) Get(_ context.Context, shortCode string) (*Entry, bool) {
	val, ok := c.store.Load(shortCode)
	if !ok {
		return nil, false
	}

	cached := val.(*cachedEntry)
	if time.Since(cached.cachedAt) > c.ttl {
		c.store.Delete(shortCode)
		return nil, false
	}

	return cached.entry, true
}

func (c *MemoryCache) Set(_ context.Context, shortCode string, entry *Entry) {
	c.store.Store(shortCode, &cachedEntry{
		entry:    entry,
		cachedAt: time.Now(),
	})
}
