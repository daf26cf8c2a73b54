package exportcache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/summarizer-backend/internal/domain/export"
)

type entry struct {
	payload   export.Payload
	expiresAt time.Time
}

// MemoryCache keeps rendered exports in process memory for tests/dev.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry), now: time.Now}
}

// Get implements export.Cache. Expired entries are evicted on read.
func (c *MemoryCache) Get(_ context.Context, key string) (export.Payload, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return export.Payload{}, false, nil
	}
	if !e.expiresAt.IsZero() && e.expiresAt.Before(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return export.Payload{}, false, nil
	}
	return e.payload, true, nil
}

// Set implements export.Cache.
func (c *MemoryCache) Set(_ context.Context, key string, payload export.Payload, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.entries[key] = entry{payload: payload, expiresAt: exp}
	return nil
}

var _ export.Cache = (*MemoryCache)(nil)
