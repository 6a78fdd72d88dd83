package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yumetaro/chart-share/pkg/chartshare"
)

// Cache implements chartshare.Cache with an in-process TTL map. Suitable for
// tests and single-instance deployments.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// New creates a new in-memory cache
func New() chartshare.Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Get returns the cached value; expired or missing keys are a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}

	data := make([]byte, len(e.data))
	copy(data, e.data)
	return data, true, nil
}

// Set stores a value with a TTL. A non-positive TTL means no expiry.
func (c *Cache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := entry{data: make([]byte, len(data))}
	copy(e.data, data)
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}
