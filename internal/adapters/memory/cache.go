// internal/adapters/memory/cache.go
package memory

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports"
)

var ErrCacheMiss = ports.ErrCacheMiss

// Cache is a process-local stand-in for the Redis cache.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	data    []byte
	expires time.Time
}

var _ ports.CachePort = (*Cache)(nil)

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, entries: make(map[string]cacheEntry), now: time.Now}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.expired(e) {
		delete(c.entries, key)
		return nil, ErrCacheMiss
	}
	return e.data, nil
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

func (c *Cache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := cacheEntry{data: data}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
	return nil
}

func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	return err == nil, nil
}

func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return nil
}

func (c *Cache) expired(e cacheEntry) bool {
	return !e.expires.IsZero() && !c.now().Before(e.expires)
}
