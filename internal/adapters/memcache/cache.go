// Package memcache is an in-process domain.Cache for single-binary runs
// without Redis.
package memcache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"apt_reviews/internal/adapters/observability"
)

// Cache stores JSON encodings so callers never share mutable values with
// the cache.
type Cache struct {
	c *gocache.Cache
}

func New(defaultTTL, cleanup time.Duration) *Cache {
	return &Cache{c: gocache.New(defaultTTL, cleanup)}
}

func (m *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	b, ok := v.([]byte)
	if !ok || json.Unmarshal(b, dst) != nil {
		m.c.Delete(key)
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	observability.ObserveCache("memory", "hit")
	return true, nil
}

// Set stores v for ttlSec seconds; ttlSec <= 0 uses the cache default.
func (m *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ttl := gocache.DefaultExpiration
	if ttlSec > 0 {
		ttl = time.Duration(ttlSec) * time.Second
	}
	m.c.Set(key, b, ttl)
	observability.ObserveCache("memory", "set")
	return nil
}

func (m *Cache) Del(_ context.Context, key string) error {
	m.c.Delete(key)
	observability.ObserveCache("memory", "del")
	return nil
}

func (m *Cache) Len() int { return m.c.ItemCount() }
