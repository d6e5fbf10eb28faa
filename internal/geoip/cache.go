package geoip

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// Cache stores resolved lookups keyed by IP address. Implementations must
// be safe for concurrent use. A Cache is strictly an optimization: Get
// misses and Set failures are invisible to callers.
type Cache interface {
	Get(ctx context.Context, ip string) (model.GeoInfo, bool)
	Set(ctx context.Context, ip string, info model.GeoInfo)
}

// MemoryCache is an in-process Cache with per-entry expiry. Suitable for a
// single-instance deployment; use RedisCache when several instances should
// share lookups.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration

	// now is the clock, swappable in tests.
	now func() time.Time
}

type memoryEntry struct {
	info    model.GeoInfo
	expires time.Time
}

// NewMemoryCache creates a MemoryCache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached lookup for ip if present and not expired.
func (c *MemoryCache) Get(_ context.Context, ip string) (model.GeoInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[ip]
	if !ok {
		return model.GeoInfo{}, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, ip)
		return model.GeoInfo{}, false
	}
	return entry.info, true
}

// Set stores a lookup result. Expired entries are swept opportunistically
// so the map does not grow without bound under churning traffic.
func (c *MemoryCache) Set(_ context.Context, ip string, info model.GeoInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, key)
		}
	}
	c.entries[ip] = memoryEntry{info: info, expires: now.Add(c.ttl)}
}

// RedisCache shares resolved lookups across instances through Redis.
// Every failure degrades to a cache miss so a Redis outage never blocks
// scanning.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// redisKeyPrefix namespaces cache keys inside a shared Redis database.
const redisKeyPrefix = "geoip:"

// NewRedisCache creates a RedisCache on an existing client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached lookup for ip if Redis holds one.
func (c *RedisCache) Get(ctx context.Context, ip string) (model.GeoInfo, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+ip).Bytes()
	if err != nil {
		return model.GeoInfo{}, false
	}
	var info model.GeoInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return model.GeoInfo{}, false
	}
	return info, true
}

// Set stores a lookup result with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, ip string, info model.GeoInfo) {
	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	c.client.Set(ctx, redisKeyPrefix+ip, data, c.ttl)
}
