package cache

import (
	"context"
	"encoding/json"
	"time"

	"healthportal/internal/metrics"
)

// Cache is a byte cache that fails safe: a miss and an unreachable backend
// look the same to callers, and writes never fail a request.
type Cache interface {
	// Get returns the value or nil on a miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// GetJSON decodes a cached value into dst and reports whether it was a hit.
// name labels the lookup in the cache metrics.
func GetJSON(ctx context.Context, c Cache, name, key string, dst interface{}) bool {
	if c == nil {
		return false
	}
	data, _ := c.Get(ctx, key)
	if data == nil || json.Unmarshal(data, dst) != nil {
		metrics.CacheLookups.WithLabelValues(name, "miss").Inc()
		return false
	}
	metrics.CacheLookups.WithLabelValues(name, "hit").Inc()
	return true
}

// SetJSON encodes v and stores it, ignoring failures.
func SetJSON(ctx context.Context, c Cache, key string, v interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	if payload, err := json.Marshal(v); err == nil {
		_ = c.Set(ctx, key, payload, ttl)
	}
}

// Disabled returns a Cache that always misses. A nil *Redis is a valid no-op client.
func Disabled() Cache {
	return (*Redis)(nil)
}
