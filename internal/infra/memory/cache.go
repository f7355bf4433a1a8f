// Package memory provides the in-process response cache.
package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Cache implements the domain.Cache interface on top of go-cache.
// Values are stored as copies so callers cannot mutate cached bytes.
type Cache struct {
	store  *cache.Cache
	logger *zap.Logger
}

// NewCache creates an in-memory cache. Expired entries are purged every
// cleanupInterval.
func NewCache(defaultTTL, cleanupInterval time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		store:  cache.New(defaultTTL, cleanupInterval),
		logger: logger,
	}
}

// Get retrieves a value by key. Returns nil if not found or expired.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	v, found := c.store.Get(key)
	if !found {
		return nil, nil
	}

	data, ok := v.([]byte)
	if !ok {
		c.logger.Warn("unexpected cached value type, dropping entry", zap.String("key", key))
		c.store.Delete(key)

		return nil, nil
	}

	return clone(data), nil
}

// Set stores a value with the given TTL.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.store.Set(key, clone(value), ttl)

	return nil
}

// Delete removes a value by key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.store.Delete(key)

	return nil
}

// Clear removes all cached values.
func (c *Cache) Clear(_ context.Context) error {
	c.store.Flush()

	return nil
}

// Ping always succeeds.
func (c *Cache) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of stored items, including expired ones not yet purged.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
