package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"movie-search-service/internal/domain"
	"movie-search-service/internal/metrics"
)

// CacheTTLs holds the lifetime of each cached response kind.
// A zero TTL disables caching for that kind.
type CacheTTLs struct {
	Search  time.Duration
	Detail  time.Duration
	Popular time.Duration
}

// DefaultCacheTTLs mirrors the stale times the web client used.
func DefaultCacheTTLs() CacheTTLs {
	return CacheTTLs{
		Search:  5 * time.Minute,
		Detail:  30 * time.Minute,
		Popular: 10 * time.Minute,
	}
}

// responseCache stores JSON-encoded responses. Cache failures are logged and
// treated as misses; they never fail a request. A nil backend disables it.
type responseCache struct {
	backend domain.Cache
	logger  *zap.Logger
}

func newResponseCache(backend domain.Cache, logger *zap.Logger) *responseCache {
	return &responseCache{backend: backend, logger: logger}
}

// get decodes the cached value into dest. Returns true on a hit.
func (c *responseCache) get(ctx context.Context, kind, key string, dest interface{}) bool {
	if c.backend == nil {
		return false
	}

	data, err := c.backend.Get(ctx, key)
	if err != nil {
		metrics.ObserveCache(kind, metrics.CacheError)
		c.logger.Warn("cache lookup failed, falling back to provider",
			zap.String("key", key),
			zap.Error(err),
		)

		return false
	}
	if data == nil {
		metrics.ObserveCache(kind, metrics.CacheMiss)

		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		metrics.ObserveCache(kind, metrics.CacheError)
		c.logger.Warn("cached value is corrupt, dropping it",
			zap.String("key", key),
			zap.Error(err),
		)
		_ = c.backend.Delete(ctx, key)

		return false
	}

	metrics.ObserveCache(kind, metrics.CacheHit)

	return true
}

// set encodes and stores value. Errors are logged only.
func (c *responseCache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c.backend == nil || ttl <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("failed to encode cache value", zap.String("key", key), zap.Error(err))

		return
	}

	if err := c.backend.Set(ctx, key, data, ttl); err != nil {
		c.logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
	}
}
