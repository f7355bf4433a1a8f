package domain

import (
	"context"
	"time"
)

// MovieProvider defines the interface for the upstream movie-metadata service.
// Implementations: internal/infra/omdb/
type MovieProvider interface {
	// Name returns the unique identifier for this provider.
	Name() string

	// Search runs a keyword search. A failure envelope is returned as
	// *RejectedError, transport problems wrap ErrUpstreamUnavailable.
	Search(ctx context.Context, query SearchQuery) (*SearchPage, error)

	// Detail fetches the full record for one identifier.
	Detail(ctx context.Context, id string, plot PlotLength) (*Movie, error)
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis/cache.go, internal/infra/memory/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}
