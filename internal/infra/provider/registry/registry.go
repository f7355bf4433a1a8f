// Package registry builds the configured movie provider.
package registry

import (
	"go.uber.org/zap"

	"movie-search-service/internal/config"
	"movie-search-service/internal/domain"
	"movie-search-service/internal/infra/provider"
	"movie-search-service/internal/infra/provider/omdb"
)

// NewMovieProvider creates the OMDB client from configuration.
// This is a factory function that centralizes provider initialization
// while maintaining dependency injection principles.
func NewMovieProvider(cfg config.OMDBConfig, logger *zap.Logger) domain.MovieProvider {
	return omdb.New(ClientConfig(cfg), logger.Named(omdb.Name))
}

// ClientConfig maps the OMDB settings onto the shared client configuration.
func ClientConfig(cfg config.OMDBConfig) provider.ClientConfig {
	return provider.ClientConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
		Retry: provider.RetryConfig{
			MaxAttempts: cfg.Retry.MaxAttempts,
			WaitTime:    cfg.Retry.WaitTime,
			MaxWaitTime: cfg.Retry.MaxWaitTime,
		},
		CB: provider.CBConfig{
			MaxRequests:  cfg.CB.MaxRequests,
			Interval:     cfg.CB.Interval,
			Timeout:      cfg.CB.Timeout,
			FailureRatio: cfg.CB.FailureRatio,
			MinRequests:  cfg.CB.MinRequests,
		},
		RateLimit: provider.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		},
	}
}
