// Package service provides application use cases.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"movie-search-service/internal/domain"
)

// MovieService handles keyword search and detail lookups against the provider.
type MovieService struct {
	provider domain.MovieProvider
	cache    *responseCache
	ttl      CacheTTLs
	logger   *zap.Logger
}

// NewMovieService creates a new MovieService. cache may be nil.
func NewMovieService(provider domain.MovieProvider, cache domain.Cache, ttl CacheTTLs, logger *zap.Logger) *MovieService {
	return &MovieService{
		provider: provider,
		cache:    newResponseCache(cache, logger),
		ttl:      ttl,
		logger:   logger,
	}
}

// Search runs a keyword search. A "not found" answer from the provider is
// returned as an empty page, not as an error.
func (s *MovieService) Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchPage, error) {
	query.Normalize()
	if query.Term == "" {
		return nil, domain.ErrEmptyQuery
	}

	key := query.CacheKey()
	var cached domain.SearchPage
	if s.cache.get(ctx, "search", key, &cached) {
		return &cached, nil
	}

	s.logger.Debug("searching movies",
		zap.String("term", query.Term),
		zap.String("year", query.Year),
		zap.String("type", string(query.Type)),
		zap.Int("page", query.Page),
	)

	page, err := s.provider.Search(ctx, query)
	if err != nil {
		var rejected *domain.RejectedError
		if !errors.As(err, &rejected) {
			return nil, err
		}

		s.logger.Debug("search returned no results",
			zap.String("term", query.Term),
			zap.String("reason", rejected.Message),
		)
		page = domain.EmptySearchPage()
	}

	s.cache.set(ctx, key, page, s.ttl.Search)

	return page, nil
}

// Detail fetches the full record of one movie. A "not found" answer is
// returned as *domain.RejectedError.
func (s *MovieService) Detail(ctx context.Context, id string, plot domain.PlotLength) (*domain.Movie, error) {
	key := domain.DetailCacheKey(id, plot)
	var cached domain.Movie
	if s.cache.get(ctx, "detail", key, &cached) {
		return &cached, nil
	}

	movie, err := s.provider.Detail(ctx, id, plot)
	if err != nil {
		return nil, err
	}

	s.cache.set(ctx, key, movie, s.ttl.Detail)

	return movie, nil
}

// ProviderName returns the name of the upstream provider.
func (s *MovieService) ProviderName() string {
	return s.provider.Name()
}
