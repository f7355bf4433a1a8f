package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"movie-search-service/internal/domain"
	"movie-search-service/internal/metrics"
)

// MovieSource is the search and detail surface the popular pipeline reads from.
// Implementations: MovieService
type MovieSource interface {
	Search(ctx context.Context, query domain.SearchQuery) (*domain.SearchPage, error)
	Detail(ctx context.Context, id string, plot domain.PlotLength) (*domain.Movie, error)
}

// PopularConfig bounds the popular pipeline.
type PopularConfig struct {
	Pools             domain.TermPools
	MaxSearchTerms    int  // terms fanned out to the provider
	MaxEnrich         int  // candidates verified against the genre filter
	PageSize          int  // movies returned
	EnrichConcurrency int  // in-flight detail fetches; 0 means all at once
	ParallelSearch    bool // fan out term searches concurrently
}

// DefaultPopularConfig returns the standard pipeline bounds.
func DefaultPopularConfig() PopularConfig {
	return PopularConfig{
		Pools:          domain.DefaultTermPools(),
		MaxSearchTerms: 6,
		MaxEnrich:      30,
		PageSize:       10,
	}
}

// PopularService builds the ranked popular-movies list.
//
// Pipeline:
//
//	terms    = synthesize(genre, year)[:MaxSearchTerms]
//	set      = first-wins merge of search(term, year, type) for each term
//	movies   = genre ? verify(set[:MaxEnrich]) : set
//	result   = stableSortByRating(movies)[:PageSize]
//
// Every provider call is isolated: a failed call contributes nothing.
type PopularService struct {
	source MovieSource
	cache  *responseCache
	ttl    time.Duration
	cfg    PopularConfig
	logger *zap.Logger
}

// NewPopularService creates a new PopularService. cache may be nil.
func NewPopularService(
	source MovieSource,
	cache domain.Cache,
	ttl time.Duration,
	cfg PopularConfig,
	logger *zap.Logger,
) *PopularService {
	defaults := DefaultPopularConfig()
	if cfg.MaxSearchTerms <= 0 {
		cfg.MaxSearchTerms = defaults.MaxSearchTerms
	}
	if cfg.MaxEnrich <= 0 {
		cfg.MaxEnrich = defaults.MaxEnrich
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaults.PageSize
	}
	if cfg.Pools.MaxTerms <= 0 {
		cfg.Pools.MaxTerms = defaults.Pools.MaxTerms
	}

	return &PopularService{
		source: source,
		cache:  newResponseCache(cache, logger),
		ttl:    ttl,
		cfg:    cfg,
		logger: logger,
	}
}

// Popular returns the ranked popular list for the filters, served from the
// cache when possible.
func (s *PopularService) Popular(ctx context.Context, filters domain.PopularFilters) (*domain.PopularResult, error) {
	filters.Normalize()

	var cached domain.PopularResult
	if s.cache.get(ctx, "popular", filters.CacheKey(), &cached) {
		return &cached, nil
	}

	return s.Refresh(ctx, filters)
}

// Refresh recomputes the popular list and replaces the cached copy.
func (s *PopularService) Refresh(ctx context.Context, filters domain.PopularFilters) (*domain.PopularResult, error) {
	filters.Normalize()

	start := time.Now()
	result, err := s.aggregate(ctx, filters)
	if err != nil {
		s.logger.Error("popular aggregation failed",
			zap.String("year", filters.Year),
			zap.String("type", string(filters.Type)),
			zap.String("genre", filters.Genre),
			zap.Error(err),
		)

		return nil, err
	}

	s.logger.Debug("popular aggregation completed",
		zap.String("year", filters.Year),
		zap.String("type", string(filters.Type)),
		zap.String("genre", filters.Genre),
		zap.Int("count", result.Total()),
		zap.Duration("duration", time.Since(start)),
	)

	s.cache.set(ctx, filters.CacheKey(), result, s.ttl)

	return result, nil
}

// aggregate runs the pipeline. A panic inside the pipeline is converted
// into ErrAggregationFailed.
func (s *PopularService) aggregate(ctx context.Context, filters domain.PopularFilters) (result *domain.PopularResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("popular pipeline panicked", zap.Any("panic", r), zap.Stack("stack"))
			result, err = nil, fmt.Errorf("%w: %v", domain.ErrAggregationFailed, r)
		}
	}()

	terms := firstN(s.cfg.Pools.SynthesizeTerms(filters.Genre, filters.Year), s.cfg.MaxSearchTerms)

	set, err := s.collect(ctx, terms, filters)
	if err != nil {
		return nil, err
	}
	metrics.ObservePopularStage("merged", set.Len())

	movies := set.Movies()
	if filters.HasGenre() {
		if movies, err = s.enrich(ctx, set.Candidates(), filters.Genre); err != nil {
			return nil, err
		}
		metrics.ObservePopularStage("enriched", len(movies))
	}

	domain.RankByRating(movies)
	movies = domain.Truncate(movies, s.cfg.PageSize)

	return &domain.PopularResult{
		Movies:   movies,
		Enriched: filters.HasGenre(),
	}, nil
}

// collect searches every term and merges the hits in term order, first
// occurrence of an ID winning.
func (s *PopularService) collect(ctx context.Context, terms []string, filters domain.PopularFilters) (*domain.MovieSet, error) {
	pages := make([]*domain.SearchPage, len(terms))

	if s.cfg.ParallelSearch {
		// Pages are slotted by term index so the merge order, and with it
		// the dedup winner, matches the sequential fan-out.
		var g errgroup.Group
		for i, term := range terms {
			i, term := i, term
			goSafe(&g, func() {
				pages[i] = s.searchTerm(ctx, term, filters)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, term := range terms {
			pages[i] = s.searchTerm(ctx, term, filters)
		}
	}

	set := domain.NewMovieSet()
	for _, page := range pages {
		if page == nil {
			continue
		}
		for _, movie := range page.Movies {
			set.Add(movie, filters.HasGenre())
		}
	}

	return set, nil
}

// searchTerm runs one search. Failures are logged and yield nil.
func (s *PopularService) searchTerm(ctx context.Context, term string, filters domain.PopularFilters) *domain.SearchPage {
	page, err := s.source.Search(ctx, domain.SearchQuery{
		Term: term,
		Year: filters.Year,
		Type: filters.Type,
		Page: 1,
	})
	if err != nil {
		s.logger.Warn("popular search term failed, skipping",
			zap.String("term", term),
			zap.Error(err),
		)

		return nil
	}

	return page
}

// enrich fetches details for the leading candidates concurrently and keeps
// those whose genre list matches. Failed fetches are dropped.
func (s *PopularService) enrich(ctx context.Context, candidates []domain.Candidate, genre string) ([]domain.Movie, error) {
	candidates = firstN(candidates, s.cfg.MaxEnrich)
	details := make([]*domain.Movie, len(candidates))

	var g errgroup.Group
	if s.cfg.EnrichConcurrency > 0 {
		g.SetLimit(s.cfg.EnrichConcurrency)
	}
	for i, c := range candidates {
		if !c.NeedsGenreCheck {
			continue
		}
		i, c := i, c
		goSafe(&g, func() {
			details[i] = s.verifyGenre(ctx, c.Movie.ID, genre)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	movies := make([]domain.Movie, 0, len(details))
	for _, d := range details {
		if d != nil {
			movies = append(movies, *d)
		}
	}

	return movies, nil
}

// verifyGenre returns the detail record if it matches genre, nil otherwise.
func (s *PopularService) verifyGenre(ctx context.Context, id, genre string) *domain.Movie {
	movie, err := s.source.Detail(ctx, id, domain.PlotShort)
	if err != nil {
		log := s.logger.Warn
		if domain.IsRejected(err) {
			log = s.logger.Debug
		}
		log("popular detail fetch failed, dropping candidate",
			zap.String("imdb_id", id),
			zap.Error(err),
		)

		return nil
	}

	if movie == nil || !movie.MatchesGenre(genre) {
		return nil
	}

	return movie
}

// goSafe runs fn on g. A panic in fn fails the group with ErrAggregationFailed
// instead of crashing the process; siblings are not cancelled.
func goSafe(g *errgroup.Group, fn func()) {
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", domain.ErrAggregationFailed, r)
			}
		}()
		fn()

		return nil
	})
}

// firstN returns at most n leading elements.
func firstN[T any](s []T, n int) []T {
	if n >= 0 && n < len(s) {
		return s[:n]
	}
	return s
}
