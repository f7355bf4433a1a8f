package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"movie-search-service/internal/domain"
)

// fakeProvider is an in-memory domain.MovieProvider.
// Unknown search terms and unknown IDs are answered with "not found".
type fakeProvider struct {
	mu sync.Mutex

	pages       map[string][]domain.Movie // by search term
	failTerms   map[string]bool
	panicTerm   string
	details     map[string]domain.Movie // by imdb ID
	failDetails map[string]bool
	panicDetail string

	searches []domain.SearchQuery
	detailed []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		pages:       make(map[string][]domain.Movie),
		failTerms:   make(map[string]bool),
		details:     make(map[string]domain.Movie),
		failDetails: make(map[string]bool),
	}
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(_ context.Context, query domain.SearchQuery) (*domain.SearchPage, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	movies, ok := f.pages[query.Term]
	fail := f.failTerms[query.Term]
	f.mu.Unlock()

	if query.Term == f.panicTerm {
		panic("boom")
	}
	if fail {
		return nil, fmt.Errorf("%w: connection refused", domain.ErrUpstreamUnavailable)
	}
	if !ok {
		return nil, &domain.RejectedError{Message: "Movie not found!"}
	}

	return &domain.SearchPage{
		Movies:       append([]domain.Movie(nil), movies...),
		TotalResults: len(movies),
		Found:        true,
	}, nil
}

func (f *fakeProvider) Detail(_ context.Context, id string, _ domain.PlotLength) (*domain.Movie, error) {
	f.mu.Lock()
	f.detailed = append(f.detailed, id)
	movie, ok := f.details[id]
	fail := f.failDetails[id]
	f.mu.Unlock()

	if id == f.panicDetail {
		panic("boom")
	}
	if fail {
		return nil, fmt.Errorf("%w: timeout", domain.ErrUpstreamUnavailable)
	}
	if !ok {
		return nil, &domain.RejectedError{Message: "Incorrect IMDb ID."}
	}

	return &movie, nil
}

func (f *fakeProvider) searchTerms() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	terms := make([]string, len(f.searches))
	for i, q := range f.searches {
		terms[i] = q.Term
	}
	return terms
}

func (f *fakeProvider) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func (f *fakeProvider) detailCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.detailed)
}

// stub builds a search hit.
func stub(id, title string) domain.Movie {
	return domain.Movie{ID: id, Title: title, Year: "2020", Type: domain.MovieTypeMovie, Poster: domain.NotAvailable}
}

// detail builds a detail record.
func detail(id, title, genre, rating string) domain.Movie {
	m := stub(id, title)
	m.Genre = genre
	m.IMDBRating = rating
	return m
}

// stubs builds n hits with IDs prefix0..prefix(n-1).
func stubs(prefix string, n int) []domain.Movie {
	movies := make([]domain.Movie, n)
	for i := range movies {
		id := fmt.Sprintf("%s%d", prefix, i)
		movies[i] = stub(id, "Title "+id)
	}
	return movies
}

func ids(movies []domain.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}

// overlapSource holds each Detail call until `target` calls are in flight
// (or a timeout passes) and records the highest overlap seen.
type overlapSource struct {
	*fakeProvider

	target  int
	mu      sync.Mutex
	current int
	peak    int
	reached chan struct{}
}

func newOverlapSource(f *fakeProvider, target int) *overlapSource {
	return &overlapSource{fakeProvider: f, target: target, reached: make(chan struct{})}
}

func (s *overlapSource) Detail(ctx context.Context, id string, plot domain.PlotLength) (*domain.Movie, error) {
	s.mu.Lock()
	s.current++
	if s.current > s.peak {
		s.peak = s.current
	}
	if s.current == s.target {
		select {
		case <-s.reached:
		default:
			close(s.reached)
		}
	}
	s.mu.Unlock()

	select {
	case <-s.reached:
	case <-time.After(2 * time.Second):
	}

	s.mu.Lock()
	s.current--
	s.mu.Unlock()

	return s.fakeProvider.Detail(ctx, id, plot)
}

func (s *overlapSource) maxInFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}
