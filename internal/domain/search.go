package domain

import (
	"strconv"
	"strings"
)

// PlotLength selects the plot variant returned by a detail fetch.
type PlotLength string

const (
	PlotShort PlotLength = "short"
	PlotFull  PlotLength = "full"
)

const (
	// MaxSearchPage is the last page the provider will serve.
	MaxSearchPage = 100
)

// SearchQuery holds keyword search parameters.
type SearchQuery struct {
	Term string    // Free-text keyword
	Year string    // Optional release year
	Type MovieType // Optional type filter
	Page int       // Page number (1-indexed)
}

// Normalize ensures the query is within acceptable bounds. This is bound correction, not validation.
func (q *SearchQuery) Normalize() {
	q.Term = strings.TrimSpace(q.Term)
	q.Year = strings.TrimSpace(q.Year)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxSearchPage {
		q.Page = MaxSearchPage
	}
}

// CacheKey returns a stable key for the query.
func (q SearchQuery) CacheKey() string {
	return "search:" + strings.Join([]string{
		strings.ToLower(q.Term),
		q.Year,
		string(q.Type),
		strconv.Itoa(q.Page),
	}, "|")
}

// SearchPage holds a single page of keyword search hits.
type SearchPage struct {
	Movies       []Movie
	TotalResults int
	Found        bool // false when the provider answered "not found"
}

// EmptySearchPage returns the page served when the provider has no hits.
func EmptySearchPage() *SearchPage {
	return &SearchPage{Movies: []Movie{}}
}

// PopularFilters holds the optional filters of the popular list.
type PopularFilters struct {
	Year  string
	Type  MovieType
	Genre string
}

// Normalize trims surrounding whitespace from every filter.
func (f *PopularFilters) Normalize() {
	f.Year = strings.TrimSpace(f.Year)
	f.Type = MovieType(strings.TrimSpace(string(f.Type)))
	f.Genre = strings.TrimSpace(f.Genre)
}

// HasGenre returns true if a genre filter is active.
func (f PopularFilters) HasGenre() bool {
	return f.Genre != ""
}

// IsEmpty returns true if no filter is set.
func (f PopularFilters) IsEmpty() bool {
	return f.Year == "" && f.Type == "" && f.Genre == ""
}

// CacheKey returns a stable key for the filter combination.
func (f PopularFilters) CacheKey() string {
	return "popular:" + strings.Join([]string{
		f.Year,
		string(f.Type),
		strings.ToLower(f.Genre),
	}, "|")
}

// PopularResult is the ranked popular list.
type PopularResult struct {
	Movies   []Movie `json:"movies"`
	Enriched bool    `json:"enriched"` // true when Movies are detail records
}

// Total returns the number of movies in the result.
func (r *PopularResult) Total() int {
	return len(r.Movies)
}

// DetailCacheKey returns the cache key of a detail record.
func DetailCacheKey(id string, plot PlotLength) string {
	return "detail:" + id + "|" + string(plot)
}
