// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"strings"

	"movie-search-service/internal/domain"
)

// SearchRequest represents the query parameters of a keyword search.
type SearchRequest struct {
	Query string `query:"q" validate:"max=200"`
	Year  string `query:"y" validate:"omitempty,year"`
	Type  string `query:"type" validate:"omitempty,oneof=movie series episode"`
	Page  int    `query:"page" validate:"omitempty,min=1,max=100"`
}

// HasQuery reports whether a non-blank search term was given.
func (r *SearchRequest) HasQuery() bool {
	return strings.TrimSpace(r.Query) != ""
}

// ToSearchQuery converts SearchRequest to domain.SearchQuery.
func (r *SearchRequest) ToSearchQuery() domain.SearchQuery {
	q := domain.SearchQuery{
		Term: r.Query,
		Year: r.Year,
		Type: domain.MovieType(r.Type),
		Page: r.Page,
	}
	q.Normalize()

	return q
}

// PopularRequest represents the query parameters of the popular list.
type PopularRequest struct {
	Year  string `query:"y" validate:"omitempty,year"`
	Type  string `query:"type" validate:"omitempty,oneof=movie series episode"`
	Genre string `query:"genre" validate:"max=50"`
}

// ToFilters converts PopularRequest to domain.PopularFilters.
func (r *PopularRequest) ToFilters() domain.PopularFilters {
	f := domain.PopularFilters{
		Year:  r.Year,
		Type:  domain.MovieType(r.Type),
		Genre: r.Genre,
	}
	f.Normalize()

	return f
}

// DetailRequest represents the path parameters of a detail lookup.
type DetailRequest struct {
	ID string `params:"id" validate:"required,imdbid"`
}

// BrowseRequest represents the query parameters of the HTML movie list.
// A long enough query switches the page from the popular list to search.
type BrowseRequest struct {
	Query string `query:"q" validate:"max=200"`
	Year  string `query:"y" validate:"omitempty,year"`
	Type  string `query:"type" validate:"omitempty,oneof=movie series episode"`
	Genre string `query:"genre" validate:"max=50"`
	Page  int    `query:"page" validate:"omitempty,min=1,max=100"`
}

// IsSearch reports whether the request should run a keyword search.
func (r *BrowseRequest) IsSearch(minQueryLength int) bool {
	return len([]rune(strings.TrimSpace(r.Query))) >= minQueryLength
}

// SearchRequest returns the keyword search part of the request.
func (r *BrowseRequest) SearchRequest() SearchRequest {
	return SearchRequest{Query: r.Query, Year: r.Year, Type: r.Type, Page: r.Page}
}

// PopularRequest returns the popular-list part of the request.
func (r *BrowseRequest) PopularRequest() PopularRequest {
	return PopularRequest{Year: r.Year, Type: r.Type, Genre: r.Genre}
}
