package dto

import (
	"strconv"

	"movie-search-service/internal/domain"
)

// Envelope flags.
const (
	ResponseTrue  = "True"
	ResponseFalse = "False"
)

// SearchResponse is the movie list envelope shared by search and popular
// responses. Field names follow the upstream provider.
type SearchResponse struct {
	Search       []domain.Movie `json:"Search"`
	TotalResults string         `json:"totalResults"`
	Response     string         `json:"Response"`
}

// FromSearchPage converts domain.SearchPage to SearchResponse.
func FromSearchPage(page *domain.SearchPage) SearchResponse {
	if !page.Found {
		return SearchResponse{
			Search:       []domain.Movie{},
			TotalResults: "0",
			Response:     ResponseFalse,
		}
	}

	return SearchResponse{
		Search:       nonNil(page.Movies),
		TotalResults: strconv.Itoa(page.TotalResults),
		Response:     ResponseTrue,
	}
}

// FromPopularResult converts domain.PopularResult to SearchResponse.
// totalResults is the length of the returned page, not an upstream total.
func FromPopularResult(result *domain.PopularResult) SearchResponse {
	return SearchResponse{
		Search:       nonNil(result.Movies),
		TotalResults: strconv.Itoa(result.Total()),
		Response:     ResponseTrue,
	}
}

func nonNil(movies []domain.Movie) []domain.Movie {
	if movies == nil {
		return []domain.Movie{}
	}
	return movies
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
