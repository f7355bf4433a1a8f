package omdb

import (
	"strconv"

	"movie-search-service/internal/domain"
)

// responseFalse marks a failure envelope.
const responseFalse = "False"

// SearchResponse represents the JSON response of a keyword search.
type SearchResponse struct {
	Search       []SearchItem `json:"Search"`
	TotalResults string       `json:"totalResults"`
	Response     string       `json:"Response"`
	Error        string       `json:"Error,omitempty"`
}

// SearchItem represents a single search hit.
type SearchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDBID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// RatingItem is a third-party rating of a detail record.
type RatingItem struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// DetailResponse represents the JSON response of a detail fetch.
type DetailResponse struct {
	Title      string       `json:"Title"`
	Year       string       `json:"Year"`
	Rated      string       `json:"Rated"`
	Released   string       `json:"Released"`
	Runtime    string       `json:"Runtime"`
	Genre      string       `json:"Genre"`
	Director   string       `json:"Director"`
	Writer     string       `json:"Writer"`
	Actors     string       `json:"Actors"`
	Plot       string       `json:"Plot"`
	Language   string       `json:"Language"`
	Country    string       `json:"Country"`
	Awards     string       `json:"Awards"`
	Poster     string       `json:"Poster"`
	Ratings    []RatingItem `json:"Ratings"`
	Metascore  string       `json:"Metascore"`
	IMDBRating string       `json:"imdbRating"`
	IMDBVotes  string       `json:"imdbVotes"`
	IMDBID     string       `json:"imdbID"`
	Type       string       `json:"Type"`
	BoxOffice  string       `json:"BoxOffice"`
	Response   string       `json:"Response"`
	Error      string       `json:"Error,omitempty"`
}

// Succeeded returns true if the envelope carries a hit list.
func (r *SearchResponse) Succeeded() bool {
	return r.Response != responseFalse && r.Search != nil
}

// Total parses totalResults. Unparseable values fall back to the page size.
func (r *SearchResponse) Total() int {
	total, err := strconv.Atoi(r.TotalResults)
	if err != nil {
		return len(r.Search)
	}
	return total
}

// ToDomain converts the hit list to a search page.
func (r *SearchResponse) ToDomain() *domain.SearchPage {
	movies := make([]domain.Movie, 0, len(r.Search))
	for _, item := range r.Search {
		movies = append(movies, item.ToDomain())
	}

	return &domain.SearchPage{
		Movies:       movies,
		TotalResults: r.Total(),
		Found:        true,
	}
}

// ToDomain converts a SearchItem to a summary domain.Movie.
func (i *SearchItem) ToDomain() domain.Movie {
	return domain.Movie{
		ID:     i.IMDBID,
		Title:  i.Title,
		Year:   i.Year,
		Type:   domain.MovieType(i.Type),
		Poster: i.Poster,
	}
}

// Succeeded returns true if the envelope carries a record.
func (r *DetailResponse) Succeeded() bool {
	return r.Response != responseFalse
}

// ToDomain converts a DetailResponse to a full domain.Movie.
func (r *DetailResponse) ToDomain() *domain.Movie {
	var ratings []domain.Rating
	if len(r.Ratings) > 0 {
		ratings = make([]domain.Rating, len(r.Ratings))
		for i, rt := range r.Ratings {
			ratings[i] = domain.Rating{Source: rt.Source, Value: rt.Value}
		}
	}

	return &domain.Movie{
		ID:         r.IMDBID,
		Title:      r.Title,
		Year:       r.Year,
		Type:       domain.MovieType(r.Type),
		Poster:     r.Poster,
		Rated:      r.Rated,
		Released:   r.Released,
		Runtime:    r.Runtime,
		Genre:      r.Genre,
		Director:   r.Director,
		Writer:     r.Writer,
		Actors:     r.Actors,
		Plot:       r.Plot,
		Language:   r.Language,
		Country:    r.Country,
		Awards:     r.Awards,
		Ratings:    ratings,
		Metascore:  r.Metascore,
		IMDBRating: r.IMDBRating,
		IMDBVotes:  r.IMDBVotes,
		BoxOffice:  r.BoxOffice,
	}
}
