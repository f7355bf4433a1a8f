// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"strings"
)

// NotAvailable is the sentinel the upstream provider uses for missing values.
const NotAvailable = "N/A"

// MovieType represents the kind of title.
type MovieType string

const (
	MovieTypeMovie   MovieType = "movie"
	MovieTypeSeries  MovieType = "series"
	MovieTypeEpisode MovieType = "episode"
)

// Rating is a single third-party rating attached to a detail record.
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// Movie is the unified movie record.
//
// A keyword search only fills the summary fields (ID, Title, Year, Type,
// Poster). A detail fetch fills the rest. Field names follow the upstream
// provider so records can be served to clients unchanged.
type Movie struct {
	// Summary fields
	ID     string    `json:"imdbID"`
	Title  string    `json:"Title"`
	Year   string    `json:"Year"`
	Type   MovieType `json:"Type"`
	Poster string    `json:"Poster"`

	// Detail fields
	Rated      string   `json:"Rated,omitempty"`
	Released   string   `json:"Released,omitempty"`
	Runtime    string   `json:"Runtime,omitempty"`
	Genre      string   `json:"Genre,omitempty"`
	Director   string   `json:"Director,omitempty"`
	Writer     string   `json:"Writer,omitempty"`
	Actors     string   `json:"Actors,omitempty"`
	Plot       string   `json:"Plot,omitempty"`
	Language   string   `json:"Language,omitempty"`
	Country    string   `json:"Country,omitempty"`
	Awards     string   `json:"Awards,omitempty"`
	Ratings    []Rating `json:"Ratings,omitempty"`
	Metascore  string   `json:"Metascore,omitempty"`
	IMDBRating string   `json:"imdbRating,omitempty"`
	IMDBVotes  string   `json:"imdbVotes,omitempty"`
	BoxOffice  string   `json:"BoxOffice,omitempty"`
}

// HasGenre returns true if the movie's genre list is known.
func (m *Movie) HasGenre() bool {
	g := strings.TrimSpace(m.Genre)
	return g != "" && g != NotAvailable
}

// MatchesGenre reports whether the genre list contains genre as a
// case-insensitive substring. Unknown genre lists never match.
func (m *Movie) MatchesGenre(genre string) bool {
	if !m.HasGenre() {
		return false
	}
	return strings.Contains(strings.ToLower(m.Genre), strings.ToLower(genre))
}

// Genres splits the comma-separated genre list.
func (m *Movie) Genres() []string {
	if !m.HasGenre() {
		return nil
	}
	parts := strings.Split(m.Genre, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genres = append(genres, p)
		}
	}
	return genres
}

// HasPoster returns true if the poster URL is usable.
func (m *Movie) HasPoster() bool {
	return m.Poster != "" && m.Poster != NotAvailable
}
