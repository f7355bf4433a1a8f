package domain

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ratingPrefix matches the leading decimal number of a rating ("7.1/10" -> "7.1").
var ratingPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseRating converts a provider rating string to a number using its
// leading decimal number, so "7.1/10" and "8.5 stars" rank as 7.1 and 8.5.
// "N/A", empty, non-numeric and non-finite values parse to 0.
func ParseRating(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == NotAvailable {
		return 0
	}

	num := ratingPrefix.FindString(raw)
	if num == "" {
		return 0
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}

	return value
}

// RankByRating sorts movies by descending rating in place.
// Movies with equal ratings keep their relative order.
func RankByRating(movies []Movie) {
	slices.SortStableFunc(movies, func(a, b Movie) int {
		ra, rb := ParseRating(a.IMDBRating), ParseRating(b.IMDBRating)
		switch {
		case ra > rb:
			return -1
		case ra < rb:
			return 1
		default:
			return 0
		}
	})
}

// Truncate returns at most limit leading movies.
func Truncate(movies []Movie, limit int) []Movie {
	return head(movies, limit)
}
