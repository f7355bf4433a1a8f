package domain

import (
	"strings"
)

// Default term pools used to build popular-list searches.
var (
	DefaultQualityTerms = []string{
		"popular", "acclaimed", "award", "winning", "hit",
		"successful", "top", "best", "famous", "great",
	}
	DefaultBaseTerms = []string{"movie", "film", "cinema", "entertainment"}
)

// TermPools configures the search term synthesizer.
type TermPools struct {
	Quality    []string
	Base       []string
	MaxQuality int // quality terms taken from the pool head
	MaxBase    int // base terms taken from the pool head
	MaxTerms   int // overall cap after blank filtering
}

// DefaultTermPools returns the pools used when nothing is configured.
func DefaultTermPools() TermPools {
	return TermPools{
		Quality:    DefaultQualityTerms,
		Base:       DefaultBaseTerms,
		MaxQuality: 5,
		MaxBase:    3,
		MaxTerms:   10,
	}
}

// SynthesizeTerms builds the ordered list of keyword searches for the popular
// list: year first, lower-cased genre second, then the head of the quality
// pool and the head of the base pool. Blank terms are dropped before the
// overall cap is applied.
func (p TermPools) SynthesizeTerms(genre, year string) []string {
	terms := make([]string, 0, 2+p.MaxQuality+p.MaxBase)

	if year != "" {
		terms = append(terms, year)
	}
	if genre != "" {
		terms = append(terms, strings.ToLower(genre))
	}
	terms = append(terms, head(p.Quality, p.MaxQuality)...)
	terms = append(terms, head(p.Base, p.MaxBase)...)

	kept := terms[:0]
	for _, t := range terms {
		if strings.TrimSpace(t) != "" {
			kept = append(kept, t)
		}
	}

	return head(kept, p.MaxTerms)
}

// SynthesizeTerms runs the synthesizer with the default pools.
func SynthesizeTerms(genre, year string) []string {
	return DefaultTermPools().SynthesizeTerms(genre, year)
}

// head returns at most n leading elements. Negative n means no limit.
func head[T any](s []T, n int) []T {
	if n < 0 || n >= len(s) {
		return s
	}
	return s[:n]
}
