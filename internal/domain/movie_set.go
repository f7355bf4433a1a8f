package domain

// Candidate is a merged search hit awaiting ranking.
type Candidate struct {
	Movie Movie

	// NeedsGenreCheck marks hits collected under a genre filter. It is
	// bookkeeping for the enrichment step and never leaves the pipeline.
	NeedsGenreCheck bool
}

// MovieSet is an insertion-ordered collection of candidates keyed by
// movie ID. The first insert of an ID wins; later inserts are discarded.
type MovieSet struct {
	index      map[string]struct{}
	candidates []Candidate
}

// NewMovieSet creates an empty MovieSet.
func NewMovieSet() *MovieSet {
	return &MovieSet{
		index: make(map[string]struct{}),
	}
}

// Add inserts the movie if its ID is not present yet.
// Returns true if the movie was inserted.
func (s *MovieSet) Add(movie Movie, needsGenreCheck bool) bool {
	if _, exists := s.index[movie.ID]; exists {
		return false
	}

	s.index[movie.ID] = struct{}{}
	s.candidates = append(s.candidates, Candidate{
		Movie:           movie,
		NeedsGenreCheck: needsGenreCheck,
	})

	return true
}

// Len returns the number of candidates.
func (s *MovieSet) Len() int {
	return len(s.candidates)
}

// Candidates returns the candidates in insertion order.
func (s *MovieSet) Candidates() []Candidate {
	return s.candidates
}

// Movies returns a copy of the candidate movies in insertion order.
func (s *MovieSet) Movies() []Movie {
	movies := make([]Movie, len(s.candidates))
	for i, c := range s.candidates {
		movies[i] = c.Movie
	}
	return movies
}
