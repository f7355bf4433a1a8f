package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamUnavailable is returned when the provider could not be reached,
	// answered with an HTTP error, or the circuit breaker is open.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrAggregationFailed is returned when the popular pipeline itself breaks.
	ErrAggregationFailed = errors.New("aggregation failed")

	// ErrEmptyQuery is returned when a keyword search has no term.
	ErrEmptyQuery = errors.New("search term is required")
)

// RejectedError is returned when the provider answers with an explicit
// failure envelope, e.g. "Movie not found!".
type RejectedError struct {
	Message string
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	return fmt.Sprintf("upstream rejected request: %s", e.Message)
}

// IsRejected reports whether err carries a RejectedError.
func IsRejected(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}
