// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream call outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailure  = "failure"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movie_search_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "movie_search_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movie_search_upstream_requests_total",
		Help: "Total number of calls to the movie metadata provider",
	}, []string{"provider", "operation", "outcome"})

	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "movie_search_upstream_request_duration_seconds",
		Help:    "Duration of calls to the movie metadata provider in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "operation"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movie_search_cache_lookups_total",
		Help: "Total number of response cache lookups",
	}, []string{"kind", "result"})

	PopularCandidates = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "movie_search_popular_candidates",
		Help:    "Number of candidates at each stage of the popular pipeline",
		Buckets: []float64{0, 5, 10, 20, 30, 45, 60},
	}, []string{"stage"})
)

// ObserveCache records one cache lookup.
func ObserveCache(kind, result string) {
	CacheLookupsTotal.WithLabelValues(kind, result).Inc()
}

// ObservePopularStage records the candidate count of a pipeline stage.
func ObservePopularStage(stage string, count int) {
	PopularCandidates.WithLabelValues(stage).Observe(float64(count))
}
