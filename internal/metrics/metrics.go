// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraliga_upstream_requests_total",
			Help: "Total upstream API requests by endpoint and outcome",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extraliga_upstream_request_duration_seconds",
			Help:    "Upstream API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	UpstreamRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "extraliga_upstream_retries_total",
			Help: "Total upstream request retries",
		},
	)

	AggregationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraliga_aggregation_runs_total",
			Help: "Total rating aggregation runs by outcome",
		},
		[]string{"status"},
	)

	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "extraliga_aggregation_duration_seconds",
			Help:    "Rating aggregation run duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "extraliga_cache_hits_total",
			Help: "Total cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "extraliga_cache_misses_total",
			Help: "Total cache misses",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extraliga_http_requests_total",
			Help: "Total HTTP API requests by route and status code",
		},
		[]string{"route", "code"},
	)
)

// RecordUpstreamRequest records one upstream call.
func RecordUpstreamRequest(endpoint, status string, seconds float64) {
	UpstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

// RecordUpstreamRetry counts one retry attempt.
func RecordUpstreamRetry() {
	UpstreamRetriesTotal.Inc()
}

// RecordAggregation records one aggregation run.
func RecordAggregation(status string, seconds float64) {
	AggregationRunsTotal.WithLabelValues(status).Inc()
	AggregationDuration.Observe(seconds)
}

// RecordCacheHit counts a cache hit.
func RecordCacheHit() { CacheHitsTotal.Inc() }

// RecordCacheMiss counts a cache miss.
func RecordCacheMiss() { CacheMissesTotal.Inc() }

// RecordHTTPRequest counts one served API request.
func RecordHTTPRequest(route, code string) {
	HTTPRequestsTotal.WithLabelValues(route, code).Inc()
}
