// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Provider Metrics
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_provider_requests_total",
			Help: "Total number of upstream provider calls",
		},
		[]string{"provider", "operation", "result"}, // result: "success", "error", "skipped"
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "news_provider_request_duration_seconds",
			Help:    "Duration of upstream provider calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	ProviderArticles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_provider_articles_total",
			Help: "Articles accepted from each provider after dedupe",
		},
		[]string{"provider"},
	)

	ProviderMalformedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_provider_malformed_records_total",
			Help: "Provider records skipped because required fields were missing",
		},
		[]string{"provider"},
	)

	AggregatorFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "news_aggregator_demo_fallbacks_total",
			Help: "Number of fetches answered from the demo article set",
		},
	)

	QuotaRemaining = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "news_provider_quota_remaining",
			Help: "Calls remaining in the current quota window",
		},
		[]string{"provider"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"backend"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Cache backend errors (reported as misses to callers)",
		},
		[]string{"backend", "operation"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Entries removed by capacity or expiry",
		},
		[]string{"backend", "reason"}, // reason: "capacity", "expired"
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Embedding Metrics
	EmbeddingResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_resolutions_total",
			Help: "Embedding lookups by the tier that answered them",
		},
		[]string{"source"}, // source: "cache", "datastore", "computed", "unavailable"
	)

	EmbeddingComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_compute_duration_seconds",
			Help:    "Duration of embedding model calls in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"tier"},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Recommendation requests by algorithm and cache result",
		},
		[]string{"algorithm", "cache"}, // cache: "hit", "miss"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Recommendation computation time in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"algorithm"},
	)

	RecommendResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_results",
			Help:    "Number of articles returned per recommendation call",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		},
		[]string{"algorithm"},
	)

	RecommendTimeouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_algorithm_timeouts_total",
			Help: "Hybrid sub-algorithm calls abandoned on timeout",
		},
		[]string{"algorithm"},
	)

	// Interaction Metrics
	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_interactions_recorded_total",
			Help: "User interactions appended to the datastore",
		},
		[]string{"type"},
	)

	// Ingest Metrics
	IngestRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_runs_total",
			Help: "Background ingest cycles",
		},
		[]string{"result"},
	)

	IngestArticles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_articles_total",
			Help: "Articles persisted by the ingest service",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Requests currently being served",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordProviderCall records one upstream provider call.
func RecordProviderCall(provider, operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ProviderRequests.WithLabelValues(provider, operation, result).Inc()
	ProviderRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordProviderSkipped records a provider passed over for quota or an open circuit.
func RecordProviderSkipped(provider, operation string) {
	ProviderRequests.WithLabelValues(provider, operation, "skipped").Inc()
}

// RecordRecommendation records one engine call.
func RecordRecommendation(algorithm string, cached bool, duration time.Duration, results int) {
	cache := "miss"
	if cached {
		cache = "hit"
	}
	RecommendRequests.WithLabelValues(algorithm, cache).Inc()
	RecommendResults.WithLabelValues(algorithm).Observe(float64(results))
	if !cached {
		RecommendDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	}
}
