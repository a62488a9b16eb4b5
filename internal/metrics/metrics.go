// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

// Package metrics provides Prometheus instrumentation for the
// recommendation serving pipeline:
//   - API endpoint latency and throughput
//   - Feature cache hit/miss rates and write-back failures
//   - Similarity index query performance
//   - Postgres query performance
//   - Cache pre-warm progress
//
// Metrics are exposed at the /metrics endpoint in Prometheus text format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
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
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Feature Cache Metrics
	FeatureCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feature_cache_hits_total",
			Help: "Total number of feature vector cache hits",
		},
	)

	FeatureCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feature_cache_misses_total",
			Help: "Total number of feature vector cache misses",
		},
	)

	FeatureCacheWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feature_cache_write_errors_total",
			Help: "Total number of best-effort cache write-back failures",
		},
	)

	FeatureCacheDecodeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feature_cache_decode_errors_total",
			Help: "Total number of cached payloads treated as misses because they failed to decode",
		},
	)

	// Similarity Index Metrics
	IndexQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "index_query_duration_seconds",
			Help:    "Similarity index query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	IndexState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "index_state",
			Help: "Similarity index lifecycle state (0=unloaded, 1=loading, 2=ready, 3=failed)",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of Postgres queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of Postgres query errors",
		},
		[]string{"operation"},
	)

	// Circuit Breaker Metrics (cache backend)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Pre-warm Metrics
	PrewarmedUsers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prewarmed_users_total",
			Help: "Total number of user feature vectors written during cache pre-warming",
		},
	)

	PrewarmBatchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prewarm_batch_errors_total",
			Help: "Total number of failed pre-warm batches",
		},
	)
)

// RecordDBQuery records duration and outcome of a Postgres query.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordIndexQuery records the duration of a similarity index query.
func RecordIndexQuery(duration time.Duration) {
	IndexQueryDuration.Observe(duration.Seconds())
}
