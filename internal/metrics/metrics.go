// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries against the attached SQLite file",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of failed DuckDB queries",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Dashboard Metrics
	DatasetLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_dataset_load_duration_seconds",
			Help:    "Time to load station changes, reconstruct intervals and enrich them",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	DatasetIntervals = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_dataset_intervals",
			Help: "Number of enriched busy intervals in the cached dataset",
		},
	)

	MetricComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_metric_duration_seconds",
			Help:    "Time to compute a dashboard metric over the current selection",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"metric"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Drova API Metrics
	DrovaRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drova_api_requests_total",
			Help: "Total number of requests to the public Drova API",
		},
		[]string{"endpoint", "outcome"},
	)

	DrovaRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drova_api_request_duration_seconds",
			Help:    "Drova API request duration in seconds, including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
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

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Refresh Metrics
	RefreshRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "server_info_refresh_runs_total",
			Help: "Total number of server_info refresh runs",
		},
		[]string{"status"}, // status: "success", "error", "cancelled"
	)

	RefreshStations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "server_info_refresh_stations_total",
			Help: "Stations handled by server_info refresh runs",
		},
		[]string{"outcome"}, // outcome: "saved", "unavailable", "missing_uuid"
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "server_info_refresh_duration_seconds",
			Help:    "Duration of successful server_info refresh runs",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	RefreshLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "server_info_refresh_last_success_timestamp",
			Help: "Unix timestamp of the last successful server_info refresh",
		},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordMetricCompute records how long one dashboard metric took.
func RecordMetricCompute(metric string, duration time.Duration) {
	MetricComputeDuration.WithLabelValues(metric).Observe(duration.Seconds())
}

// RecordDatasetLoad records a dataset rebuild and the resulting interval count.
func RecordDatasetLoad(duration time.Duration, intervals int) {
	DatasetLoadDuration.Observe(duration.Seconds())
	DatasetIntervals.Set(float64(intervals))
}

// RecordCacheLookup counts a hit or miss for the named cache.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}
