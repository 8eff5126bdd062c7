// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package metrics provides Prometheus metrics for the dashboard server and the
server_info refresher.

All collectors are registered with the default registry through promauto and
are exposed at /metrics:

	curl http://localhost:8501/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Requests by method, route pattern and status code
  - api_request_duration_seconds: Request latency by method and route pattern
  - api_active_requests: Requests in flight
  - api_rate_limit_hits_total: Rejections by the rate limiter

Database Metrics:
  - duckdb_query_duration_seconds: Query time by operation and table
  - duckdb_query_errors_total: Failed queries by operation, table and error

Dashboard Metrics:
  - dashboard_dataset_load_duration_seconds: Dataset rebuild time
  - dashboard_dataset_intervals: Intervals in the cached dataset
  - dashboard_metric_duration_seconds: Compute time per metric
  - cache_hits_total, cache_misses_total: Lookups by cache_type

Drova API Metrics:
  - drova_api_requests_total: Requests by endpoint and outcome
  - drova_api_request_duration_seconds: Request time by endpoint
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests by result
  - circuit_breaker_state_transitions_total: State changes

Refresh Metrics:
  - server_info_refresh_runs_total: Runs by status
  - server_info_refresh_stations_total: Stations by outcome
  - server_info_refresh_duration_seconds: Successful run duration
  - server_info_refresh_last_success_timestamp: Unix time of the last success

# Usage

	start := time.Now()
	rows, err := db.LoadStationChanges(ctx)
	metrics.RecordDBQuery("SELECT", "station_changes", time.Since(start), err)

# Thread Safety

All collectors are safe for concurrent use.
*/
package metrics
