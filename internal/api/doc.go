// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package api exposes the dashboard over HTTP using the Chi router.

Every dashboard endpoint accepts the same query parameters, parsed into a
DashboardQuery and validated with go-playground/validator:

	start, end           selected range, YYYY-MM-DD (default: last 30 days)
	threshold_hours      maximum session length kept, 4..30 (default 30)
	window_days          rolling window, 1..90 (default min(7, range, 90))
	top_n                top products for share, adoption and cannibalization
	lookback_days        cannibalization lookback, 1..90 (default 7)
	stations, products   comma-separated uuids and product ids
	cities, processors   comma-separated station attributes
	graphics             comma-separated graphic card names
	free_trial_only      true keeps free trial stations only
	product_number_min/_max, ram_min/_max, graphic_ram_min/_max

Responses use the models.APIResponse envelope. Metric results carry the
resolved time controls, the number of intervals and stations in scope and
the time the dataset was loaded in the metadata:

	{
	  "status": "success",
	  "data": [...],
	  "metadata": {
	    "timestamp": "2026-03-20T15:30:00Z",
	    "query_time_ms": 4,
	    "cached": false,
	    "controls": {"threshold_hours": 30, ...},
	    "intervals": 1532,
	    "stations_in_scope": 41,
	    "dataset_loaded_at": "2026-03-20T15:29:58Z"
	  }
	}

Errors use the same envelope with status "error" and a machine-readable
code: VALIDATION_ERROR (400), NOT_FOUND (404), CONFLICT (409),
RATE_LIMIT_EXCEEDED (429), DATABASE_ERROR (500), SERVICE_UNAVAILABLE (503)
or INTERNAL_ERROR (500).

Computed results are kept in a bounded LRU keyed by the metric name, the
resolved query and the dataset load time, so a dataset reload never serves
stale results.

Routes:

	GET  /metrics
	GET  /api/v1/health, /health/live, /health/ready, /health/performance
	GET  /api/v1/intervals                       paginated with limit/offset
	GET  /api/v1/stations, /products, /filters/options
	GET  /api/v1/analytics/{metric}
	GET  /api/v1/analytics/rankings/groups/{column}
	GET  /api/v1/admin/refresh                   refresh status
	POST /api/v1/admin/refresh                   queue a server_info refresh
*/
package api
