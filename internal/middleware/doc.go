// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package middleware provides the HTTP middleware shared by the API routes.

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge per route
  - PerformanceMonitor: rolling latency percentiles per route, served by
    the health endpoint, with slow request warnings

Middleware here uses the http.HandlerFunc form. The api package adapts it
to chi:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(perfMon.Middleware)

Routes are labelled by their chi route pattern ("/api/v1/analytics/{metric}")
rather than the raw path, so metric label cardinality stays bounded. Outside
a chi router the raw path is used.

All components are safe for concurrent use.
*/
package middleware
