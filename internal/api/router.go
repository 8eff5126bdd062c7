// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Xerz/drova-dash/internal/middleware"
)

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// routePattern returns the chi route pattern matched so far, or the path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// Applied to all routes in order
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(chimiddleware.Compress(5, "application/json"))
	r.Use(h.perfMon.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
		r.Get("/performance", h.HealthPerformance)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/intervals", h.Intervals)
		r.Get("/stations", h.Stations)
		r.Get("/products", h.Products)
		r.Get("/filters/options", h.FilterOptions)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/share", h.AnalyticsShare)
			r.Get("/adoption", h.AnalyticsAdoption)
			r.Get("/free-trial", h.AnalyticsFreeTrial)
			r.Get("/heatmap", h.AnalyticsHeatmap)
			r.Get("/cannibalization", h.AnalyticsCannibalization)
			r.Get("/utilization", h.AnalyticsUtilization)
			r.Get("/idle", h.AnalyticsIdle)
			r.Get("/concentration", h.AnalyticsConcentration)
			r.Get("/volatility", h.AnalyticsVolatility)
			r.Get("/retention", h.AnalyticsRetention)
			r.Get("/rolling", h.AnalyticsRolling)
			r.Get("/rankings/stations", h.AnalyticsStationRankings)
			r.Get("/rankings/products", h.AnalyticsProductRankings)
			r.Get("/rankings/groups/{column}", h.AnalyticsGroupRanking)
			r.Get("/map", h.AnalyticsMap)
			r.Get("/session-range", h.AnalyticsSessionRange)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitAdmin())
			r.Get("/refresh", h.RefreshStatus)
			r.Post("/refresh", h.TriggerRefresh)
		})
	})

	return r
}
