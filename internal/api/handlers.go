// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package api

import (
	"context"
	"time"

	"github.com/Xerz/drova-dash/internal/cache"
	"github.com/Xerz/drova-dash/internal/dashboard"
	"github.com/Xerz/drova-dash/internal/middleware"
	"github.com/Xerz/drova-dash/internal/supervisor/services"
)

const (
	// resultCacheSize bounds the number of computed metric results kept.
	resultCacheSize = 512

	defaultResultTTL = 5 * time.Minute
)

// Pinger reports whether the station database is reachable.
// *database.DB satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RefreshController queues server_info refreshes and reports their status.
// *services.RefreshService satisfies it.
type RefreshController interface {
	Trigger() bool
	Status() services.RefreshStatus
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response and parameter helpers
//   - handlers_health.go: health and performance endpoints
//   - handlers_dashboard.go: dashboard metric endpoints
//   - handlers_admin.go: server_info refresh endpoints
type Handler struct {
	svc       *dashboard.Service
	db        Pinger
	refresh   RefreshController
	results   *cache.LRU[any]
	perfMon   *middleware.PerformanceMonitor
	startTime time.Time
	version   string
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

// WithRefresh enables the admin refresh endpoints.
func WithRefresh(rc RefreshController) HandlerOption {
	return func(h *Handler) {
		h.refresh = rc
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) HandlerOption {
	return func(h *Handler) {
		h.version = version
	}
}

// WithResultTTL sets how long computed metric results are reused.
func WithResultTTL(ttl time.Duration) HandlerOption {
	return func(h *Handler) {
		if ttl > 0 {
			h.results = cache.NewLRU[any](resultCacheSize, ttl)
		}
	}
}

// NewHandler creates the API handler. db may be nil, in which case the
// readiness probe only checks the dashboard dataset.
//
// Example:
//
//	handler := api.NewHandler(svc, db, api.WithRefresh(refreshSvc))
//	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))
//	srv := &http.Server{Addr: cfg.Server.Address(), Handler: router.Setup()}
func NewHandler(svc *dashboard.Service, db Pinger, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:       svc,
		db:        db,
		results:   cache.NewLRU[any](resultCacheSize, defaultResultTTL),
		perfMon:   middleware.NewPerformanceMonitor(1000),
		startTime: time.Now(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Invalidate drops the cached dataset and every computed metric result.
// The refresh service calls it after saving new server_info rows.
func (h *Handler) Invalidate() {
	h.svc.Invalidate()
	h.results.Clear()
}
