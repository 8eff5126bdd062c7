// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package api

import (
	"net/http"
	"time"

	"github.com/Xerz/drova-dash/internal/models"
)

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status            string     `json:"status"`
	Version           string     `json:"version"`
	DatabaseConnected bool       `json:"database_connected"`
	DatasetLoadedAt   *time.Time `json:"dataset_loaded_at,omitempty"`
	DatasetIntervals  int        `json:"dataset_intervals"`
	LastRefreshAt     *time.Time `json:"last_refresh_at,omitempty"`
	Uptime            float64    `json:"uptime"`
}

// Health reports database connectivity, the cached dataset and the last
// server_info refresh. It always returns 200; status is "degraded" when the
// database is unreachable.
//
// @Summary Get system health status
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	health := HealthStatus{
		Status:            "healthy",
		Version:           h.version,
		DatabaseConnected: dbConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if !dbConnected {
		health.Status = "degraded"
	}

	// Health never triggers a dataset load.
	if ds, ok := h.svc.Loaded(); ok {
		loadedAt := ds.LoadedAt
		health.DatasetLoadedAt = &loadedAt
		health.DatasetIntervals = len(ds.Intervals)
	}

	if h.refresh != nil {
		health.LastRefreshAt = h.refresh.Status().LastRunAt
	}

	respondSuccess(w, http.StatusOK, health, models.Metadata{})
}

// HealthLive handles liveness probe requests. It returns 200 while the
// process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}

// HealthReady handles readiness probe requests. It returns 503 until the
// database answers and the dataset can be loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.db == nil || h.db.Ping(r.Context()) == nil
	if ready {
		if _, err := h.svc.Dataset(r.Context()); err != nil {
			ready = false
		}
	}

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondSuccess(w, statusCode, map[string]any{
		"status": status,
		"ready":  ready,
	}, models.Metadata{})
}

// HealthPerformance returns per-route latency statistics over the most
// recent requests.
func (h *Handler) HealthPerformance(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]any{
		"samples":   h.perfMon.Len(),
		"endpoints": h.perfMon.GetStats(),
	}, models.Metadata{})
}
