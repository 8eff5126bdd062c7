// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Xerz/drova-dash/internal/cache"
	"github.com/Xerz/drova-dash/internal/dashboard"
	"github.com/Xerz/drova-dash/internal/metrics"
	"github.com/Xerz/drova-dash/internal/models"
)

// MetricFunc computes one dashboard metric for a resolved query.
type MetricFunc[T any] func(ctx context.Context, q dashboard.Query) (*dashboard.Result[T], error)

// resultKey identifies a computed result. The dataset load time is part of
// the key, so results computed before a reload are never served after it.
type resultKey struct {
	Query    dashboard.Query `json:"query"`
	Extra    any             `json:"extra,omitempty"`
	LoadedAt time.Time       `json:"loaded_at"`
}

// runMetric implements the cache-first flow shared by metric handlers:
//
//  1. Parse and validate the dashboard query parameters
//  2. Resolve defaults and look up the dataset load time
//  3. Return a cached result for the same query and dataset if present
//  4. Otherwise compute the metric and cache it
//
// extra distinguishes handlers that pass more than the query to the
// service, such as the ranking column. On failure runMetric writes the
// error response and returns ok == false.
func runMetric[T any](h *Handler, w http.ResponseWriter, r *http.Request, metric string, extra any, fn MetricFunc[T]) (res *dashboard.Result[T], meta models.Metadata, ok bool) {
	params, apiErr := parseDashboardQuery(r)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return nil, meta, false
	}

	start := time.Now()
	q := h.svc.Resolve(params.ToQuery())

	ds, err := h.svc.Dataset(r.Context())
	if err != nil {
		respondServiceError(w, r, metric, err)
		return nil, meta, false
	}

	key := cache.GenerateKey(metric, resultKey{Query: q, Extra: extra, LoadedAt: ds.LoadedAt})
	if v, found := h.results.Get(key); found {
		if cached, isT := v.(*dashboard.Result[T]); isT {
			metrics.RecordCacheLookup("results", true)
			return cached, resultMetadata(cached.Summary, true, 0), true
		}
	}
	metrics.RecordCacheLookup("results", false)

	res, err = fn(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, metric, err)
		return nil, meta, false
	}

	// The dataset may have been reloaded while computing.
	if !res.LoadedAt.Equal(ds.LoadedAt) {
		key = cache.GenerateKey(metric, resultKey{Query: q, Extra: extra, LoadedAt: res.LoadedAt})
	}
	h.results.Add(key, res)

	return res, resultMetadata(res.Summary, false, time.Since(start).Milliseconds()), true
}

// executeMetric runs a metric and responds with its data.
func executeMetric[T any](h *Handler, w http.ResponseWriter, r *http.Request, metric string, fn MetricFunc[T]) {
	executeMetricWith(h, w, r, metric, nil, fn)
}

// executeMetricWith is executeMetric for handlers with extra cache key input.
func executeMetricWith[T any](h *Handler, w http.ResponseWriter, r *http.Request, metric string, extra any, fn MetricFunc[T]) {
	res, meta, ok := runMetric(h, w, r, metric, extra, fn)
	if !ok {
		return
	}
	respondSuccess(w, http.StatusOK, res.Data, meta)
}

func resultMetadata(s dashboard.Summary, cached bool, queryTimeMS int64) models.Metadata {
	intervals, scope, loadedAt := s.Intervals, s.StationsInScope, s.LoadedAt
	return models.Metadata{
		QueryTimeMS:     queryTimeMS,
		Cached:          cached,
		Controls:        s.Controls,
		Intervals:       &intervals,
		StationsInScope: &scope,
		DatasetLoadedAt: &loadedAt,
	}
}
