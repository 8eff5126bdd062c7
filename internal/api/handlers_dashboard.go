// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Xerz/drova-dash/internal/analytics"
	"github.com/Xerz/drova-dash/internal/dashboard"
	"github.com/Xerz/drova-dash/internal/models"
)

// Intervals returns the filtered busy intervals, paginated with limit and
// offset (default limit 1000).
//
// @Summary Filtered busy intervals
// @Tags Dashboard
// @Produce json
// @Param limit query int false "Page size (1-10000)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} models.APIResponse{data=[]models.EnrichedInterval}
// @Router /intervals [get]
func (h *Handler) Intervals(w http.ResponseWriter, r *http.Request) {
	page, apiErr := parsePagination(r)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	res, meta, ok := runMetric(h, w, r, "intervals", nil, h.svc.Intervals)
	if !ok {
		return
	}

	total := len(res.Data)
	from := min(page.Offset, total)
	to := min(from+page.Limit, total)

	meta.Pagination = &models.PaginationInfo{
		Limit:   page.Limit,
		Offset:  page.Offset,
		Total:   total,
		HasMore: to < total,
	}
	respondSuccess(w, http.StatusOK, res.Data[from:to], meta)
}

// Stations returns the station scope of the facets: every station with
// metadata that matches the station facets.
func (h *Handler) Stations(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "stations", h.svc.Stations)
}

// FilterOptions lists the facet values present inside the selected range and
// threshold. The options are not narrowed by the facets themselves.
func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "filter_options", h.svc.FilterOptions)
}

// Products returns the product catalog.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Products(r.Context())
	if err != nil {
		respondServiceError(w, r, "products", err)
		return
	}
	respondSuccess(w, http.StatusOK, products, models.Metadata{})
}

// AnalyticsShare returns daily busy-hour shares of the top products.
func (h *Handler) AnalyticsShare(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "product_share", h.svc.ProductShare)
}

// AnalyticsAdoption returns stations newly running each product over the
// last 7 and 30 days of the range.
func (h *Handler) AnalyticsAdoption(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "product_adoption", h.svc.ProductAdoption)
}

// AnalyticsFreeTrial splits busy hours between free trial and paid stations.
func (h *Handler) AnalyticsFreeTrial(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "free_trial", h.svc.FreeTrial)
}

// AnalyticsHeatmap returns busy hours for all 168 weekday and hour cells.
func (h *Handler) AnalyticsHeatmap(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "heatmap", h.svc.Heatmap)
}

// AnalyticsCannibalization compares product shares of the last lookback
// window against the window before it.
func (h *Handler) AnalyticsCannibalization(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "cannibalization", h.svc.Cannibalization)
}

// AnalyticsUtilization relates busy hours to station capacity.
func (h *Handler) AnalyticsUtilization(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "utilization", h.svc.Utilization)
}

// AnalyticsIdle lists stations in scope without sessions.
func (h *Handler) AnalyticsIdle(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "idle", h.svc.Idle)
}

// AnalyticsConcentration returns top-10 shares and HHI.
func (h *Handler) AnalyticsConcentration(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "concentration", h.svc.Concentration)
}

// AnalyticsVolatility returns the variation of daily busy hours.
func (h *Handler) AnalyticsVolatility(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "volatility", h.svc.Volatility)
}

// AnalyticsRetention compares active stations across consecutive windows.
func (h *Handler) AnalyticsRetention(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "retention", h.svc.Retention)
}

// AnalyticsRolling returns trailing-window activity per day.
func (h *Handler) AnalyticsRolling(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "rolling", h.svc.Rolling)
}

// AnalyticsStationRankings ranks stations by busy hours.
func (h *Handler) AnalyticsStationRankings(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "station_rankings", h.svc.StationRankings)
}

// AnalyticsProductRankings ranks products by busy hours.
func (h *Handler) AnalyticsProductRankings(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "product_rankings", h.svc.ProductRankings)
}

// AnalyticsGroupRanking ranks a station attribute named by the {column}
// path parameter, one of city_name, processor, graphic_names, ram_bytes,
// graphic_ram_bytes, product_number or free_trial.
func (h *Handler) AnalyticsGroupRanking(w http.ResponseWriter, r *http.Request) {
	column := analytics.GroupColumn(chi.URLParam(r, "column"))
	if !column.Valid() {
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "Unknown ranking column",
			Details: map[string]any{"field": "column", "value": sanitizeLogValue(string(column))},
		})
		return
	}

	executeMetricWith(h, w, r, "group_ranking", column,
		func(ctx context.Context, q dashboard.Query) (*dashboard.Result[[]models.GroupRankingRow], error) {
			return h.svc.GroupRanking(ctx, q, column)
		})
}

// AnalyticsMap returns session minutes per station location.
func (h *Handler) AnalyticsMap(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "map", h.svc.MapData)
}

// AnalyticsSessionRange returns the first start and last end in the selection.
func (h *Handler) AnalyticsSessionRange(w http.ResponseWriter, r *http.Request) {
	executeMetric(h, w, r, "session_range", h.svc.SessionRange)
}
