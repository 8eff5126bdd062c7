// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Xerz/drova-dash/internal/analytics"
	"github.com/Xerz/drova-dash/internal/filter"
	"github.com/Xerz/drova-dash/internal/metrics"
	"github.com/Xerz/drova-dash/internal/models"
)

// Summary describes the selection a metric was computed on.
type Summary struct {
	Controls        filter.TimeControls `json:"controls"`
	Intervals       int                 `json:"intervals"`
	StationsInScope int                 `json:"stations_in_scope"`
	LoadedAt        time.Time           `json:"dataset_loaded_at"`
}

// Result wraps a metric with the selection it was computed on.
type Result[T any] struct {
	Data T `json:"data"`
	Summary
}

// compute runs fn on the selection for q and records how long it took.
func compute[T any](ctx context.Context, s *Service, metric string, q Query, fn func(*Selection, Query) T) (*Result[T], error) {
	q = s.Resolve(q)
	sel, err := s.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data := fn(sel, q)
	metrics.RecordMetricCompute(metric, time.Since(start))

	return &Result[T]{
		Data: data,
		Summary: Summary{
			Controls:        sel.Controls,
			Intervals:       len(sel.Rows),
			StationsInScope: len(sel.Scope),
			LoadedAt:        sel.LoadedAt,
		},
	}, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// Intervals returns the filtered rows themselves.
func (s *Service) Intervals(ctx context.Context, q Query) (*Result[[]models.EnrichedInterval], error) {
	return compute(ctx, s, "intervals", q, func(sel *Selection, _ Query) []models.EnrichedInterval {
		return sel.Rows
	})
}

// ProductShare computes share trends for the top products.
func (s *Service) ProductShare(ctx context.Context, q Query) (*Result[[]models.ProductShareRow], error) {
	return compute(ctx, s, "product_share", q, func(sel *Selection, q Query) []models.ProductShareRow {
		return analytics.ProductShareTrend(sel.Rows, orDefault(q.TopN, s.defaults.ShareTopN))
	})
}

// ProductAdoption computes new stations per product over 7 and 30 days.
func (s *Service) ProductAdoption(ctx context.Context, q Query) (*Result[[]models.ProductAdoptionRow], error) {
	return compute(ctx, s, "product_adoption", q, func(sel *Selection, q Query) []models.ProductAdoptionRow {
		return analytics.ProductAdoption(sel.Rows, orDefault(q.TopN, s.defaults.AdoptionTopN))
	})
}

// FreeTrial splits busy hours between free trial and paid stations.
func (s *Service) FreeTrial(ctx context.Context, q Query) (*Result[models.FreeTrialImpact], error) {
	return compute(ctx, s, "free_trial", q, func(sel *Selection, _ Query) models.FreeTrialImpact {
		return analytics.FreeTrialImpact(sel.Rows)
	})
}

// Heatmap returns busy hours by weekday and hour.
func (s *Service) Heatmap(ctx context.Context, q Query) (*Result[[]models.HeatmapCell], error) {
	return compute(ctx, s, "heatmap", q, func(sel *Selection, _ Query) []models.HeatmapCell {
		return analytics.DemandHeatmap(sel.Rows)
	})
}

// Cannibalization compares product shares across two lookback windows.
func (s *Service) Cannibalization(ctx context.Context, q Query) (*Result[models.Cannibalization], error) {
	return compute(ctx, s, "cannibalization", q, func(sel *Selection, q Query) models.Cannibalization {
		return analytics.ProductCannibalization(sel.Rows, q.LookbackDays, orDefault(q.TopN, s.defaults.CannibalizationTopN))
	})
}

// Utilization relates busy hours to the capacity of the station scope over
// the selected range.
func (s *Service) Utilization(ctx context.Context, q Query) (*Result[models.Utilization], error) {
	return compute(ctx, s, "utilization", q, func(sel *Selection, _ Query) models.Utilization {
		start, end := sel.Controls.SelectedStart, sel.Controls.SelectedEnd
		return analytics.StationUtilization(sel.Rows, sel.Scope, &start, &end)
	})
}

// Idle lists scope stations without any session in the selection.
func (s *Service) Idle(ctx context.Context, q Query) (*Result[models.IdleStations], error) {
	return compute(ctx, s, "idle", q, func(sel *Selection, _ Query) models.IdleStations {
		return analytics.IdleStations(sel.Rows, sel.Scope)
	})
}

// Concentration returns top-10 shares and HHI for stations and products.
func (s *Service) Concentration(ctx context.Context, q Query) (*Result[models.Concentration], error) {
	return compute(ctx, s, "concentration", q, func(sel *Selection, _ Query) models.Concentration {
		return analytics.Concentration(sel.Rows)
	})
}

// Volatility returns day-to-day variation of busy hours.
func (s *Service) Volatility(ctx context.Context, q Query) (*Result[models.Volatility], error) {
	return compute(ctx, s, "volatility", q, func(sel *Selection, _ Query) models.Volatility {
		return analytics.Volatility(sel.Rows)
	})
}

// Retention compares active stations across consecutive 7 and 30 day windows.
func (s *Service) Retention(ctx context.Context, q Query) (*Result[[]models.RetentionRow], error) {
	return compute(ctx, s, "retention", q, func(sel *Selection, _ Query) []models.RetentionRow {
		return analytics.StationRetention(sel.Rows)
	})
}

// Rolling returns active stations and played hours over a trailing window.
func (s *Service) Rolling(ctx context.Context, q Query) (*Result[[]models.RollingWindowRow], error) {
	return compute(ctx, s, "rolling", q, func(sel *Selection, _ Query) []models.RollingWindowRow {
		start, end := sel.Controls.SelectedStart, sel.Controls.SelectedEnd
		return analytics.RollingWindow(sel.Rows, sel.Controls.RollingWindowDays, &start, &end)
	})
}

// StationRankings ranks stations by busy hours.
func (s *Service) StationRankings(ctx context.Context, q Query) (*Result[[]models.StationRankingRow], error) {
	return compute(ctx, s, "station_rankings", q, func(sel *Selection, _ Query) []models.StationRankingRow {
		return analytics.StationRankings(sel.Rows)
	})
}

// ProductRankings ranks products by busy hours.
func (s *Service) ProductRankings(ctx context.Context, q Query) (*Result[[]models.ProductRankingRow], error) {
	return compute(ctx, s, "product_rankings", q, func(sel *Selection, _ Query) []models.ProductRankingRow {
		return analytics.ProductRankings(sel.Rows)
	})
}

// GroupRanking ranks a station attribute by busy hours. The city column
// also reports hours per station.
func (s *Service) GroupRanking(ctx context.Context, q Query, column analytics.GroupColumn) (*Result[[]models.GroupRankingRow], error) {
	if !column.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, column)
	}
	return compute(ctx, s, "group_ranking", q, func(sel *Selection, _ Query) []models.GroupRankingRow {
		if column == analytics.GroupCity {
			return analytics.CityRanking(sel.Rows)
		}
		return analytics.GroupRanking(sel.Rows, column)
	})
}

// MapData sums session minutes by station coordinates.
func (s *Service) MapData(ctx context.Context, q Query) (*Result[[]models.MapPoint], error) {
	return compute(ctx, s, "map", q, func(sel *Selection, _ Query) []models.MapPoint {
		return analytics.MapData(sel.Rows)
	})
}

// SessionRange returns the first start and last end of the selection.
func (s *Service) SessionRange(ctx context.Context, q Query) (*Result[models.SessionRange], error) {
	return compute(ctx, s, "session_range", q, func(sel *Selection, _ Query) models.SessionRange {
		return analytics.SessionRange(sel.Rows)
	})
}

// Stations returns the station scope of the query.
func (s *Service) Stations(ctx context.Context, q Query) (*Result[[]models.ScopeStation], error) {
	return compute(ctx, s, "stations", q, func(sel *Selection, _ Query) []models.ScopeStation {
		return sel.Scope
	})
}

// FilterOptions lists the facet values available inside the time controls.
func (s *Service) FilterOptions(ctx context.Context, q Query) (*Result[filter.Options], error) {
	return compute(ctx, s, "filter_options", q, func(sel *Selection, _ Query) filter.Options {
		return filter.BuildOptions(sel.Available)
	})
}

// Product is a catalog entry.
type Product struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
}

// Products returns the product catalog sorted by id.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(ds.Titles))
	for id, title := range ds.Titles {
		out = append(out, Product{ProductID: id, Title: title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}
