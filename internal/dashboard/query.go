// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/Xerz/drova-dash/internal/analytics"
	"github.com/Xerz/drova-dash/internal/filter"
	"github.com/Xerz/drova-dash/internal/models"
)

// ErrUnknownGroup is returned for a ranking column that is not a station
// attribute.
var ErrUnknownGroup = errors.New("unknown group column")

// Query selects the rows a metric is computed on. Zero values take the
// configured defaults: the range ends today (UTC) and spans RangeDays
// before it.
type Query struct {
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	ThresholdHours int           `json:"threshold_hours"`
	WindowDays     int           `json:"window_days"`
	TopN           int           `json:"top_n"`
	LookbackDays   int           `json:"lookback_days"`
	Facets         filter.Facets `json:"facets"`
}

// Selection is the outcome of applying a Query to the dataset.
type Selection struct {
	Controls filter.TimeControls
	// Available holds the enriched rows inside the time controls before
	// facets are applied. Filter options are built from it.
	Available []models.EnrichedInterval
	// Rows are the rows that pass every facet.
	Rows []models.EnrichedInterval
	// Scope is the station universe used as utilization and idle denominator.
	Scope    []models.ScopeStation
	Titles   map[string]string
	LoadedAt time.Time
}

// Resolve fills unset fields of q with the configured defaults. Dates are
// day-normalized in UTC. It does not validate ranges.
func (s *Service) Resolve(q Query) Query {
	end := q.End
	if end.IsZero() {
		end = s.now()
	}
	end = analytics.Day(end)

	start := q.Start
	if start.IsZero() {
		start = end.AddDate(0, 0, -s.defaults.RangeDays)
	}
	q.Start, q.End = analytics.Day(start), end

	if q.ThresholdHours == 0 {
		q.ThresholdHours = s.defaults.ThresholdHours
	}
	if q.WindowDays == 0 {
		q.WindowDays = s.defaults.WindowDays
	}
	if q.LookbackDays == 0 {
		q.LookbackDays = s.defaults.LookbackDays
	}
	return q
}

// Query applies time controls, enrichment, facets and station scope.
// It fails only when the dataset cannot be loaded or the controls are out
// of range.
func (s *Service) Query(ctx context.Context, q Query) (*Selection, error) {
	q = s.Resolve(q)

	controls, err := filter.NewTimeControls(q.Start, q.End, q.ThresholdHours, q.WindowDays)
	if err != nil {
		return nil, err
	}

	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	available := filter.Enrich(filter.ApplyTimeFilters(ds.Intervals, controls), ds.Meta)

	return &Selection{
		Controls:  controls,
		Available: available,
		Rows:      filter.ApplyFacets(available, q.Facets),
		Scope:     filter.StationScope(ds.ServerInfo, q.Facets),
		Titles:    ds.Titles,
		LoadedAt:  ds.LoadedAt,
	}, nil
}
