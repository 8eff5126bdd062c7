// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package analytics

import (
	"sort"
	"time"

	"github.com/Xerz/drova-dash/internal/models"
)

// Default table sizes used by the dashboard.
const (
	DefaultShareTopN           = 20
	DefaultAdoptionTopN        = 20
	DefaultCannibalizationTopN = 15
	DefaultLookbackDays        = 7

	weekDays  = 7
	monthDays = 30
)

// ProductShareTrend ranks products by total busy hours and reports each
// product's share of the selection plus its week-over-week and
// month-over-month share change in percentage points.
func ProductShareTrend(rows []models.EnrichedInterval, topN int) []models.ProductShareRow {
	out := []models.ProductShareRow{}

	base := make([]datedRow, 0, len(rows))
	for _, r := range withDuration(rows) {
		if r.row.ProductID != "" {
			base = append(base, r)
		}
	}
	if len(base) == 0 {
		return out
	}

	perProduct := make(map[string]float64)
	total := 0.0
	for i := range base {
		perProduct[base[i].row.ProductID] += base[i].duration
		total += base[i].duration
	}
	if total <= 0 {
		return out
	}

	anchor := maxDate(base)
	wowCur, wowPrev := trailingWindows(anchor, weekDays)
	momCur, momPrev := trailingWindows(anchor, monthDays)
	wowCurShare := productShares(base, wowCur)
	wowPrevShare := productShares(base, wowPrev)
	momCurShare := productShares(base, momCur)
	momPrevShare := productShares(base, momPrev)

	for _, product := range sortedKeys(perProduct) {
		sec := perProduct[product]
		out = append(out, models.ProductShareRow{
			ProductID:     product,
			DurationHours: hours(sec),
			SharePct:      sec / total * 100.0,
			WoWDeltaPP:    wowCurShare[product] - wowPrevShare[product],
			MoMDeltaPP:    momCurShare[product] - momPrevShare[product],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DurationHours > out[j].DurationHours
	})
	return truncate(out, topN)
}

// ProductAdoption counts, per product, the stations whose first session on
// that product started within the trailing 7 and 30 days. Rates divide by the
// number of distinct stations active network-wide in the same window.
func ProductAdoption(rows []models.EnrichedInterval, topN int) []models.ProductAdoptionRow {
	out := []models.ProductAdoptionRow{}

	type pair struct{ product, uuid string }
	firstSeen := make(map[pair]time.Time)
	lastSeen := make(map[string]time.Time)
	var order []string
	seenProduct := make(map[string]bool)
	var anchor time.Time

	for i := range rows {
		r := &rows[i]
		if r.StartedAt.IsZero() || r.ProductID == "" || r.UUID == "" {
			continue
		}
		d := Day(r.StartedAt)
		if d.After(anchor) {
			anchor = d
		}
		key := pair{r.ProductID, r.UUID}
		if first, ok := firstSeen[key]; !ok || d.Before(first) {
			firstSeen[key] = d
		}
		if d.After(lastSeen[r.UUID]) {
			lastSeen[r.UUID] = d
		}
		if !seenProduct[r.ProductID] {
			seenProduct[r.ProductID] = true
			order = append(order, r.ProductID)
		}
	}
	if len(order) == 0 {
		return out
	}

	start7 := anchor.AddDate(0, 0, -(weekDays - 1))
	start30 := anchor.AddDate(0, 0, -(monthDays - 1))

	new7 := make(map[string]int)
	new30 := make(map[string]int)
	for key, first := range firstSeen {
		if !first.Before(start7) {
			new7[key.product]++
		}
		if !first.Before(start30) {
			new30[key.product]++
		}
	}

	// a station is active in a trailing window iff its latest day falls inside it
	active7, active30 := 0, 0
	for _, last := range lastSeen {
		if !last.Before(start7) {
			active7++
		}
		if !last.Before(start30) {
			active30++
		}
	}

	for _, product := range order {
		out = append(out, models.ProductAdoptionRow{
			ProductID:          product,
			NewStations7d:      new7[product],
			NewStations30d:     new30[product],
			AdoptionRate7dPct:  pct(float64(new7[product]), float64(active7)),
			AdoptionRate30dPct: pct(float64(new30[product]), float64(active30)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].NewStations30d != out[j].NewStations30d {
			return out[i].NewStations30d > out[j].NewStations30d
		}
		return out[i].NewStations7d > out[j].NewStations7d
	})
	return truncate(out, topN)
}
