// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package analytics

import (
	"time"

	"github.com/Xerz/drova-dash/internal/models"
)

// RollingWindow reports, for every day, the number of distinct stations active
// in the trailing windowDays days and the busy hours of that window.
//
// The active set is maintained incrementally: entering day d adds one
// reference for each station active on d, leaving day d-windowDays removes
// one, and a station is evicted when its count drops to zero. This costs
// O(daily station appearances) instead of a set union per day.
//
// When both range bounds are given the rows are restricted to the range; a
// range with no data yields one zero row per day. Leading days without a full
// window of history (by range and by first data day) are trimmed.
func RollingWindow(rows []models.EnrichedInterval, windowDays int, rangeStart, rangeEnd *time.Time) []models.RollingWindowRow {
	out := []models.RollingWindowRow{}
	if windowDays < 1 {
		windowDays = 1
	}

	base := make([]datedRow, 0, len(rows))
	for _, r := range withDuration(rows) {
		if r.row.UUID != "" {
			base = append(base, r)
		}
	}
	if len(base) == 0 {
		return out
	}

	hasRange := rangeStart != nil && rangeEnd != nil
	var start, end time.Time
	if hasRange {
		start, end = Day(*rangeStart), Day(*rangeEnd)
		if start.After(end) {
			start, end = end, start
		}
		r := window{start: start, end: end}
		inRange := base[:0:0]
		for _, b := range base {
			if r.contains(b.date) {
				inRange = append(inRange, b)
			}
		}
		base = inRange
		if len(base) == 0 {
			for _, d := range DateRange(start, end) {
				out = append(out, models.RollingWindowRow{Date: d})
			}
			return out
		}
	} else {
		start, end = minDate(base), maxDate(base)
	}

	dailySec := make(map[time.Time]float64)
	dailyStations := make(map[time.Time]map[string]struct{})
	for _, b := range base {
		dailySec[b.date] += b.duration
		set, ok := dailyStations[b.date]
		if !ok {
			set = make(map[string]struct{})
			dailyStations[b.date] = set
		}
		set[b.row.UUID] = struct{}{}
	}

	dates := DateRange(start, end)
	live := make(map[string]int)
	windowSec := 0.0
	rolled := make([]models.RollingWindowRow, 0, len(dates))

	for i, d := range dates {
		for uuid := range dailyStations[d] {
			live[uuid]++
		}
		windowSec += dailySec[d]

		drop := d.AddDate(0, 0, -windowDays)
		for uuid := range dailyStations[drop] {
			if n := live[uuid] - 1; n <= 0 {
				delete(live, uuid)
			} else {
				live[uuid] = n
			}
		}
		if i >= windowDays {
			windowSec -= dailySec[dates[i-windowDays]]
		}

		rolled = append(rolled, models.RollingWindowRow{
			Date:                 d,
			ActiveStationsWindow: len(live),
			PlayedHoursWindow:    hours(clampZero(windowSec)),
		})
	}

	offset := windowDays - 1
	visible := dates[0].AddDate(0, 0, offset)
	if byData := minDate(base).AddDate(0, 0, offset); byData.After(visible) {
		visible = byData
	}
	for _, r := range rolled {
		if !r.Date.Before(visible) {
			out = append(out, r)
		}
	}
	return out
}

// clampZero removes negative float drift left by the running subtraction.
func clampZero(v float64) float64 {
	if v < 1e-9 {
		return 0
	}
	return v
}
