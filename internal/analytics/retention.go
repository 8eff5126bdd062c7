// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package analytics

import (
	"time"

	"github.com/Xerz/drova-dash/internal/models"
)

// RetentionWindows are the window lengths reported by StationRetention.
var RetentionWindows = []int{weekDays, monthDays}

// StationRetention compares the stations active in the trailing window with
// those active in the window before it, for 7 and 30 day windows.
// Open intervals count as activity on their start day.
func StationRetention(rows []models.EnrichedInterval) []models.RetentionRow {
	out := []models.RetentionRow{}

	type activity struct {
		uuid string
		date time.Time
	}
	base := make([]activity, 0, len(rows))
	var anchor time.Time
	for i := range rows {
		if rows[i].UUID == "" || rows[i].StartedAt.IsZero() {
			continue
		}
		d := Day(rows[i].StartedAt)
		if d.After(anchor) {
			anchor = d
		}
		base = append(base, activity{uuid: rows[i].UUID, date: d})
	}
	if len(base) == 0 {
		return out
	}

	for _, w := range RetentionWindows {
		current, previous := trailingWindows(anchor, w)
		cur := make(map[string]struct{})
		prev := make(map[string]struct{})
		for _, a := range base {
			if current.contains(a.date) {
				cur[a.uuid] = struct{}{}
			}
			if previous.contains(a.date) {
				prev[a.uuid] = struct{}{}
			}
		}
		out = append(out, RetentionFromSets(w, prev, cur))
	}
	return out
}

// RetentionFromSets builds a retention row from the previous and current
// active station sets.
func RetentionFromSets(windowDays int, previous, current map[string]struct{}) models.RetentionRow {
	retained := 0
	for uuid := range previous {
		if _, ok := current[uuid]; ok {
			retained++
		}
	}
	return models.RetentionRow{
		WindowDays:             windowDays,
		PreviousActiveStations: len(previous),
		CurrentActiveStations:  len(current),
		RetainedStations:       retained,
		NewStations:            len(current) - retained,
		ChurnedStations:        len(previous) - retained,
		RetentionPct:           pct(float64(retained), float64(len(previous))),
	}
}
