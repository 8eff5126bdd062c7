// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/Xerz/drova-dash/internal/models"
)

const secondsPerHour = 3600.0

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange returns every day from start to end inclusive.
func DateRange(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return []time.Time{}
	}
	days := int(end.Sub(start).Hours()/24) + 1
	out := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// daysBetween is the inclusive day count of [start, end].
func daysBetween(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)).Hours()/24) + 1
}

func hours(sec float64) float64 {
	return sec / secondsPerHour
}

// ratio divides and maps a zero denominator and NaN/Inf to 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return finite(num / den)
}

func pct(num, den float64) float64 {
	return ratio(num, den) * 100.0
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func orUnknown(s string) string {
	if s == "" {
		return models.UnknownLabel
	}
	return s
}

// datedRow is a row with a known duration and its start day.
type datedRow struct {
	row      *models.EnrichedInterval
	date     time.Time
	duration float64
}

// withDuration selects rows that have a duration, tagging each with its start day.
func withDuration(rows []models.EnrichedInterval) []datedRow {
	out := make([]datedRow, 0, len(rows))
	for i := range rows {
		d, ok := rows[i].Duration()
		if !ok || rows[i].StartedAt.IsZero() {
			continue
		}
		out = append(out, datedRow{row: &rows[i], date: Day(rows[i].StartedAt), duration: d})
	}
	return out
}

// maxDate returns the latest start day of the rows.
func maxDate(rows []datedRow) time.Time {
	var end time.Time
	for i := range rows {
		if rows[i].date.After(end) {
			end = rows[i].date
		}
	}
	return end
}

// minDate returns the earliest start day of the rows.
func minDate(rows []datedRow) time.Time {
	start := rows[0].date
	for i := range rows {
		if rows[i].date.Before(start) {
			start = rows[i].date
		}
	}
	return start
}

// window is an inclusive day range.
type window struct {
	start time.Time
	end   time.Time
}

func (w window) contains(d time.Time) bool {
	return !d.Before(w.start) && !d.After(w.end)
}

// trailingWindows returns the current window of n days ending at anchor and
// the n days immediately before it.
func trailingWindows(anchor time.Time, n int) (current, previous window) {
	span := n - 1
	if span < 0 {
		span = 0
	}
	current = window{start: anchor.AddDate(0, 0, -span), end: anchor}
	prevEnd := current.start.AddDate(0, 0, -1)
	previous = window{start: prevEnd.AddDate(0, 0, -span), end: prevEnd}
	return current, previous
}

// productShares returns each product's percentage of busy time inside w.
// An empty window or zero total yields an empty map.
func productShares(rows []datedRow, w window) map[string]float64 {
	perProduct := make(map[string]float64)
	total := 0.0
	for i := range rows {
		if !w.contains(rows[i].date) {
			continue
		}
		perProduct[rows[i].row.ProductID] += rows[i].duration
		total += rows[i].duration
	}
	if total <= 0 {
		return map[string]float64{}
	}
	for k, v := range perProduct {
		perProduct[k] = v / total * 100.0
	}
	return perProduct
}

// meanStd returns the mean and population standard deviation.
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	sq := 0.0
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

// quantile computes the q-th quantile of values with linear interpolation
// between closest ranks.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// sortedKeys returns map keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncate[T any](rows []T, n int) []T {
	if n >= 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}
