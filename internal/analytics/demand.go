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

// HeatmapCells is the fixed size of the demand heatmap (7 weekdays x 24 hours).
const HeatmapCells = 7 * 24

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// FreeTrialImpact splits busy hours between free trial and paid stations per
// day, with network totals and the change of the free trial share between the
// last 7 days and the 7 days before.
func FreeTrialImpact(rows []models.EnrichedInterval) models.FreeTrialImpact {
	result := models.FreeTrialImpact{Daily: []models.FreeTrialDailyRow{}}

	base := withDuration(rows)
	if len(base) == 0 {
		return result
	}

	type split struct{ free, paid float64 }
	perDay := make(map[time.Time]*split)
	for i := range base {
		s, ok := perDay[base[i].date]
		if !ok {
			s = &split{}
			perDay[base[i].date] = s
		}
		if base[i].row.IsFreeTrial() {
			s.free += base[i].duration
		} else {
			s.paid += base[i].duration
		}
	}

	days := make([]time.Time, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	freeTotal, allTotal := 0.0, 0.0
	for _, d := range days {
		s := perDay[d]
		free, paid := hours(s.free), hours(s.paid)
		total := free + paid
		result.Daily = append(result.Daily, models.FreeTrialDailyRow{
			Date:              d,
			FreeTrialHours:    free,
			PaidHours:         paid,
			TotalHours:        total,
			FreeTrialSharePct: pct(free, total),
		})
		freeTotal += free
		allTotal += total
	}

	current, previous := trailingWindows(days[len(days)-1], weekDays)
	var curFree, curTotal, prevFree, prevTotal float64
	for _, row := range result.Daily {
		switch {
		case current.contains(row.Date):
			curFree += row.FreeTrialHours
			curTotal += row.TotalHours
		case previous.contains(row.Date):
			prevFree += row.FreeTrialHours
			prevTotal += row.TotalHours
		}
	}

	result.Summary = models.FreeTrialSummary{
		BusyHoursTotal:          allTotal,
		BusyHoursFreeTrial:      freeTotal,
		FreeTrialSharePct:       pct(freeTotal, allTotal),
		FreeTrialShareDelta7dPP: pct(curFree, curTotal) - pct(prevFree, prevTotal),
	}
	return result
}

// DemandHeatmap sums busy hours by weekday (Monday = 0) and hour of the
// session start. The grid is always complete; empty cells hold 0.
func DemandHeatmap(rows []models.EnrichedInterval) []models.HeatmapCell {
	var grid [7][24]float64
	for _, r := range withDuration(rows) {
		start := r.row.StartedAt.UTC()
		wd := (int(start.Weekday()) + 6) % 7
		grid[wd][start.Hour()] += r.duration
	}

	out := make([]models.HeatmapCell, 0, HeatmapCells)
	for wd := 0; wd < 7; wd++ {
		for h := 0; h < 24; h++ {
			out = append(out, models.HeatmapCell{
				WeekdayNum: wd,
				Weekday:    weekdayNames[wd],
				Hour:       h,
				BusyHours:  hours(grid[wd][h]),
			})
		}
	}
	return out
}
