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

// Volatility describes the stability of daily busy hours for the network, for
// each city and for each station. Daily series span the observed date range
// with missing days counted as 0; std is the population std.
func Volatility(rows []models.EnrichedInterval) models.Volatility {
	result := models.Volatility{
		Cities:   []models.VolatilityRow{},
		Stations: []models.VolatilityRow{},
	}

	base := make([]datedRow, 0, len(rows))
	for _, r := range withDuration(rows) {
		if r.row.UUID != "" {
			base = append(base, r)
		}
	}
	if len(base) == 0 {
		return result
	}

	dates := DateRange(minDate(base), maxDate(base))
	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}

	network := make([]float64, len(dates))
	for i := range base {
		network[index[base[i].date]] += hours(base[i].duration)
	}
	mean, std := meanStd(network)
	result.Summary = models.VolatilitySummary{
		NetworkMeanDailyHours: mean,
		NetworkStdDailyHours:  std,
		NetworkCVPct:          pct(std, mean),
	}

	result.Cities = volatilityBy(base, index, len(dates), func(r *models.EnrichedInterval) string {
		return orUnknown(r.CityName)
	})
	result.Stations = volatilityBy(base, index, len(dates), func(r *models.EnrichedInterval) string {
		return orUnknown(r.UUID)
	})
	return result
}

func volatilityBy(base []datedRow, index map[time.Time]int, span int, group func(*models.EnrichedInterval) string) []models.VolatilityRow {
	series := make(map[string][]float64)
	for i := range base {
		g := group(base[i].row)
		s, ok := series[g]
		if !ok {
			s = make([]float64, span)
			series[g] = s
		}
		s[index[base[i].date]] += hours(base[i].duration)
	}

	out := make([]models.VolatilityRow, 0, len(series))
	for _, g := range sortedKeys(series) {
		s := series[g]
		mean, std := meanStd(s)
		total, active := 0.0, 0
		for _, v := range s {
			total += v
			if v > 0 {
				active++
			}
		}
		out = append(out, models.VolatilityRow{
			Group:          g,
			TotalHours:     total,
			MeanDailyHours: mean,
			StdDailyHours:  std,
			CVPct:          pct(std, mean),
			ActiveDays:     active,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CVPct > out[j].CVPct
	})
	return out
}
