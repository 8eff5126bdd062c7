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

// StationUtilization relates busy hours to the capacity of the station scope
// (stations x 24h x days). Days come from the selected range when both bounds
// are given, otherwise from the span of the data. An empty scope falls back to
// the stations seen in rows.
func StationUtilization(rows []models.EnrichedInterval, scope []models.ScopeStation, start, end *time.Time) models.Utilization {
	result := models.Utilization{Cities: []models.CityUtilizationRow{}}

	var days float64
	switch {
	case start != nil && end != nil:
		s, e := Day(*start), Day(*end)
		if e.Before(s) {
			s, e = e, s
		}
		days = float64(daysBetween(s, e))
	case len(rows) == 0:
		return result
	default:
		first, last := rows[0].StartedAt, rows[0].StartedAt
		for i := range rows {
			if rows[i].StartedAt.Before(first) {
				first = rows[i].StartedAt
			}
			if rows[i].StartedAt.After(last) {
				last = rows[i].StartedAt
			}
		}
		days = float64(daysBetween(first, last))
	}

	busySec := 0.0
	busyCity := make(map[string]float64)
	active := make(map[string]struct{})
	activeCity := make(map[string]map[string]struct{})
	for i := range rows {
		city := orUnknown(rows[i].CityName)
		if d, ok := rows[i].Duration(); ok {
			busySec += d
			busyCity[city] += d
		} else if _, seen := busyCity[city]; !seen {
			busyCity[city] = 0
		}
		active[rows[i].UUID] = struct{}{}
		if activeCity[city] == nil {
			activeCity[city] = make(map[string]struct{})
		}
		activeCity[city][rows[i].UUID] = struct{}{}
	}

	stationCount := float64(distinctScope(scope))
	if stationCount <= 0 && len(rows) > 0 {
		stationCount = float64(len(active))
	}
	capacity := 0.0
	if days > 0 {
		capacity = stationCount * 24.0 * days
	}

	result.Summary = models.UtilizationSummary{
		BusyHours:      hours(busySec),
		StationCount:   stationCount,
		Days:           days,
		CapacityHours:  capacity,
		UtilizationPct: pct(hours(busySec), capacity),
	}
	if len(rows) == 0 {
		return result
	}

	stationsCity := make(map[string]int)
	if len(scope) == 0 {
		for city, set := range activeCity {
			stationsCity[city] = len(set)
		}
	} else {
		seen := make(map[string]struct{})
		for _, st := range scope {
			if _, dup := seen[st.UUID]; dup {
				continue
			}
			seen[st.UUID] = struct{}{}
			stationsCity[orUnknown(st.CityName)]++
		}
	}

	for _, city := range sortedKeys(busyCity) {
		count := float64(stationsCity[city])
		capHours := count * 24.0 * days
		busy := hours(busyCity[city])
		result.Cities = append(result.Cities, models.CityUtilizationRow{
			City:           city,
			BusyHours:      busy,
			StationCount:   count,
			CapacityHours:  capHours,
			UtilizationPct: pct(busy, capHours),
		})
	}
	sort.SliceStable(result.Cities, func(i, j int) bool {
		return result.Cities[i].UtilizationPct > result.Cities[j].UtilizationPct
	})
	return result
}

// IdleStations splits the station scope into stations active in rows and
// idle ones, per network and per city, and lists the idle stations.
func IdleStations(rows []models.EnrichedInterval, scope []models.ScopeStation) models.IdleStations {
	result := models.IdleStations{
		Cities:   []models.CityIdleRow{},
		Stations: []models.IdleStationRow{},
	}
	if len(scope) == 0 {
		return result
	}

	active := make(map[string]struct{}, len(rows))
	for i := range rows {
		if rows[i].UUID != "" {
			active[rows[i].UUID] = struct{}{}
		}
	}

	type cityCount struct{ total, idle int }
	cities := make(map[string]*cityCount)
	seen := make(map[string]struct{}, len(scope))
	var inScope, activeCount, idleCount int

	for _, st := range scope {
		if _, dup := seen[st.UUID]; dup {
			continue
		}
		seen[st.UUID] = struct{}{}
		inScope++

		city := orUnknown(st.CityName)
		cc, ok := cities[city]
		if !ok {
			cc = &cityCount{}
			cities[city] = cc
		}
		cc.total++

		if _, isActive := active[st.UUID]; isActive {
			activeCount++
			continue
		}
		idleCount++
		cc.idle++
		result.Stations = append(result.Stations, models.IdleStationRow{
			UUID:         st.UUID,
			Name:         st.Name,
			CityName:     city,
			Processor:    st.Processor,
			GraphicNames: st.GraphicNames,
		})
	}

	result.Summary = models.IdleSummary{
		StationsInScope: float64(inScope),
		ActiveStations:  float64(activeCount),
		IdleStations:    float64(idleCount),
		IdleRatioPct:    pct(float64(idleCount), float64(inScope)),
	}

	for _, city := range sortedKeys(cities) {
		cc := cities[city]
		result.Cities = append(result.Cities, models.CityIdleRow{
			City:            city,
			StationsInScope: cc.total,
			IdleStations:    cc.idle,
			IdleRatioPct:    pct(float64(cc.idle), float64(cc.total)),
		})
	}
	sort.SliceStable(result.Cities, func(i, j int) bool {
		return result.Cities[i].IdleRatioPct > result.Cities[j].IdleRatioPct
	})
	return result
}

func distinctScope(scope []models.ScopeStation) int {
	seen := make(map[string]struct{}, len(scope))
	for _, st := range scope {
		seen[st.UUID] = struct{}{}
	}
	return len(seen)
}
