// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package analytics

import (
	"sort"
	"strconv"

	"github.com/Xerz/drova-dash/internal/models"
)

// GroupColumn names a station attribute usable by GroupRanking.
type GroupColumn string

// Supported ranking groups.
const (
	GroupCity          GroupColumn = "city_name"
	GroupProcessor     GroupColumn = "processor"
	GroupGraphics      GroupColumn = "graphic_names"
	GroupRAM           GroupColumn = "ram_bytes"
	GroupGraphicRAM    GroupColumn = "graphic_ram_bytes"
	GroupProductNumber GroupColumn = "product_number"
	GroupFreeTrial     GroupColumn = "free_trial"
)

var groupKeys = map[GroupColumn]func(*models.EnrichedInterval) string{
	GroupCity:          func(r *models.EnrichedInterval) string { return r.CityName },
	GroupProcessor:     func(r *models.EnrichedInterval) string { return r.Processor },
	GroupGraphics:      func(r *models.EnrichedInterval) string { return r.GraphicNames },
	GroupRAM:           func(r *models.EnrichedInterval) string { return formatInt(r.RAMBytes) },
	GroupGraphicRAM:    func(r *models.EnrichedInterval) string { return formatInt(r.GraphicRAMBytes) },
	GroupProductNumber: func(r *models.EnrichedInterval) string { return formatInt(r.ProductNumber) },
	GroupFreeTrial:     func(r *models.EnrichedInterval) string { return strconv.FormatFloat(r.FreeTrial, 'f', -1, 64) },
}

// Valid reports whether c is a supported ranking group.
func (c GroupColumn) Valid() bool {
	_, ok := groupKeys[c]
	return ok
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

type sessionAgg struct {
	total     float64
	durations []float64
}

func sessionStats(durations []float64) models.SessionStats {
	mean, _ := meanStd(durations)
	p25 := quantile(durations, 0.25)
	p75 := quantile(durations, 0.75)
	return models.SessionStats{
		SessionMeanSec:   mean,
		SessionP25Sec:    p25,
		SessionP75Sec:    p75,
		SessionMeanHours: hours(mean),
		SessionP25Hours:  hours(p25),
		SessionP75Hours:  hours(p75),
	}
}

func aggregateSessions(rows []models.EnrichedInterval, key func(*models.EnrichedInterval) string) (map[string]*sessionAgg, map[string]*models.EnrichedInterval) {
	aggs := make(map[string]*sessionAgg)
	first := make(map[string]*models.EnrichedInterval)
	for i := range rows {
		k := key(&rows[i])
		d, ok := rows[i].Duration()
		if k == "" || !ok {
			continue
		}
		a, exists := aggs[k]
		if !exists {
			a = &sessionAgg{}
			aggs[k] = a
			first[k] = &rows[i]
		}
		a.total += d
		a.durations = append(a.durations, d)
	}
	return aggs, first
}

// StationRankings ranks stations by busy hours with session length statistics
// and the station's attributes. The label is the station name when known.
func StationRankings(rows []models.EnrichedInterval) []models.StationRankingRow {
	aggs, first := aggregateSessions(rows, func(r *models.EnrichedInterval) string { return r.UUID })

	out := make([]models.StationRankingRow, 0, len(aggs))
	for _, uuid := range sortedKeys(aggs) {
		a, attrs := aggs[uuid], first[uuid]
		label := uuid
		if attrs.StationName != nil && *attrs.StationName != "" {
			label = *attrs.StationName
		}
		out = append(out, models.StationRankingRow{
			UUID:            uuid,
			UUIDLabel:       label,
			DurationSec:     a.total,
			DurationHours:   hours(a.total),
			SessionStats:    sessionStats(a.durations),
			CityName:        attrs.CityName,
			ProductNumber:   attrs.ProductNumber,
			Processor:       attrs.Processor,
			GraphicNames:    attrs.GraphicNames,
			FreeTrial:       attrs.FreeTrial,
			RAMBytes:        attrs.RAMBytes,
			GraphicRAMBytes: attrs.GraphicRAMBytes,
			Longitude:       attrs.Longitude,
			Latitude:        attrs.Latitude,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DurationHours > out[j].DurationHours
	})
	return out
}

// ProductRankings ranks products by busy hours with session length statistics.
// The label is the product title when known.
func ProductRankings(rows []models.EnrichedInterval) []models.ProductRankingRow {
	aggs, first := aggregateSessions(rows, func(r *models.EnrichedInterval) string { return r.ProductID })

	out := make([]models.ProductRankingRow, 0, len(aggs))
	for _, product := range sortedKeys(aggs) {
		a := aggs[product]
		label := product
		if t := first[product].ProductTitle; t != nil && *t != "" {
			label = *t
		}
		out = append(out, models.ProductRankingRow{
			ProductID:     product,
			ProductLabel:  label,
			DurationSec:   a.total,
			DurationHours: hours(a.total),
			SessionStats:  sessionStats(a.durations),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DurationHours > out[j].DurationHours
	})
	return out
}

// CityRanking ranks cities by busy hours with hours per active station.
func CityRanking(rows []models.EnrichedInterval) []models.GroupRankingRow {
	return GroupRanking(rows, GroupCity)
}

// GroupRanking ranks the values of a station attribute by busy hours.
// Missing values are grouped under "Unknown". Unsupported columns yield an
// empty table.
func GroupRanking(rows []models.EnrichedInterval, column GroupColumn) []models.GroupRankingRow {
	out := []models.GroupRankingRow{}
	key, ok := groupKeys[column]
	if !ok {
		return out
	}

	type agg struct {
		sec      float64
		stations map[string]struct{}
	}
	groups := make(map[string]*agg)
	for i := range rows {
		g := orUnknown(key(&rows[i]))
		a, exists := groups[g]
		if !exists {
			a = &agg{stations: make(map[string]struct{})}
			groups[g] = a
		}
		if d, ok := rows[i].Duration(); ok {
			a.sec += d
		}
		if rows[i].UUID != "" {
			a.stations[rows[i].UUID] = struct{}{}
		}
	}

	for _, g := range sortedKeys(groups) {
		a := groups[g]
		n := len(a.stations)
		out = append(out, models.GroupRankingRow{
			Group:           g,
			DurationSec:     a.sec,
			NStations:       n,
			DurationHours:   hours(a.sec),
			HoursPerStation: ratio(hours(a.sec), float64(n)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DurationHours > out[j].DurationHours
	})
	return out
}

// MapData sums busy minutes per station location. Rows without coordinates
// are skipped. Points are ordered by latitude then longitude.
func MapData(rows []models.EnrichedInterval) []models.MapPoint {
	type coord struct{ lat, lon float64 }
	sums := make(map[coord]float64)
	for i := range rows {
		r := &rows[i]
		if r.Latitude == nil || r.Longitude == nil {
			continue
		}
		c := coord{*r.Latitude, *r.Longitude}
		if r.DurationMinutes != nil {
			sums[c] += *r.DurationMinutes
		} else if _, ok := sums[c]; !ok {
			sums[c] = 0
		}
	}

	out := make([]models.MapPoint, 0, len(sums))
	for c, m := range sums {
		out = append(out, models.MapPoint{Latitude: c.lat, Longitude: c.lon, DurationMinutes: m})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Latitude != out[j].Latitude {
			return out[i].Latitude < out[j].Latitude
		}
		return out[i].Longitude < out[j].Longitude
	})
	return out
}

// SessionRange returns the earliest start and the latest end in rows.
func SessionRange(rows []models.EnrichedInterval) models.SessionRange {
	var out models.SessionRange
	for i := range rows {
		r := &rows[i]
		if !r.StartedAt.IsZero() && (out.FirstStart == nil || r.StartedAt.Before(*out.FirstStart)) {
			s := r.StartedAt
			out.FirstStart = &s
		}
		if r.EndedAt != nil && (out.LastEnd == nil || r.EndedAt.After(*out.LastEnd)) {
			e := *r.EndedAt
			out.LastEnd = &e
		}
	}
	return out
}
