// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package analytics

import (
	"sort"

	"github.com/Xerz/drova-dash/internal/models"
)

const topConcentration = 10

// Concentration measures how busy time is spread across stations and products
// with the top-10 share and the Herfindahl-Hirschman index (0..10000).
func Concentration(rows []models.EnrichedInterval) models.Concentration {
	stations, stationTop, stationHHI := concentrationBy(rows, func(r *models.EnrichedInterval) string { return r.UUID })
	products, productTop, productHHI := concentrationBy(rows, func(r *models.EnrichedInterval) string { return r.ProductID })

	return models.Concentration{
		Summary: models.ConcentrationSummary{
			StationTop10SharePct: stationTop,
			StationHHI:           stationHHI,
			ProductTop10SharePct: productTop,
			ProductHHI:           productHHI,
		},
		Stations: stations,
		Products: products,
	}
}

// ConcentrationFor returns shares, top-10 share and HHI for any grouping key.
// Rows with an empty key or no duration are ignored.
func ConcentrationFor(rows []models.EnrichedInterval, key func(*models.EnrichedInterval) string) ([]models.ShareRow, float64, float64) {
	return concentrationBy(rows, key)
}

func concentrationBy(rows []models.EnrichedInterval, key func(*models.EnrichedInterval) string) ([]models.ShareRow, float64, float64) {
	perKey := make(map[string]float64)
	total := 0.0
	for i := range rows {
		k := key(&rows[i])
		d, ok := rows[i].Duration()
		if k == "" || !ok {
			continue
		}
		perKey[k] += d
		total += d
	}

	out := make([]models.ShareRow, 0, len(perKey))
	for _, k := range sortedKeys(perKey) {
		out = append(out, models.ShareRow{
			Key:         k,
			DurationSec: perKey[k],
			SharePct:    pct(perKey[k], total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DurationSec > out[j].DurationSec
	})

	top, hhi := 0.0, 0.0
	for i, r := range out {
		if i < topConcentration {
			top += r.SharePct
		}
		f := r.SharePct / 100.0
		hhi += f * f
	}
	return out, top, hhi * 10000.0
}
