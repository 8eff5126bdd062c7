// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package analytics

import (
	"math"
	"sort"

	"github.com/Xerz/drova-dash/internal/models"
)

// ProductCannibalization compares product shares of the trailing lookback
// window with the equally long window before it. Shifts are ordered by
// absolute change. Pairs match the i-th largest loser with the i-th largest
// gainer; the pairing is positional and does not try to match magnitudes.
func ProductCannibalization(rows []models.EnrichedInterval, lookbackDays, topN int) models.Cannibalization {
	result := models.Cannibalization{
		Shifts: []models.ShareShiftRow{},
		Pairs:  []models.CannibalizationPair{},
	}

	base := make([]datedRow, 0, len(rows))
	for _, r := range withDuration(rows) {
		if r.row.ProductID != "" {
			base = append(base, r)
		}
	}
	if len(base) == 0 {
		return result
	}

	current, previous := trailingWindows(maxDate(base), lookbackDays)
	curShare := productShares(base, current)
	prevShare := productShares(base, previous)

	products := make(map[string]struct{}, len(curShare)+len(prevShare))
	for k := range curShare {
		products[k] = struct{}{}
	}
	for k := range prevShare {
		products[k] = struct{}{}
	}

	shifts := make([]models.ShareShiftRow, 0, len(products))
	for _, product := range sortedKeys(products) {
		shifts = append(shifts, models.ShareShiftRow{
			ProductID:        product,
			CurrentSharePct:  curShare[product],
			PreviousSharePct: prevShare[product],
			DeltaPP:          curShare[product] - prevShare[product],
		})
	}

	var gainers, losers []models.ShareShiftRow
	for _, s := range shifts {
		switch {
		case s.DeltaPP > 0:
			gainers = append(gainers, s)
		case s.DeltaPP < 0:
			losers = append(losers, s)
		}
	}
	sort.SliceStable(gainers, func(i, j int) bool { return gainers[i].DeltaPP > gainers[j].DeltaPP })
	sort.SliceStable(losers, func(i, j int) bool { return losers[i].DeltaPP < losers[j].DeltaPP })
	gainers = truncate(gainers, topN)
	losers = truncate(losers, topN)

	for i, loser := range losers {
		if i >= len(gainers) {
			break
		}
		gainer := gainers[i]
		lost := math.Abs(loser.DeltaPP)
		result.Pairs = append(result.Pairs, models.CannibalizationPair{
			LoserProductID:  loser.ProductID,
			GainerProductID: gainer.ProductID,
			LoserDeltaPP:    loser.DeltaPP,
			GainerDeltaPP:   gainer.DeltaPP,
			CompensationPct: pct(math.Min(gainer.DeltaPP, lost), lost),
		})
	}

	sort.SliceStable(shifts, func(i, j int) bool {
		return math.Abs(shifts[i].DeltaPP) > math.Abs(shifts[j].DeltaPP)
	})
	result.Shifts = truncate(shifts, topN)
	return result
}
