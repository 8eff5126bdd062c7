// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package analytics

import (
	"testing"

	"github.com/Xerz/drova-dash/internal/models"
)

func TestProductShareTrend(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		if got := ProductShareTrend(nil, DefaultShareTopN); len(got) != 0 {
			t.Errorf("expected empty table, got %d rows", len(got))
		}
	})

	t.Run("open intervals only", func(t *testing.T) {
		rows := []models.EnrichedInterval{open("A", "P1", 1)}
		if got := ProductShareTrend(rows, DefaultShareTopN); len(got) != 0 {
			t.Errorf("expected empty table, got %d rows", len(got))
		}
	})

	t.Run("shares and deltas", func(t *testing.T) {
		rows := []models.EnrichedInterval{
			busy("A", "P1", 1, 3600),
			busy("B", "P2", 14, 7200),
		}
		got := ProductShareTrend(rows, DefaultShareTopN)
		if len(got) != 2 {
			t.Fatalf("got %d rows, want 2", len(got))
		}

		if got[0].ProductID != "P2" {
			t.Errorf("first row = %s, want P2 (most hours)", got[0].ProductID)
		}
		sum := 0.0
		for _, r := range got {
			sum += r.SharePct
		}
		if !almostEqual(sum, 100) {
			t.Errorf("shares sum to %v, want 100", sum)
		}

		byID := map[string]models.ProductShareRow{}
		for _, r := range got {
			byID[r.ProductID] = r
		}
		if !almostEqual(byID["P2"].WoWDeltaPP, 100) {
			t.Errorf("P2 wow delta = %v, want 100", byID["P2"].WoWDeltaPP)
		}
		if !almostEqual(byID["P1"].WoWDeltaPP, -100) {
			t.Errorf("P1 wow delta = %v, want -100", byID["P1"].WoWDeltaPP)
		}
		// previous 30 days are empty so the month delta equals the current share
		if !almostEqual(byID["P1"].MoMDeltaPP, 100.0/3.0) {
			t.Errorf("P1 mom delta = %v, want %v", byID["P1"].MoMDeltaPP, 100.0/3.0)
		}
		if !almostEqual(byID["P2"].DurationHours, 2) {
			t.Errorf("P2 hours = %v, want 2", byID["P2"].DurationHours)
		}
	})

	t.Run("top n", func(t *testing.T) {
		rows := []models.EnrichedInterval{
			busy("A", "P1", 1, 100),
			busy("A", "P2", 1, 200),
			busy("A", "P3", 1, 300),
		}
		got := ProductShareTrend(rows, 2)
		if len(got) != 2 || got[0].ProductID != "P3" || got[1].ProductID != "P2" {
			t.Errorf("unexpected top 2: %+v", got)
		}
	})
}

func TestProductAdoption(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		if got := ProductAdoption(nil, DefaultAdoptionTopN); len(got) != 0 {
			t.Errorf("expected empty table, got %d rows", len(got))
		}
	})

	t.Run("new stations", func(t *testing.T) {
		rows := []models.EnrichedInterval{
			busy("A", "P1", 1, 600),
			busy("A", "P2", 40, 600),
			open("B", "P2", 40),
		}
		got := ProductAdoption(rows, DefaultAdoptionTopN)
		if len(got) != 2 {
			t.Fatalf("got %d rows, want 2", len(got))
		}

		p2, p1 := got[0], got[1]
		if p2.ProductID != "P2" || p1.ProductID != "P1" {
			t.Fatalf("order = [%s %s], want [P2 P1]", got[0].ProductID, got[1].ProductID)
		}
		if p2.NewStations7d != 2 || p2.NewStations30d != 2 {
			t.Errorf("P2 new = (%d, %d), want (2, 2)", p2.NewStations7d, p2.NewStations30d)
		}
		if !almostEqual(p2.AdoptionRate7dPct, 100) {
			t.Errorf("P2 7d rate = %v, want 100", p2.AdoptionRate7dPct)
		}
		if p1.NewStations30d != 0 || p1.AdoptionRate30dPct != 0 {
			t.Errorf("P1 should have no recent adopters: %+v", p1)
		}
	})
}

func TestProductCannibalization(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		got := ProductCannibalization(nil, DefaultLookbackDays, DefaultCannibalizationTopN)
		if len(got.Shifts) != 0 || len(got.Pairs) != 0 {
			t.Errorf("expected empty tables, got %+v", got)
		}
	})

	t.Run("loser paired with gainer", func(t *testing.T) {
		rows := []models.EnrichedInterval{
			busy("A", "P1", 3, 3600),
			busy("A", "P1", 10, 3600),
			busy("B", "P2", 12, 3600),
		}
		got := ProductCannibalization(rows, DefaultLookbackDays, DefaultCannibalizationTopN)
		if len(got.Shifts) != 2 {
			t.Fatalf("got %d shifts, want 2", len(got.Shifts))
		}
		for _, s := range got.Shifts {
			want := 50.0
			if s.ProductID == "P1" {
				want = -50
			}
			if !almostEqual(s.DeltaPP, want) {
				t.Errorf("%s delta = %v, want %v", s.ProductID, s.DeltaPP, want)
			}
		}

		if len(got.Pairs) != 1 {
			t.Fatalf("got %d pairs, want 1", len(got.Pairs))
		}
		pair := got.Pairs[0]
		if pair.LoserProductID != "P1" || pair.GainerProductID != "P2" {
			t.Errorf("pair = %s -> %s, want P1 -> P2", pair.LoserProductID, pair.GainerProductID)
		}
		if !almostEqual(pair.CompensationPct, 100) {
			t.Errorf("compensation = %v, want 100", pair.CompensationPct)
		}
	})

	t.Run("no gainers yields no pairs", func(t *testing.T) {
		rows := []models.EnrichedInterval{
			busy("A", "P1", 3, 3600),
			busy("A", "P1", 10, 3600),
		}
		got := ProductCannibalization(rows, DefaultLookbackDays, DefaultCannibalizationTopN)
		if len(got.Pairs) != 0 {
			t.Errorf("expected no pairs, got %+v", got.Pairs)
		}
	})
}
