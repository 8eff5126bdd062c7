// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package analytics

import (
	"testing"
	"time"

	"github.com/Xerz/drova-dash/internal/models"
)

func TestDemandHeatmap(t *testing.T) {
	t.Run("always 168 cells", func(t *testing.T) {
		got := DemandHeatmap(nil)
		if len(got) != HeatmapCells {
			t.Fatalf("got %d cells, want %d", len(got), HeatmapCells)
		}
		for i, c := range got {
			if c.WeekdayNum != i/24 || c.Hour != i%24 {
				t.Fatalf("cell %d = (%d, %d), want (%d, %d)", i, c.WeekdayNum, c.Hour, i/24, i%24)
			}
			if c.BusyHours != 0 {
				t.Errorf("cell %d has %v hours on empty input", i, c.BusyHours)
			}
		}
		if got[0].Weekday != "Mon" || got[HeatmapCells-1].Weekday != "Sun" {
			t.Errorf("weekday labels = %s..%s, want Mon..Sun", got[0].Weekday, got[HeatmapCells-1].Weekday)
		}
	})

	t.Run("bucketed by start", func(t *testing.T) {
		// day 1 is a Monday and day 7 a Sunday; busy() starts at noon
		rows := []models.EnrichedInterval{
			busy("A", "P1", 1, 7200),
			busy("B", "P1", 1, 3600),
			busy("A", "P1", 7, 1800),
			open("C", "P1", 1),
		}
		got := DemandHeatmap(rows)
		if len(got) != HeatmapCells {
			t.Fatalf("got %d cells, want %d", len(got), HeatmapCells)
		}
		if c := got[0*24+12]; !almostEqual(c.BusyHours, 3) {
			t.Errorf("Mon 12h = %v, want 3", c.BusyHours)
		}
		if c := got[6*24+12]; !almostEqual(c.BusyHours, 0.5) {
			t.Errorf("Sun 12h = %v, want 0.5", c.BusyHours)
		}
		total := 0.0
		for _, c := range got {
			total += c.BusyHours
		}
		if !almostEqual(total, 3.5) {
			t.Errorf("total = %v, want 3.5", total)
		}
	})
}

func TestFreeTrialImpact(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		got := FreeTrialImpact(nil)
		if len(got.Daily) != 0 || got.Summary.BusyHoursTotal != 0 {
			t.Errorf("expected zero result, got %+v", got)
		}
	})

	free := func(r models.EnrichedInterval, flag float64) models.EnrichedInterval {
		r.FreeTrial = flag
		return r
	}

	rows := []models.EnrichedInterval{
		free(busy("A", "P1", 1, 3600), 1),
		free(busy("B", "P1", 1, 3600), 0),
		free(busy("A", "P1", 8, 3600), 1),
		free(busy("B", "P1", 8, 3*3600), 0),
		// a flag other than exactly 1 is not free trial
		free(busy("C", "P1", 8, 0), 0.5),
	}
	got := FreeTrialImpact(rows)

	if len(got.Daily) != 2 {
		t.Fatalf("got %d daily rows, want 2", len(got.Daily))
	}
	if !got.Daily[0].Date.Equal(day(1)) || !got.Daily[1].Date.Equal(day(8)) {
		t.Errorf("daily dates = %v, %v", got.Daily[0].Date, got.Daily[1].Date)
	}
	if !almostEqual(got.Daily[0].FreeTrialSharePct, 50) {
		t.Errorf("day 1 share = %v, want 50", got.Daily[0].FreeTrialSharePct)
	}
	if !almostEqual(got.Daily[1].FreeTrialSharePct, 25) {
		t.Errorf("day 8 share = %v, want 25", got.Daily[1].FreeTrialSharePct)
	}

	s := got.Summary
	if !almostEqual(s.BusyHoursTotal, 6) || !almostEqual(s.BusyHoursFreeTrial, 2) {
		t.Errorf("totals = (%v, %v), want (6, 2)", s.BusyHoursTotal, s.BusyHoursFreeTrial)
	}
	if !almostEqual(s.FreeTrialSharePct, 100.0/3.0) {
		t.Errorf("share = %v, want %v", s.FreeTrialSharePct, 100.0/3.0)
	}
	if !almostEqual(s.FreeTrialShareDelta7dPP, -25) {
		t.Errorf("7d delta = %v, want -25", s.FreeTrialShareDelta7dPP)
	}
}

func TestDemandHeatmapUsesUTC(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)
	start := time.Date(2024, time.January, 2, 1, 0, 0, 0, loc) // Monday 22:00 UTC
	sec := 3600.0
	rows := []models.EnrichedInterval{{
		BusyInterval: models.BusyInterval{UUID: "A", ProductID: "P1", StartedAt: start},
		DurationSec:  &sec,
	}}
	got := DemandHeatmap(rows)
	if c := got[0*24+22]; !almostEqual(c.BusyHours, 1) {
		t.Errorf("Mon 22h UTC = %v, want 1", c.BusyHours)
	}
}
