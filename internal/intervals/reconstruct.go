// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package intervals

import (
	"sort"
	"strings"
	"time"

	"github.com/Xerz/drova-dash/internal/models"
)

// stationState is the machine state of one station. An empty product means IDLE.
type stationState struct {
	product string
	start   time.Time
}

func (s *stationState) busy() bool {
	return s.product != ""
}

// Reconstruct converts ordered change events into busy intervals sorted by
// (uuid, started_at). Events of different stations may be interleaved; each
// station's own events must be in chronological order.
func Reconstruct(events []models.ChangeEvent) []models.BusyInterval {
	out := make([]models.BusyInterval, 0, len(events)/2)
	states := make(map[string]*stationState)

	for i := range events {
		ev := &events[i]
		st, ok := states[ev.UUID]
		if !ok {
			st = &stationState{}
			states[ev.UUID] = st
		}

		isBusy := strings.EqualFold(strings.TrimSpace(ev.NewState), models.StateBusy)
		product := ev.NewProductID

		if !st.busy() {
			if isBusy && product != "" {
				st.product = product
				st.start = ev.ChangedAt
			}
			continue
		}

		if isBusy && product == st.product {
			continue
		}

		out = append(out, closeInterval(ev.UUID, st, ev.ChangedAt))

		if isBusy && product != "" {
			st.product = product
			st.start = ev.ChangedAt
			continue
		}
		st.product = ""
		st.start = time.Time{}
	}

	for uuid, st := range states {
		if st.busy() {
			out = append(out, models.BusyInterval{
				UUID:      uuid,
				ProductID: st.product,
				StartedAt: st.start,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UUID != out[j].UUID {
			return out[i].UUID < out[j].UUID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

func closeInterval(uuid string, st *stationState, end time.Time) models.BusyInterval {
	ended := end
	return models.BusyInterval{
		UUID:      uuid,
		ProductID: st.product,
		StartedAt: st.start,
		EndedAt:   &ended,
	}
}

// Clean drops incomplete events and orders the rest by (uuid, changed_at, id).
// The input slice is not modified.
func Clean(events []models.ChangeEvent) []models.ChangeEvent {
	out := make([]models.ChangeEvent, 0, len(events))
	for i := range events {
		if events[i].Complete() {
			out = append(out, events[i])
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.UUID != b.UUID {
			return a.UUID < b.UUID
		}
		if !a.ChangedAt.Equal(b.ChangedAt) {
			return a.ChangedAt.Before(b.ChangedAt)
		}
		return a.ID < b.ID
	})
	return out
}
