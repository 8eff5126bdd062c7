// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package filter

import (
	"errors"
	"fmt"
	"time"

	"github.com/Xerz/drova-dash/internal/analytics"
	"github.com/Xerz/drova-dash/internal/models"
)

// Limits of the dashboard time controls.
const (
	MinThresholdHours     = 4
	MaxThresholdHours     = 30
	DefaultThresholdHours = 30

	MinWindowDays     = 1
	MaxWindowDays     = 90
	DefaultWindowDays = 7
)

var (
	// ErrInvalidThreshold is returned for a session threshold outside 4..30 hours.
	ErrInvalidThreshold = errors.New("invalid session threshold")

	// ErrInvalidWindow is returned for a rolling window outside 1..90 days.
	ErrInvalidWindow = errors.New("invalid rolling window")
)

// TimeControls is the date range, session threshold and rolling window of a
// dashboard query. SelectedEnd is the last microsecond of the end day.
type TimeControls struct {
	ThresholdHours    int       `json:"threshold_hours"`
	SelectedStart     time.Time `json:"selected_start"`
	SelectedEnd       time.Time `json:"selected_end"`
	RollingWindowDays int       `json:"rolling_window_days"`
}

// NewTimeControls normalizes a date range and validates the threshold and
// window. Reversed dates are swapped. A zero threshold or window selects the
// default; the default window is min(7, range days, 90).
func NewTimeControls(start, end time.Time, thresholdHours, windowDays int) (TimeControls, error) {
	startDay, endDay := analytics.Day(start), analytics.Day(end)
	if startDay.After(endDay) {
		startDay, endDay = endDay, startDay
	}

	if thresholdHours == 0 {
		thresholdHours = DefaultThresholdHours
	}
	if thresholdHours < MinThresholdHours || thresholdHours > MaxThresholdHours {
		return TimeControls{}, fmt.Errorf("%w: %d hours (allowed %d..%d)",
			ErrInvalidThreshold, thresholdHours, MinThresholdHours, MaxThresholdHours)
	}

	rangeDays := int(endDay.Sub(startDay).Hours()/24) + 1
	if windowDays == 0 {
		windowDays = min(DefaultWindowDays, rangeDays, MaxWindowDays)
	}
	if windowDays < MinWindowDays || windowDays > MaxWindowDays {
		return TimeControls{}, fmt.Errorf("%w: %d days (allowed %d..%d)",
			ErrInvalidWindow, windowDays, MinWindowDays, MaxWindowDays)
	}

	return TimeControls{
		ThresholdHours:    thresholdHours,
		SelectedStart:     startDay,
		SelectedEnd:       endDay.AddDate(0, 0, 1).Add(-time.Microsecond),
		RollingWindowDays: windowDays,
	}, nil
}

// RangeDays is the number of calendar days covered by the controls.
func (c TimeControls) RangeDays() int {
	return int(analytics.Day(c.SelectedEnd).Sub(c.SelectedStart).Hours()/24) + 1
}

// ApplyTimeFilters keeps rows whose duration is unknown or within the
// threshold and whose span overlaps the selected range. Open intervals are
// treated as running until the end of the range.
func ApplyTimeFilters(rows []models.EnrichedInterval, c TimeControls) []models.EnrichedInterval {
	maxSec := float64(c.ThresholdHours) * 3600
	out := make([]models.EnrichedInterval, 0, len(rows))
	for _, r := range rows {
		if d, ok := r.Duration(); ok && d > maxSec {
			continue
		}
		if r.StartedAt.After(c.SelectedEnd) {
			continue
		}
		ended := c.SelectedEnd
		if r.EndedAt != nil {
			ended = *r.EndedAt
		}
		if ended.Before(c.SelectedStart) {
			continue
		}
		out = append(out, r)
	}
	return out
}
