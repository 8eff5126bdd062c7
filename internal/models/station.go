// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package models

import "time"

// StateBusy is the station state that opens busy intervals.
const StateBusy = "BUSY"

// UnknownLabel replaces missing city, processor and GPU values.
const UnknownLabel = "Unknown"

// ChangeEvent is a single station state transition from the station_changes table.
// Events are ordered by (UUID, ChangedAt, ID).
type ChangeEvent struct {
	ID           int64     `json:"id"`
	UUID         string    `json:"uuid"`
	OldState     string    `json:"old_state"`
	NewState     string    `json:"new_state"`
	OldProductID string    `json:"old_product_id"`
	NewProductID string    `json:"new_product_id"`
	ChangedAt    time.Time `json:"changed_at"`
}

// Complete reports whether every required field is present.
func (e *ChangeEvent) Complete() bool {
	return e.UUID != "" &&
		e.OldState != "" &&
		e.NewState != "" &&
		e.OldProductID != "" &&
		e.NewProductID != "" &&
		!e.ChangedAt.IsZero()
}

// BusyInterval is a maximal span during which a station served one product.
// EndedAt is nil while the session has not been observed to end.
type BusyInterval struct {
	UUID      string     `json:"uuid"`
	ProductID string     `json:"product_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
}

// Open reports whether the interval has no observed end.
func (b *BusyInterval) Open() bool {
	return b.EndedAt == nil
}

// EnrichedInterval is a busy interval with its duration and the metadata
// of the station and product it belongs to.
type EnrichedInterval struct {
	BusyInterval

	// DurationSec is nil for open intervals
	DurationSec     *float64 `json:"duration_sec"`
	DurationMinutes *float64 `json:"duration_minutes"`

	StationName  *string `json:"station_name"`
	ProductTitle *string `json:"product_title"`

	CityName        string   `json:"city_name"`
	Processor       string   `json:"processor"`
	GraphicNames    string   `json:"graphic_names"`
	FreeTrial       float64  `json:"free_trial"`
	ProductNumber   *int64   `json:"product_number"`
	RAMBytes        *int64   `json:"ram_bytes"`
	GraphicRAMBytes *int64   `json:"graphic_ram_bytes"`
	Longitude       *float64 `json:"longitude"`
	Latitude        *float64 `json:"latitude"`
}

// Duration returns the interval length in seconds and whether it is known.
func (e *EnrichedInterval) Duration() (float64, bool) {
	if e.DurationSec == nil {
		return 0, false
	}
	return *e.DurationSec, true
}

// IsFreeTrial reports whether the station belongs to the free trial group.
// Only a flag equal to exactly 1 counts.
func (e *EnrichedInterval) IsFreeTrial() bool {
	return e.FreeTrial == 1
}

// StationInfo is the subset of server_info read by the dashboard.
type StationInfo struct {
	UUID            string   `json:"uuid"`
	Name            *string  `json:"name"`
	CityName        *string  `json:"city_name"`
	Processor       *string  `json:"processor"`
	GraphicNames    *string  `json:"graphic_names"`
	FreeTrial       *float64 `json:"free_trial"`
	ProductNumber   *int64   `json:"product_number"`
	RAMBytes        *int64   `json:"ram_bytes"`
	GraphicRAMBytes *int64   `json:"graphic_ram_bytes"`
	Longitude       *float64 `json:"longitude"`
	Latitude        *float64 `json:"latitude"`
}

// ScopeStation is a station of the analysis universe with gaps filled in.
type ScopeStation struct {
	UUID            string   `json:"uuid"`
	Name            *string  `json:"name"`
	CityName        string   `json:"city_name"`
	Processor       string   `json:"processor"`
	GraphicNames    string   `json:"graphic_names"`
	FreeTrial       float64  `json:"free_trial"`
	ProductNumber   *int64   `json:"product_number"`
	RAMBytes        *int64   `json:"ram_bytes"`
	GraphicRAMBytes *int64   `json:"graphic_ram_bytes"`
	Longitude       *float64 `json:"longitude"`
	Latitude        *float64 `json:"latitude"`
}

// ServerRecord is a full server_info row as written by the refresher.
type ServerRecord struct {
	UUID            string
	Name            *string
	Description     *string
	ProductNumber   *int64
	CityName        *string
	FreeTrial       int64
	UserID          *string
	Longitude       *float64
	Latitude        *float64
	ProductID       *string
	Published       *int64
	Distance        *float64
	State           *string
	Processor       *string
	RAMBytes        *int64
	GraphicRAMBytes *int64
	GraphicNames    *string
	FetchedAt       string
}
