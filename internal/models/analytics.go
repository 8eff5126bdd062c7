// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package models

import "time"

// ProductShareRow is one product of the share and trend table.
type ProductShareRow struct {
	ProductID     string  `json:"product_id"`
	DurationHours float64 `json:"duration_hours"`
	SharePct      float64 `json:"share_pct"`
	WoWDeltaPP    float64 `json:"wow_delta_pp"`
	MoMDeltaPP    float64 `json:"mom_delta_pp"`
}

// ProductAdoptionRow counts stations that started serving a product recently.
type ProductAdoptionRow struct {
	ProductID          string  `json:"product_id"`
	NewStations7d      int     `json:"new_stations_7d"`
	NewStations30d     int     `json:"new_stations_30d"`
	AdoptionRate7dPct  float64 `json:"adoption_rate_7d_pct"`
	AdoptionRate30dPct float64 `json:"adoption_rate_30d_pct"`
}

// FreeTrialSummary holds network totals for free trial usage.
type FreeTrialSummary struct {
	BusyHoursTotal          float64 `json:"busy_hours_total"`
	BusyHoursFreeTrial      float64 `json:"busy_hours_free_trial"`
	FreeTrialSharePct       float64 `json:"free_trial_share_pct"`
	FreeTrialShareDelta7dPP float64 `json:"free_trial_share_delta_7d_pp"`
}

// FreeTrialDailyRow splits one day of busy hours into free trial and paid.
type FreeTrialDailyRow struct {
	Date              time.Time `json:"date"`
	FreeTrialHours    float64   `json:"free_trial_hours"`
	PaidHours         float64   `json:"paid_hours"`
	TotalHours        float64   `json:"total_hours"`
	FreeTrialSharePct float64   `json:"free_trial_share_pct"`
}

// FreeTrialImpact is the output of the free trial builder.
type FreeTrialImpact struct {
	Summary FreeTrialSummary    `json:"summary"`
	Daily   []FreeTrialDailyRow `json:"daily"`
}

// HeatmapCell is busy time started in one (weekday, hour) bucket.
type HeatmapCell struct {
	WeekdayNum int     `json:"weekday_num"`
	Weekday    string  `json:"weekday"`
	Hour       int     `json:"hour"`
	BusyHours  float64 `json:"busy_hours"`
}

// ShareShiftRow compares a product's share between two adjacent windows.
type ShareShiftRow struct {
	ProductID        string  `json:"product_id"`
	CurrentSharePct  float64 `json:"current_share_pct"`
	PreviousSharePct float64 `json:"previous_share_pct"`
	DeltaPP          float64 `json:"delta_pp"`
}

// CannibalizationPair pairs a losing product with a gaining one.
type CannibalizationPair struct {
	LoserProductID  string  `json:"loser_product_id"`
	GainerProductID string  `json:"gainer_product_id"`
	LoserDeltaPP    float64 `json:"loser_delta_pp"`
	GainerDeltaPP   float64 `json:"gainer_delta_pp"`
	CompensationPct float64 `json:"compensation_pct"`
}

// Cannibalization is the output of the cannibalization builder.
type Cannibalization struct {
	Shifts []ShareShiftRow       `json:"shifts"`
	Pairs  []CannibalizationPair `json:"pairs"`
}

// UtilizationSummary is network capacity usage.
type UtilizationSummary struct {
	BusyHours      float64 `json:"busy_hours"`
	StationCount   float64 `json:"station_count"`
	Days           float64 `json:"days"`
	CapacityHours  float64 `json:"capacity_hours"`
	UtilizationPct float64 `json:"utilization_pct"`
}

// CityUtilizationRow is capacity usage of one city.
type CityUtilizationRow struct {
	City           string  `json:"city"`
	BusyHours      float64 `json:"busy_hours"`
	StationCount   float64 `json:"station_count"`
	CapacityHours  float64 `json:"capacity_hours"`
	UtilizationPct float64 `json:"utilization_pct"`
}

// Utilization is the output of the utilization builder.
type Utilization struct {
	Summary UtilizationSummary   `json:"summary"`
	Cities  []CityUtilizationRow `json:"cities"`
}

// IdleSummary partitions the station scope into active and idle stations.
type IdleSummary struct {
	StationsInScope float64 `json:"stations_in_scope"`
	ActiveStations  float64 `json:"active_stations"`
	IdleStations    float64 `json:"idle_stations"`
	IdleRatioPct    float64 `json:"idle_ratio_pct"`
}

// CityIdleRow is the idle breakdown of one city.
type CityIdleRow struct {
	City            string  `json:"city"`
	StationsInScope int     `json:"stations_in_scope"`
	IdleStations    int     `json:"idle_stations"`
	IdleRatioPct    float64 `json:"idle_ratio_pct"`
}

// IdleStationRow lists a station with no activity in the selection.
type IdleStationRow struct {
	UUID         string  `json:"uuid"`
	Name         *string `json:"name"`
	CityName     string  `json:"city_name"`
	Processor    string  `json:"processor"`
	GraphicNames string  `json:"graphic_names"`
}

// IdleStations is the output of the idle station builder.
type IdleStations struct {
	Summary  IdleSummary      `json:"summary"`
	Cities   []CityIdleRow    `json:"cities"`
	Stations []IdleStationRow `json:"stations"`
}

// ShareRow is one entity of a concentration breakdown.
type ShareRow struct {
	Key         string  `json:"key"`
	DurationSec float64 `json:"duration_sec"`
	SharePct    float64 `json:"share_pct"`
}

// ConcentrationSummary holds top-10 shares and HHI for stations and products.
type ConcentrationSummary struct {
	StationTop10SharePct float64 `json:"station_top10_share_pct"`
	StationHHI           float64 `json:"station_hhi"`
	ProductTop10SharePct float64 `json:"product_top10_share_pct"`
	ProductHHI           float64 `json:"product_hhi"`
}

// Concentration is the output of the concentration builder.
type Concentration struct {
	Summary  ConcentrationSummary `json:"summary"`
	Stations []ShareRow           `json:"stations"`
	Products []ShareRow           `json:"products"`
}

// VolatilitySummary describes the network daily busy-hours series.
type VolatilitySummary struct {
	NetworkMeanDailyHours float64 `json:"network_mean_daily_hours"`
	NetworkStdDailyHours  float64 `json:"network_std_daily_hours"`
	NetworkCVPct          float64 `json:"network_cv_pct"`
}

// VolatilityRow describes the daily series of one group.
type VolatilityRow struct {
	Group          string  `json:"group"`
	TotalHours     float64 `json:"total_hours"`
	MeanDailyHours float64 `json:"mean_daily_hours"`
	StdDailyHours  float64 `json:"std_daily_hours"`
	CVPct          float64 `json:"cv_pct"`
	ActiveDays     int     `json:"active_days"`
}

// Volatility is the output of the volatility builder.
type Volatility struct {
	Summary  VolatilitySummary `json:"summary"`
	Cities   []VolatilityRow   `json:"cities"`
	Stations []VolatilityRow   `json:"stations"`
}

// RetentionRow compares active stations of two adjacent windows.
type RetentionRow struct {
	WindowDays             int     `json:"window_days"`
	PreviousActiveStations int     `json:"previous_active_stations"`
	CurrentActiveStations  int     `json:"current_active_stations"`
	RetainedStations       int     `json:"retained_stations"`
	NewStations            int     `json:"new_stations"`
	ChurnedStations        int     `json:"churned_stations"`
	RetentionPct           float64 `json:"retention_pct"`
}

// RollingWindowRow is the trailing-window activity ending on Date.
type RollingWindowRow struct {
	Date                 time.Time `json:"date"`
	ActiveStationsWindow int       `json:"active_stations_window"`
	PlayedHoursWindow    float64   `json:"played_hours_window"`
}

// SessionStats summarises session lengths of one entity.
type SessionStats struct {
	SessionMeanSec   float64 `json:"session_mean_sec"`
	SessionP25Sec    float64 `json:"session_p25_sec"`
	SessionP75Sec    float64 `json:"session_p75_sec"`
	SessionMeanHours float64 `json:"session_mean_hours"`
	SessionP25Hours  float64 `json:"session_p25_hours"`
	SessionP75Hours  float64 `json:"session_p75_hours"`
}

// StationRankingRow ranks a station by busy time.
type StationRankingRow struct {
	UUID          string  `json:"uuid"`
	UUIDLabel     string  `json:"uuid_label"`
	DurationSec   float64 `json:"duration_sec"`
	DurationHours float64 `json:"duration_hours"`
	SessionStats

	CityName        string   `json:"city_name"`
	ProductNumber   *int64   `json:"product_number"`
	Processor       string   `json:"processor"`
	GraphicNames    string   `json:"graphic_names"`
	FreeTrial       float64  `json:"free_trial"`
	RAMBytes        *int64   `json:"ram_bytes"`
	GraphicRAMBytes *int64   `json:"graphic_ram_bytes"`
	Longitude       *float64 `json:"longitude"`
	Latitude        *float64 `json:"latitude"`
}

// ProductRankingRow ranks a product by busy time.
type ProductRankingRow struct {
	ProductID     string  `json:"product_id"`
	ProductLabel  string  `json:"product_label"`
	DurationSec   float64 `json:"duration_sec"`
	DurationHours float64 `json:"duration_hours"`
	SessionStats
}

// GroupRankingRow ranks a station attribute value by busy time.
type GroupRankingRow struct {
	Group           string  `json:"group"`
	DurationSec     float64 `json:"duration_sec"`
	NStations       int     `json:"n_stations"`
	DurationHours   float64 `json:"duration_hours"`
	HoursPerStation float64 `json:"hours_per_station"`
}

// MapPoint is busy time aggregated at one station location.
type MapPoint struct {
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// SessionRange is the span covered by a selection.
type SessionRange struct {
	FirstStart *time.Time `json:"first_start"`
	LastEnd    *time.Time `json:"last_end"`
}
