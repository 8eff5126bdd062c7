// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package analytics computes the dashboard metric tables from enriched busy
intervals.

Every builder is a pure function of its input rows and parameters. Nothing is
cached or shared between calls, so builders are safe to call concurrently.

# Conventions

  - Rows without a duration (open intervals) never contribute to duration sums.
  - Durations are reported in hours (seconds / 3600).
  - Dates are UTC days. The latest start date in the input anchors trailing
    windows: a window of N days is [anchor-(N-1), anchor] and the previous
    window is the N days before it.
  - Ratios with a zero denominator and NaN/Inf results become 0.
  - Empty input yields empty, non-nil tables and zero summaries.

# Builders

  - ProductShareTrend: product share with week and month deltas
  - ProductAdoption: stations newly serving a product in 7 and 30 days
  - FreeTrialImpact: free trial vs paid hours per day
  - DemandHeatmap: busy hours per weekday and hour, always 168 cells
  - ProductCannibalization: share shifts and loser/gainer pairs
  - StationUtilization / IdleStations: capacity usage against the station scope
  - Concentration: top-10 share and HHI for stations and products
  - Volatility: mean, population std and CV of daily busy hours
  - StationRetention: retained, new and churned stations over 7 and 30 days
  - RollingWindow: trailing active stations and hours with an incremental
    reference count per station
  - StationRankings, ProductRankings, GroupRanking, MapData: ranking tables
*/
package analytics
