// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package models defines the data structures shared across Drova Dash.

Key Components:

  - ChangeEvent: one row of the station_changes log
  - BusyInterval: a reconstructed busy session of one station on one product
  - EnrichedInterval: a busy interval joined with station and product metadata
  - StationInfo / ServerRecord: rows of the server_info table
  - Metric rows: one struct per analytics table, with fixed JSON column names

Nullable columns are pointers. A nil ended_at marks an open interval, a nil
duration excludes the row from duration aggregates.

Metric tables are plain slices of row structs. Builders always return
non-nil slices so empty tables serialize as [] rather than null.
*/
package models
