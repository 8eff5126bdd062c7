// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

// Package database provides access to the Drova station database.
//
// # Overview
//
// The station database is a SQLite file with three tables:
//   - station_changes: state transitions (id, uuid, old_state, new_state,
//     old_product_id, new_product_id, changed_at)
//   - station_state: current state per station (optional, only uuid is read)
//   - server_info: station metadata written by the refresher
//
// The file is read through an in-memory DuckDB instance with the sqlite
// extension. The file is attached as the "drova" catalog and read with
// sqlite_all_varchar so that loosely typed SQLite columns never fail a scan;
// values are converted with TRY_CAST in SQL.
//
// # Files
//
//   - database.go: lifecycle (New, Ping, Close)
//   - database_connection.go: pool settings, extension loading, attach
//   - station_changes.go: change event loading and station uuid discovery
//   - server_info.go: server_info schema, reads and upserts
//   - errors.go: sentinel errors and close helpers
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	events, err := db.LoadStationChanges(ctx)
//
// # Thread Safety
//
// DB is safe for concurrent use. Writes to server_info run in a transaction.
package database
