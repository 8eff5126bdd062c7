// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Xerz/drova-dash/internal/metrics"
	"github.com/Xerz/drova-dash/internal/models"
)

// stationChangesQuery reads change events with typed id and timestamp.
// Rows with any missing or unparsable field are dropped and the result is
// ordered by (uuid, changed_at, id).
const stationChangesQuery = `
WITH typed AS (
	SELECT
		TRY_CAST(id AS BIGINT) AS id,
		uuid,
		old_state,
		new_state,
		old_product_id,
		new_product_id,
		TRY_CAST(changed_at AS TIMESTAMP) AS changed_at
	FROM drova.station_changes
)
SELECT id, uuid, old_state, new_state, old_product_id, new_product_id, changed_at
FROM typed
WHERE id IS NOT NULL
	AND changed_at IS NOT NULL
	AND NULLIF(uuid, '') IS NOT NULL
	AND NULLIF(old_state, '') IS NOT NULL
	AND NULLIF(new_state, '') IS NOT NULL
	AND NULLIF(old_product_id, '') IS NOT NULL
	AND NULLIF(new_product_id, '') IS NOT NULL
ORDER BY uuid, changed_at, id`

// LoadStationChanges returns every complete change event ordered by
// station, time and id. Timestamps are returned in UTC.
func (db *DB) LoadStationChanges(ctx context.Context) ([]models.ChangeEvent, error) {
	start := time.Now()
	out, err := db.loadStationChanges(ctx)
	metrics.RecordDBQuery("SELECT", "station_changes", time.Since(start), err)
	return out, err
}

func (db *DB) loadStationChanges(ctx context.Context) ([]models.ChangeEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := db.requireTable(ctx, "station_changes"); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, stationChangesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query station_changes: %w", err)
	}
	defer closeQuietly(rows)

	var events []models.ChangeEvent
	for rows.Next() {
		var e models.ChangeEvent
		var changedAt time.Time
		if err := rows.Scan(&e.ID, &e.UUID, &e.OldState, &e.NewState,
			&e.OldProductID, &e.NewProductID, &changedAt); err != nil {
			return nil, fmt.Errorf("failed to scan station change: %w", err)
		}
		e.ChangedAt = changedAt.UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate station changes: %w", err)
	}

	return events, nil
}

// StationUUIDs returns the distinct station uuids known to station_state and
// station_changes, sorted. station_state is optional.
func (db *DB) StationUUIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := db.requireTable(ctx, "station_changes"); err != nil {
		return nil, err
	}
	hasState, err := db.tableExists(ctx, "station_state")
	if err != nil {
		return nil, err
	}

	source := "SELECT uuid FROM drova.station_changes"
	if hasState {
		source = "SELECT uuid FROM drova.station_state UNION " + source
	}
	query := fmt.Sprintf(
		"SELECT DISTINCT uuid FROM (%s) WHERE NULLIF(uuid, '') IS NOT NULL ORDER BY uuid", source)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query station uuids: %w", err)
	}
	defer closeQuietly(rows)

	var uuids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan station uuid: %w", err)
		}
		uuids = append(uuids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate station uuids: %w", err)
	}
	return uuids, nil
}
