// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Xerz/drova-dash/internal/metrics"
	"github.com/Xerz/drova-dash/internal/models"
)

// serverInfoColumns is the server_info layout in write order. The DuckDB
// types map onto TEXT, INTEGER and REAL affinity in SQLite.
var serverInfoColumns = []struct {
	name, typ string
}{
	{"uuid", "VARCHAR"},
	{"name", "VARCHAR"},
	{"description", "VARCHAR"},
	{"product_number", "BIGINT"},
	{"city_name", "VARCHAR"},
	{"free_trial", "BIGINT"},
	{"user_id", "VARCHAR"},
	{"longitude", "DOUBLE"},
	{"latitude", "DOUBLE"},
	{"product_id", "VARCHAR"},
	{"published", "BIGINT"},
	{"distance", "DOUBLE"},
	{"state", "VARCHAR"},
	{"processor", "VARCHAR"},
	{"ram_bytes", "BIGINT"},
	{"graphic_ram_bytes", "BIGINT"},
	{"graphic_names", "VARCHAR"},
	{"fetched_at", "VARCHAR"},
}

// EnsureServerInfoTable creates server_info when it does not exist.
func (db *DB) EnsureServerInfoTable(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	defs := make([]string, len(serverInfoColumns))
	for i, c := range serverInfoColumns {
		defs[i] = c.name + " " + c.typ
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.server_info (%s)", catalog, strings.Join(defs, ", "))

	if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create server_info: %w", err)
	}
	return nil
}

// UpsertServerInfo replaces the server_info rows of the given stations in a
// single transaction and returns the number of rows written. Records
// without a uuid are skipped.
func (db *DB) UpsertServerInfo(ctx context.Context, records []models.ServerRecord) (int, error) {
	start := time.Now()
	out, err := db.upsertServerInfo(ctx, records)
	metrics.RecordDBQuery("UPSERT", "server_info", time.Since(start), err)
	return out, err
}

func (db *DB) upsertServerInfo(ctx context.Context, records []models.ServerRecord) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	names := make([]string, len(serverInfoColumns))
	marks := make([]string, len(serverInfoColumns))
	for i, c := range serverInfoColumns {
		names[i] = c.name
		marks[i] = "?"
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	del, err := tx.PrepareContext(ctx, "DELETE FROM "+catalog+".server_info WHERE uuid = ?")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare delete: %w", err)
	}
	defer closeQuietly(del)

	ins, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s.server_info (%s) VALUES (%s)",
		catalog, strings.Join(names, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer closeQuietly(ins)

	written := 0
	for i := range records {
		r := &records[i]
		if r.UUID == "" {
			continue
		}
		if _, err := del.ExecContext(ctx, r.UUID); err != nil {
			return 0, fmt.Errorf("failed to delete server_info %s: %w", r.UUID, err)
		}
		if _, err := ins.ExecContext(ctx, serverRecordArgs(r)...); err != nil {
			return 0, fmt.Errorf("failed to insert server_info %s: %w", r.UUID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit server_info: %w", err)
	}
	return written, nil
}

// serverRecordArgs returns r in serverInfoColumns order with nil for missing values.
func serverRecordArgs(r *models.ServerRecord) []any {
	return []any{
		r.UUID,
		nullable(r.Name),
		nullable(r.Description),
		nullable(r.ProductNumber),
		nullable(r.CityName),
		r.FreeTrial,
		nullable(r.UserID),
		nullable(r.Longitude),
		nullable(r.Latitude),
		nullable(r.ProductID),
		nullable(r.Published),
		nullable(r.Distance),
		nullable(r.State),
		nullable(r.Processor),
		nullable(r.RAMBytes),
		nullable(r.GraphicRAMBytes),
		nullable(r.GraphicNames),
		r.FetchedAt,
	}
}

func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

// serverInfoQuery reads the dashboard subset of server_info. Integers may be
// stored as text or reals, so they go through DOUBLE first.
const serverInfoQuery = `
SELECT
	uuid,
	name,
	city_name,
	processor,
	graphic_names,
	TRY_CAST(free_trial AS DOUBLE),
	TRY_CAST(TRY_CAST(product_number AS DOUBLE) AS BIGINT),
	TRY_CAST(TRY_CAST(ram_bytes AS DOUBLE) AS BIGINT),
	TRY_CAST(TRY_CAST(graphic_ram_bytes AS DOUBLE) AS BIGINT),
	TRY_CAST(longitude AS DOUBLE),
	TRY_CAST(latitude AS DOUBLE)
FROM drova.server_info
WHERE NULLIF(uuid, '') IS NOT NULL
ORDER BY uuid`

// LoadServerInfo returns the server_info rows used by the dashboard.
// Returns ErrTableNotFound when the refresher has never run.
func (db *DB) LoadServerInfo(ctx context.Context) ([]models.StationInfo, error) {
	start := time.Now()
	out, err := db.loadServerInfo(ctx)
	metrics.RecordDBQuery("SELECT", "server_info", time.Since(start), err)
	return out, err
}

func (db *DB) loadServerInfo(ctx context.Context) ([]models.StationInfo, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := db.requireTable(ctx, "server_info"); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, serverInfoQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query server_info: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.StationInfo
	for rows.Next() {
		var (
			uuid                           string
			name, city, processor, gpu     sql.NullString
			freeTrial, longitude, latitude sql.NullFloat64
			productNumber, ram, graphicRAM sql.NullInt64
		)
		if err := rows.Scan(&uuid, &name, &city, &processor, &gpu, &freeTrial,
			&productNumber, &ram, &graphicRAM, &longitude, &latitude); err != nil {
			return nil, fmt.Errorf("failed to scan server_info: %w", err)
		}
		out = append(out, models.StationInfo{
			UUID:            uuid,
			Name:            stringValue(name),
			CityName:        stringValue(city),
			Processor:       stringValue(processor),
			GraphicNames:    stringValue(gpu),
			FreeTrial:       floatValue(freeTrial),
			ProductNumber:   intValue(productNumber),
			RAMBytes:        intValue(ram),
			GraphicRAMBytes: intValue(graphicRAM),
			Longitude:       floatValue(longitude),
			Latitude:        floatValue(latitude),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate server_info: %w", err)
	}
	return out, nil
}

func stringValue(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func floatValue(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func intValue(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
