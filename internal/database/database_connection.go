// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// configureConnectionPool sets connection pool parameters.
// All pooled connections share the in-memory instance and its attached catalog.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// ensureContext applies the configured query timeout when ctx has no deadline
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), db.queryTimeout)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, db.queryTimeout)
	}

	return ctx, func() {}
}

// loadSQLiteExtension installs and loads the DuckDB sqlite extension.
func loadSQLiteExtension(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Try to install, then load (extension may already be installed)
	if _, err := db.ExecContext(ctx, "INSTALL sqlite;"); err != nil {
		if _, loadErr := db.ExecContext(ctx, "LOAD sqlite;"); loadErr != nil {
			if _, forceErr := db.ExecContext(ctx, "FORCE INSTALL sqlite;"); forceErr != nil {
				return fmt.Errorf("install error: %w, load error: %w, force install error: %w", err, loadErr, forceErr)
			}
			if _, err := db.ExecContext(ctx, "LOAD sqlite;"); err != nil {
				return fmt.Errorf("load after force install: %w", err)
			}
		}
		return nil
	}

	_, err := db.ExecContext(ctx, "LOAD sqlite;")
	return err
}

// quoteLiteral quotes s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// attachSQLiteDatabase attaches the SQLite file as the drova catalog.
// ATTACH does not accept parameters, so the path is quoted as a literal.
func attachSQLiteDatabase(db *sql.DB, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "SET GLOBAL sqlite_all_varchar = true"); err != nil {
		return fmt.Errorf("failed to enable sqlite_all_varchar: %w", err)
	}

	stmt := fmt.Sprintf("ATTACH %s AS %s (TYPE sqlite)", quoteLiteral(path), catalog)
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("attach %s: %w", path, err)
	}
	return nil
}

// detachSQLiteDatabase detaches the SQLite file.
func detachSQLiteDatabase(db *sql.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db.ExecContext(ctx, "DETACH DATABASE IF EXISTS "+catalog) //nolint:errcheck // best-effort detach, errors not actionable
}
