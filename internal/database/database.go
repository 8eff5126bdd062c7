// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/Xerz/drova-dash/internal/config"
	"github.com/Xerz/drova-dash/internal/logging"
)

// catalog is the name the SQLite file is attached under.
const catalog = "drova"

// DB wraps the DuckDB connection and provides access to the station tables
type DB struct {
	conn         *sql.DB
	path         string
	queryTimeout time.Duration
}

// New opens an in-memory DuckDB instance and attaches the SQLite file at
// cfg.Path. The file must exist.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDatabaseUnavailable, cfg.Path, err)
	}

	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	connStr := fmt.Sprintf(":memory:?threads=%d", numThreads)
	if cfg.MaxMemory != "" {
		connStr += "&max_memory=" + cfg.MaxMemory
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	db := &DB{
		conn:         conn,
		path:         cfg.Path,
		queryTimeout: cfg.QueryTimeout,
	}
	if db.queryTimeout <= 0 {
		db.queryTimeout = 30 * time.Second
	}

	db.configureConnectionPool()

	if err := loadSQLiteExtension(conn); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("%w: sqlite extension: %w", ErrDatabaseUnavailable, err)
	}

	if err := attachSQLiteDatabase(conn, cfg.Path); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("%w: %w", ErrDatabaseUnavailable, err)
	}

	logging.Info().Str("path", cfg.Path).Int("threads", numThreads).Msg("Station database attached")
	return db, nil
}

// Path returns the path of the attached SQLite file
func (db *DB) Path() string {
	return db.path
}

// Ping verifies the connection and that the attached file is readable.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_catalog = ?", catalog,
	).Scan(&n); err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseUnavailable, err)
	}
	return nil
}

// Close detaches the SQLite file and closes the DuckDB instance
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	detachSQLiteDatabase(db.conn)
	return db.conn.Close()
}

// tableExists reports whether the attached file has the named table.
func (db *DB) tableExists(ctx context.Context, table string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_catalog = ? AND table_name = ?",
		catalog, table,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return n > 0, nil
}

// requireTable returns ErrTableNotFound when table is missing.
func (db *DB) requireTable(ctx context.Context, table string) error {
	ok, err := db.tableExists(ctx, table)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	return nil
}
