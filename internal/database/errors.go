// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package database

import (
	"errors"
	"io"
)

var (
	// ErrDatabaseUnavailable is returned when the station database file cannot
	// be opened or attached.
	ErrDatabaseUnavailable = errors.New("station database unavailable")

	// ErrTableNotFound is returned when a required table is missing from the
	// station database.
	ErrTableNotFound = errors.New("table not found")
)

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
