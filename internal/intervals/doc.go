// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package intervals turns the station_changes log into busy intervals.

Each station is processed as a two-state machine. While IDLE the machine
waits for a BUSY event that names a product. While BUSY(p) a repeated BUSY(p)
is ignored, a BUSY(q) closes p and opens q at the same instant, and any other
state closes p. A station still BUSY at the end of its events yields an open
interval with a nil end.

The reconstructor never sorts its input. Callers pass events already ordered
by (uuid, changed_at, id), which Clean produces for in-memory data and the
database loader produces in SQL.

# Usage

	events := intervals.Clean(raw)
	busy := intervals.Reconstruct(events)
*/
package intervals
