// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package filter prepares busy intervals for the metric builders.

The preparation pipeline runs in a fixed order:

 1. WithDurations attaches duration_sec and duration_minutes
 2. ApplyTimeFilters drops overly long sessions and rows outside the date range
 3. Enrich joins station metadata and product titles
 4. ApplyFacets narrows the rows by station attributes
 5. StationScope narrows server_info with the same facets

Facet selections follow one rule: a nil slice disables the facet, a non-nil
empty slice matches nothing. Range facets drop rows where the attribute is
missing.

All functions are pure. Inputs are never modified and the outputs are new
slices.
*/
package filter
