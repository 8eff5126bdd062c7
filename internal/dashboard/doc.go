// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package dashboard ties the data sources to the analytics.

A Service loads station_changes, reconstructs busy intervals and attaches
durations once, then keeps the result together with the server_info
snapshot and the product catalog in a TTL cache. Every query starts from
that Dataset:

 1. apply the date range and session threshold
 2. enrich rows with station attributes and product titles
 3. apply the facet filters
 4. compute the station scope from server_info

Missing station metadata or an unreachable product catalog degrade to
"Unknown" labels and raw product ids instead of failing the request.

# Usage

	svc := dashboard.NewService(db, client, cfg.Dashboard, cfg.Cache.TTL)
	defer svc.Close()

	res, err := svc.Heatmap(ctx, dashboard.Query{
	    Facets: filter.Facets{Cities: []string{"Moscow"}},
	})

Zero fields in a Query take the configured defaults. Invalidate drops the
cached dataset after server_info has been refreshed.
*/
package dashboard
