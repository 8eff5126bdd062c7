// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package cache provides the in-memory caches behind the dashboard service.

Cache is a TTL map used for the few large, shared values: the reconstructed
and enriched interval dataset, the server_info snapshot and the product
catalog. Entries expire after the configured CACHE_TTL and Clear drops
everything after a server_info refresh.

LRU is a bounded generic cache for computed metric results. Keys come from
GenerateKey, which hashes the metric name and the JSON encoding of its
parameters:

	results := cache.NewLRU[any](512, ttl)
	key := cache.GenerateKey("heatmap", q)
	if v, ok := results.Get(key); ok {
	    return v.([]models.HeatmapCell), nil
	}

Both types are safe for concurrent use.
*/
package cache
