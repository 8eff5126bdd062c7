// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package sync fetches station metadata from the public Drova API.

Client wraps three endpoints:
  - {server_url}{uuid}: public server payload (name, city, groups, products)
  - {hardware_url}{uuid}: processor, RAM and GPU list
  - products_url: product catalog used to title product ids

Every request waits on a golang.org/x/time/rate limiter, retries HTTP 429
with exponential backoff, and runs through a sony/gobreaker circuit breaker
named "drova-api". Client errors other than 429 do not trip the breaker.

Refresher rebuilds the server_info table: it gathers the uuids of
station_state and station_changes, fetches each station, and upserts the
parsed records in batches. The refresh runs from cmd/fetcher or as a
supervised periodic service.
*/
package sync
