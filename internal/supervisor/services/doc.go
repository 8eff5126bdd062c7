// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package services adapts application components to suture.Service.

  - HTTPServerService runs an *http.Server and shuts it down gracefully when
    the supervisor context ends.
  - RefreshService rebuilds server_info on a ticker and on demand, then
    invalidates the dashboard dataset so the next request sees the new
    station attributes.

Each service returns ctx.Err() on shutdown and a wrapped error on failure,
which suture treats as a crash and restarts.
*/
package services
