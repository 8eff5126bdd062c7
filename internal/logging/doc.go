// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

// Package logging provides the zerolog-based global logger used by every
// Drova Dash binary.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:     cfg.Logging.Level,
//	    Format:    cfg.Logging.Format,
//	    Caller:    cfg.Logging.Caller,
//	    Timestamp: true,
//	})
//
//	logging.Info().Str("db_path", path).Msg("database attached")
//	logging.Ctx(ctx).Warn().Err(err).Msg("product catalog unavailable")
//
// # Context Fields
//
// The API middleware stores a request ID with ContextWithRequestID and the
// refresher tags each run with ContextWithRunID. Ctx adds both to the log
// line when present.
//
// # slog Bridge
//
// SlogHandler adapts zerolog to log/slog for libraries that only accept an
// *slog.Logger, such as sutureslog in the supervisor tree.
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
