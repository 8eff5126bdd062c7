// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package models

import (
	"time"
)

// APIResponse is the envelope of every JSON endpoint.
//
//	{
//	  "status": "success",
//	  "data": [...],
//	  "metadata": {"timestamp": "2026-03-20T12:00:00Z", "query_time_ms": 12}
//	}
//
// Status is "success" or "error". Error is set only for errors.
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata describes how a response was produced. Cached responses report
// a zero query time.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`

	// Selection context of metric responses
	Controls        any        `json:"controls,omitempty"`
	Intervals       *int       `json:"intervals,omitempty"`
	StationsInScope *int       `json:"stations_in_scope,omitempty"`
	DatasetLoadedAt *time.Time `json:"dataset_loaded_at,omitempty"`

	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// APIError is a machine-readable error code with a message.
//
// Codes: VALIDATION_ERROR, NOT_FOUND, METHOD_NOT_ALLOWED, CONFLICT,
// RATE_LIMIT_EXCEEDED, DATABASE_ERROR, SERVICE_UNAVAILABLE, INTERNAL_ERROR.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// PaginationInfo describes an offset page of a list endpoint.
type PaginationInfo struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}
