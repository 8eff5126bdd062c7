// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

/*
Package validation wraps go-playground/validator v10 for API request
parameters.

A single validator instance is created on first use; it caches struct
metadata and is safe for concurrent use. Errors name the `query` tag of the
offending field so that a client sees the parameter it actually sent:

	type dashboardQuery struct {
	    Start          string `query:"start" validate:"omitempty,ymd"`
	    ThresholdHours int    `query:"threshold_hours" validate:"omitempty,min=4,max=30"`
	}

	if verr := validation.ValidateStruct(&q); verr != nil {
	    apiErr := verr.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
	    return
	}

Registered aliases:
  - ymd: a calendar date in YYYY-MM-DD format
*/
package validation
