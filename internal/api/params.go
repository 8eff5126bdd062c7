// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Xerz/drova-dash/internal/dashboard"
	"github.com/Xerz/drova-dash/internal/filter"
	"github.com/Xerz/drova-dash/internal/models"
	"github.com/Xerz/drova-dash/internal/validation"
)

// DashboardQuery holds the validated query parameters shared by every
// dashboard endpoint. Zero numeric values select the configured defaults.
type DashboardQuery struct {
	Start          string `query:"start" validate:"omitempty,ymd"`
	End            string `query:"end" validate:"omitempty,ymd"`
	ThresholdHours int    `query:"threshold_hours" validate:"omitempty,min=4,max=30"`
	WindowDays     int    `query:"window_days" validate:"omitempty,min=1,max=90"`
	TopN           int    `query:"top_n" validate:"omitempty,min=1,max=500"`
	LookbackDays   int    `query:"lookback_days" validate:"omitempty,min=1,max=90"`

	Stations   []string `query:"stations" validate:"omitempty,max=1000,dive,max=64"`
	Products   []string `query:"products" validate:"omitempty,max=1000,dive,max=64"`
	Cities     []string `query:"cities" validate:"omitempty,max=500,dive,max=200"`
	Processors []string `query:"processors" validate:"omitempty,max=500,dive,max=200"`
	Graphics   []string `query:"graphics" validate:"omitempty,max=500,dive,max=200"`

	FreeTrialOnly bool `query:"free_trial_only"`

	ProductNumberMin *int64 `query:"product_number_min" validate:"omitempty,gte=0"`
	ProductNumberMax *int64 `query:"product_number_max" validate:"omitempty,gte=0"`
	RAMMin           *int64 `query:"ram_min" validate:"omitempty,gte=0"`
	RAMMax           *int64 `query:"ram_max" validate:"omitempty,gte=0"`
	GraphicRAMMin    *int64 `query:"graphic_ram_min" validate:"omitempty,gte=0"`
	GraphicRAMMax    *int64 `query:"graphic_ram_max" validate:"omitempty,gte=0"`
}

// parseDashboardQuery reads and validates the dashboard parameters of r.
// Malformed numbers, dates outside YYYY-MM-DD and reversed numeric ranges are
// reported as VALIDATION_ERROR.
func parseDashboardQuery(r *http.Request) (DashboardQuery, *models.APIError) {
	values := r.URL.Query()
	p := &paramParser{values: values}

	q := DashboardQuery{
		Start:          values.Get("start"),
		End:            values.Get("end"),
		ThresholdHours: p.intParam("threshold_hours"),
		WindowDays:     p.intParam("window_days"),
		TopN:           p.intParam("top_n"),
		LookbackDays:   p.intParam("lookback_days"),

		Stations:   parseCommaSeparated(values.Get("stations")),
		Products:   parseCommaSeparated(values.Get("products")),
		Cities:     parseCommaSeparated(values.Get("cities")),
		Processors: parseCommaSeparated(values.Get("processors")),
		Graphics:   parseCommaSeparated(values.Get("graphics")),

		FreeTrialOnly: p.boolParam("free_trial_only"),

		ProductNumberMin: p.int64Param("product_number_min"),
		ProductNumberMax: p.int64Param("product_number_max"),
		RAMMin:           p.int64Param("ram_min"),
		RAMMax:           p.int64Param("ram_max"),
		GraphicRAMMin:    p.int64Param("graphic_ram_min"),
		GraphicRAMMax:    p.int64Param("graphic_ram_max"),
	}
	if p.err != nil {
		return q, p.err
	}

	if apiErr := validateRequest(&q); apiErr != nil {
		return q, apiErr
	}

	for _, rng := range []struct {
		name     string
		min, max *int64
	}{
		{"product_number", q.ProductNumberMin, q.ProductNumberMax},
		{"ram", q.RAMMin, q.RAMMax},
		{"graphic_ram", q.GraphicRAMMin, q.GraphicRAMMax},
	} {
		if rng.min != nil && rng.max != nil && *rng.min > *rng.max {
			return q, &models.APIError{
				Code:    "VALIDATION_ERROR",
				Message: fmt.Sprintf("%s_min must not exceed %s_max", rng.name, rng.name),
				Details: map[string]any{"field": rng.name + "_min"},
			}
		}
	}

	return q, nil
}

// ToQuery converts validated parameters to a dashboard query. Unset dates
// stay zero so the service applies its default range.
func (q DashboardQuery) ToQuery() dashboard.Query {
	out := dashboard.Query{
		ThresholdHours: q.ThresholdHours,
		WindowDays:     q.WindowDays,
		TopN:           q.TopN,
		LookbackDays:   q.LookbackDays,
		Facets: filter.Facets{
			Stations:        q.Stations,
			Products:        q.Products,
			Cities:          q.Cities,
			Processors:      q.Processors,
			Graphics:        q.Graphics,
			FreeTrialOnly:   q.FreeTrialOnly,
			ProductNumber:   toRange(q.ProductNumberMin, q.ProductNumberMax),
			RAMBytes:        toRange(q.RAMMin, q.RAMMax),
			GraphicRAMBytes: toRange(q.GraphicRAMMin, q.GraphicRAMMax),
		},
	}
	// Validated as YYYY-MM-DD, parse errors cannot occur here.
	if q.Start != "" {
		out.Start, _ = time.Parse(validation.DateLayout, q.Start)
	}
	if q.End != "" {
		out.End, _ = time.Parse(validation.DateLayout, q.End)
	}
	return out
}

// toRange builds an inclusive range. A missing bound is open.
func toRange(lo, hi *int64) *filter.IntRange {
	if lo == nil && hi == nil {
		return nil
	}
	r := &filter.IntRange{Min: 0, Max: 1<<63 - 1}
	if lo != nil {
		r.Min = *lo
	}
	if hi != nil {
		r.Max = *hi
	}
	return r
}

// paramParser parses typed query parameters and keeps the first error.
type paramParser struct {
	values url.Values
	err    *models.APIError
}

func (p *paramParser) fail(key, kind string) {
	if p.err != nil {
		return
	}
	p.err = &models.APIError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("%s must be %s", key, kind),
		Details: map[string]any{"field": key, "value": p.values.Get(key)},
	}
}

func (p *paramParser) intParam(key string) int {
	raw := p.values.Get(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, "an integer")
		return 0
	}
	return v
}

func (p *paramParser) int64Param(key string) *int64 {
	raw := p.values.Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.fail(key, "an integer")
		return nil
	}
	return &v
}

func (p *paramParser) boolParam(key string) bool {
	raw := p.values.Get(key)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, "true or false")
		return false
	}
	return v
}

// pagination holds validated limit/offset parameters for list endpoints.
type pagination struct {
	Limit  int `query:"limit" validate:"min=1,max=10000"`
	Offset int `query:"offset" validate:"min=0,max=10000000"`
}

func parsePagination(r *http.Request) (pagination, *models.APIError) {
	p := &paramParser{values: r.URL.Query()}
	pg := pagination{Limit: 1000}
	if v := p.intParam("limit"); p.values.Get("limit") != "" {
		pg.Limit = v
	}
	pg.Offset = p.intParam("offset")
	if p.err != nil {
		return pg, p.err
	}
	if apiErr := validateRequest(&pg); apiErr != nil {
		return pg, apiErr
	}
	return pg, nil
}
