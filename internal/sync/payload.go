// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package sync

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Xerz/drova-dash/internal/models"
)

// FreeTrialGroup is the Drova group that marks free trial stations.
const FreeTrialGroup = "free trial volunteers"

// ParseServer maps a server payload onto a server_info record. Hardware
// fields and FetchedAt are left for the caller.
func ParseServer(payload map[string]any) models.ServerRecord {
	rec := models.ServerRecord{
		Name:        scalarString(payload["name"]),
		Description: scalarString(payload["description"]),
		CityName:    scalarString(payload["city_name"]),
		UserID:      scalarString(payload["user_id"]),
		Longitude:   number(payload["longitude"]),
		Latitude:    number(payload["latitude"]),
		ProductID:   scalarString(payload["product_id"]),
		Distance:    number(payload["distance"]),
		State:       scalarString(payload["state"]),
	}
	if id := scalarString(payload["uuid"]); id != nil {
		rec.UUID = *id
	}

	if products, ok := payload["product_list"].([]any); ok {
		n := int64(len(products))
		rec.ProductNumber = &n
	}

	if groups, ok := payload["groups_list"].([]any); ok {
		for _, g := range groups {
			if s := scalarString(g); s != nil && strings.EqualFold(strings.TrimSpace(*s), FreeTrialGroup) {
				rec.FreeTrial = 1
				break
			}
		}
	}

	if v, ok := payload["published"]; ok && v != nil {
		var published int64
		if truthy(v) {
			published = 1
		}
		rec.Published = &published
	}

	return rec
}

// Hardware holds the hardware columns of a server_info record.
type Hardware struct {
	Processor       *string
	RAMBytes        *int64
	GraphicRAMBytes *int64
	GraphicNames    *string
}

// ParseHardware summarizes a hardware payload. A nil or empty payload
// yields an empty Hardware.
func ParseHardware(payload map[string]any) Hardware {
	var hw Hardware

	if cpu, ok := payload["processor"].(map[string]any); ok {
		parts := make([]string, 0, 2)
		for _, key := range []string{"manufacturer", "version"} {
			if s := scalarString(cpu[key]); s != nil {
				if p := strings.TrimSpace(*s); p != "" {
					parts = append(parts, p)
				}
			}
		}
		if len(parts) > 0 {
			processor := strings.Join(parts, " ")
			hw.Processor = &processor
		}
	}

	hw.RAMBytes = integer(payload["ram_bytes"])

	if gpus, ok := payload["graphic"].([]any); ok {
		var names []string
		var ram int64
		for _, item := range gpus {
			gpu, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if name := scalarString(gpu["name"]); name != nil && *name != "" {
				names = append(names, *name)
			}
			if n, ok := gpu["ram_bytes"].(json.Number); ok {
				if f, err := n.Float64(); err == nil {
					ram += int64(f)
				}
			}
		}
		if ram != 0 {
			hw.GraphicRAMBytes = &ram
		}
		if len(names) > 0 {
			joined := strings.Join(names, ", ")
			hw.GraphicNames = &joined
		}
	}

	return hw
}

// Apply copies the hardware columns onto rec.
func (hw Hardware) Apply(rec *models.ServerRecord) {
	rec.Processor = hw.Processor
	rec.RAMBytes = hw.RAMBytes
	rec.GraphicRAMBytes = hw.GraphicRAMBytes
	rec.GraphicNames = hw.GraphicNames
}

// scalarString renders strings, numbers and booleans as text; anything else is nil.
func scalarString(v any) *string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return nil
	}
	return &s
}

// number converts JSON numbers and numeric strings to float64.
func number(v any) *float64 {
	var f float64
	var err error
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case float64:
		f = t
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return nil
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// integer converts JSON numbers and numeric strings to int64, truncating fractions.
func integer(v any) *int64 {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return &i
		}
	}
	f := number(v)
	if f == nil {
		return nil
	}
	i := int64(*f)
	return &i
}

// truthy follows JSON-ish truthiness: false, 0, "" and empty containers are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return v != nil
	}
}
