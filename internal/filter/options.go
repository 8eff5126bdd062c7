// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package filter

import (
	"fmt"
	"sort"

	"github.com/Xerz/drova-dash/internal/models"
)

// Option is a selectable facet value with a display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options lists the values available to each facet of a row set.
type Options struct {
	Stations   []Option `json:"stations"`
	Products   []Option `json:"products"`
	Cities     []string `json:"cities"`
	Processors []string `json:"processors"`
	Graphics   []string `json:"graphics"`

	ProductNumber   *IntRange `json:"product_number"`
	RAMBytes        *IntRange `json:"ram_bytes"`
	GraphicRAMBytes *IntRange `json:"graphic_ram_bytes"`
}

// BuildOptions collects sorted distinct facet values and numeric ranges.
// Stations are labelled "name (uuid)" and products "title (id)" when a
// name or title is known. Ranges are nil when no row has the attribute.
func BuildOptions(rows []models.EnrichedInterval) Options {
	stations := make(map[string]string)
	products := make(map[string]string)
	cities := make(map[string]struct{})
	processors := make(map[string]struct{})
	graphics := make(map[string]struct{})
	var productNumber, ram, graphicRAM *IntRange

	for i := range rows {
		r := &rows[i]
		if r.UUID != "" {
			if _, ok := stations[r.UUID]; !ok || stations[r.UUID] == r.UUID {
				stations[r.UUID] = label(r.UUID, r.StationName)
			}
		}
		if r.ProductID != "" {
			if _, ok := products[r.ProductID]; !ok || products[r.ProductID] == r.ProductID {
				products[r.ProductID] = label(r.ProductID, r.ProductTitle)
			}
		}
		addValue(cities, r.CityName)
		addValue(processors, r.Processor)
		addValue(graphics, r.GraphicNames)
		productNumber = widen(productNumber, r.ProductNumber)
		ram = widen(ram, r.RAMBytes)
		graphicRAM = widen(graphicRAM, r.GraphicRAMBytes)
	}

	return Options{
		Stations:        optionList(stations),
		Products:        optionList(products),
		Cities:          valueList(cities),
		Processors:      valueList(processors),
		Graphics:        valueList(graphics),
		ProductNumber:   productNumber,
		RAMBytes:        ram,
		GraphicRAMBytes: graphicRAM,
	}
}

func label(id string, name *string) string {
	if name == nil || *name == "" || *name == id {
		return id
	}
	return fmt.Sprintf("%s (%s)", *name, id)
}

func addValue(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func widen(r *IntRange, v *int64) *IntRange {
	if v == nil {
		return r
	}
	if r == nil {
		return &IntRange{Min: *v, Max: *v}
	}
	if *v < r.Min {
		r.Min = *v
	}
	if *v > r.Max {
		r.Max = *v
	}
	return r
}

func optionList(m map[string]string) []Option {
	out := make([]Option, 0, len(m))
	for v, l := range m {
		out = append(out, Option{Value: v, Label: l})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

func valueList(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
