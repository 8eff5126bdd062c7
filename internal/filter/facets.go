// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package filter

import (
	"github.com/Xerz/drova-dash/internal/models"
)

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Contains reports whether v is present and inside the range.
func (r *IntRange) Contains(v *int64) bool {
	return v != nil && *v >= r.Min && *v <= r.Max
}

// Facets narrows rows and the station scope by station attributes.
// A nil selection disables that facet; an empty non-nil selection matches
// nothing. A nil range disables that range.
type Facets struct {
	Stations   []string `json:"stations,omitempty"`
	Products   []string `json:"products,omitempty"`
	Cities     []string `json:"cities,omitempty"`
	Processors []string `json:"processors,omitempty"`
	Graphics   []string `json:"graphics,omitempty"`

	FreeTrialOnly bool `json:"free_trial_only"`

	ProductNumber   *IntRange `json:"product_number,omitempty"`
	RAMBytes        *IntRange `json:"ram_bytes,omitempty"`
	GraphicRAMBytes *IntRange `json:"graphic_ram_bytes,omitempty"`
}

// selection is a compiled facet. A nil selection matches everything.
type selection map[string]struct{}

func newSelection(values []string) selection {
	if values == nil {
		return nil
	}
	s := make(selection, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s selection) match(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[v]
	return ok
}

type compiled struct {
	stations, products, cities, processors, graphics selection
	facets                                           *Facets
}

func (f *Facets) compile() compiled {
	return compiled{
		stations:   newSelection(f.Stations),
		products:   newSelection(f.Products),
		cities:     newSelection(f.Cities),
		processors: newSelection(f.Processors),
		graphics:   newSelection(f.Graphics),
		facets:     f,
	}
}

// matchStation applies every facet that describes the station itself.
func (c *compiled) matchStation(uuid, city, processor, graphics string, freeTrial float64, productNumber, ram, graphicRAM *int64) bool {
	f := c.facets
	switch {
	case !c.stations.match(uuid),
		!c.cities.match(city),
		!c.processors.match(processor),
		!c.graphics.match(graphics):
		return false
	case f.FreeTrialOnly && freeTrial != 1:
		return false
	case f.ProductNumber != nil && !f.ProductNumber.Contains(productNumber),
		f.RAMBytes != nil && !f.RAMBytes.Contains(ram),
		f.GraphicRAMBytes != nil && !f.GraphicRAMBytes.Contains(graphicRAM):
		return false
	}
	return true
}

// ApplyFacets keeps rows with a known duration that match every enabled facet.
func ApplyFacets(rows []models.EnrichedInterval, f Facets) []models.EnrichedInterval {
	c := f.compile()
	out := make([]models.EnrichedInterval, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		if r.DurationSec == nil || !c.products.match(r.ProductID) {
			continue
		}
		if !c.matchStation(r.UUID, r.CityName, r.Processor, r.GraphicNames, r.FreeTrial,
			r.ProductNumber, r.RAMBytes, r.GraphicRAMBytes) {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// StationScope returns the server_info stations matching the facets, with
// missing labels filled and duplicates removed. The product facet does not
// apply because server_info rows carry no product selection.
func StationScope(info []models.StationInfo, f Facets) []models.ScopeStation {
	c := f.compile()
	out := make([]models.ScopeStation, 0, len(info))
	seen := make(map[string]struct{}, len(info))
	for _, st := range info {
		s := models.ScopeStation{
			UUID:            st.UUID,
			Name:            st.Name,
			CityName:        orUnknown(deref(st.CityName)),
			Processor:       orUnknown(deref(st.Processor)),
			GraphicNames:    orUnknown(deref(st.GraphicNames)),
			ProductNumber:   st.ProductNumber,
			RAMBytes:        st.RAMBytes,
			GraphicRAMBytes: st.GraphicRAMBytes,
			Longitude:       st.Longitude,
			Latitude:        st.Latitude,
		}
		if st.FreeTrial != nil {
			s.FreeTrial = *st.FreeTrial
		}
		if !c.matchStation(s.UUID, s.CityName, s.Processor, s.GraphicNames, s.FreeTrial,
			s.ProductNumber, s.RAMBytes, s.GraphicRAMBytes) {
			continue
		}
		if _, dup := seen[s.UUID]; dup {
			continue
		}
		seen[s.UUID] = struct{}{}
		out = append(out, s)
	}
	return out
}
