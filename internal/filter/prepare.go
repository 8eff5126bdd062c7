// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package filter

import (
	"github.com/Xerz/drova-dash/internal/models"
)

// Metadata is the lookup data joined onto busy intervals.
type Metadata struct {
	// Stations holds server_info rows keyed by uuid.
	Stations map[string]models.StationInfo
	// Names and Cities are uuid lookups used when a station has no row.
	Names  map[string]string
	Cities map[string]string
	// Titles maps product ids to catalog titles.
	Titles map[string]string
}

// NewMetadata indexes server_info rows and the product catalog. When a uuid
// appears more than once the first row wins.
func NewMetadata(info []models.StationInfo, titles map[string]string) Metadata {
	meta := Metadata{
		Stations: make(map[string]models.StationInfo, len(info)),
		Names:    make(map[string]string, len(info)),
		Cities:   make(map[string]string, len(info)),
		Titles:   titles,
	}
	if meta.Titles == nil {
		meta.Titles = map[string]string{}
	}
	for _, st := range info {
		if _, dup := meta.Stations[st.UUID]; dup {
			continue
		}
		meta.Stations[st.UUID] = st
		if st.Name != nil {
			meta.Names[st.UUID] = *st.Name
		}
		if st.CityName != nil {
			meta.Cities[st.UUID] = *st.CityName
		}
	}
	return meta
}

// WithDurations converts busy intervals into rows with duration_sec and
// duration_minutes. Open intervals keep a nil duration.
func WithDurations(intervals []models.BusyInterval) []models.EnrichedInterval {
	out := make([]models.EnrichedInterval, len(intervals))
	for i, iv := range intervals {
		out[i].BusyInterval = iv
		if iv.EndedAt == nil {
			continue
		}
		sec := iv.EndedAt.Sub(iv.StartedAt).Seconds()
		minutes := sec / 60
		out[i].DurationSec = &sec
		out[i].DurationMinutes = &minutes
	}
	return out
}

// Enrich joins station metadata and product titles onto rows. Missing city,
// processor and graphic names become "Unknown" and a missing free trial flag
// becomes 0.
func Enrich(rows []models.EnrichedInterval, meta Metadata) []models.EnrichedInterval {
	out := make([]models.EnrichedInterval, len(rows))
	for i, r := range rows {
		st, known := meta.Stations[r.UUID]

		r.StationName = nil
		if name, ok := meta.Names[r.UUID]; ok {
			r.StationName = stringPtr(name)
		}
		r.ProductTitle = nil
		if title, ok := meta.Titles[r.ProductID]; ok {
			r.ProductTitle = stringPtr(title)
		}

		r.CityName = ""
		if known && st.CityName != nil {
			r.CityName = *st.CityName
		} else if city, ok := meta.Cities[r.UUID]; ok {
			r.CityName = city
		}
		r.CityName = orUnknown(r.CityName)

		r.Processor, r.GraphicNames, r.FreeTrial = models.UnknownLabel, models.UnknownLabel, 0
		r.ProductNumber, r.RAMBytes, r.GraphicRAMBytes = nil, nil, nil
		r.Longitude, r.Latitude = nil, nil
		if known {
			r.Processor = orUnknown(deref(st.Processor))
			r.GraphicNames = orUnknown(deref(st.GraphicNames))
			if st.FreeTrial != nil {
				r.FreeTrial = *st.FreeTrial
			}
			r.ProductNumber = st.ProductNumber
			r.RAMBytes = st.RAMBytes
			r.GraphicRAMBytes = st.GraphicRAMBytes
			r.Longitude = st.Longitude
			r.Latitude = st.Latitude
		}
		out[i] = r
	}
	return out
}

func stringPtr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orUnknown(s string) string {
	if s == "" {
		return models.UnknownLabel
	}
	return s
}
