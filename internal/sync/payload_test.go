// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package sync

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

// decodeObject decodes s the way the client does.
func decodeObject(t *testing.T, s string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return m
}

func TestParseServer(t *testing.T) {
	tests := []struct {
		name          string
		payload       string
		wantUUID      string
		wantProducts  *int64
		wantFreeTrial int64
		wantPublished *int64
	}{
		{
			name:          "full payload",
			payload:       `{"uuid":"a","name":"Alpha","product_list":["x","y"],"groups_list":["Regulars"," Free Trial Volunteers "],"published":true}`,
			wantUUID:      "a",
			wantProducts:  ptr(int64(2)),
			wantFreeTrial: 1,
			wantPublished: ptr(int64(1)),
		},
		{
			name:          "no lists",
			payload:       `{"uuid":"b","product_list":null,"groups_list":"free trial volunteers","published":false}`,
			wantUUID:      "b",
			wantPublished: ptr(int64(0)),
		},
		{
			name:         "empty product list and group mismatch",
			payload:      `{"uuid":"c","product_list":[],"groups_list":["free trial"],"published":null}`,
			wantUUID:     "c",
			wantProducts: ptr(int64(0)),
		},
		{
			name:          "published as number",
			payload:       `{"published":2}`,
			wantPublished: ptr(int64(1)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ParseServer(decodeObject(t, tt.payload))
			if rec.UUID != tt.wantUUID {
				t.Errorf("UUID = %q, want %q", rec.UUID, tt.wantUUID)
			}
			if !equalPtr(rec.ProductNumber, tt.wantProducts) {
				t.Errorf("ProductNumber = %v, want %v", deref(rec.ProductNumber), deref(tt.wantProducts))
			}
			if rec.FreeTrial != tt.wantFreeTrial {
				t.Errorf("FreeTrial = %d, want %d", rec.FreeTrial, tt.wantFreeTrial)
			}
			if !equalPtr(rec.Published, tt.wantPublished) {
				t.Errorf("Published = %v, want %v", deref(rec.Published), deref(tt.wantPublished))
			}
		})
	}
}

func TestParseServerScalars(t *testing.T) {
	rec := ParseServer(decodeObject(t,
		`{"uuid":"a","user_id":12345,"city_name":"Omsk","longitude":"73.37","latitude":54.98,"distance":null,"state":"BUSY"}`))

	if rec.UserID == nil || *rec.UserID != "12345" {
		t.Errorf("UserID = %v, want 12345", rec.UserID)
	}
	if rec.CityName == nil || *rec.CityName != "Omsk" {
		t.Errorf("CityName = %v, want Omsk", rec.CityName)
	}
	if rec.Longitude == nil || *rec.Longitude != 73.37 {
		t.Errorf("Longitude = %v, want 73.37", rec.Longitude)
	}
	if rec.Latitude == nil || *rec.Latitude != 54.98 {
		t.Errorf("Latitude = %v, want 54.98", rec.Latitude)
	}
	if rec.Distance != nil {
		t.Errorf("Distance = %v, want nil", *rec.Distance)
	}
	if rec.Name != nil {
		t.Errorf("Name = %v, want nil", *rec.Name)
	}
}

func TestParseHardware(t *testing.T) {
	tests := []struct {
		name          string
		payload       string
		wantProcessor *string
		wantRAM       *int64
		wantGPURAM    *int64
		wantGPUNames  *string
	}{
		{
			name: "full payload",
			payload: `{"processor":{"manufacturer":" AMD ","version":"Ryzen 7 5800X "},"ram_bytes":34359738368,
				"graphic":[{"name":"RTX 3070","ram_bytes":8589934592},"junk",{"name":"","ram_bytes":1024},{"name":"iGPU"}]}`,
			wantProcessor: ptr("AMD Ryzen 7 5800X"),
			wantRAM:       ptr(int64(34359738368)),
			wantGPURAM:    ptr(int64(8589935616)),
			wantGPUNames:  ptr("RTX 3070, iGPU"),
		},
		{
			name:          "manufacturer only",
			payload:       `{"processor":{"manufacturer":"Intel","version":null}}`,
			wantProcessor: ptr("Intel"),
		},
		{
			name:    "blank processor and zero gpu ram",
			payload: `{"processor":{"manufacturer":"  ","version":""},"graphic":[{"ram_bytes":0}]}`,
		},
		{
			name:    "empty payload",
			payload: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hw := ParseHardware(decodeObject(t, tt.payload))
			if !equalPtr(hw.Processor, tt.wantProcessor) {
				t.Errorf("Processor = %v, want %v", deref(hw.Processor), deref(tt.wantProcessor))
			}
			if !equalPtr(hw.RAMBytes, tt.wantRAM) {
				t.Errorf("RAMBytes = %v, want %v", deref(hw.RAMBytes), deref(tt.wantRAM))
			}
			if !equalPtr(hw.GraphicRAMBytes, tt.wantGPURAM) {
				t.Errorf("GraphicRAMBytes = %v, want %v", deref(hw.GraphicRAMBytes), deref(tt.wantGPURAM))
			}
			if !equalPtr(hw.GraphicNames, tt.wantGPUNames) {
				t.Errorf("GraphicNames = %v, want %v", deref(hw.GraphicNames), deref(tt.wantGPUNames))
			}
		})
	}

	t.Run("nil payload", func(t *testing.T) {
		if hw := ParseHardware(nil); hw != (Hardware{}) {
			t.Errorf("ParseHardware(nil) = %+v, want zero value", hw)
		}
	})
}

func ptr[T any](v T) *T { return &v }

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
