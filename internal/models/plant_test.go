package models

import (
	"encoding/json"
	"testing"
)

func TestStringListCoercesScalar(t *testing.T) {
	var p Plant
	if err := json.Unmarshal([]byte(`{"commonName":"Azalea","sunExposure":"full_sun"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.SunExposure) != 1 || p.SunExposure[0] != "full_sun" {
		t.Fatalf("sunExposure = %#v, want [full_sun]", p.SunExposure)
	}
	// Omitted fields stay nil until Normalize; after Normalize they are
	// empty lists, never scalars.
	p.Normalize()
	if p.Tags == nil || len(p.Tags) != 0 {
		t.Fatalf("tags = %#v, want empty list", p.Tags)
	}
}

func TestStringListKeepsArrays(t *testing.T) {
	var p Plant
	if err := json.Unmarshal([]byte(`{"soilType":["clay","loam"]}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.SoilType) != 2 || p.SoilType[0] != "clay" || p.SoilType[1] != "loam" {
		t.Fatalf("soilType = %#v", p.SoilType)
	}
}

func TestStringListNullBecomesEmpty(t *testing.T) {
	var p Plant
	if err := json.Unmarshal([]byte(`{"bloomSeason":null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.BloomSeason == nil || len(p.BloomSeason) != 0 {
		t.Fatalf("bloomSeason = %#v, want empty list", p.BloomSeason)
	}
}

func TestStringListMarshalsNilAsEmptyArray(t *testing.T) {
	out, err := json.Marshal(Plant{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if arr, ok := m["sunExposure"].([]any); !ok || len(arr) != 0 {
		t.Fatalf("sunExposure = %#v, want []", m["sunExposure"])
	}
}
