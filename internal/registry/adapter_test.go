package registry

import (
	"encoding/json"
	"testing"
)

func TestNormalizeIdentifierAliases(t *testing.T) {
	payloads := []string{
		`{"asset_tag": "CAL-0042", "interval_days": 365}`,
		`{"number": "CAL-0042", "cal_frequency_months": 12}`,
		`{"equipment_id": "CAL-0042", "frequency": "annual"}`,
	}

	for _, p := range payloads {
		var in CreateInput
		if err := json.Unmarshal([]byte(p), &in); err != nil {
			t.Fatalf("decode %s: %v", p, err)
		}
		eq, err := in.Normalize()
		if err != nil {
			t.Fatalf("Normalize %s: %v", p, err)
		}
		if eq.AssetTag != "CAL-0042" {
			t.Errorf("payload %s: expected asset tag CAL-0042, got %q", p, eq.AssetTag)
		}
		if eq.IntervalDays != 365 {
			t.Errorf("payload %s: expected 365 day interval, got %d", p, eq.IntervalDays)
		}
	}
}

func TestNormalizeMissingIdentifier(t *testing.T) {
	_, err := CreateInput{Type: "caliper"}.Normalize()
	if err == nil {
		t.Fatal("expected validation error for missing identifier")
	}
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestNormalizeIntervals(t *testing.T) {
	cases := []struct {
		in   CreateInput
		days int
	}{
		{CreateInput{AssetTag: "T1", IntervalDays: 90}, 90},
		{CreateInput{AssetTag: "T1", FrequencyMonths: 6}, 182},
		{CreateInput{AssetTag: "T1", Frequency: "quarterly"}, 91},
		{CreateInput{AssetTag: "T1", Frequency: "Biennial"}, 730},
		{CreateInput{AssetTag: "T1"}, 365}, // default annual
	}

	for _, c := range cases {
		eq, err := c.in.Normalize()
		if err != nil {
			t.Fatalf("Normalize %+v: %v", c.in, err)
		}
		if eq.IntervalDays != c.days {
			t.Errorf("input %+v: expected %d days, got %d", c.in, c.days, eq.IntervalDays)
		}
	}
}

func TestNormalizeRejectsBadIntervals(t *testing.T) {
	bad := []CreateInput{
		{AssetTag: "T1", IntervalDays: -5},
		{AssetTag: "T1", FrequencyMonths: -1},
		{AssetTag: "T1", Frequency: "fortnightly"},
	}
	for _, in := range bad {
		if _, err := in.Normalize(); !IsValidation(err) {
			t.Errorf("input %+v: expected validation error, got %v", in, err)
		}
	}
}

func TestNormalizeTypeAlias(t *testing.T) {
	eq, err := CreateInput{AssetTag: "T1", EquipmentType: "gauge"}.Normalize()
	if err != nil {
		t.Fatal(err)
	}
	if eq.Type != "gauge" {
		t.Errorf("expected type gauge, got %q", eq.Type)
	}
}
