package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"123e4567-e89b-12d3-a456-426614174000",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"{0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b}",
		"",
	}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-02-30", "01-01-2023", ""}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00+03:00", "2024-01-15T10:30:00.123Z"}
	invalid := []string{"2024-01-15", "2024-01-15 10:30:00", "yesterday", ""}
	for _, s := range valid {
		if _, ok := IsValidDateTime(s); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDateTime(s); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"MATERNITY", "PATERNITY"}
	if !IsInSlice("MATERNITY", slice) {
		t.Errorf("IsInSlice(MATERNITY) = false, want true")
	}
	if IsInSlice("SICK", slice) {
		t.Errorf("IsInSlice(SICK) = true, want false")
	}
}

type gpsRequest struct {
	Latitude  *float64 `json:"gpsLatitude" validate:"required,latitude"`
	Longitude *float64 `json:"gpsLongitude" validate:"required,longitude"`
	Type      string   `json:"attendanceType" validate:"required,oneof=MORNING_IN MORNING_OUT"`
}

func TestStruct(t *testing.T) {
	lat, lon := 7.67, 36.83
	if errs := Struct(gpsRequest{Latitude: &lat, Longitude: &lon, Type: "MORNING_IN"}); errs != nil {
		t.Fatalf("Struct(valid) = %v, want nil", errs)
	}

	badLat := 120.0
	errs := Struct(gpsRequest{Latitude: &badLat, Type: "LUNCH"})
	got := errs.ToMap()
	want := map[string]string{
		"gpsLatitude":    "must be a valid latitude",
		"gpsLongitude":   "is required",
		"attendanceType": "must be one of: MORNING_IN, MORNING_OUT",
	}
	if len(got) != len(want) {
		t.Fatalf("Struct() returned %d errors, want %d: %v", len(got), len(want), got)
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("Struct()[%q] = %q, want %q", field, got[field], msg)
		}
	}
}

func TestValidationErrors_Err(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Errorf("Err() on empty = %v, want nil", errs.Err())
	}
	errs.Add("startDate", "is required")
	if errs.Err() == nil {
		t.Errorf("Err() with entries = nil, want error")
	}
	if errs.Error() != "startDate: is required" {
		t.Errorf("Error() = %q", errs.Error())
	}
}
