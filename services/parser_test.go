package services

import (
	"testing"

	"github.com/orar/google-maps-lead-extractor/models"
)

func TestParseAddressFull(t *testing.T) {
	got := ParseAddress("123 Main St, Brooklyn, NY 11201, United States", "United States")

	want := AddressParts{
		Street:  "123 Main St",
		City:    "Brooklyn",
		State:   "NY",
		Zip:     "11201",
		Country: "United States",
	}
	if got != want {
		t.Errorf("ParseAddress = %+v; want %+v", got, want)
	}
}

func TestParseAddressDefaultsCountry(t *testing.T) {
	got := ParseAddress("45 Elm St, Austin, TX 73301", "United States")
	if got.Country != "United States" {
		t.Errorf("country: got %q, want default", got.Country)
	}
	if got.State != "TX" || got.Zip != "73301" {
		t.Errorf("state/zip: got %q/%q", got.State, got.Zip)
	}
}

func TestParseAddressNonStateThirdPart(t *testing.T) {
	got := ParseAddress("1 High St, London, Greater London, United Kingdom", "United States")
	if got.State != "Greater London" {
		t.Errorf("state: got %q, want verbatim third part", got.State)
	}
	if got.Zip != "" {
		t.Errorf("zip: got %q, want empty", got.Zip)
	}
	if got.Country != "United Kingdom" {
		t.Errorf("country: got %q", got.Country)
	}
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		url     string
		lat     float64
		lng     float64
		wantNil bool
	}{
		{"https://www.google.com/maps/place/X/@40.6892,-73.9915,17z", 40.6892, -73.9915, false},
		{"https://www.google.com/maps/place/X/data=!3d40.6892!4d-73.9915", 40.6892, -73.9915, false},
		{"https://www.google.com/maps/place/X", 0, 0, true},
		{"https://maps.example.com/@91.0,10.0,17z", 0, 0, true},
		{"https://maps.example.com/@45.0,181.0,17z", 0, 0, true},
	}

	for _, tt := range tests {
		lat, lng := ParseCoordinates(tt.url)
		if tt.wantNil {
			if lat != nil || lng != nil {
				t.Errorf("ParseCoordinates(%q): expected both nil, got %v/%v", tt.url, lat, lng)
			}
			continue
		}
		if lat == nil || lng == nil {
			t.Fatalf("ParseCoordinates(%q): got nil", tt.url)
		}
		if *lat != tt.lat || *lng != tt.lng {
			t.Errorf("ParseCoordinates(%q) = %v,%v; want %v,%v", tt.url, *lat, *lng, tt.lat, tt.lng)
		}
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantNil bool
	}{
		{"4.5", 4.5, false},
		{"4.5 stars", 4.5, false},
		{"Rated 3.8 out of 5", 3.8, false},
		{"5", 5, false},
		{"6.2", 0, true},
		{"", 0, true},
		{"New", 0, true},
	}

	for _, tt := range tests {
		got := ParseRating(tt.raw)
		if tt.wantNil {
			if got != nil {
				t.Errorf("ParseRating(%q) = %v; want nil", tt.raw, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("ParseRating(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseReviewCount(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"1,234 reviews", 1234},
		{"(567)", 567},
		{"", 0},
		{"no reviews", 0},
	}

	for _, tt := range tests {
		if got := ParseReviewCount(tt.raw); got != tt.want {
			t.Errorf("ParseReviewCount(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestValidateHoursKeepsFirstWeekdayOccurrence(t *testing.T) {
	entries := []models.HourEntry{
		{Day: "Monday", Hours: "9 AM–5 PM"},
		{Day: "Monday", Hours: "5 PM–9 PM"},
		{Day: "Tuesday", Hours: "9 AM–5 PM"},
	}

	got := ValidateHours(entries)
	if got["Monday"] != "9 AM–5 PM" {
		t.Errorf("Monday: got %q, want first-encountered range", got["Monday"])
	}
	if len(got) != 2 {
		t.Errorf("expected 2 days, got %d", len(got))
	}
}

func TestValidateHoursDropsUnknownDaysAndEmptyValues(t *testing.T) {
	entries := []models.HourEntry{
		{Day: "Holidays", Hours: "Closed"},
		{Day: "Friday", Hours: "   "},
	}

	if got := ValidateHours(entries); got != nil {
		t.Errorf("expected nil for no valid entries, got %v", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"(212) 555-1234", "+12125551234"},
		{"1-212-555-1234", "+12125551234"},
		{"+1 212 555 1234", "+12125551234"},
		{"+12125551234", "+12125551234"},
		{"555-1234", "555-1234"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.raw); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	if got := NormalizeText("  Joe's   Diner \n"); got != "Joe's Diner" {
		t.Errorf("NormalizeText = %q", got)
	}
}
