package services

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/orar/google-maps-lead-extractor/models"
	"github.com/orar/google-maps-lead-extractor/utils"
)

func newTestValidator(domains, patterns []string) *Validator {
	return NewValidator("United States", domains, patterns, utils.NewLogger())
}

func TestValidateRejectsEmptyName(t *testing.T) {
	v := newTestValidator(nil, nil)

	if rec := v.Validate(&models.RawBusiness{Name: "   ", Address: "1 Main St"}); rec != nil {
		t.Errorf("expected nil for whitespace-only name, got %+v", rec)
	}
	if rec := v.Validate(&models.RawBusiness{Name: "Joe's Diner"}); rec == nil {
		t.Error("expected record for valid name")
	}
}

func TestValidateCoordinatesBothOrNeither(t *testing.T) {
	v := newTestValidator(nil, nil)

	rec := v.Validate(&models.RawBusiness{
		Name:    "Joe's Diner",
		MapsURL: "https://www.google.com/maps/place/X/@40.6892,-73.9915,17z",
	})
	if rec.Latitude == nil || rec.Longitude == nil {
		t.Fatal("expected both coordinates set")
	}

	rec = v.Validate(&models.RawBusiness{
		Name:    "Joe's Diner",
		MapsURL: "https://www.google.com/maps/place/X",
	})
	if rec.Latitude != nil || rec.Longitude != nil {
		t.Error("expected both coordinates nil")
	}
}

func TestValidateIdempotent(t *testing.T) {
	v := newTestValidator(nil, nil)

	raw := &models.RawBusiness{
		Name:        "  Joe's   Diner ",
		Address:     "123 Main St,  Brooklyn, NY 11201, United States",
		Phone:       "(212) 555-1234",
		Website:     "https://joesdiner.example.org",
		Rating:      "4.5 stars",
		ReviewCount: "1,234 reviews",
		Category:    "Diner",
		MapsURL:     "https://www.google.com/maps/place/X/@40.6892,-73.9915,17z",
		Hours:       []models.HourEntry{{Day: "Monday", Hours: "9 AM–5 PM"}},
	}

	rec1 := v.Validate(raw)
	if rec1 == nil {
		t.Fatal("first validation rejected record")
	}

	// Feed the validated output back through as if it were raw.
	raw2 := &models.RawBusiness{
		Name:        rec1.BusinessName,
		Address:     rec1.Address,
		Phone:       rec1.Phone,
		Website:     rec1.Website,
		Rating:      fmt.Sprintf("%g", *rec1.Rating),
		ReviewCount: strconv.Itoa(rec1.ReviewCount),
		Category:    rec1.Category,
		MapsURL:     rec1.MapsURL,
	}
	for day, hours := range rec1.Hours {
		raw2.Hours = append(raw2.Hours, models.HourEntry{Day: day, Hours: hours})
	}

	rec2 := v.Validate(raw2)
	if rec2 == nil {
		t.Fatal("second validation rejected record")
	}

	if rec2.BusinessName != rec1.BusinessName ||
		rec2.Street != rec1.Street || rec2.City != rec1.City ||
		rec2.State != rec1.State || rec2.Zip != rec1.Zip ||
		rec2.Country != rec1.Country || rec2.Phone != rec1.Phone ||
		rec2.Website != rec1.Website || rec2.ReviewCount != rec1.ReviewCount {
		t.Errorf("re-validation changed fields:\nfirst:  %+v\nsecond: %+v", rec1, rec2)
	}
	if *rec2.Rating != *rec1.Rating {
		t.Errorf("rating changed: %v → %v", *rec1.Rating, *rec2.Rating)
	}
	if *rec2.Latitude != *rec1.Latitude || *rec2.Longitude != *rec1.Longitude {
		t.Error("coordinates changed on re-validation")
	}
	if rec2.Hours["Monday"] != rec1.Hours["Monday"] {
		t.Error("hours changed on re-validation")
	}
}

func TestValidateWebsite(t *testing.T) {
	v := newTestValidator(nil, nil)

	tests := []struct {
		raw  string
		want string
	}{
		{"https://example.org", "https://example.org"},
		{"http://example.org/menu", "http://example.org/menu"},
		{"ftp://example.org", ""},
		{"not a url", ""},
		{"", ""},
	}

	for _, tt := range tests {
		rec := v.Validate(&models.RawBusiness{Name: "X", Website: tt.raw})
		if rec.Website != tt.want {
			t.Errorf("website %q: got %q, want %q", tt.raw, rec.Website, tt.want)
		}
	}
}

func TestValidateProfileEmailSideChannel(t *testing.T) {
	v := newTestValidator(nil, nil)

	rec := v.Validate(&models.RawBusiness{Name: "X", ProfileEmail: "Info@Example.org"})
	if rec.EmailSource != models.EmailSourceProfile {
		t.Errorf("email source: got %q, want %q", rec.EmailSource, models.EmailSourceProfile)
	}
	if len(rec.Emails) != 1 || rec.Emails[0] != "info@example.org" {
		t.Errorf("emails: got %v", rec.Emails)
	}

	rec = v.Validate(&models.RawBusiness{Name: "X"})
	if rec.EmailSource != models.EmailSourceNotFound || len(rec.Emails) != 0 {
		t.Errorf("expected empty not_found default, got %v/%q", rec.Emails, rec.EmailSource)
	}
}

func TestFilterEmailsBlacklist(t *testing.T) {
	v := newTestValidator([]string{"example.com"}, []string{`^noreply@`})

	got := v.FilterEmails([]string{
		"info@example.com",
		"noreply@company.com",
		"sales@company.com",
		"Sales@Company.com",
		"not-an-email",
	})

	if len(got) != 1 || got[0] != "sales@company.com" {
		t.Errorf("FilterEmails = %v; want [sales@company.com]", got)
	}
}

func TestFilterEmailsPreservesInsertionOrder(t *testing.T) {
	v := newTestValidator(nil, nil)

	got := v.FilterEmails([]string{"b@x.org", "a@x.org", "b@x.org"})
	if len(got) != 2 || got[0] != "b@x.org" || got[1] != "a@x.org" {
		t.Errorf("FilterEmails = %v; want first-seen order", got)
	}
}

func TestMeetsCriteriaRatingAndReviews(t *testing.T) {
	v := newTestValidator(nil, nil)
	rating := 4.2

	rec := &models.BusinessRecord{BusinessName: "X", Rating: &rating, ReviewCount: 10}

	if !v.MeetsCriteria(rec, models.Filters{MinRating: 4.0}) {
		t.Error("4.2 should pass MinRating 4.0")
	}
	if v.MeetsCriteria(rec, models.Filters{MinRating: 4.5}) {
		t.Error("4.2 should fail MinRating 4.5")
	}
	if v.MeetsCriteria(rec, models.Filters{MinReviews: 20}) {
		t.Error("10 reviews should fail MinReviews 20")
	}
	if v.MeetsCriteria(&models.BusinessRecord{BusinessName: "Y"}, models.Filters{MinRating: 1.0}) {
		t.Error("unrated record should fail a MinRating filter")
	}
}

func TestMeetsCriteriaPriceLevelSparsePass(t *testing.T) {
	v := newTestValidator(nil, nil)
	filters := models.Filters{PriceLevels: []string{"$", "$$"}}

	if !v.MeetsCriteria(&models.BusinessRecord{BusinessName: "X"}, filters) {
		t.Error("record without price level should pass the tier filter")
	}
	if !v.MeetsCriteria(&models.BusinessRecord{BusinessName: "X", PriceLevel: "$$"}, filters) {
		t.Error("$$ should be allowed")
	}
	if v.MeetsCriteria(&models.BusinessRecord{BusinessName: "X", PriceLevel: "$$$$"}, filters) {
		t.Error("$$$$ should be excluded")
	}
}

func TestMeetsCriteriaPriceRange(t *testing.T) {
	v := newTestValidator(nil, nil)

	tests := []struct {
		name       string
		priceRange string
		filters    models.Filters
		want       bool
	}{
		{"no range always passes min", "", models.Filters{MinPrice: 50}, true},
		{"band above max excluded", "$30–40", models.Filters{MaxPrice: 20}, false},
		{"open-ended lower bound within max", "$100+", models.Filters{MaxPrice: 150}, true},
		{"open-ended lower bound above max", "$200+", models.Filters{MaxPrice: 150}, false},
		{"overlap accepted, not containment", "$50–100", models.Filters{MaxPrice: 60}, true},
		{"band below min excluded", "$10–20", models.Filters{MinPrice: 50}, false},
		{"open-ended passes any min", "$30+", models.Filters{MinPrice: 50}, true},
	}

	for _, tt := range tests {
		rec := &models.BusinessRecord{BusinessName: "X", PriceRange: tt.priceRange}
		if got := v.MeetsCriteria(rec, tt.filters); got != tt.want {
			t.Errorf("%s: MeetsCriteria(%q, %+v) = %t; want %t",
				tt.name, tt.priceRange, tt.filters, got, tt.want)
		}
	}
}
