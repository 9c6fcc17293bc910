package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/orar/google-maps-lead-extractor/models"
)

var (
	// coordAtRegexp matches the "@lat,lng" segment of a maps URL.
	coordAtRegexp = regexp.MustCompile(`@(-?\d+\.?\d*),(-?\d+\.?\d*)`)
	// coordDataRegexp matches the "!3dLAT!4dLNG" segment embedded in place URLs.
	coordDataRegexp = regexp.MustCompile(`!3d(-?\d+\.?\d*)!4d(-?\d+\.?\d*)`)
	// ratingRegexp captures the first floating-point token.
	ratingRegexp = regexp.MustCompile(`(\d+\.?\d*)`)
	// reviewRegexp captures the first digit group, thousands separators included.
	reviewRegexp = regexp.MustCompile(`(\d[\d,]*)`)
	// stateZipRegexp matches "NY 11201" / "NY 11201-4403" / "NY" address parts.
	stateZipRegexp = regexp.MustCompile(`^([A-Z]{2})\s*(\d{5}(?:-\d{4})?)?$`)
)

// weekdays are the only keys that survive hours validation.
var weekdays = map[string]struct{}{
	"Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {},
	"Friday": {}, "Saturday": {}, "Sunday": {},
}

// AddressParts is the comma-split decomposition of a raw address string.
type AddressParts struct {
	Street  string
	City    string
	State   string
	Zip     string
	Country string
}

// ParseAddress splits a raw address on commas: street, city, state+zip,
// country. A missing country falls back to defaultCountry.
func ParseAddress(raw, defaultCountry string) AddressParts {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	out := AddressParts{Country: defaultCountry}

	if len(parts) > 0 {
		out.Street = parts[0]
	}
	if len(parts) > 1 {
		out.City = parts[1]
	}
	if len(parts) > 2 {
		if m := stateZipRegexp.FindStringSubmatch(parts[2]); m != nil {
			out.State = m[1]
			out.Zip = m[2]
		} else {
			out.State = parts[2]
		}
	}
	if len(parts) > 3 {
		out.Country = parts[len(parts)-1]
	}

	return out
}

// ParseCoordinates extracts latitude/longitude from a maps URL. The
// "@lat,lng" form wins over the embedded "!3d!4d" form. Values outside
// geographic bounds are rejected; the result is both-or-neither.
func ParseCoordinates(mapsURL string) (*float64, *float64) {
	m := coordAtRegexp.FindStringSubmatch(mapsURL)
	if m == nil {
		m = coordDataRegexp.FindStringSubmatch(mapsURL)
	}
	if m == nil {
		return nil, nil
	}

	lat, err1 := strconv.ParseFloat(m[1], 64)
	lng, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, nil
	}

	return &lat, &lng
}

// ParseRating extracts the first numeric token and accepts it only within
// the 0–5 star range.
func ParseRating(raw string) *float64 {
	m := ratingRegexp.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil || val < 0 || val > 5 {
		return nil
	}
	return &val
}

// ParseReviewCount extracts the first digit group, stripping thousands
// separators. Absence or a parse failure yields 0.
func ParseReviewCount(raw string) int {
	m := reviewRegexp.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ValidateHours turns disclosed day/time pairs into a weekday-keyed map.
// Only canonical weekday names survive; when a weekday appears more than
// once (e.g. kitchen hours vs. general hours) the first occurrence wins.
// An empty result collapses to nil.
func ValidateHours(entries []models.HourEntry) map[string]string {
	var out map[string]string
	for _, e := range entries {
		day := NormalizeText(e.Day)
		hours := NormalizeText(e.Hours)
		if hours == "" {
			continue
		}
		if _, ok := weekdays[day]; !ok {
			continue
		}
		if out == nil {
			out = make(map[string]string, 7)
		}
		if _, dup := out[day]; dup {
			continue
		}
		out[day] = hours
	}
	return out
}

// NormalizePhone converts a 10-digit US form to leading-+ international
// notation. An 11-digit form already carrying the country code gets a bare
// plus; anything else is returned trimmed.
func NormalizePhone(raw string) string {
	trimmed := NormalizeText(raw)
	if trimmed == "" {
		return ""
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	switch d := digits.String(); {
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && d[0] == '1':
		return "+" + d
	case strings.HasPrefix(trimmed, "+"):
		return "+" + d
	default:
		return trimmed
	}
}

// NormalizeText trims and collapses internal whitespace.
func NormalizeText(s string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(s), unicode.IsSpace)
	return strings.Join(fields, " ")
}
