package models

import "time"

// Email source values recorded on a BusinessRecord.
const (
	EmailSourceWebsite  = "website"
	EmailSourceProfile  = "google_profile"
	EmailSourceNotFound = "not_found"
)

// HourEntry is one day/time-range pair as read from the detail panel, in
// the order it was disclosed. Kept as a slice (not a map) so that a weekday
// appearing twice can be resolved first-occurrence-wins downstream.
type HourEntry struct {
	Day   string
	Hours string
}

// RawBusiness holds unprocessed scraped data directly from the browser.
// Every field is optional; it reflects whatever was present in the detail
// view at the moment of extraction and is discarded after validation.
type RawBusiness struct {
	Name         string
	Address      string
	Phone        string
	Website      string
	Rating       string
	ReviewCount  string
	Category     string
	PriceLevel   string
	PriceRange   string
	MapsURL      string
	Hours        []HourEntry
	ProfileEmail string
	ScrapedAt    time.Time
}

// BusinessRecord is the validated, canonical lead ready for storage.
type BusinessRecord struct {
	ID           int64
	RunID        string
	BusinessName string
	Address      string
	Street       string
	City         string
	State        string
	Zip          string
	Country      string
	Phone        string
	Website      string
	Rating       *float64
	ReviewCount  int
	Category     string
	PriceLevel   string
	PriceRange   string
	MapsURL      string
	Latitude     *float64
	Longitude    *float64
	Hours        map[string]string
	Emails       []string
	EmailSource  string
	CreatedAt    time.Time
}

// Filters holds the user-supplied inclusion criteria. Zero values disable
// the corresponding filter.
type Filters struct {
	MinRating   float64
	MinReviews  int
	PriceLevels []string
	MinPrice    float64
	MaxPrice    float64
}

// LeadReport holds the computed coverage stats over the final record set.
type LeadReport struct {
	TotalLeads      int
	WithWebsite     int
	WithEmail       int
	WithPhone       int
	AverageRating   float64
	TopRated        []*BusinessRecord
	LeadsByCity     map[string]int
	LeadsByCategory map[string]int
}
