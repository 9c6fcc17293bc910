package services

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mcnijman/go-emailaddress"

	"github.com/orar/google-maps-lead-extractor/models"
	"github.com/orar/google-maps-lead-extractor/utils"
)

// priceBoundsRegexp captures the digit groups of a price-range string such
// as "$50–100" or "$100+".
var priceBoundsRegexp = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// Validator normalizes raw extractions into BusinessRecords and applies the
// user-supplied inclusion criteria. It owns its email blacklist; nothing is
// cached at package level.
type Validator struct {
	defaultCountry  string
	blockedDomains  []string
	blockedPatterns []*regexp.Regexp
	logger          *utils.Logger
}

// NewValidator builds a Validator. Blacklist patterns that fail to compile
// are logged and dropped rather than failing construction.
func NewValidator(defaultCountry string, blockedDomains, blockedPatterns []string, logger *utils.Logger) *Validator {
	v := &Validator{
		defaultCountry: defaultCountry,
		blockedDomains: make([]string, 0, len(blockedDomains)),
		logger:         logger,
	}

	for _, d := range blockedDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			v.blockedDomains = append(v.blockedDomains, d)
		}
	}

	for _, p := range blockedPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			logger.Warn("[validator] Dropping unparsable blacklist pattern %q: %v", p, err)
			continue
		}
		v.blockedPatterns = append(v.blockedPatterns, re)
	}

	return v
}

// Validate turns a RawBusiness into a canonical BusinessRecord, or nil when
// the record is structurally invalid (no business name). Per-field parse
// failures degrade to null/default fields, never to rejection.
func (v *Validator) Validate(raw *models.RawBusiness) *models.BusinessRecord {
	name := NormalizeText(raw.Name)
	if name == "" {
		v.logger.Debug("[validator] Dropping record with empty name (url: %s)", raw.MapsURL)
		return nil
	}

	address := NormalizeText(raw.Address)
	parts := ParseAddress(address, v.defaultCountry)
	lat, lng := ParseCoordinates(raw.MapsURL)

	rec := &models.BusinessRecord{
		BusinessName: name,
		Address:      address,
		Street:       parts.Street,
		City:         parts.City,
		State:        parts.State,
		Zip:          parts.Zip,
		Country:      parts.Country,
		Phone:        NormalizePhone(raw.Phone),
		Website:      v.validWebsite(raw.Website),
		Rating:       ParseRating(raw.Rating),
		ReviewCount:  ParseReviewCount(raw.ReviewCount),
		Category:     NormalizeText(raw.Category),
		PriceLevel:   NormalizeText(raw.PriceLevel),
		PriceRange:   NormalizeText(raw.PriceRange),
		MapsURL:      strings.TrimSpace(raw.MapsURL),
		Latitude:     lat,
		Longitude:    lng,
		Hours:        ValidateHours(raw.Hours),
		Emails:       []string{},
		EmailSource:  models.EmailSourceNotFound,
		CreatedAt:    time.Now(),
	}

	// Detail-view mailto side-channel: a profile email beats any later
	// website crawl.
	if raw.ProfileEmail != "" {
		if emails := v.FilterEmails([]string{raw.ProfileEmail}); len(emails) > 0 {
			rec.Emails = emails
			rec.EmailSource = models.EmailSourceProfile
		}
	}

	return rec
}

// MeetsCriteria evaluates the inclusion filters independently. Filters on
// sparse fields (price level, price range) only exclude records that carry
// the field and fail to match; records lacking it always pass.
func (v *Validator) MeetsCriteria(rec *models.BusinessRecord, filters models.Filters) bool {
	if filters.MinRating > 0 {
		rating := 0.0
		if rec.Rating != nil {
			rating = *rec.Rating
		}
		if rating < filters.MinRating {
			return false
		}
	}

	if filters.MinReviews > 0 && rec.ReviewCount < filters.MinReviews {
		return false
	}

	if len(filters.PriceLevels) > 0 && rec.PriceLevel != "" {
		allowed := false
		for _, lvl := range filters.PriceLevels {
			if rec.PriceLevel == strings.TrimSpace(lvl) {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	return v.meetsPriceRange(rec.PriceRange, filters)
}

// meetsPriceRange applies the numeric price-band filters. The max-price
// check compares only the record's lower bound: any overlap with the
// allowed band is accepted, not containment. A trailing "+" marks an
// open-ended upper bound.
func (v *Validator) meetsPriceRange(priceRange string, filters models.Filters) bool {
	if priceRange == "" {
		return true
	}

	groups := priceBoundsRegexp.FindAllString(priceRange, -1)
	if len(groups) == 0 {
		return true
	}

	lo := parsePriceNumber(groups[0])
	hi := parsePriceNumber(groups[len(groups)-1])
	openEnded := strings.Contains(priceRange, "+")

	if filters.MaxPrice > 0 && lo > filters.MaxPrice {
		return false
	}
	if filters.MinPrice > 0 && !openEnded && hi < filters.MinPrice {
		return false
	}

	return true
}

func parsePriceNumber(s string) float64 {
	n, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return n
}

// ValidEmail reports whether s is syntactically valid and not blacklisted.
func (v *Validator) ValidEmail(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false
	}

	addr, err := emailaddress.Parse(s)
	if err != nil {
		return false
	}

	for _, blocked := range v.blockedDomains {
		if strings.Contains(addr.Domain, blocked) {
			return false
		}
	}
	for _, re := range v.blockedPatterns {
		if re.MatchString(s) {
			return false
		}
	}

	return true
}

// FilterEmails validates and deduplicates a list of candidate addresses,
// preserving first-seen order. Comparison is case-insensitive and the
// lowercased form is kept.
func (v *Validator) FilterEmails(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))

	for _, c := range candidates {
		lower := strings.ToLower(strings.TrimSpace(c))
		if _, dup := seen[lower]; dup {
			continue
		}
		if !v.ValidEmail(lower) {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, lower)
	}

	return out
}

// validWebsite accepts only absolute http/https URLs; everything else
// collapses to "".
func (v *Validator) validWebsite(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}

	return raw
}
