package gmaps

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/orar/google-maps-lead-extractor/browser"
	"github.com/orar/google-maps-lead-extractor/models"
	"github.com/orar/google-maps-lead-extractor/utils"
)

const (
	detailReadyTimeout = 8 * time.Second
	hoursSettleDelay   = 1500 * time.Millisecond
)

// hourLikeRegexp spots interactive controls that look like a schedule
// disclosure ("Open ⋅ Closes 10 PM" and the like).
var hourLikeRegexp = regexp.MustCompile(`(?i)\b(open|close[ds]?|hours?|24 hours|[0-9]{1,2}(:[0-9]{2})?\s*[ap]m)\b`)

// Extractor reads one open detail view into a RawBusiness. Every field
// lookup is an ordered strategy list; a field whose strategies all miss is
// left empty, never an error.
type Extractor struct {
	view   browser.View
	logger *utils.Logger
}

func NewExtractor(view browser.View, logger *utils.Logger) *Extractor {
	return &Extractor{view: view, logger: logger}
}

// Extract waits for the detail panel to become plausible and pulls every
// field best-effort. It returns nil when the minimum viable field (the
// business name) cannot be located.
func (e *Extractor) Extract() (*models.RawBusiness, error) {
	if err := e.view.WaitFunc(detailReadyPredicate, detailReadyTimeout); err != nil {
		// Proceed anyway: a slow animation should degrade to partial
		// extraction, not fail the walk.
		e.logger.Debug("[extractor] Detail panel readiness timed out: %v", err)
	}

	name := e.firstMatch(nameStrategies)
	if name == "" {
		return nil, nil
	}

	raw := &models.RawBusiness{
		Name:        name,
		Address:     e.firstMatch(addressStrategies),
		Phone:       e.firstMatch(phoneStrategies),
		Website:     e.firstMatch(websiteStrategies),
		Rating:      e.firstMatch(ratingStrategies),
		ReviewCount: e.firstMatch(reviewStrategies),
		Category:    e.firstMatch(categoryStrategies),
		PriceLevel:  e.firstMatch(priceLevelStrategies),
		PriceRange:  e.firstMatch(priceRangeStrategies),
		Hours:       e.extractHours(),
		ScrapedAt:   time.Now(),
	}

	if loc, err := e.view.Location(); err == nil {
		raw.MapsURL = loc
	}

	raw.ProfileEmail = e.extractProfileEmail()

	return raw, nil
}

// firstMatch tries each strategy in order and returns the first non-empty
// text. Individual strategy errors are swallowed; the next one is tried.
func (e *Extractor) firstMatch(strategies []Strategy) string {
	for _, st := range strategies {
		var (
			val string
			err error
		)
		if st.Attr != "" {
			val, err = e.view.AttrOf(st.Selector, st.Attr)
		} else {
			val, err = e.view.TextOf(st.Selector)
		}
		if err != nil {
			continue
		}
		if st.TrimPrefix != "" {
			val = strings.TrimPrefix(val, st.TrimPrefix)
		}
		if val = strings.TrimSpace(val); val != "" {
			return val
		}
	}
	return ""
}

// extractHours activates the schedule disclosure and reads day/time-range
// pairs in display order. Absence of a disclosure control or of any
// parsable day yields nil, not an error.
func (e *Extractor) extractHours() []models.HourEntry {
	if !e.openHoursDisclosure() {
		return nil
	}
	time.Sleep(hoursSettleDelay)

	days, times := e.readHoursRows(hoursDaySelector, hoursTimeSelector)
	if len(days) == 0 {
		days, times = e.readHoursRows(hoursDayFallbackSelector, hoursTimeFallbackSelector)
	}
	if len(days) == 0 {
		return nil
	}

	n := len(days)
	if len(times) < n {
		n = len(times)
	}

	entries := make([]models.HourEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, models.HourEntry{
			Day:   strings.TrimSpace(days[i]),
			Hours: strings.TrimSpace(times[i]),
		})
	}
	return entries
}

// openHoursDisclosure tries the known disclosure selectors, then falls back
// to scanning interactive controls for hour-like label text.
func (e *Extractor) openHoursDisclosure() bool {
	for _, sel := range hoursButtonSelectors {
		if n, err := e.view.Count(sel); err == nil && n > 0 {
			if err := e.view.Click(sel); err == nil {
				return true
			}
		}
	}

	labels, err := e.view.AttrsOf(`button[aria-label]`, "aria-label")
	if err != nil {
		return false
	}
	for _, label := range labels {
		if !hourLikeRegexp.MatchString(label) {
			continue
		}
		sel := fmt.Sprintf(`button[aria-label=%q]`, label)
		if err := e.view.Click(sel); err == nil {
			return true
		}
	}
	return false
}

func (e *Extractor) readHoursRows(daySel, timeSel string) ([]string, []string) {
	days, err := e.view.TextsOf(daySel)
	if err != nil || len(days) == 0 {
		return nil, nil
	}
	times, err := e.view.TextsOf(timeSel)
	if err != nil {
		return nil, nil
	}
	return days, times
}

// extractProfileEmail checks the detail view for a mailto link — a free
// side-channel that spares the website crawl for this record.
func (e *Extractor) extractProfileEmail() string {
	href, err := e.view.AttrOf(mailtoSelector, "href")
	if err != nil || href == "" {
		return ""
	}

	email := strings.TrimPrefix(strings.TrimSpace(href), "mailto:")
	if idx := strings.Index(email, "?"); idx >= 0 {
		email = email[:idx]
	}
	return strings.TrimSpace(email)
}
