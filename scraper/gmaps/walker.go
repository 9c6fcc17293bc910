package gmaps

import (
	"fmt"
	"time"

	"github.com/orar/google-maps-lead-extractor/browser"
	"github.com/orar/google-maps-lead-extractor/models"
	"github.com/orar/google-maps-lead-extractor/services"
	"github.com/orar/google-maps-lead-extractor/utils"
)

const (
	// maxStalls is how many consecutive no-growth iterations the walker
	// tolerates before concluding no more results will load.
	maxStalls = 3

	scrollSettleDelay = 2 * time.Second
)

// Feed drives the incrementally disclosed results list. The chromedp
// implementation is listingFeed; tests supply fakes.
type Feed interface {
	// CardURLs enumerates the canonical URLs of all currently rendered cards.
	CardURLs() ([]string, error)
	// OpenCard opens the detail view for the card with the given URL.
	OpenCard(url string) error
	// ScrollFeed scrolls the results container to its bottom to trigger
	// the next page load.
	ScrollFeed() error
}

// extractFunc reads the currently open detail view.
type extractFunc func() (*models.RawBusiness, error)

// Walker walks the results feed: enumerate cards, open each unseen one,
// extract, validate, filter, and accumulate up to a result cap. It owns the
// single shared rendering session for the whole walk.
type Walker struct {
	feed      Feed
	extract   extractFunc
	validator *services.Validator
	filters   models.Filters
	seen      *utils.URLSet
	logger    *utils.Logger
	settle    time.Duration
}

func NewWalker(feed Feed, extract extractFunc, validator *services.Validator, filters models.Filters, logger *utils.Logger) *Walker {
	return &Walker{
		feed:      feed,
		extract:   extract,
		validator: validator,
		filters:   filters,
		seen:      utils.NewURLSet(),
		logger:    logger,
		settle:    scrollSettleDelay,
	}
}

// Walk returns records in the order their cards first became visible.
// Per-item extraction errors are logged and skipped; only a failure to
// enumerate the feed itself terminates the walk early.
func (w *Walker) Walk(maxResults int) ([]*models.BusinessRecord, error) {
	records := make([]*models.BusinessRecord, 0, maxResults)
	processed := 0
	prevCount := 0
	stalls := 0

	for {
		urls, err := w.feed.CardURLs()
		if err != nil {
			return records, fmt.Errorf("walker: enumerate cards: %w", err)
		}

		for ; processed < len(urls); processed++ {
			cardURL := urls[processed]

			if !w.seen.Add(cardURL) {
				w.logger.Debug("[walker] Skipping already-seen card: %s", cardURL)
				continue
			}

			rec := w.visitCard(cardURL)
			if rec == nil {
				continue
			}

			records = append(records, rec)
			w.logger.Info("[walker] Collected %d/%d: %s", len(records), maxResults, rec.BusinessName)

			if len(records) >= maxResults {
				return records, nil
			}
		}

		if len(urls) <= prevCount {
			stalls++
			if stalls >= maxStalls {
				w.logger.Info("[walker] No new cards after %d scrolls — ending walk with %d records",
					maxStalls, len(records))
				return records, nil
			}
		} else {
			stalls = 0
		}
		prevCount = len(urls)

		if err := w.feed.ScrollFeed(); err != nil {
			w.logger.Warn("[walker] Scroll failed: %v", err)
			stalls++
			if stalls >= maxStalls {
				return records, nil
			}
		}
		time.Sleep(w.settle)
	}
}

// visitCard opens one card, extracts and validates it. Any failure is
// contained here: the walk never aborts because one item went wrong.
func (w *Walker) visitCard(cardURL string) *models.BusinessRecord {
	if err := w.feed.OpenCard(cardURL); err != nil {
		w.logger.Warn("[walker] Could not open card %s: %v", cardURL, err)
		return nil
	}

	raw, err := w.extract()
	if err != nil {
		w.logger.Warn("[walker] Extraction failed for %s: %v", cardURL, err)
		return nil
	}
	if raw == nil {
		w.logger.Debug("[walker] No business name found for %s — skipping", cardURL)
		return nil
	}

	if raw.MapsURL == "" {
		raw.MapsURL = cardURL
	}

	rec := w.validator.Validate(raw)
	if rec == nil {
		return nil
	}
	if !w.validator.MeetsCriteria(rec, w.filters) {
		w.logger.Debug("[walker] %s filtered out by criteria", rec.BusinessName)
		return nil
	}

	return rec
}

// listingFeed is the chromedp-backed Feed.
type listingFeed struct {
	view browser.View
}

func newListingFeed(view browser.View) *listingFeed {
	return &listingFeed{view: view}
}

func (f *listingFeed) CardURLs() ([]string, error) {
	return f.view.AttrsOf(feedSelector+" "+cardLinkSelector, "href")
}

func (f *listingFeed) OpenCard(url string) error {
	return f.view.Click(fmt.Sprintf(`a[href=%q]`, url))
}

func (f *listingFeed) ScrollFeed() error {
	return f.view.ScrollBottom(feedSelector)
}
