package gmaps

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orar/google-maps-lead-extractor/browser"
	"github.com/orar/google-maps-lead-extractor/config"
	"github.com/orar/google-maps-lead-extractor/models"
	"github.com/orar/google-maps-lead-extractor/services"
	"github.com/orar/google-maps-lead-extractor/utils"
)

const (
	searchURLFormat = "https://www.google.com/maps/search/%s?hl=en"

	navigateTimeout    = 60 * time.Second
	resultsWaitTimeout = 20 * time.Second
)

// ErrBlocked signals that the results panel never rendered because the
// session hit a captcha or rate limit, as opposed to a bad query.
var ErrBlocked = errors.New("gmaps: blocked or rate-limited by upstream")

// ErrNoResultsPanel signals that neither a results feed nor a detail panel
// rendered for the query.
var ErrNoResultsPanel = errors.New("gmaps: results panel never appeared — check the search query")

// Scraper orchestrates the whole extraction run: session setup, the serial
// listing walk, and the parallel email discovery stage.
type Scraper struct {
	cfg       *config.Config
	logger    *utils.Logger
	validator *services.Validator
	retry     *utils.RetryConfig
	runID     string
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, validator *services.Validator, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:       cfg,
		logger:    logger,
		validator: validator,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		runID: uuid.New().String(),
	}
}

// RunID identifies this extraction run in the sink.
func (s *Scraper) RunID() string {
	return s.runID
}

// Scrape is the entry point. It returns the validated, filtered record set;
// a run that finds zero valid records is a valid, empty result.
func (s *Scraper) Scrape() ([]*models.BusinessRecord, error) {
	query := strings.TrimSpace(s.cfg.SearchQuery)
	if query == "" {
		return nil, fmt.Errorf("gmaps: SEARCH_QUERY is required")
	}

	s.logger.Info("[gmaps] Starting run %s — query: %q, cap: %d", s.runID, query, s.cfg.MaxResults)

	var session *browser.Session
	err := s.retry.Do("start-session", func() error {
		var serr error
		session, serr = browser.NewSession(s.cfg.ChromeBin)
		return serr
	})
	if err != nil {
		return nil, err
	}
	defer session.Close()

	tab := session.Tab()
	searchURL := fmt.Sprintf(searchURLFormat, url.PathEscape(query))

	if err := s.retry.Do("open-search", func() error {
		return tab.Navigate(searchURL, navigateTimeout)
	}); err != nil {
		return nil, err
	}

	records, err := s.walkResults(tab)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		rec.RunID = s.runID
	}

	if s.cfg.ExtractEmails && len(records) > 0 {
		s.logger.Info("[gmaps] Email discovery enabled — concurrency %d", s.cfg.MaxConcurrency)
		hunter := NewEmailHunter(session, s.validator, s.cfg.MaxConcurrency, s.logger)
		hunter.Enrich(records)
	}

	s.logger.Info("[gmaps] Run complete — %d records", len(records))
	return records, nil
}

// walkResults waits for the results feed and drives the walker. When the
// query resolves straight to a single place page (no feed), that one detail
// view is extracted instead.
func (s *Scraper) walkResults(tab *browser.Tab) ([]*models.BusinessRecord, error) {
	extractor := NewExtractor(tab, s.logger)

	feedPredicate := fmt.Sprintf(`document.querySelector(%q)`, feedSelector)
	if err := tab.WaitFunc(feedPredicate, resultsWaitTimeout); err != nil {
		return s.handleMissingFeed(tab, extractor)
	}

	walker := NewWalker(newListingFeed(tab), extractor.Extract, s.validator, s.filters(), s.logger)
	return walker.Walk(s.cfg.MaxResults)
}

// handleMissingFeed distinguishes "blocked" from "bad input" from "the
// query resolved to a single place" when the feed never renders.
func (s *Scraper) handleMissingFeed(tab *browser.Tab, extractor *Extractor) ([]*models.BusinessRecord, error) {
	html, err := tab.HTML()
	if err != nil {
		return nil, fmt.Errorf("gmaps: results never rendered and page is unreadable: %w", err)
	}

	lower := strings.ToLower(html)
	if strings.Contains(lower, "unusual traffic") || strings.Contains(lower, "recaptcha") {
		return nil, ErrBlocked
	}
	if strings.Contains(lower, "can't find") || strings.Contains(lower, "couldn't find") {
		s.logger.Warn("[gmaps] Upstream reports no matches for the query")
		return []*models.BusinessRecord{}, nil
	}

	// Single-result queries skip the feed and land on the place page.
	raw, exErr := extractor.Extract()
	if exErr == nil && raw != nil {
		if rec := s.validator.Validate(raw); rec != nil {
			s.logger.Info("[gmaps] Query resolved to a single place: %s", rec.BusinessName)
			if !s.validator.MeetsCriteria(rec, s.filters()) {
				return []*models.BusinessRecord{}, nil
			}
			return []*models.BusinessRecord{rec}, nil
		}
	}

	return nil, ErrNoResultsPanel
}

func (s *Scraper) filters() models.Filters {
	return models.Filters{
		MinRating:   s.cfg.MinRating,
		MinReviews:  s.cfg.MinReviews,
		PriceLevels: s.cfg.PriceLevels,
		MinPrice:    s.cfg.MinPrice,
		MaxPrice:    s.cfg.MaxPrice,
	}
}
