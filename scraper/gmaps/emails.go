package gmaps

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/orar/google-maps-lead-extractor/browser"
	"github.com/orar/google-maps-lead-extractor/models"
	"github.com/orar/google-maps-lead-extractor/services"
	"github.com/orar/google-maps-lead-extractor/utils"
)

const (
	// maxContactPages caps how many contact-like secondary pages a single
	// record's crawl may visit after the homepage.
	maxContactPages = 2

	emailPageTimeout = 20 * time.Second
)

// contactVocabulary marks anchors worth following when the homepage itself
// carries no address.
var contactVocabulary = []string{
	"contact", "about", "team", "get-in-touch", "reach-us", "email", "connect",
}

// emailRegexp finds address-shaped tokens in rendered HTML. Hits ending in
// an image extension are discarded later; the scan itself stays permissive.
var emailRegexp = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

var imageSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"}

// EmailHunter crawls each record's website for contact emails. Records are
// processed under a bounded-concurrency pool; every task owns one isolated
// browsing context that it tears down itself on all exit paths.
type EmailHunter struct {
	session   *browser.Session
	validator *services.Validator
	pool      *utils.WorkerPool
	logger    *utils.Logger
}

func NewEmailHunter(session *browser.Session, validator *services.Validator, concurrency int, logger *utils.Logger) *EmailHunter {
	return &EmailHunter{
		session:   session,
		validator: validator,
		pool:      utils.NewWorkerPool(concurrency, 0),
		logger:    logger,
	}
}

// Enrich populates Emails/EmailSource on every record in place. Completion
// order is not guaranteed; record identity is — tasks mutate the records
// they were handed, nothing is reordered.
func (h *EmailHunter) Enrich(records []*models.BusinessRecord) {
	scheduled := 0

	for _, rec := range records {
		r := rec

		// A profile mailto found during the detail pass wins outright.
		if r.EmailSource == models.EmailSourceProfile {
			continue
		}
		if r.Website == "" {
			continue
		}

		scheduled++
		h.pool.Submit(func() {
			h.huntRecord(r)
		})
	}

	h.pool.Wait()
	h.logger.Info("[emails] Crawled %d websites", scheduled)
}

// huntRecord visits one record's homepage plus up to two contact-like
// pages, accumulating the union of validated emails. Per-page failures are
// skipped; they never abort the record's task.
func (h *EmailHunter) huntRecord(r *models.BusinessRecord) {
	tab, cancel := h.session.NewTab()
	defer cancel()

	var candidates []string

	homeHTML, err := h.loadPage(tab, r.Website)
	if err != nil {
		h.logger.Debug("[emails] Homepage failed for %s: %v", r.Website, err)
	} else {
		candidates = append(candidates, scanEmails(homeHTML)...)
	}

	for _, pageURL := range contactLinks(homeHTML, r.Website, maxContactPages) {
		pageHTML, err := h.loadPage(tab, pageURL)
		if err != nil {
			h.logger.Debug("[emails] Contact page failed %s: %v", pageURL, err)
			continue
		}
		candidates = append(candidates, scanEmails(pageHTML)...)
	}

	emails := h.validator.FilterEmails(candidates)
	if len(emails) == 0 {
		r.Emails = []string{}
		r.EmailSource = models.EmailSourceNotFound
		return
	}

	r.Emails = emails
	r.EmailSource = models.EmailSourceWebsite
	h.logger.Info("[emails] %s → %d email(s)", r.BusinessName, len(emails))
}

func (h *EmailHunter) loadPage(tab *browser.Tab, pageURL string) (string, error) {
	if err := tab.Navigate(pageURL, emailPageTimeout); err != nil {
		return "", err
	}
	return tab.HTML()
}

// scanEmails pulls address-shaped tokens out of rendered HTML. Validation
// and deduplication happen later in the Validator; this only drops the
// obvious image-filename false positives.
func scanEmails(html string) []string {
	matches := emailRegexp.FindAllString(html, -1)
	out := make([]string, 0, len(matches))

	for _, m := range matches {
		lower := strings.ToLower(m)
		skip := false
		for _, suffix := range imageSuffixes {
			if strings.HasSuffix(lower, suffix) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, m)
		}
	}
	return out
}

// contactLinks scans anchors for the contact-page vocabulary in either the
// href or the link text, resolves them against the base URL, and returns at
// most limit unique absolute http(s) URLs.
func contactLinks(html, baseURL string, limit int) []string {
	if html == "" || limit <= 0 {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := map[string]struct{}{baseURL: {}}
	var links []string

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
			return true
		}

		if !matchesContactVocabulary(href, sel.Text()) {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return true
		}
		abs.Fragment = ""

		key := abs.String()
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
		links = append(links, key)

		return len(links) < limit
	})

	return links
}

func matchesContactVocabulary(href, text string) bool {
	href = strings.ToLower(href)
	text = strings.ToLower(strings.TrimSpace(text))

	for _, word := range contactVocabulary {
		if strings.Contains(href, word) || strings.Contains(text, word) {
			return true
		}
	}
	return false
}
