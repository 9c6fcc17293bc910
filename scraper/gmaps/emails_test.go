package gmaps

import (
	"testing"
)

func TestScanEmailsSkipsImageFilenames(t *testing.T) {
	html := `<html><body>
		<p>Write to sales@company.org or support@company.org.</p>
		<img src="logo@2x.png"> <img src="hero@3x.webp">
	</body></html>`

	got := scanEmails(html)
	if len(got) != 2 {
		t.Fatalf("scanEmails = %v; want 2 addresses", got)
	}
	if got[0] != "sales@company.org" || got[1] != "support@company.org" {
		t.Errorf("scanEmails = %v", got)
	}
}

func TestContactLinksVocabularyAndLimit(t *testing.T) {
	html := `<html><body>
		<a href="/contact">Contact Us</a>
		<a href="/menu">Menu</a>
		<a href="/about-us">Our Story</a>
		<a href="/team">Meet the Team</a>
		<a href="mailto:info@x.org">Email</a>
	</body></html>`

	got := contactLinks(html, "https://company.org", maxContactPages)
	if len(got) != 2 {
		t.Fatalf("contactLinks = %v; want %d links", got, maxContactPages)
	}
	if got[0] != "https://company.org/contact" {
		t.Errorf("first link: got %q, want resolved /contact", got[0])
	}
	if got[1] != "https://company.org/about-us" {
		t.Errorf("second link: got %q, want resolved /about-us", got[1])
	}
}

func TestContactLinksMatchesLinkText(t *testing.T) {
	html := `<a href="/p/42">Get in touch with our team</a>`

	got := contactLinks(html, "https://company.org", 2)
	if len(got) != 1 || got[0] != "https://company.org/p/42" {
		t.Errorf("contactLinks = %v; want text-matched link", got)
	}
}

func TestContactLinksDeduplicatesAndSkipsHomepage(t *testing.T) {
	html := `
		<a href="https://company.org">connect</a>
		<a href="/contact">Contact</a>
		<a href="/contact#form">Contact form</a>
	`

	got := contactLinks(html, "https://company.org", 3)
	if len(got) != 1 || got[0] != "https://company.org/contact" {
		t.Errorf("contactLinks = %v; want the homepage and fragment dupes dropped", got)
	}
}

func TestContactLinksEmptyHTML(t *testing.T) {
	if got := contactLinks("", "https://company.org", 2); got != nil {
		t.Errorf("contactLinks on empty html = %v; want nil", got)
	}
}
