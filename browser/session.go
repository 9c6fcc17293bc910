package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
)

// View is the rendering capability the extraction pipeline is written
// against. The walker and field extractor only ever talk to a View, which
// keeps their selector strategies testable with fakes.
type View interface {
	// Navigate loads url and waits for the document to be ready.
	Navigate(url string, timeout time.Duration) error
	// Location returns the current document URL.
	Location() (string, error)
	// TextOf returns the inner text of the first element matching sel,
	// or "" if no element matches.
	TextOf(sel string) (string, error)
	// TextsOf returns the inner text of every element matching sel.
	TextsOf(sel string) ([]string, error)
	// AttrOf returns the named attribute of the first element matching sel,
	// or "" if no element matches or the attribute is absent.
	AttrOf(sel, attr string) (string, error)
	// AttrsOf returns the named attribute of every element matching sel,
	// skipping elements without it.
	AttrsOf(sel, attr string) ([]string, error)
	// Count returns the number of elements matching sel.
	Count(sel string) (int, error)
	// Click dispatches a click on the first element matching sel. It is an
	// error if no element matches.
	Click(sel string) error
	// ScrollBottom scrolls the first element matching sel to its bottom.
	ScrollBottom(sel string) error
	// WaitFunc polls the JS predicate until it returns true or the timeout
	// elapses. A timeout is returned as an error; the page is left as-is.
	WaitFunc(predicate string, timeout time.Duration) error
	// HTML returns the full serialized document.
	HTML() (string, error)
}

// Session owns the chromedp exec allocator and the single root tab used by
// the listing walk. Isolated tabs for email discovery are created with
// NewTab and must be cancelled by their owner.
type Session struct {
	allocCtx     context.Context
	cancelAlloc  context.CancelFunc
	cancelSilent context.CancelFunc
	tab          *Tab
}

// NewSession starts a headless browser and opens the root tab.
func NewSession(chromeBin string) (*Session, error) {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("lang", "en-US"),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	tabCtx, cancelTab := chromedp.NewContext(silentCtx)
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelSilent()
		cancelAlloc()
		return nil, fmt.Errorf("browser: start: %w", err)
	}

	return &Session{
		allocCtx:     silentCtx,
		cancelAlloc:  cancelAlloc,
		cancelSilent: cancelSilent,
		tab:          &Tab{ctx: tabCtx, cancel: cancelTab},
	}, nil
}

// Tab returns the root tab shared by the listing walk. It is owned by the
// walker for the whole run; only one detail view is open at a time.
func (s *Session) Tab() *Tab {
	return s.tab
}

// NewTab opens an isolated tab with its own browsing context. The caller
// must invoke the returned cancel on every exit path.
func (s *Session) NewTab() (*Tab, context.CancelFunc) {
	ctx, cancel := chromedp.NewContext(s.allocCtx)
	return &Tab{ctx: ctx, cancel: cancel}, cancel
}

// Close tears down the root tab and the browser process.
func (s *Session) Close() {
	s.tab.cancel()
	s.cancelSilent()
	s.cancelAlloc()
}

// Tab is a chromedp-backed View.
type Tab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (t *Tab) Navigate(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(t.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	return nil
}

func (t *Tab) Location() (string, error) {
	var loc string
	err := t.eval(`window.location.href`, &loc)
	return loc, err
}

func (t *Tab) TextOf(sel string) (string, error) {
	var text string
	js := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return el ? el.innerText : ''; })()`, sel)
	err := t.eval(js, &text)
	return text, err
}

func (t *Tab) TextsOf(sel string) ([]string, error) {
	var texts []string
	js := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map(el => el.innerText)`, sel)
	err := t.eval(js, &texts)
	return texts, err
}

func (t *Tab) AttrOf(sel, attr string) (string, error) {
	var val string
	js := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return el ? (el.getAttribute(%q) || '') : ''; })()`,
		sel, attr)
	err := t.eval(js, &val)
	return val, err
}

func (t *Tab) AttrsOf(sel, attr string) ([]string, error) {
	var vals []string
	js := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map(el => el.getAttribute(%q)).filter(v => v)`,
		sel, attr)
	err := t.eval(js, &vals)
	return vals, err
}

func (t *Tab) Count(sel string) (int, error) {
	var n int
	js := fmt.Sprintf(`document.querySelectorAll(%q).length`, sel)
	err := t.eval(js, &n)
	return n, err
}

func (t *Tab) Click(sel string) error {
	var clicked bool
	js := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); if (!el) return false; el.click(); return true; })()`, sel)
	if err := t.eval(js, &clicked); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("browser: no element matches %q", sel)
	}
	return nil
}

func (t *Tab) ScrollBottom(sel string) error {
	var ok bool
	js := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); if (!el) return false; el.scrollTop = el.scrollHeight; return true; })()`, sel)
	if err := t.eval(js, &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("browser: no element matches %q", sel)
	}
	return nil
}

func (t *Tab) WaitFunc(predicate string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		var ok bool
		if err := t.eval(fmt.Sprintf(`!!(%s)`, predicate), &ok); err == nil && ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("browser: wait timed out after %v", timeout)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func (t *Tab) HTML() (string, error) {
	var html string
	err := t.eval(`document.documentElement.outerHTML`, &html)
	return html, err
}

func (t *Tab) eval(js string, out any) error {
	ctx, cancel := context.WithTimeout(t.ctx, 10*time.Second)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Evaluate(js, out))
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
