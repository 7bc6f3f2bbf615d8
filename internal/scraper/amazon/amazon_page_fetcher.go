package amazon

import (
	"PriceTracker/internal/scraper"
	"PriceTracker/pkg/config"
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

const (
	defaultTimeout = 20 * time.Second
	// budget for reading the DOM once the readiness wait has given up
	snapshotTimeout = 5 * time.Second

	captchaFormSelector = `form[action="/errors/validateCaptcha"]`
)

// Fetcher loads Amazon product pages in the session's browser.
type Fetcher struct {
	Provider      BrowserProvider
	ReadySelector string
}

// NewFetcher creates a fetcher that waits for amazonConf.ReadySelector.
func NewFetcher(provider BrowserProvider, amazonConf config.AmazonConfig) *Fetcher {
	return &Fetcher{
		Provider:      provider,
		ReadySelector: amazonConf.ReadySelector,
	}
}

// FetchRenderedHTML navigates to url and returns the page HTML once the
// product title (or a bot-check form) is present or the timeout runs out.
// The page is closed on every path; the browser stays up for the next fetch.
func (f *Fetcher) FetchRenderedHTML(ctx context.Context, url string, opts scraper.FetchOptions) (string, error) {
	browser, err := f.Provider.Browser(ctx, opts.Headless)
	if err != nil {
		return "", &scraper.FetchError{Kind: scraper.ErrBrowserLaunch, URL: url, Err: err}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", &scraper.FetchError{Kind: scraper.ErrBrowserLaunch, URL: url, Err: err}
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Printf("WARN: closing page for %s: %v", url, err)
		}
	}()

	log.Printf("Navigating to %s (timeout %s)", url, timeout)
	p := page.Context(loadCtx)
	if err := p.Navigate(url); err != nil {
		return "", classify(url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return "", classify(url, err)
	}
	log.Println("Page loaded successfully")

	if f.isRobotCheck(p) {
		return "", &scraper.FetchError{Kind: scraper.ErrBlocked, URL: url}
	}

	switch err := f.waitReady(p); {
	case errors.Is(err, scraper.ErrBlocked):
		return "", &scraper.FetchError{Kind: scraper.ErrBlocked, URL: url}
	case err != nil && ctx.Err() != nil:
		// the caller gave up, not the page
		return "", &scraper.FetchError{Kind: scraper.ErrNavigation, URL: url, Err: ctx.Err()}
	case err != nil:
		log.Printf("Selector %q not found before timeout, reading the page as is: %v", f.ReadySelector, err)
	}

	snapCtx, cancelSnap := context.WithTimeout(ctx, snapshotTimeout)
	defer cancelSnap()
	html, err := page.Context(snapCtx).HTML()
	if err != nil {
		return "", classify(url, err)
	}
	log.Printf("Fetched %d bytes of HTML from %s", len(html), url)
	return html, nil
}

// waitReady blocks until either the ready selector or the captcha form
// appears. It returns scraper.ErrBlocked when the captcha form won.
func (f *Fetcher) waitReady(p *rod.Page) error {
	blocked := false
	markBlocked := func(*rod.Element) error {
		blocked = true
		return nil
	}

	_, err := p.Race().
		Element(f.ReadySelector).
		Element(captchaFormSelector).Handle(markBlocked).
		Do()
	if err != nil {
		return err
	}
	if blocked {
		log.Println("CAPTCHA form detected")
		return scraper.ErrBlocked
	}
	return nil
}

func (f *Fetcher) isRobotCheck(p *rod.Page) bool {
	info, err := p.Info()
	if err != nil {
		return false
	}
	title := strings.ToLower(info.Title)
	if strings.Contains(title, "robot check") || strings.Contains(title, "captcha") {
		log.Printf("Robot check detected in title: %s", info.Title)
		return true
	}
	return false
}

func classify(url string, err error) *scraper.FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &scraper.FetchError{Kind: scraper.ErrTimeout, URL: url, Err: err}
	}
	return &scraper.FetchError{Kind: scraper.ErrNavigation, URL: url, Err: err}
}
