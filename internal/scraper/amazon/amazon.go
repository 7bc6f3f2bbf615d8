package amazon

import (
	"PriceTracker/internal/models"
	"PriceTracker/internal/scraper"
	"PriceTracker/pkg/config"
	"context"
	"time"

	"github.com/go-rod/rod"
)

// BrowserProvider hands out the browser a fetch should run in.
// *browser.Session implements it.
type BrowserProvider interface {
	Browser(ctx context.Context, headless bool) (*rod.Browser, error)
}

// AmazonScraper bundles the page fetcher and the product extractor for
// Amazon product pages.
type AmazonScraper struct {
	Fetcher   *Fetcher
	Extractor *Extractor
}

var (
	_ scraper.Fetcher   = (*Fetcher)(nil)
	_ scraper.Extractor = (*Extractor)(nil)
	_ scraper.Fetcher   = (*AmazonScraper)(nil)
	_ scraper.Extractor = (*AmazonScraper)(nil)
)

// New wires a scraper to the given browser provider and Amazon settings.
func New(provider BrowserProvider, amazonConf config.AmazonConfig) *AmazonScraper {
	return &AmazonScraper{
		Fetcher:   NewFetcher(provider, amazonConf),
		Extractor: NewExtractor(time.Now),
	}
}

// FetchRenderedHTML delegates to the fetcher.
func (s *AmazonScraper) FetchRenderedHTML(ctx context.Context, url string, opts scraper.FetchOptions) (string, error) {
	return s.Fetcher.FetchRenderedHTML(ctx, url, opts)
}

// ExtractProduct delegates to the extractor.
func (s *AmazonScraper) ExtractProduct(html string) (models.ProductSnapshot, error) {
	return s.Extractor.ExtractProduct(html)
}
