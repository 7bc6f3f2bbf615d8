package scraper

import (
	"PriceTracker/internal/models"
	"context"
	"time"
)

// FetchOptions are the per-request browser settings chosen in the window.
type FetchOptions struct {
	Headless bool
	Timeout  time.Duration
}

// Fetcher loads a product page in a browser and returns the rendered HTML.
// Failures are returned as *FetchError.
type Fetcher interface {
	FetchRenderedHTML(ctx context.Context, url string, opts FetchOptions) (string, error)
}

// Extractor pulls the product title and price out of rendered HTML.
// Failures are returned as *ExtractionError.
type Extractor interface {
	ExtractProduct(html string) (models.ProductSnapshot, error)
}
