package amazon

import (
	"PriceTracker/internal/scraper"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return string(data)
}

func TestExtractProduct(t *testing.T) {
	testCases := []struct {
		fixture  string
		title    string
		price    string
		rawPrice string
		currency string
	}{
		{"product_widget.html", "Widget", "19.99", "$19.99", "$"},
		{"product_legacy_priceblock.html", "Kahve Makinesi Pro", "1234.56", "1.234,56 TL", "TL"},
		{"product_split_price.html", "Desk Lamp", "1299.00", "$1,299.00", "$"},
		{"product_twister.html", "Kettle", "34.50", "£34.50", "£"},
	}

	extractor := NewExtractor(func() time.Time { return fixedNow })

	for _, tc := range testCases {
		t.Run(tc.fixture, func(t *testing.T) {
			snap, err := extractor.ExtractProduct(loadFixture(t, tc.fixture))
			if err != nil {
				t.Fatalf("ExtractProduct: %v", err)
			}

			if snap.Title != tc.title {
				t.Errorf("Title = %q; want %q", snap.Title, tc.title)
			}
			if want := decimal.RequireFromString(tc.price); !snap.Price.Equal(want) {
				t.Errorf("Price = %s; want %s", snap.Price, want)
			}
			if snap.RawPrice != tc.rawPrice {
				t.Errorf("RawPrice = %q; want %q", snap.RawPrice, tc.rawPrice)
			}
			if snap.Currency != tc.currency {
				t.Errorf("Currency = %q; want %q", snap.Currency, tc.currency)
			}
			if !snap.Timestamp.Equal(fixedNow) {
				t.Errorf("Timestamp = %v; want %v", snap.Timestamp, fixedNow)
			}
		})
	}
}

func TestExtractProductSkipsStruckListPrice(t *testing.T) {
	html := `<html><body>
<span id="productTitle">Lamp</span>
<span class="a-price" data-a-strike="true"><span class="a-offscreen">$50.00</span></span>
<span class="a-price"><span class="a-offscreen">$42.00</span></span>
</body></html>`

	snap, err := NewExtractor(nil).ExtractProduct(html)
	if err != nil {
		t.Fatalf("ExtractProduct: %v", err)
	}
	if !snap.Price.Equal(decimal.NewFromInt(42)) {
		t.Errorf("Price = %s; want 42 (list price must be skipped)", snap.Price)
	}
}

func TestExtractProductErrors(t *testing.T) {
	testCases := []struct {
		fixture string
		kind    error
	}{
		{"product_no_price.html", scraper.ErrPriceMissing},
		{"product_bad_price.html", scraper.ErrPriceUnparsable},
		{"robot_check.html", scraper.ErrTitleMissing},
	}

	extractor := NewExtractor(nil)

	for _, tc := range testCases {
		t.Run(tc.fixture, func(t *testing.T) {
			_, err := extractor.ExtractProduct(loadFixture(t, tc.fixture))
			if !errors.Is(err, tc.kind) {
				t.Fatalf("error = %v; want %v", err, tc.kind)
			}
			var ee *scraper.ExtractionError
			if !errors.As(err, &ee) {
				t.Errorf("error %T is not *scraper.ExtractionError", err)
			}
		})
	}
}

func TestExtractProductEmptyDocument(t *testing.T) {
	_, err := NewExtractor(nil).ExtractProduct("")
	if !errors.Is(err, scraper.ErrTitleMissing) {
		t.Errorf("error = %v; want ErrTitleMissing", err)
	}
}
