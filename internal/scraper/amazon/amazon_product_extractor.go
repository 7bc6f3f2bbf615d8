package amazon

import (
	"PriceTracker/internal/models"
	"PriceTracker/internal/scraper"
	"PriceTracker/utils"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

var titleSelectors = []string{
	"#productTitle",
	"h1#title",
}

// priceSelectors are tried in order; the first non-empty match wins.
// Struck-through list prices are skipped.
var priceSelectors = []string{
	"#corePriceDisplay_desktop_feature_div .priceToPay .a-offscreen",
	"#corePriceDisplay_desktop_feature_div span.a-price span.a-offscreen",
	"#corePrice_feature_div span.a-price span.a-offscreen",
	"#priceblock_ourprice",
	"#priceblock_dealprice",
	"#priceblock_saleprice",
	".priceToPay .a-offscreen",
	"span.a-price span.a-offscreen",
}

// Extractor reads the title and price out of a rendered product page.
type Extractor struct {
	now func() time.Time
}

// NewExtractor creates an extractor stamping snapshots with now().
func NewExtractor(now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{now: now}
}

// ExtractProduct parses rawHTML and returns the product snapshot.
func (e *Extractor) ExtractProduct(rawHTML string) (models.ProductSnapshot, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return models.ProductSnapshot{}, fmt.Errorf("parsing product HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	title := extractTitle(doc)
	if title == "" {
		log.Println("Failed to extract title")
		return models.ProductSnapshot{}, &scraper.ExtractionError{Kind: scraper.ErrTitleMissing}
	}
	log.Printf("Extracted title: %s", title)

	rawPrice := extractPriceText(doc)
	if rawPrice == "" {
		log.Println("Failed to extract price from all selectors")
		return models.ProductSnapshot{}, &scraper.ExtractionError{Kind: scraper.ErrPriceMissing}
	}

	price, err := utils.ParsePrice(rawPrice)
	if err != nil {
		log.Printf("Price text %q could not be parsed: %v", rawPrice, err)
		return models.ProductSnapshot{}, &scraper.ExtractionError{Kind: scraper.ErrPriceUnparsable, Text: rawPrice}
	}
	log.Printf("Extracted price: %s (raw %q)", price.StringFixed(2), rawPrice)

	return models.ProductSnapshot{
		Title:     title,
		Price:     price,
		RawPrice:  rawPrice,
		Currency:  utils.CurrencyHint(rawPrice),
		Timestamp: e.now(),
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	for _, selector := range titleSelectors {
		if title := utils.CollapseSpace(doc.Find(selector).First().Text()); title != "" {
			return title
		}
	}
	return ""
}

func extractPriceText(doc *goquery.Document) string {
	for _, selector := range priceSelectors {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if s.Closest("span[data-a-strike='true']").Length() > 0 {
				return true
			}
			found = utils.CollapseSpace(s.Text())
			return found == ""
		})
		if found != "" {
			log.Printf("Extracted price from %s: %s", selector, found)
			return found
		}
	}

	if text := composedPrice(doc); text != "" {
		log.Printf("Extracted price from whole/fraction parts: %s", text)
		return text
	}
	if text := twisterPrice(doc); text != "" {
		log.Printf("Extracted price from twister price data: %s", text)
		return text
	}
	return ""
}

// composedPrice rebuilds the price from the visible a-price parts for pages
// where the .a-offscreen copy is left empty.
func composedPrice(doc *goquery.Document) string {
	price := doc.Find("#corePriceDisplay_desktop_feature_div span.a-price, #corePrice_feature_div span.a-price").
		FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.AttrOr("data-a-strike", "") != "true"
		}).First()
	if price.Length() == 0 {
		return ""
	}

	separator := strings.TrimSpace(price.Find(".a-price-decimal").First().Text())
	if separator == "" {
		separator = "."
	}
	whole := strings.TrimSpace(price.Find(".a-price-whole").First().Text())
	whole = strings.TrimRight(whole, ".,")
	if whole == "" {
		return ""
	}

	symbol := strings.TrimSpace(price.Find(".a-price-symbol").First().Text())
	text := symbol + whole
	if fraction := strings.TrimSpace(price.Find(".a-price-fraction").First().Text()); fraction != "" {
		text += separator + fraction
	}
	return text
}

// twisterPrice reads the buy-box price from the JSON Amazon embeds for its
// variation picker.
func twisterPrice(doc *goquery.Document) string {
	data := strings.TrimSpace(doc.Find(".twister-plus-buying-options-price-data").First().Text())
	if data == "" || !gjson.Valid(data) {
		return ""
	}

	offer := gjson.Get(data, "desktop_buybox_group_1.0")
	if !offer.Exists() {
		return ""
	}
	if display := offer.Get("displayPrice"); display.String() != "" {
		return display.String()
	}
	if amount := offer.Get("priceAmount"); amount.Type == gjson.Number {
		return amount.Raw
	}
	return ""
}
