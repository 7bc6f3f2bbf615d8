package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoPrice is returned when a string holds no number-like pattern.
var ErrNoPrice = errors.New("no price found")

// priceRegex finds the first number-like run in a string: digits with
// optional "." and "," separators, e.g. "1,079.00" or "1.234,56".
var priceRegex = regexp.MustCompile(`\d[\d.,]*`)

// currencyRegex matches everything that is part of the number itself.
var currencyRegex = regexp.MustCompile(`[\d.,\s]`)

// ParsePrice cleans a price string like "$1,299.00", "AED 219.41" or
// "1.234,56 TL" and converts it to a decimal.
//
// When both separators are present the one occurring last is the decimal
// separator. A lone comma is a thousands separator when exactly three digits
// follow it, otherwise it is a decimal comma. Parsing the result's String()
// again yields the same value.
func ParsePrice(priceStr string) (decimal.Decimal, error) {
	found := priceRegex.FindString(priceStr)
	found = strings.TrimRight(found, ".,")
	if found == "" {
		return decimal.Zero, ErrNoPrice
	}

	cleaned := normalizeSeparators(found)

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %q from %q: %w", cleaned, priceStr, err)
	}
	return price, nil
}

func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		// 1,234.56
		return strings.ReplaceAll(s, ",", "")

	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 != 3 {
			// 12,5 or 19,99
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")

	case strings.Count(s, ".") > 1:
		// 1.234.567 uses dots for thousands
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// CurrencyHint returns what is left of a price string after removing the
// number, e.g. "$" for "$19.99" or "TL" for "1.234,56 TL".
func CurrencyHint(priceStr string) string {
	return strings.TrimSpace(currencyRegex.ReplaceAllString(priceStr, ""))
}
