package app

import (
	"PriceTracker/internal/models"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// InputValidationError reports a form field that cannot be submitted.
type InputValidationError struct {
	Field  string
	Reason string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ParseQuery validates the raw form values and builds the query.
// The URL must be an absolute http(s) Amazon URL and the target price a
// positive decimal.
func ParseQuery(rawURL, rawTarget string) (models.ProductQuery, error) {
	productURL, err := validateURL(rawURL)
	if err != nil {
		return models.ProductQuery{}, err
	}

	target, err := parseTarget(rawTarget)
	if err != nil {
		return models.ProductQuery{}, err
	}

	return models.ProductQuery{URL: productURL, TargetPrice: target}, nil
}

func validateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", &InputValidationError{Field: "url", Reason: "must not be empty"}
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", &InputValidationError{Field: "url", Reason: "must be an absolute http(s) URL"}
	}
	if !strings.Contains(strings.ToLower(u.Hostname()), "amazon.") {
		return "", &InputValidationError{Field: "url", Reason: "must point to an Amazon product page"}
	}
	return rawURL, nil
}

func parseTarget(rawTarget string) (decimal.Decimal, error) {
	rawTarget = strings.TrimSpace(rawTarget)
	if rawTarget == "" {
		return decimal.Zero, &InputValidationError{Field: "target price", Reason: "must not be empty"}
	}

	target, err := decimal.NewFromString(rawTarget)
	if err != nil {
		return decimal.Zero, &InputValidationError{Field: "target price", Reason: fmt.Sprintf("%q is not a number", rawTarget)}
	}
	if !target.IsPositive() {
		return decimal.Zero, &InputValidationError{Field: "target price", Reason: "must be greater than zero"}
	}
	return target, nil
}
