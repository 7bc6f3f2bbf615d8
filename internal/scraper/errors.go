package scraper

import (
	"errors"
	"fmt"
)

// Fetch failure kinds. A *FetchError matches its kind with errors.Is.
var (
	ErrBrowserLaunch = errors.New("browser launch failed")
	ErrNavigation    = errors.New("navigation failed")
	ErrTimeout       = errors.New("page load timed out")
	ErrBlocked       = errors.New("robot check page served")
)

// Extraction failure kinds. An *ExtractionError matches its kind with errors.Is.
var (
	ErrTitleMissing    = errors.New("title element not found")
	ErrPriceMissing    = errors.New("price element not found")
	ErrPriceUnparsable = errors.New("price could not be parsed")
)

// FetchError reports why a page could not be loaded.
type FetchError struct {
	Kind error
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %v: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ExtractionError reports which part of the product could not be read.
type ExtractionError struct {
	Kind error
	Text string // offending text, set for ErrPriceUnparsable
}

func (e *ExtractionError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("extract product: %v: %q", e.Kind, e.Text)
	}
	return fmt.Sprintf("extract product: %v", e.Kind)
}

func (e *ExtractionError) Unwrap() error {
	return e.Kind
}
