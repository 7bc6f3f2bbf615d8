package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the timestamp format written to the price history.
const TimestampLayout = "2006-01-02 15:04:05"

// ProductQuery is one validated user submission.
type ProductQuery struct {
	URL         string
	TargetPrice decimal.Decimal
}

// ProductSnapshot is what one fetch of a product page yielded.
type ProductSnapshot struct {
	Title     string
	Price     decimal.Decimal
	RawPrice  string // price text as it appeared on the page
	Currency  string // non-numeric remainder of RawPrice, e.g. "$" or "TL"
	Timestamp time.Time
}

// Record converts the snapshot into the row persisted in the history file.
func (s ProductSnapshot) Record() PriceHistoryRecord {
	return PriceHistoryRecord{
		Timestamp: s.Timestamp,
		Title:     s.Title,
		Price:     s.Price,
	}
}

// PriceHistoryRecord is one row of the append-only price history.
type PriceHistoryRecord struct {
	Timestamp time.Time       `json:"timestamp"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
}

// Fields returns the CSV columns of the record in header order.
func (r PriceHistoryRecord) Fields() []string {
	return []string{
		r.Timestamp.Format(TimestampLayout),
		r.Title,
		r.Price.StringFixed(2),
	}
}

// HistoryFilters holds the pagination parameters for reading the history back.
type HistoryFilters struct {
	Limit  int
	Offset int
}

// HistoryPage is the JSON document served to the window's history table.
type HistoryPage struct {
	Data       []PriceHistoryRecord `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

type Pagination struct {
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	TotalItems  int `json:"total_items"`
}
