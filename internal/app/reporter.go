package app

import (
	"PriceTracker/internal/models"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
)

// HistoryWriter persists one observation. *history.Repository implements it.
type HistoryWriter interface {
	Append(record models.PriceHistoryRecord) error
}

// IsAlert reports whether the observed price reached the target.
func IsAlert(price, target decimal.Decimal) bool {
	return price.LessThanOrEqual(target)
}

// Reporter evaluates a snapshot against the target and logs it to the history.
type Reporter struct {
	History HistoryWriter
}

// Report computes the alert flag and appends the snapshot to the history.
// The alert flag is valid even when the append fails.
func (r *Reporter) Report(snapshot models.ProductSnapshot, target decimal.Decimal) (alert bool, err error) {
	alert = IsAlert(snapshot.Price, target)
	log.Printf("Price %s vs target %s: alert=%v", snapshot.Price.StringFixed(2), target.StringFixed(2), alert)

	if err := r.History.Append(snapshot.Record()); err != nil {
		return alert, fmt.Errorf("saving price history: %w", err)
	}
	return alert, nil
}
