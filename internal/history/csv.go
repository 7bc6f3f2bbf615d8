package history

import (
	"PriceTracker/internal/models"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Header is the first line of every history file.
var Header = []string{"timestamp", "title", "price"}

// Repository is an append-only price history kept in a CSV file.
type Repository struct {
	path string
	mu   sync.Mutex
}

// Open prepares a repository at path, creating its directory if needed.
// The file itself is created by the first Append.
func Open(path string) (*Repository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}
	return &Repository{path: path}, nil
}

// Path returns the location of the history file.
func (repo *Repository) Path() string {
	return repo.path
}

// Append writes one record, adding the header first when the file is new or empty.
func (repo *Repository) Append(record models.PriceHistoryRecord) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	f, err := os.OpenFile(repo.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening history file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat history file: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			f.Close()
			return fmt.Errorf("writing history header: %w", err)
		}
	}
	if err := w.Write(record.Fields()); err != nil {
		f.Close()
		return fmt.Errorf("writing history row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing history file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing history file: %w", err)
	}
	return nil
}

// All returns every readable record in file order. A missing file yields no records.
// Malformed rows are logged and skipped.
func (repo *Repository) All() ([]models.PriceHistoryRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	f, err := os.Open(repo.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening history file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var records []models.PriceHistoryRecord
	for line := 1; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Skipping unreadable history line %d: %v", line, err)
			continue
		}
		if line == 1 && row[0] == Header[0] {
			continue
		}

		record, err := parseRow(row)
		if err != nil {
			log.Printf("Skipping history line %d: %v", line, err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// List returns a page of records, newest first.
func (repo *Repository) List(filters models.HistoryFilters) ([]models.PriceHistoryRecord, error) {
	all, err := repo.All()
	if err != nil {
		return nil, err
	}

	newestFirst := make([]models.PriceHistoryRecord, len(all))
	for i, rec := range all {
		newestFirst[len(all)-1-i] = rec
	}

	start := filters.Offset
	if start < 0 {
		start = 0
	}
	if start > len(newestFirst) {
		start = len(newestFirst)
	}
	end := len(newestFirst)
	if filters.Limit > 0 && start+filters.Limit < end {
		end = start + filters.Limit
	}
	return newestFirst[start:end], nil
}

// Count returns the number of readable records.
func (repo *Repository) Count() (int, error) {
	all, err := repo.All()
	return len(all), err
}

func parseRow(row []string) (models.PriceHistoryRecord, error) {
	if len(row) != len(Header) {
		return models.PriceHistoryRecord{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(row))
	}
	ts, err := time.ParseInLocation(models.TimestampLayout, row[0], time.Local)
	if err != nil {
		return models.PriceHistoryRecord{}, fmt.Errorf("bad timestamp %q: %w", row[0], err)
	}
	price, err := decimal.NewFromString(row[2])
	if err != nil {
		return models.PriceHistoryRecord{}, fmt.Errorf("bad price %q: %w", row[2], err)
	}
	return models.PriceHistoryRecord{Timestamp: ts, Title: row[1], Price: price}, nil
}
