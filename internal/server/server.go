package server

import (
	"PriceTracker/internal/models"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
)

// HistoryReader is the read side of the price history.
type HistoryReader interface {
	List(filters models.HistoryFilters) ([]models.PriceHistoryRecord, error)
	Count() (int, error)
}

// NewHandler returns the HTTP handler serving the window's API routes.
// The desktop shell mounts it behind its embedded assets.
func NewHandler(repo HistoryReader) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/history", historyHandler(repo))
	return mux
}

func historyHandler(repo HistoryReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// page is 1-based; bad or missing values fall back to the first page of 20
		queryParams := r.URL.Query()
		page, _ := strconv.Atoi(queryParams.Get("page"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(queryParams.Get("limit"))
		if limit < 1 {
			limit = 20
		}
		offset := (page - 1) * limit

		total, err := repo.Count()
		if err != nil {
			log.Printf("Failed to count history records: %v", err)
			http.Error(w, "Failed to count history records", http.StatusInternalServerError)
			return
		}
		totalPages := int(math.Ceil(float64(total) / float64(limit)))

		// List returns rows newest first
		records, err := repo.List(models.HistoryFilters{Limit: limit, Offset: offset})
		if err != nil {
			log.Printf("Failed to read history: %v", err)
			http.Error(w, "Failed to read history", http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []models.PriceHistoryRecord{}
		}

		response := models.HistoryPage{
			Data: records,
			Pagination: models.Pagination{
				TotalPages:  totalPages,
				CurrentPage: page,
				TotalItems:  total,
			},
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}
