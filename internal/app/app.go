package app

import (
	"PriceTracker/internal/models"
	"PriceTracker/internal/scraper"
	"PriceTracker/pkg/config"
	"PriceTracker/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrBusy is returned by Submit while another fetch cycle is running.
	ErrBusy = errors.New("a fetch is already in progress")
	// ErrShutdown is returned by Submit after Shutdown.
	ErrShutdown = errors.New("tracker is shutting down")
)

// Request is one form submission as typed by the user.
type Request struct {
	URL            string
	TargetPrice    string
	Headless       bool
	TimeoutSeconds int // 0 uses the configured default
}

// Result is the outcome of one fetch cycle, handed to the presenter once
// the cycle has finished.
type Result struct {
	RequestID   string
	URL         string
	ASIN        string
	TargetPrice decimal.Decimal
	Snapshot    *models.ProductSnapshot
	Alert       bool
	Saved       bool
	Err         error
}

// Presenter shows tracker progress to the user.
type Presenter interface {
	StateChanged(requestID string, state State)
	Finished(result Result)
}

// App is the main application structure holding all dependencies. It runs
// one Collector → Fetcher → Extractor → Reporter cycle at a time.
type App struct {
	Config    *config.Config
	fetcher   scraper.Fetcher
	extractor scraper.Extractor
	reporter  *Reporter
	presenter Presenter

	mu     sync.Mutex
	state  State
	busy   bool
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new application instance with all its collaborators.
func New(cfg *config.Config, fetcher scraper.Fetcher, extractor scraper.Extractor, history HistoryWriter, presenter Presenter) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:    cfg,
		fetcher:   fetcher,
		extractor: extractor,
		reporter:  &Reporter{History: history},
		presenter: presenter,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// State returns the current cycle state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Submit validates the request and starts a fetch cycle in the background.
// Invalid input returns an *InputValidationError and starts nothing. On
// success the tracker is already in StateFetching when Submit returns.
func (a *App) Submit(req Request) (string, error) {
	query, err := ParseQuery(req.URL, req.TargetPrice)
	if err != nil {
		return "", err
	}
	opts, err := a.fetchOptions(req)
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return "", ErrShutdown
	}
	if a.busy {
		a.mu.Unlock()
		return "", ErrBusy
	}
	a.busy = true
	a.wg.Add(1)
	a.mu.Unlock()

	id := uuid.NewString()
	a.setState(id, StateFetching)

	go func() {
		defer a.wg.Done()
		result := a.run(a.ctx, id, query, opts)
		a.finish(result)
	}()
	return id, nil
}

// Wait blocks until the running cycle, if any, has finished.
func (a *App) Wait() {
	a.wg.Wait()
}

// Shutdown cancels the running cycle, waits for it and rejects new submissions.
func (a *App) Shutdown() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	a.cancel()
	a.wg.Wait()
	log.Println("Tracker stopped")
}

func (a *App) fetchOptions(req Request) (scraper.FetchOptions, error) {
	opts := scraper.FetchOptions{
		Headless: req.Headless,
		Timeout:  a.Config.Scraper.Timeout(),
	}
	if req.TimeoutSeconds != 0 {
		if req.TimeoutSeconds < 5 || req.TimeoutSeconds > 120 {
			return opts, &InputValidationError{Field: "timeout", Reason: "must be between 5 and 120 seconds"}
		}
		opts.Timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}
	return opts, nil
}

// run executes one cycle and never panics on pipeline errors; every failure
// ends up in Result.Err.
func (a *App) run(ctx context.Context, id string, query models.ProductQuery, opts scraper.FetchOptions) Result {
	result := Result{
		RequestID:   id,
		URL:         query.URL,
		ASIN:        utils.ASINFromURL(query.URL),
		TargetPrice: query.TargetPrice,
	}
	log.Printf("--- Starting fetch cycle %s for %s (target %s) ---", id, query.URL, query.TargetPrice.StringFixed(2))

	html, err := a.fetcher.FetchRenderedHTML(ctx, query.URL, opts)
	if err != nil {
		log.Printf("Fetch failed: %v", err)
		result.Err = err
		return result
	}

	a.setState(id, StateExtracting)
	snapshot, err := a.extractor.ExtractProduct(html)
	if err != nil {
		log.Printf("Extraction failed: %v", err)
		result.Err = err
		return result
	}
	result.Snapshot = &snapshot

	a.setState(id, StateReporting)
	result.Alert, err = a.reporter.Report(snapshot, query.TargetPrice)
	if err != nil {
		log.Printf("Report failed: %v", err)
		result.Err = err
		return result
	}
	result.Saved = true

	log.Printf("--- Fetch cycle %s finished: %q at %s ---", id, snapshot.Title, snapshot.Price.StringFixed(2))
	return result
}

// finish shows the result and returns the tracker to idle.
func (a *App) finish(result Result) {
	if result.Err != nil {
		a.setState(result.RequestID, StateError)
	}
	a.presenter.Finished(result)

	a.mu.Lock()
	a.busy = false
	a.state = StateIdle
	a.mu.Unlock()
	a.presenter.StateChanged(result.RequestID, StateIdle)
}

func (a *App) setState(id string, s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
	a.presenter.StateChanged(id, s)
}

// ErrorKind names the class of a cycle error for display.
func ErrorKind(err error) string {
	var (
		inputErr *InputValidationError
		fetchErr *scraper.FetchError
		extrErr  *scraper.ExtractionError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &inputErr):
		return "input"
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &extrErr):
		return "extraction"
	case errors.Is(err, ErrBusy), errors.Is(err, ErrShutdown):
		return "busy"
	}
	return "report"
}

// StatusMessage is the one-line status shown for a finished cycle.
func StatusMessage(r Result) string {
	if r.Err == nil {
		if r.Alert {
			return fmt.Sprintf("Target reached: %s <= %s", r.Snapshot.Price.StringFixed(2), r.TargetPrice.StringFixed(2))
		}
		return fmt.Sprintf("Above target: %s > %s", r.Snapshot.Price.StringFixed(2), r.TargetPrice.StringFixed(2))
	}

	switch {
	case errors.Is(r.Err, scraper.ErrTimeout):
		return "Timeout: page is slow or blocked."
	case errors.Is(r.Err, scraper.ErrBlocked):
		return "Amazon served a robot check page; try again later or with headless off."
	case errors.Is(r.Err, scraper.ErrBrowserLaunch):
		return "Could not start the browser: " + r.Err.Error()
	case errors.Is(r.Err, scraper.ErrTitleMissing):
		return "Product title not found. The page layout may be different or the product unavailable."
	case errors.Is(r.Err, scraper.ErrPriceMissing):
		return "Price element not found. The product may be unavailable."
	case errors.Is(r.Err, scraper.ErrPriceUnparsable):
		return "Price could not be parsed: " + r.Err.Error()
	}
	return "Error: " + r.Err.Error()
}
