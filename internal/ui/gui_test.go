package ui

import (
	"PriceTracker/internal/app"
	"PriceTracker/internal/models"
	"PriceTracker/internal/scraper"
	"PriceTracker/pkg/config"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type recordedEvent struct {
	name string
	data interface{}
}

type recorder struct {
	mu      sync.Mutex
	events  []recordedEvent
	dialogs chan string
}

func newRecorder() *recorder {
	return &recorder{dialogs: make(chan string, 4)}
}

func (r *recorder) emit(_ context.Context, name string, data ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var payload interface{}
	if len(data) > 0 {
		payload = data[0]
	}
	r.events = append(r.events, recordedEvent{name: name, data: payload})
}

func (r *recorder) dialog(_ context.Context, title, _ string) {
	r.dialogs <- title
}

func (r *recorder) Events() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent(nil), r.events...)
}

func newTestGUI(rec *recorder) *GUI {
	g := New(config.Default(), nil)
	g.ctx = context.Background()
	g.emit = rec.emit
	g.notify = rec.dialog
	return g
}

func widgetResult() app.Result {
	return app.Result{
		RequestID:   "req-1",
		URL:         "https://www.amazon.com/dp/B0WIDGET01",
		ASIN:        "B0WIDGET01",
		TargetPrice: decimal.RequireFromString("20"),
		Snapshot: &models.ProductSnapshot{
			Title:     "Widget",
			Price:     decimal.RequireFromString("19.99"),
			RawPrice:  "$19.99",
			Currency:  "$",
			Timestamp: time.Date(2026, 10, 19, 8, 0, 0, 0, time.Local),
		},
		Alert: true,
		Saved: true,
	}
}

func TestNewResultView(t *testing.T) {
	v := NewResultView(widgetResult())

	want := ResultView{
		RequestID: "req-1",
		URL:       "https://www.amazon.com/dp/B0WIDGET01",
		ASIN:      "B0WIDGET01",
		Title:     "Widget",
		Price:     "19.99",
		RawPrice:  "$19.99",
		Currency:  "$",
		Target:    "20.00",
		Timestamp: "2026-10-19 08:00:00",
		Alert:     true,
		Saved:     true,
		Status:    "Target reached: 19.99 <= 20.00",
	}
	if v != want {
		t.Errorf("NewResultView =\n%+v\nwant\n%+v", v, want)
	}
}

func TestNewResultViewError(t *testing.T) {
	v := NewResultView(app.Result{
		RequestID:   "req-2",
		TargetPrice: decimal.NewFromInt(5),
		Err:         &scraper.ExtractionError{Kind: scraper.ErrPriceMissing},
	})

	if v.ErrorKind != "extraction" {
		t.Errorf("ErrorKind = %q; want extraction", v.ErrorKind)
	}
	if v.Alert || v.Saved || v.Title != "" || v.Price != "" {
		t.Errorf("error view carries snapshot data: %+v", v)
	}
	if v.Status == "" {
		t.Error("Status is empty")
	}
}

func TestFinishedEmitsAndAlerts(t *testing.T) {
	rec := newRecorder()
	g := newTestGUI(rec)

	g.StateChanged("req-1", app.StateReporting)
	g.Finished(widgetResult())

	events := rec.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events; want 2", len(events))
	}
	if events[0].name != EventState || events[0].data != (StateEvent{RequestID: "req-1", State: "reporting"}) {
		t.Errorf("state event = %+v", events[0])
	}
	if events[1].name != EventResult {
		t.Errorf("result event name = %q", events[1].name)
	}

	select {
	case title := <-rec.dialogs:
		if title != "Target Reached!" {
			t.Errorf("dialog title = %q", title)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no alert dialog shown")
	}
}

func TestFinishedNoAlertNoDialog(t *testing.T) {
	rec := newRecorder()
	g := newTestGUI(rec)

	r := widgetResult()
	r.Alert = false
	g.Finished(r)

	select {
	case title := <-rec.dialogs:
		t.Errorf("unexpected dialog %q", title)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEventsBeforeStartupAreDropped(t *testing.T) {
	rec := newRecorder()
	g := New(config.Default(), nil)
	g.emit = rec.emit

	g.StateChanged("x", app.StateFetching)
	g.Finished(widgetResult())
	if n := len(rec.Events()); n != 0 {
		t.Errorf("emitted %d events before Startup", n)
	}
}

type staticFetcher struct{ html string }

func (f staticFetcher) FetchRenderedHTML(context.Context, string, scraper.FetchOptions) (string, error) {
	return f.html, nil
}

type staticExtractor struct{}

func (staticExtractor) ExtractProduct(string) (models.ProductSnapshot, error) {
	return models.ProductSnapshot{}, &scraper.ExtractionError{Kind: scraper.ErrTitleMissing}
}

func TestTrack(t *testing.T) {
	rec := newRecorder()
	g := newTestGUI(rec)

	if _, err := g.Track(TrackForm{URL: "https://www.amazon.com/dp/B0X", TargetPrice: "10"}); err == nil {
		t.Fatal("Track before Attach should fail")
	}

	tracker := app.New(config.Default(), staticFetcher{html: "<html></html>"}, staticExtractor{}, nil, g)
	g.Attach(tracker)
	defer tracker.Shutdown()

	_, err := g.Track(TrackForm{URL: "https://www.amazon.com/dp/B0X", TargetPrice: "free"})
	var inputErr *app.InputValidationError
	if !errors.As(err, &inputErr) {
		t.Fatalf("Track error = %v; want *app.InputValidationError", err)
	}

	id, err := g.Track(TrackForm{URL: "https://www.amazon.com/dp/B0X", TargetPrice: "10", Headless: true, TimeoutSeconds: 10})
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	tracker.Wait()

	events := rec.Events()
	last := events[len(events)-1]
	if last.name != EventState || last.data != (StateEvent{RequestID: id, State: "idle"}) {
		t.Errorf("last event = %+v; want idle for %s", last, id)
	}
}

func TestDefaults(t *testing.T) {
	d := New(config.Default(), nil).Defaults()
	if !d.Headless || d.TimeoutSeconds != 20 || d.HistoryPath != "data/price_history.csv" {
		t.Errorf("Defaults = %+v", d)
	}
}
