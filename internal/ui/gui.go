package ui

import (
	"PriceTracker/internal/app"
	"PriceTracker/internal/models"
	"PriceTracker/pkg/config"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Event names the frontend subscribes to.
const (
	EventState  = "tracker:state"
	EventResult = "tracker:result"
)

// FormDefaults pre-fills the input form.
type FormDefaults struct {
	Headless       bool   `json:"headless"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
	HistoryPath    string `json:"historyPath"`
}

// TrackForm is what the frontend submits.
type TrackForm struct {
	URL            string `json:"url"`
	TargetPrice    string `json:"targetPrice"`
	Headless       bool   `json:"headless"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// StateEvent is emitted on every state transition.
type StateEvent struct {
	RequestID string `json:"requestId"`
	State     string `json:"state"`
}

// ResultView is the display form of a finished cycle.
type ResultView struct {
	RequestID string `json:"requestId"`
	URL       string `json:"url"`
	ASIN      string `json:"asin"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	RawPrice  string `json:"rawPrice"`
	Currency  string `json:"currency"`
	Target    string `json:"target"`
	Timestamp string `json:"timestamp"`
	Alert     bool   `json:"alert"`
	Saved     bool   `json:"saved"`
	ErrorKind string `json:"errorKind"`
	Status    string `json:"status"`
}

// NewResultView flattens a tracker result for the frontend.
func NewResultView(r app.Result) ResultView {
	v := ResultView{
		RequestID: r.RequestID,
		URL:       r.URL,
		ASIN:      r.ASIN,
		Target:    r.TargetPrice.StringFixed(2),
		Alert:     r.Alert && r.Snapshot != nil,
		Saved:     r.Saved,
		ErrorKind: app.ErrorKind(r.Err),
		Status:    app.StatusMessage(r),
	}
	if s := r.Snapshot; s != nil {
		v.Title = s.Title
		v.Price = s.Price.StringFixed(2)
		v.RawPrice = s.RawPrice
		v.Currency = s.Currency
		v.Timestamp = s.Timestamp.Format(models.TimestampLayout)
	}
	return v
}

type emitFunc func(ctx context.Context, name string, data ...interface{})

type dialogFunc func(ctx context.Context, title, message string)

// GUI is bound to the Wails window. It forwards form submissions to the
// tracker and pushes tracker progress back to the frontend as events.
type GUI struct {
	ctx     context.Context
	cfg     *config.Config
	tracker *app.App
	session io.Closer

	emit   emitFunc
	notify dialogFunc
}

// New creates the GUI binding. session is closed when the window closes.
func New(cfg *config.Config, session io.Closer) *GUI {
	return &GUI{
		cfg:     cfg,
		session: session,
		emit:    runtime.EventsEmit,
		notify:  infoDialog,
	}
}

// Attach sets the tracker the form submits to.
func (g *GUI) Attach(tracker *app.App) {
	g.tracker = tracker
}

// Startup is called when the app starts.
func (g *GUI) Startup(ctx context.Context) {
	g.ctx = ctx
	runtime.LogInfof(ctx, "Tracker window started, history at %s", g.cfg.History.Path)

	// Quit through Wails on Ctrl-C so Shutdown still closes the browser.
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer stop()
		<-sigCtx.Done()
		if ctx.Err() == nil {
			log.Println("Shutdown signal received")
			runtime.Quit(ctx)
		}
	}()
}

// DomReady is called after the front-end dom has been loaded.
func (g *GUI) DomReady(ctx context.Context) {
	runtime.WindowCenter(ctx)
}

// Shutdown is called when the window is closing. It stops an in-flight
// fetch and closes the browser.
func (g *GUI) Shutdown(ctx context.Context) {
	if g.tracker != nil {
		g.tracker.Shutdown()
	}
	if g.session != nil {
		if err := g.session.Close(); err != nil {
			log.Printf("Error closing browser session: %v", err)
		}
	}
}

// Defaults returns the initial form values.
func (g *GUI) Defaults() FormDefaults {
	return FormDefaults{
		Headless:       g.cfg.Scraper.Headless,
		TimeoutSeconds: g.cfg.Scraper.TimeoutSeconds,
		HistoryPath:    g.cfg.History.Path,
	}
}

// Track submits the form. It returns the request ID immediately; the
// outcome arrives as a tracker:result event.
func (g *GUI) Track(form TrackForm) (string, error) {
	if g.tracker == nil {
		return "", fmt.Errorf("tracker not ready")
	}
	id, err := g.tracker.Submit(app.Request{
		URL:            form.URL,
		TargetPrice:    form.TargetPrice,
		Headless:       form.Headless,
		TimeoutSeconds: form.TimeoutSeconds,
	})
	if err != nil {
		log.Printf("Submission rejected: %v", err)
		return "", err
	}
	return id, nil
}

// StateChanged implements app.Presenter.
func (g *GUI) StateChanged(requestID string, state app.State) {
	if g.ctx == nil {
		return
	}
	g.emit(g.ctx, EventState, StateEvent{RequestID: requestID, State: state.String()})
}

// Finished implements app.Presenter.
func (g *GUI) Finished(result app.Result) {
	if g.ctx == nil {
		return
	}
	view := NewResultView(result)
	g.emit(g.ctx, EventResult, view)

	if view.Alert {
		msg := fmt.Sprintf("Price is at or below your target.\n\nTarget: %s\nCurrent: %s %s", view.Target, view.Price, view.Currency)
		// the dialog blocks until dismissed; keep the tracker moving
		go g.notify(g.ctx, "Target Reached!", msg)
	}
}

func infoDialog(ctx context.Context, title, message string) {
	_, err := runtime.MessageDialog(ctx, runtime.MessageDialogOptions{
		Type:    runtime.InfoDialog,
		Title:   title,
		Message: message,
	})
	if err != nil {
		log.Printf("Could not show dialog: %v", err)
	}
}
