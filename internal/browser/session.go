package browser

import (
	"PriceTracker/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// pingTimeout bounds the liveness check on a cached browser.
const pingTimeout = 3 * time.Second

// ErrClosed is returned by Browser after Close has been called.
var ErrClosed = errors.New("browser session closed")

// Options configure how the browser process is launched.
type Options struct {
	Bin          string // empty lets rod find a local browser or download one
	WindowWidth  int
	WindowHeight int
}

// Session owns at most one browser process for the lifetime of the
// application. The browser is launched on first use, relaunched when the
// headless mode changes, and shut down by Close.
type Session struct {
	opts Options

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	headless bool
	closed   bool
}

// New creates a session. No browser is started until Browser is called.
func New(opts Options) *Session {
	return &Session{opts: opts}
}

// Browser returns a connected browser in the requested mode, launching one if
// needed. A cached browser that no longer answers is replaced. ctx bounds the
// launch, including a browser download when no local binary is found.
func (s *Session) Browser(ctx context.Context, headless bool) (*rod.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.browser != nil {
		switch {
		case s.headless != headless:
			log.Printf("Headless mode changed to %v, relaunching browser", headless)
		case !alive(s.browser):
			log.Println("Browser stopped responding, relaunching")
		default:
			return s.browser, nil
		}
		if err := s.shutdown(); err != nil {
			log.Printf("WARN: %v", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	l := launcher.New().Context(ctx).Headless(headless)
	if s.opts.Bin != "" {
		l = l.Bin(s.opts.Bin)
	}
	if s.opts.WindowWidth > 0 && s.opts.WindowHeight > 0 {
		l = l.Set("window-size", strconv.Itoa(s.opts.WindowWidth)+","+strconv.Itoa(s.opts.WindowHeight))
	}

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	log.Printf("Browser launched (pid %d, headless=%v)", l.PID(), headless)
	s.launcher = l
	s.browser = b
	s.headless = headless
	return b, nil
}

// Running reports whether a browser process is currently held.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.browser != nil
}

// Close shuts the browser down and makes the session unusable.
// It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.shutdown()
}

// alive reports whether b still answers on its control connection.
func alive(b *rod.Browser) bool {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	_, err := proto.BrowserGetVersion{}.Call(b.Context(ctx))
	return err == nil
}

// shutdown closes the current browser and kills anything left of its
// process tree. Callers hold s.mu.
func (s *Session) shutdown() error {
	if s.browser == nil {
		return nil
	}

	var err error
	if cerr := s.browser.Close(); cerr != nil {
		err = fmt.Errorf("closing browser: %w", cerr)
	}

	pid := s.launcher.PID()
	if n := utils.KillProcessTree(pid); n > 0 {
		log.Printf("Killed %d leftover browser processes", n)
	}
	s.launcher.Kill()
	s.launcher.Cleanup()

	s.browser = nil
	s.launcher = nil
	log.Printf("Browser (pid %d) shut down", pid)
	return err
}
