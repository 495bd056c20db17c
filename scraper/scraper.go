package scraper

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/use-agent/roastscrape/config"
	"github.com/use-agent/roastscrape/models"
)

// ErrHandleClosed is returned by Acquire after Close.
var ErrHandleClosed = errors.New("browser handle closed")

// BrowserHandle owns the single shared browser process. The mutex only
// serialises create-or-reuse; tabs are opened per request by the caller.
type BrowserHandle struct {
	cfg config.BrowserConfig

	mu       sync.Mutex
	browser  *rod.Browser
	launches int
	closed   bool

	// launch is swapped out in tests.
	launch func(cfg config.BrowserConfig) (*rod.Browser, error)
	// alive reports whether a browser still answers.
	alive func(b *rod.Browser) bool
	kill  func(b *rod.Browser) error
}

// NewBrowserHandle creates a handle. The browser is launched lazily on the
// first Acquire.
func NewBrowserHandle(cfg config.BrowserConfig) *BrowserHandle {
	return &BrowserHandle{
		cfg:    cfg,
		launch: launchBrowser,
		alive:  browserAlive,
		kill:   (*rod.Browser).Close,
	}
}

// Acquire returns the live browser, relaunching it when the previous one
// no longer responds.
func (h *BrowserHandle) Acquire() (*rod.Browser, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHandleClosed
	}
	if h.browser != nil {
		if h.alive(h.browser) {
			return h.browser, nil
		}
		slog.Warn("browser unresponsive, relaunching", "launches", h.launches)
		_ = h.kill(h.browser)
		h.browser = nil
	}

	b, err := h.launch(h.cfg)
	if err != nil {
		return nil, err
	}
	h.browser = b
	h.launches++
	return b, nil
}

// Live reports whether a browser is currently held and responsive. The
// liveness check runs outside the lock so a hung browser cannot stall
// Acquire or Launches.
func (h *BrowserHandle) Live() bool {
	h.mu.Lock()
	b := h.browser
	h.mu.Unlock()
	return b != nil && h.alive(b)
}

// Launches returns how many times a browser process was started.
func (h *BrowserHandle) Launches() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.launches
}

// Close kills the browser process. Later Acquire calls fail.
// Call this on graceful shutdown to prevent zombie Chrome processes.
func (h *BrowserHandle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	if h.browser == nil {
		return
	}
	slog.Info("closing browser")
	if err := h.kill(h.browser); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
	h.browser = nil
}

func browserAlive(b *rod.Browser) bool {
	_, err := proto.BrowserGetVersion{}.Call(b)
	return err == nil
}

// launchBrowser starts Chromium with the stealth launch flags and connects.
func launchBrowser(cfg config.BrowserConfig) (*rod.Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "TranslateUI")
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("lang"), "en-US")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL, "headless", cfg.Headless)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}
	return browser, nil
}
