package scraper

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"sync"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/use-agent/roastscrape/cleaner"
	"github.com/use-agent/roastscrape/models"
)

const engineName = "rod"

// HeadlessConfig tunes a headless session. Zero values select defaults.
type HeadlessConfig struct {
	// MaxAttempts and Budget bound the challenge poll loop.
	MaxAttempts int           // default: 8
	Budget      time.Duration // default: 45s

	PollInterval  time.Duration // default: 2s
	Settle        time.Duration // wait after navigation; default: 2s
	PostClickWait time.Duration // default: 5s
	SPAWait       time.Duration // default: 4s

	// BlockedResourceTypes lists resource types the hijack router fails.
	BlockedResourceTypes []string

	Markers cleaner.Markers
}

func (c *HeadlessConfig) applyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 8
	}
	if c.Budget <= 0 {
		c.Budget = 45 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.Settle <= 0 {
		c.Settle = 2 * time.Second
	}
	if c.PostClickWait <= 0 {
		c.PostClickWait = 5 * time.Second
	}
	if c.SPAWait <= 0 {
		c.SPAWait = 4 * time.Second
	}
	if c.Markers.Challenge == nil && c.Markers.SPA == nil {
		c.Markers = cleaner.DefaultMarkers()
	}
}

// Headless renders pages in a fresh tab of the shared browser and waits out
// anti-bot challenges.
type Headless struct {
	handle    *BrowserHandle
	cfg       HeadlessConfig
	activator ChallengeActivator

	mu  sync.Mutex
	rng *rand.Rand
}

// NewHeadless creates a Headless fetcher. activator may be nil, in which
// case challenges are only waited on, never clicked.
func NewHeadless(handle *BrowserHandle, cfg HeadlessConfig, activator ChallengeActivator) *Headless {
	cfg.applyDefaults()
	return &Headless{
		handle:    handle,
		cfg:       cfg,
		activator: activator,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

func (h *Headless) viewport() Viewport {
	h.mu.Lock()
	defer h.mu.Unlock()
	return pickViewport(h.rng)
}

// Fetch opens target in a new tab and returns the rendered HTML.
//
// Lifecycle:
//
//  1. Acquire browser   – reuse the shared one or relaunch it
//  2. Open tab          – closed on return
//  3. Stealth + hijack  – before navigation so they apply to the first load
//  4. Navigate + settle
//  5. Poll              – wait out (and click once) challenge pages
//  6. SPA wait          – one extra wait when the shell has not rendered
func (h *Headless) Fetch(ctx context.Context, target *url.URL) (string, error) {
	browser, err := h.handle.Acquire()
	if err != nil {
		return "", models.NewFetchError(models.FetchNetwork, engineName, "browser unavailable", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", models.NewFetchError(models.FetchNetwork, engineName, "failed to open tab",
			models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to open tab", err))
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			slog.Debug("cleanup: failed to close tab", "error", closeErr)
		}
	}()

	applyStealth(page, target, h.viewport())

	router := setupHijack(page, h.cfg.BlockedResourceTypes, true)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)
	if err := p.Navigate(target.String()); err != nil {
		return "", categorizeError(err, "navigation to target URL failed")
	}
	if err := sleepCtx(ctx, h.cfg.Settle); err != nil {
		return "", categorizeError(err, "settle interrupted")
	}

	var activate activateFunc
	if h.activator != nil {
		activate = func(ctx context.Context) error { return h.activator.Activate(ctx, p) }
	}
	return h.waitForContent(ctx, p, activate, target)
}

// renderedPage is the part of a tab the wait loop reads.
type renderedPage interface {
	HTML() (string, error)
}

// activateFunc clicks the challenge control on the current tab.
type activateFunc func(ctx context.Context) error

// waitForContent polls past any challenge, then gives an SPA shell one
// extra wait and re-read.
func (h *Headless) waitForContent(ctx context.Context, p renderedPage, activate activateFunc, target *url.URL) (string, error) {
	html, err := h.pollPastChallenge(ctx, p, activate, target)
	if err != nil {
		return "", err
	}

	if h.cfg.Markers.IsSPALoading(html) {
		slog.Info("spa still loading, waiting for client render", "url", target.String())
		if err := sleepCtx(ctx, h.cfg.SPAWait); err == nil {
			if rendered, err := p.HTML(); err == nil {
				html = rendered
			}
		}
	}
	return html, nil
}

// pollPastChallenge re-reads the page until it is no longer a challenge,
// the attempt count or the budget runs out, or ctx ends. From the second
// attempt on, the challenge control is clicked once.
func (h *Headless) pollPastChallenge(ctx context.Context, p renderedPage, activate activateFunc, target *url.URL) (string, error) {
	deadline := time.Now().Add(h.cfg.Budget)
	clicked := false

	for attempt := 1; attempt <= h.cfg.MaxAttempts; attempt++ {
		html, err := p.HTML()
		if err != nil {
			return "", categorizeError(err, "failed to extract page HTML")
		}
		if !h.cfg.Markers.IsChallengePage(html) {
			if attempt > 1 {
				slog.Info("challenge cleared", "url", target.String(), "attempt", attempt)
			}
			return html, nil
		}
		if time.Now().After(deadline) {
			break
		}
		slog.Debug("challenge page detected", "url", target.String(), "attempt", attempt)

		if attempt >= 2 && !clicked && activate != nil {
			clicked = true
			if err := activate(ctx); err != nil {
				slog.Warn("challenge click failed", "url", target.String(), "error", err)
			} else {
				if err := sleepCtx(ctx, h.cfg.PostClickWait); err != nil {
					return "", categorizeError(err, "challenge wait interrupted")
				}
				continue
			}
		}

		if err := sleepCtx(ctx, h.cfg.PollInterval); err != nil {
			return "", categorizeError(err, "challenge wait interrupted")
		}
	}

	return "", models.NewFetchError(models.FetchBlocked, engineName, "challenge not solved", nil)
}

// categorizeError maps browser errors to FetchErrors, keeping the typed
// ScrapeError underneath for the code.
func categorizeError(err error, msg string) *models.FetchError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewFetchError(models.FetchTimeout, engineName, msg,
			models.NewScrapeError(models.ErrCodeTimeout, msg, err))
	case errors.Is(err, context.Canceled):
		return models.NewFetchError(models.FetchTimeout, engineName, "request canceled",
			models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err))
	default:
		return models.NewFetchError(models.FetchNetwork, engineName, msg,
			models.NewScrapeError(models.ErrCodeNavigation, msg, err))
	}
}
