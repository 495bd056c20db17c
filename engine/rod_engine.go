package engine

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/use-agent/roastscrape/models"
)

const defaultHeadlessTimeout = 60 * time.Second

// RodFetchFunc is the callback type that wraps the headless browser session.
// It is injected from main.go to avoid a circular import (engine/ -> scraper/).
type RodFetchFunc func(ctx context.Context, target *url.URL) (string, error)

// RodEngine is the browser-based engine. Each fetch runs on the shared
// WorkerPool under a hard timeout.
type RodEngine struct {
	fetchFunc RodFetchFunc
	pool      *WorkerPool
	timeout   time.Duration
}

// NewRodEngine creates a RodEngine.
//   - fetchFunc: callback that drives the browser (injected from main.go).
//   - pool: worker pool the session runs on; nil means a pool of one.
//   - timeout: hard limit on one session; zero selects 60s.
func NewRodEngine(fetchFunc RodFetchFunc, pool *WorkerPool, timeout time.Duration) *RodEngine {
	if pool == nil {
		pool = NewWorkerPool(1)
	}
	if timeout <= 0 {
		timeout = defaultHeadlessTimeout
	}
	return &RodEngine{
		fetchFunc: fetchFunc,
		pool:      pool,
		timeout:   timeout,
	}
}

func (e *RodEngine) Name() string { return "rod" }

func (e *RodEngine) Capability() models.BackendCapability {
	return models.BackendCapability{
		Name:                e.Name(),
		SupportsJSExecution: true,
		RelativeCost:        models.CostHigh,
	}
}

// Pool returns the worker pool the engine runs on.
func (e *RodEngine) Pool() *WorkerPool { return e.pool }

func (e *RodEngine) Fetch(ctx context.Context, target *url.URL) (string, error) {
	if e.fetchFunc == nil {
		return "", models.NewFetchError(models.FetchNetwork, e.Name(), "fetchFunc not configured", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var html string
	err := e.pool.Do(ctx, func(ctx context.Context) error {
		var fetchErr error
		html, fetchErr = e.fetchFunc(ctx, target)
		return fetchErr
	})
	if err == nil {
		return html, nil
	}

	var fe *models.FetchError
	if errors.As(err, &fe) {
		return "", err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "", models.NewFetchError(models.FetchTimeout, e.Name(), "headless session timed out", err)
	}
	return "", models.NewFetchError(models.FetchNetwork, e.Name(), "headless session failed", err)
}
