package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/roastscrape/api"
	"github.com/use-agent/roastscrape/cache"
	"github.com/use-agent/roastscrape/cleaner"
	"github.com/use-agent/roastscrape/config"
	"github.com/use-agent/roastscrape/engine"
	"github.com/use-agent/roastscrape/models"
	"github.com/use-agent/roastscrape/scraper"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("roastscrape starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"browser", cfg.Browser.Enabled,
		"solver", cfg.Acquire.SolverURL != "",
	)

	markers := cleaner.DefaultMarkers().WithExtra(cfg.Acquire.ChallengeMarkers, cfg.Acquire.SPAMarkers)

	// ── 3. Assemble the backend plan ────────────────────────────────
	b := buildBackends(cfg, markers)
	defer b.close()

	dispatcher := engine.NewDispatcher(b.plan, engine.DispatcherConfig{
		Markers:           markers,
		AllowPrivateHosts: cfg.Acquire.AllowPrivateHosts,
	})
	for i, c := range dispatcher.Plan() {
		slog.Info("backend configured", "order", i+1, "engine", c.Name,
			"external", c.RequiresExternalService, "js", c.SupportsJSExecution, "cost", c.RelativeCost.String())
	}

	// ── 4. Response cache ───────────────────────────────────────────
	cc := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	defer cc.Close()

	// ── 5. Setup router ─────────────────────────────────────────────
	router := api.NewRouter(dispatcher, b.stats, cfg, cc, time.Now())

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}
	if b.pool != nil {
		if err := b.pool.Drain(ctx); err != nil {
			slog.Warn("browser sessions still running at shutdown", "error", err)
		}
	}

	// b.close() runs via defer and kills Chrome.
	slog.Info("roastscrape stopped")
}

// backends is the assembled plan plus the resources it owns.
type backends struct {
	plan   []engine.Step
	handle *scraper.BrowserHandle
	pool   *engine.WorkerPool
}

// buildBackends wires the plan in its fixed order: solver (trusted), direct
// HTTP, headless browser, public cache. Disabled backends are left out.
func buildBackends(cfg *config.Config, markers cleaner.Markers) *backends {
	b := &backends{}

	var solver engine.Engine
	if cfg.Acquire.SolverURL != "" {
		solver = engine.NewSolverEngine(cfg.Acquire.SolverURL, cfg.Acquire.SolverTimeout)
	}

	direct := engine.NewHTTPEngine(engine.HTTPEngineConfig{
		Timeout: cfg.Acquire.HTTPTimeout,
		Markers: markers,
	})

	var headless engine.Engine
	if cfg.Browser.Enabled {
		b.handle = scraper.NewBrowserHandle(cfg.Browser)
		session := scraper.NewHeadless(b.handle, scraper.HeadlessConfig{
			MaxAttempts:          cfg.Browser.MaxAttempts,
			Budget:               cfg.Browser.ChallengeBudget,
			PollInterval:         cfg.Browser.PollInterval,
			BlockedResourceTypes: cfg.Browser.BlockedResourceTypes,
			Markers:              markers,
		}, scraper.NewHumanClicker(nil))

		// The closure keeps engine/ free of any scraper/ import.
		fetch := func(ctx context.Context, target *url.URL) (string, error) {
			return session.Fetch(ctx, target)
		}
		b.pool = engine.NewWorkerPool(cfg.Browser.Workers)
		headless = engine.NewRodEngine(fetch, b.pool, cfg.Acquire.HeadlessTimeout)
	}

	var public engine.Engine
	if cfg.Acquire.CacheEnabled {
		public = engine.NewCacheEngine(cfg.Acquire.CacheBaseURL, cfg.Acquire.CacheTimeout)
	}

	b.plan = engine.BuildPlan(
		engine.TrustedStep(solver),
		engine.CheckedStep(direct),
		engine.CheckedStep(headless),
		engine.CheckedStep(public),
	)
	return b
}

// stats reports browser state for the health endpoint.
func (b *backends) stats() models.BrowserStats {
	if b.handle == nil {
		return models.BrowserStats{}
	}
	return models.BrowserStats{
		Enabled:       true,
		Live:          b.handle.Live(),
		Launches:      b.handle.Launches(),
		MaxWorkers:    b.pool.Max(),
		ActiveWorkers: b.pool.Active(),
	}
}

func (b *backends) close() {
	if b.handle != nil {
		b.handle.Close()
	}
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
