package engine

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/use-agent/roastscrape/cleaner"
	"github.com/use-agent/roastscrape/models"
)

// errMinimalContent marks a fetch that succeeded but yielded too little text.
var errMinimalContent = errors.New("content too thin")

// Step is one entry of the fallback plan. Trusted steps skip the quality
// check: any HTML they return is accepted.
type Step struct {
	Engine  Engine
	Trusted bool
}

// TrustedStep wraps an engine whose output is accepted as-is.
func TrustedStep(e Engine) Step { return Step{Engine: e, Trusted: true} }

// CheckedStep wraps an engine whose output must pass the quality check.
func CheckedStep(e Engine) Step { return Step{Engine: e} }

// BuildPlan returns the steps in order, dropping those without an engine.
func BuildPlan(steps ...Step) []Step {
	plan := make([]Step, 0, len(steps))
	for _, s := range steps {
		if s.Engine == nil {
			continue
		}
		plan = append(plan, s)
	}
	return plan
}

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	Markers           cleaner.Markers
	AllowPrivateHosts bool
}

// Dispatcher runs the acquisition plan for one URL at a time: backends are
// tried strictly in order and the first acceptable page wins.
type Dispatcher struct {
	plan         []Step
	markers      cleaner.Markers
	allowPrivate bool
}

// NewDispatcher creates a Dispatcher for plan.
func NewDispatcher(plan []Step, cfg DispatcherConfig) *Dispatcher {
	if cfg.Markers.Challenge == nil && cfg.Markers.SPA == nil {
		cfg.Markers = cleaner.DefaultMarkers()
	}
	p := make([]Step, len(plan))
	copy(p, plan)
	return &Dispatcher{
		plan:         p,
		markers:      cfg.Markers,
		allowPrivate: cfg.AllowPrivateHosts,
	}
}

// Plan describes the configured backends in the order they are tried.
func (d *Dispatcher) Plan() []models.BackendCapability {
	caps := make([]models.BackendCapability, len(d.plan))
	for i, s := range d.plan {
		caps[i] = s.Engine.Capability()
	}
	return caps
}

// Acquire returns the content of rawURL. The only error it returns wraps
// models.ErrInvalidInput; every backend failure degrades to the next
// backend and finally to content synthesised from the URL.
func (d *Dispatcher) Acquire(ctx context.Context, rawURL string) (*models.PageContent, error) {
	target, err := ValidateURL(rawURL, d.allowPrivate)
	if err != nil {
		return nil, err
	}

	attempts := make([]models.Attempt, 0, len(d.plan))
	for _, step := range d.plan {
		attempt := d.run(ctx, step, target)
		switch attempt.Kind {
		case models.AttemptHardFailure:
			return nil, attempt.Reason
		case models.AttemptSuccess:
			if step.Trusted || !d.markers.IsMinimal(attempt.Content) {
				slog.Info("content acquired", "url", target.String(), "engine", attempt.Engine)
				return attempt.Content, nil
			}
			slog.Info("content too thin, trying next engine", "url", target.String(), "engine", attempt.Engine)
			attempt = models.SoftFailed(attempt.Engine, errMinimalContent)
		}
		attempts = append(attempts, attempt)
	}

	reason := fallbackReason(attempts)
	slog.Warn("all engines failed, using synthetic content",
		"url", target.String(), "attempts", len(attempts), "reason", reason.String())
	return SyntheticContent(target, reason), nil
}

// run executes one step and folds its outcome into an Attempt.
func (d *Dispatcher) run(ctx context.Context, step Step, target *url.URL) models.Attempt {
	eng := step.Engine
	start := time.Now()
	slog.Debug("engine starting", "engine", eng.Name(), "url", target.String())

	html, err := eng.Fetch(ctx, target)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			return models.HardFailed(eng.Name(), err)
		}
		slog.Info("engine failed", "engine", eng.Name(), "url", target.String(),
			"elapsed", time.Since(start), "error", err)
		return models.SoftFailed(eng.Name(), err)
	}

	var content *models.PageContent
	if cb, ok := eng.(ContentBuilder); ok {
		content = cb.BuildContent(target, html)
	} else {
		content = cleaner.Extract(target.String(), html)
	}
	slog.Debug("engine succeeded", "engine", eng.Name(), "url", target.String(), "elapsed", time.Since(start))
	return models.Succeeded(eng.Name(), content)
}

// fallbackReason reports bot protection when any backend was blocked.
func fallbackReason(attempts []models.Attempt) Reason {
	for _, a := range attempts {
		if a.Kind == models.AttemptSoftFailure && models.IsBlocked(a.Reason) {
			return ReasonProtected
		}
	}
	return ReasonUnreachable
}
