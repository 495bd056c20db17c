package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// ChallengeActivator clicks the interactive control of an anti-bot
// challenge on an open page.
type ChallengeActivator interface {
	Activate(ctx context.Context, page *rod.Page) error
}

// ChallengeLocation is where the challenge control was found.
type ChallengeLocation struct {
	Found  bool
	Method string
	At     Point
}

// fallbackChallengePoint is clicked when the page cannot be inspected.
var fallbackChallengePoint = Point{X: 200, Y: 400}

// locateChallengeJS returns {found, x, y, method}. Candidates, in order:
// the challenge iframe, the widget container, the challenge form, an
// interactive element near the viewport centre.
const locateChallengeJS = `() => {
	const vw = window.innerWidth, vh = window.innerHeight;
	const visible = (r) => r && r.width > 0 && r.height > 0;
	const centre = (r) => ({ x: r.x + r.width / 2, y: r.y + r.height / 2 });

	for (const f of document.querySelectorAll('iframe')) {
		const src = f.src || '';
		if (src.includes('challenges.cloudflare.com') || src.includes('turnstile')) {
			const r = f.getBoundingClientRect();
			if (visible(r)) return { found: true, x: r.x + 28, y: r.y + r.height / 2, method: 'iframe' };
		}
	}

	const widget = document.querySelector('.cf-turnstile, [class*="cf-turnstile"], div[data-sitekey]');
	if (widget) {
		const r = widget.getBoundingClientRect();
		if (visible(r)) return { found: true, x: r.x + 28, y: r.y + r.height / 2, method: 'widget' };
	}

	const form = document.querySelector('#challenge-form, #challenge-stage, .challenge-form');
	if (form) {
		const r = form.getBoundingClientRect();
		if (visible(r)) {
			const c = centre(r);
			return { found: true, x: c.x, y: c.y, method: 'form' };
		}
	}

	const interactive = 'input, button, label, iframe, [role="button"], [role="checkbox"]';
	for (let dy = -100; dy <= 100; dy += 50) {
		const el = document.elementFromPoint(vw / 2, vh / 2 + dy);
		if (el && el.matches && el.matches(interactive)) {
			const c = centre(el.getBoundingClientRect());
			return { found: true, x: c.x, y: c.y, method: 'interactive' };
		}
	}

	return { found: false, x: vw / 2 - 100, y: vh / 2, method: 'viewport' };
}`

// parseChallengeLocation reads the locator result, falling back to a fixed
// point when the coordinates are unusable.
func parseChallengeLocation(v gson.JSON) ChallengeLocation {
	loc := ChallengeLocation{
		Found:  v.Get("found").Bool(),
		Method: v.Get("method").Str(),
		At:     Point{X: v.Get("x").Num(), Y: v.Get("y").Num()},
	}
	if !usable(loc.At) {
		loc.At = fallbackChallengePoint
		loc.Method = "fallback"
	}
	return loc
}

func usable(p Point) bool {
	for _, v := range []float64{p.X, p.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	return true
}

// HumanClicker locates the challenge control and clicks it with an eased,
// jittered pointer path.
type HumanClicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewHumanClicker creates a HumanClicker. A nil rng seeds one from the
// runtime source.
func NewHumanClicker(rng *rand.Rand) *HumanClicker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &HumanClicker{rng: rng}
}

// Locate finds the challenge control on page.
func (c *HumanClicker) Locate(page *rod.Page) ChallengeLocation {
	res, err := page.Eval(locateChallengeJS)
	if err != nil {
		slog.Debug("challenge locator failed", "error", err)
		return ChallengeLocation{At: fallbackChallengePoint, Method: "fallback"}
	}
	return parseChallengeLocation(res.Value)
}

func (c *HumanClicker) plan(target Point) ClickPlan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PlanClick(c.rng, target)
}

// Activate moves the mouse along a planned path and clicks.
func (c *HumanClicker) Activate(ctx context.Context, page *rod.Page) error {
	loc := c.Locate(page)
	plan := c.plan(loc.At)
	slog.Info("clicking challenge control", "method", loc.Method, "found", loc.Found,
		"x", plan.Target.X, "y", plan.Target.Y, "steps", len(plan.Path))

	mouse := page.Mouse
	if err := mouse.MoveTo(proto.Point{X: plan.Start.X, Y: plan.Start.Y}); err != nil {
		return fmt.Errorf("move to start: %w", err)
	}
	for _, step := range plan.Path {
		if err := mouse.MoveTo(proto.Point{X: step.X, Y: step.Y}); err != nil {
			return fmt.Errorf("move: %w", err)
		}
		if err := sleepCtx(ctx, step.Delay); err != nil {
			return err
		}
	}
	if err := sleepCtx(ctx, plan.PreClick); err != nil {
		return err
	}
	if err := mouse.Down(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("mouse down: %w", err)
	}
	if err := sleepCtx(ctx, plan.Hold); err != nil {
		_ = mouse.Up(proto.InputMouseButtonLeft, 1)
		return err
	}
	if err := mouse.Up(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("mouse up: %w", err)
	}
	return nil
}

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
