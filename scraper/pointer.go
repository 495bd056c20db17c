package scraper

import (
	"math/rand/v2"
	"time"
)

// Point is a viewport coordinate in CSS pixels.
type Point struct {
	X, Y float64
}

// PointerStep is one mouse move followed by a pause.
type PointerStep struct {
	Point
	Delay time.Duration
}

// ClickPlan is a human-looking click: approach path, a pause before the
// press, and how long the button stays down.
type ClickPlan struct {
	Target   Point
	Start    Point
	Path     []PointerStep
	PreClick time.Duration
	Hold     time.Duration
}

const (
	targetJitter  = 5.0
	stepJitter    = 1.0
	minPathSteps  = 5
	maxPathSteps  = 10
	approachFromX = 100.0
	approachFromY = 50.0
)

// PlanClick builds a click on target. The press point is jittered by up to
// 5px; the path starts up-left of it and eases in with smoothstep.
func PlanClick(rng *rand.Rand, target Point) ClickPlan {
	end := Point{
		X: target.X + uniform(rng, -targetJitter, targetJitter),
		Y: target.Y + uniform(rng, -targetJitter, targetJitter),
	}
	start := Point{X: end.X - approachFromX, Y: end.Y - approachFromY}

	steps := minPathSteps + rng.IntN(maxPathSteps-minPathSteps+1)
	path := make([]PointerStep, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		e := t * t * (3 - 2*t)
		p := Point{
			X: start.X + (end.X-start.X)*e,
			Y: start.Y + (end.Y-start.Y)*e,
		}
		if i < steps {
			p.X += uniform(rng, -stepJitter, stepJitter)
			p.Y += uniform(rng, -stepJitter, stepJitter)
		}
		path = append(path, PointerStep{Point: p, Delay: durationBetween(rng, 20*time.Millisecond, 50*time.Millisecond)})
	}

	return ClickPlan{
		Target:   end,
		Start:    start,
		Path:     path,
		PreClick: durationBetween(rng, 100*time.Millisecond, 300*time.Millisecond),
		Hold:     durationBetween(rng, 50*time.Millisecond, 150*time.Millisecond),
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// durationBetween returns a duration in [lo, hi].
func durationBetween(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	return lo + time.Duration(rng.Int64N(int64(hi-lo)+1))
}
