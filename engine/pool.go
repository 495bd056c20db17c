package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// WorkerPool bounds how many blocking browser sessions run at once so they
// cannot starve the goroutines serving requests.
type WorkerPool struct {
	sem    *semaphore.Weighted
	max    int
	active atomic.Int32
}

// NewWorkerPool creates a pool admitting at most size concurrent jobs.
func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{
		sem: semaphore.NewWeighted(int64(size)),
		max: size,
	}
}

// Do waits for a free slot and runs fn on the calling goroutine.
// Waiting is abandoned when ctx is done.
func (p *WorkerPool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("worker pool: %w", err)
	}
	defer p.sem.Release(1)

	p.active.Add(1)
	defer p.active.Add(-1)
	return fn(ctx)
}

// Max returns the pool size.
func (p *WorkerPool) Max() int { return p.max }

// Active returns the number of jobs currently running.
func (p *WorkerPool) Active() int { return int(p.active.Load()) }

// Drain blocks until every running job has finished, then keeps all slots
// so no new job can start. It returns ctx.Err() if ctx ends first.
func (p *WorkerPool) Drain(ctx context.Context) error {
	return p.sem.Acquire(ctx, int64(p.max))
}
