package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_BoundsConcurrency(t *testing.T) {
	p := NewWorkerPool(2)
	var running, peak atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Do(context.Background(), func(ctx context.Context) error {
				n := running.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				running.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, 0, p.Active())
	assert.Equal(t, 2, p.Max())
}

func TestWorkerPool_WaitRespectsContext(t *testing.T) {
	p := NewWorkerPool(1)
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = p.Do(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	err := p.Do(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	close(release)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}

func TestWorkerPool_Drain(t *testing.T) {
	p := NewWorkerPool(3)
	require.NoError(t, p.Drain(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := p.Do(ctx, func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestNewWorkerPool_MinimumSize(t *testing.T) {
	assert.Equal(t, 1, NewWorkerPool(0).Max())
}
