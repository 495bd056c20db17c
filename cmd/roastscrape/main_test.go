package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/roastscrape/cleaner"
	"github.com/use-agent/roastscrape/config"
	"github.com/use-agent/roastscrape/models"
)

func planNames(b *backends) []string {
	names := make([]string, len(b.plan))
	for i, s := range b.plan {
		names[i] = s.Engine.Name()
	}
	return names
}

func TestBuildBackends_FullPlan(t *testing.T) {
	cfg := config.Load()
	cfg.Acquire.SolverURL = "http://solver:8191"
	cfg.Browser.Enabled = true
	cfg.Browser.Workers = 3
	cfg.Acquire.CacheEnabled = true

	b := buildBackends(cfg, cleaner.DefaultMarkers())
	t.Cleanup(b.close)

	assert.Equal(t, []string{"solver", "http", "rod", "cache"}, planNames(b))
	assert.True(t, b.plan[0].Trusted)
	for _, s := range b.plan[1:] {
		assert.False(t, s.Trusted, s.Engine.Name())
	}

	stats := b.stats()
	assert.True(t, stats.Enabled)
	assert.False(t, stats.Live, "browser is launched lazily")
	assert.Equal(t, 3, stats.MaxWorkers)
}

func TestBuildBackends_Minimal(t *testing.T) {
	cfg := config.Load()
	cfg.Acquire.SolverURL = ""
	cfg.Browser.Enabled = false
	cfg.Acquire.CacheEnabled = false

	b := buildBackends(cfg, cleaner.DefaultMarkers())
	t.Cleanup(b.close)

	require.Equal(t, []string{"http"}, planNames(b))
	assert.Nil(t, b.pool)
	assert.Equal(t, models.BrowserStats{}, b.stats())
}
