package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Browser.Enabled)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 2, cfg.Browser.Workers)
	assert.Equal(t, 8, cfg.Browser.MaxAttempts)
	assert.Equal(t, 45*time.Second, cfg.Browser.ChallengeBudget)
	assert.Equal(t, "", cfg.Acquire.SolverURL)
	assert.Equal(t, 15*time.Second, cfg.Acquire.HTTPTimeout)
	assert.Equal(t, 70*time.Second, cfg.Acquire.SolverTimeout)
	assert.Equal(t, 60*time.Second, cfg.Acquire.HeadlessTimeout)
	assert.Equal(t, 5*time.Second, cfg.Acquire.CacheTimeout)
	assert.True(t, cfg.Acquire.CacheEnabled)
	assert.False(t, cfg.Acquire.AllowPrivateHosts)
	assert.Nil(t, cfg.Acquire.ChallengeMarkers)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("FLARESOLVERR_URL", " http://solver:8191 ")
	t.Setenv("VISIBLE_BROWSER", "")
	t.Setenv("ROAST_BROWSER_ENABLED", "false")
	t.Setenv("ROAST_BROWSER_WORKERS", "4")
	t.Setenv("ROAST_CACHE_ENABLED", "0")
	t.Setenv("ROAST_HTTP_TIMEOUT", "3s")
	t.Setenv("ROAST_CHALLENGE_MARKERS", "ddos-guard, , sucuri")
	t.Setenv("ROAST_PORT", "not-a-number")

	cfg := Load()

	assert.Equal(t, "http://solver:8191", cfg.Acquire.SolverURL)
	assert.False(t, cfg.Browser.Headless)
	assert.False(t, cfg.Browser.Enabled)
	assert.Equal(t, 4, cfg.Browser.Workers)
	assert.False(t, cfg.Acquire.CacheEnabled)
	assert.Equal(t, 3*time.Second, cfg.Acquire.HTTPTimeout)
	assert.Equal(t, []string{"ddos-guard", "sucuri"}, cfg.Acquire.ChallengeMarkers)
	assert.Equal(t, 8080, cfg.Server.Port)
}
