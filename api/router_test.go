package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/roastscrape/config"
	"github.com/use-agent/roastscrape/engine"
	"github.com/use-agent/roastscrape/models"
)

type downEngine struct{}

func (downEngine) Name() string { return "http" }
func (downEngine) Capability() models.BackendCapability {
	return models.BackendCapability{Name: "http", RelativeCost: models.CostFree}
}
func (downEngine) Fetch(ctx context.Context, target *url.URL) (string, error) {
	return "", models.NewFetchError(models.FetchNetwork, "http", "connection refused", nil)
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode},
		Auth:      config.AuthConfig{Enabled: true, APIKeys: []string{"secret"}},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}
}

func TestRouter_HealthWithoutAuth(t *testing.T) {
	d := engine.NewDispatcher(engine.BuildPlan(engine.CheckedStep(downEngine{})), engine.DispatcherConfig{})
	r := NewRouter(d, nil, testConfig(), nil, time.Now())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Plan, 1)
	assert.Equal(t, "http", resp.Plan[0].Name)
}

func TestRouter_AcquireRequiresKey(t *testing.T) {
	d := engine.NewDispatcher(engine.BuildPlan(engine.CheckedStep(downEngine{})), engine.DispatcherConfig{})
	r := NewRouter(d, nil, testConfig(), nil, time.Now())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/acquire", strings.NewReader(`{"url":"https://acme.io"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AcquireFallsBackToSyntheticContent(t *testing.T) {
	d := engine.NewDispatcher(engine.BuildPlan(engine.CheckedStep(downEngine{})), engine.DispatcherConfig{})
	r := NewRouter(d, nil, testConfig(), nil, time.Now())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/acquire", strings.NewReader(`{"url":"https://totallyfakestartup123.xyz"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "secret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AcquireResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Content)
	assert.Contains(t, resp.Content.TitleOr(""), "Unreachable")
	assert.Contains(t, resp.Content.BodySummary, "totallyfakestartup123")
}
