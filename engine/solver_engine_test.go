package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/roastscrape/models"
)

func TestSolverEngine_Success(t *testing.T) {
	requests := make(chan solverRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req solverRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		requests <- req
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"solution": map[string]any{
				"url":      req.URL,
				"status":   200,
				"response": richHTML,
			},
		})
	}))
	defer srv.Close()

	e := NewSolverEngine(srv.URL+"/", 0)
	html, err := e.Fetch(context.Background(), mustURL(t, "https://acme.example/pricing"))

	require.NoError(t, err)
	assert.Equal(t, richHTML, html)

	got := <-requests
	assert.Equal(t, "request.get", got.Cmd)
	assert.Equal(t, "https://acme.example/pricing", got.URL)
	assert.Equal(t, 60000, got.MaxTimeout)
}

func TestSolverEngine_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   models.FetchErrorKind
	}{
		{"non ok status", http.StatusOK, `{"status":"error","message":"Challenge not solved"}`, models.FetchBlocked},
		{"empty html", http.StatusOK, `{"status":"ok","solution":{"response":"  "}}`, models.FetchBlocked},
		{"missing solution", http.StatusOK, `{"status":"ok"}`, models.FetchBlocked},
		{"server error", http.StatusInternalServerError, `oops`, models.FetchNetwork},
		{"garbage", http.StatusOK, `not json`, models.FetchNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewSolverEngine(srv.URL, 0).Fetch(context.Background(), mustURL(t, "https://acme.example"))
			requireFetchKind(t, err, tt.want)
		})
	}
}

func TestSolverEngine_Capability(t *testing.T) {
	c := NewSolverEngine("http://solver:8191", 0).Capability()
	assert.True(t, c.RequiresExternalService)
	assert.True(t, c.SupportsJSExecution)
	assert.Equal(t, models.CostHigh, c.RelativeCost)
}
