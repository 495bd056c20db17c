package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/use-agent/roastscrape/models"
)

const (
	defaultSolverTimeout = 70 * time.Second
	// solverMaxTimeoutMs is the budget the solver service gets for a challenge.
	solverMaxTimeoutMs = 60000
)

// SolverEngine delegates the fetch to a FlareSolverr-compatible service
// that runs its own browser and solves challenges server-side.
type SolverEngine struct {
	endpoint   string
	httpClient *http.Client
}

// NewSolverEngine creates a SolverEngine for the service at endpoint
// (e.g. "http://flaresolverr:8191"). A zero timeout selects 70s.
func NewSolverEngine(endpoint string, timeout time.Duration) *SolverEngine {
	if timeout <= 0 {
		timeout = defaultSolverTimeout
	}
	return &SolverEngine{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type solverRequest struct {
	Cmd        string `json:"cmd"`
	URL        string `json:"url"`
	MaxTimeout int    `json:"maxTimeout"`
}

type solverResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Solution *struct {
		URL      string `json:"url"`
		Status   int    `json:"status"`
		Response string `json:"response"`
	} `json:"solution"`
}

func (e *SolverEngine) Name() string { return "solver" }

func (e *SolverEngine) Capability() models.BackendCapability {
	return models.BackendCapability{
		Name:                    e.Name(),
		RequiresExternalService: true,
		SupportsJSExecution:     true,
		RelativeCost:            models.CostHigh,
	}
}

func (e *SolverEngine) Fetch(ctx context.Context, target *url.URL) (string, error) {
	bodyBytes, err := json.Marshal(solverRequest{
		Cmd:        "request.get",
		URL:        target.String(),
		MaxTimeout: solverMaxTimeoutMs,
	})
	if err != nil {
		return "", models.NewFetchError(models.FetchNetwork, e.Name(), "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/v1", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", models.NewFetchError(models.FetchNetwork, e.Name(), "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(e.Name(), "solver request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", classifyTransportError(e.Name(), "read solver response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", models.NewFetchError(models.FetchNetwork, e.Name(),
			fmt.Sprintf("solver returned status %d", resp.StatusCode), nil)
	}

	var sr solverResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return "", models.NewFetchError(models.FetchNetwork, e.Name(), "parse solver response", err)
	}
	if sr.Status != "ok" {
		return "", models.NewFetchError(models.FetchBlocked, e.Name(),
			fmt.Sprintf("solver status %q: %s", sr.Status, sr.Message), nil)
	}
	if sr.Solution == nil || strings.TrimSpace(sr.Solution.Response) == "" {
		return "", models.NewFetchError(models.FetchBlocked, e.Name(), "solver returned empty html", nil)
	}
	return sr.Solution.Response, nil
}
