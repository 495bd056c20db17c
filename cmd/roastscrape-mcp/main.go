package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// acquireRequest mirrors the roastscrape API request model.
type acquireRequest struct {
	URL    string `json:"url"`
	MaxAge int    `json:"max_age,omitempty"`
}

// acquireResponse mirrors the roastscrape API response model.
type acquireResponse struct {
	Success bool `json:"success"`
	Content *struct {
		SourceURL   string   `json:"source_url"`
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Headings    []string `json:"headings"`
		BodySummary string   `json:"body_summary"`
	} `json:"content"`
	CacheStatus string `json:"cache_status"`
	Error       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("ROAST_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("ROAST_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "ROAST_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"roastscrape",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	acquireTool := mcp.NewTool("acquire_page",
		mcp.WithDescription("Fetch a startup's landing page and return its title, description, headings and a short body summary. Falls back through bot-protection solvers, a headless browser and public caches; when the site cannot be reached at all, returns content describing the URL itself."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The http(s) URL of the page to acquire"),
		),
		mcp.WithNumber("max_age",
			mcp.Description("Serve a cached result younger than this many milliseconds (default: 0, no cache)"),
		),
	)
	s.AddTool(acquireTool, handleAcquire(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the roastscrape API and returns the body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(apiURL, "/")+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func handleAcquire(apiURL, apiKey string) server.ToolHandlerFunc {
	// The pipeline can spend up to ~70s in the solver alone.
	client := &http.Client{Timeout: 180 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := acquireRequest{
			URL:    target,
			MaxAge: int(request.GetFloat("max_age", 0)),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/acquire", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("acquire request failed: %v", err)), nil
		}

		var resp acquireResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !resp.Success || resp.Content == nil {
			errMsg := "acquire failed"
			if resp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", resp.Error.Code, resp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(formatContent(resp)), nil
	}
}

// formatContent renders page content as plain text for the model.
func formatContent(resp acquireResponse) string {
	c := resp.Content
	var sb strings.Builder
	fmt.Fprintf(&sb, "Source: %s\n", c.SourceURL)
	if c.Title != nil {
		fmt.Fprintf(&sb, "Title: %s\n", *c.Title)
	}
	if c.Description != nil {
		fmt.Fprintf(&sb, "Description: %s\n", *c.Description)
	}
	if len(c.Headings) > 0 {
		sb.WriteString("\nHeadings:\n")
		for _, h := range c.Headings {
			fmt.Fprintf(&sb, "- %s\n", h)
		}
	}
	if c.BodySummary != "" {
		fmt.Fprintf(&sb, "\nSummary:\n%s\n", c.BodySummary)
	}
	if resp.CacheStatus != "" {
		fmt.Fprintf(&sb, "\n---\nCache: %s", resp.CacheStatus)
	}
	return sb.String()
}
