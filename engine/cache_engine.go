package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/roastscrape/cleaner"
	"github.com/use-agent/roastscrape/models"
)

const (
	// DefaultCacheBaseURL is the public cache the CacheEngine queries.
	DefaultCacheBaseURL = "https://webcache.googleusercontent.com/search"

	defaultCacheTimeout = 5 * time.Second
	minCacheBodyBytes   = 500
	cacheMissMarker     = "did not match any documents"
)

// CacheEngine reads a copy of the page from a public search-engine cache.
// It is the last backend tried before the synthetic fallback.
type CacheEngine struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewCacheEngine creates a CacheEngine. baseURL defaults to Google's cache
// and timeout (applied separately to headers and body) to 5s.
func NewCacheEngine(baseURL string, timeout time.Duration) *CacheEngine {
	if baseURL == "" {
		baseURL = DefaultCacheBaseURL
	}
	if timeout <= 0 {
		timeout = defaultCacheTimeout
	}
	return &CacheEngine{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

func (e *CacheEngine) Name() string { return "cache" }

func (e *CacheEngine) Capability() models.BackendCapability {
	return models.BackendCapability{
		Name:                    e.Name(),
		RequiresExternalService: true,
		RelativeCost:            models.CostLow,
	}
}

// cacheURL builds the lookup URL for target.
func (e *CacheEngine) cacheURL(target *url.URL) string {
	return e.baseURL + "?q=" + url.QueryEscape("cache:"+target.String())
}

func (e *CacheEngine) Fetch(parent context.Context, target *url.URL) (string, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	// One timer covers both legs; it is re-armed once headers arrive.
	timer := time.AfterFunc(e.timeout, cancel)
	defer timer.Stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cacheURL(target), nil)
	if err != nil {
		return "", models.NewFetchError(models.FetchNetwork, e.Name(), "build request", err)
	}
	req.Header.Set("User-Agent", RandomUserAgent())

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", e.transportError(parent, "cache request failed", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", models.NewFetchError(classifyStatus(resp.StatusCode), e.Name(),
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	timer.Reset(e.timeout)
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", e.transportError(parent, "read cache body", err)
	}
	if len(body) < minCacheBodyBytes {
		return "", models.NewFetchError(models.FetchNetwork, e.Name(),
			fmt.Sprintf("cache body too small (%d bytes)", len(body)), nil)
	}

	html := string(body)
	if strings.Contains(strings.ToLower(html), cacheMissMarker) {
		return "", models.NewFetchError(models.FetchNetwork, e.Name(), "page not in cache", nil)
	}
	return html, nil
}

// transportError reports a cancellation caused by our own timer as a timeout.
func (e *CacheEngine) transportError(parent context.Context, msg string, err error) *models.FetchError {
	if parent.Err() == nil && errors.Is(err, context.Canceled) {
		return models.NewFetchError(models.FetchTimeout, e.Name(), msg, err)
	}
	return classifyTransportError(e.Name(), msg, err)
}

// BuildContent extracts the cached page, replacing the title with one that
// is not the cache provider's wrapper.
func (e *CacheEngine) BuildContent(target *url.URL, html string) *models.PageContent {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.NewPageContent(target.String(), models.StringPtr(cacheFallbackTitle(target)), nil, nil, "")
	}
	base := cleaner.ExtractDocument(target.String(), doc)
	title := resolveCacheTitle(cleaner.FindTitleCandidates(doc), target)
	return models.NewPageContent(base.SourceURL, &title, base.Description, base.Headings, base.BodySummary)
}

// resolveCacheTitle picks og:title, then twitter:title, then <title>,
// skipping any that belong to the cache wrapper.
func resolveCacheTitle(c cleaner.TitleCandidates, target *url.URL) string {
	for _, meta := range []string{c.OpenGraph, c.Twitter} {
		if meta != "" && !strings.Contains(strings.ToLower(meta), "google") {
			return meta
		}
	}
	if c.Document != "" && !isCacheWrapperTitle(c.Document) {
		return c.Document
	}
	return cacheFallbackTitle(target)
}

func isCacheWrapperTitle(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "google search") ||
		strings.Contains(lower, "google cache") ||
		strings.HasPrefix(lower, "cache:") ||
		strings.Contains(lower, "webcache.googleusercontent")
}

// cacheFallbackTitle names the page after its domain, e.g. "acme (from cache)".
func cacheFallbackTitle(target *url.URL) string {
	name := mainDomainName(target.Hostname())
	if name == "" {
		name = target.Hostname()
	}
	return name + " (from cache)"
}
