package engine

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	tls "github.com/refraction-networking/utls"

	"github.com/use-agent/roastscrape/cleaner"
	"github.com/use-agent/roastscrape/models"
)

const (
	defaultHTTPTimeout  = 15 * time.Second
	defaultMaxRedirects = 5
	maxBodyBytes        = 10 << 20
	minDirectBodyBytes  = 100
)

// HTTPEngine fetches pages with a single GET that looks like a desktop
// Chrome navigation. It is the cheapest backend and handles static sites.
type HTTPEngine struct {
	client  *http.Client
	markers cleaner.Markers
}

// HTTPEngineConfig configures an HTTPEngine. Zero values select defaults.
type HTTPEngineConfig struct {
	Timeout      time.Duration
	MaxRedirects int
	Markers      cleaner.Markers
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// Go's http.Transport cannot speak h2 over a utls connection.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// dialChromeTLS opens a TLS connection presenting the Chrome fingerprint.
func dialChromeTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("http_engine: apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}

// NewHTTPEngine creates an HTTPEngine with a Chrome-like TLS fingerprint.
func NewHTTPEngine(cfg HTTPEngineConfig) *HTTPEngine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = defaultMaxRedirects
	}
	if cfg.Markers.Challenge == nil && cfg.Markers.SPA == nil {
		cfg.Markers = cleaner.DefaultMarkers()
	}

	transport := &http.Transport{
		DialTLSContext:    dialChromeTLS,
		ForceAttemptHTTP2: false,
	}
	maxRedirects := cfg.MaxRedirects
	return &HTTPEngine{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		markers: cfg.Markers,
	}
}

func (e *HTTPEngine) Name() string { return "http" }

func (e *HTTPEngine) Capability() models.BackendCapability {
	return models.BackendCapability{
		Name:         e.Name(),
		RelativeCost: models.CostFree,
	}
}

func (e *HTTPEngine) Fetch(ctx context.Context, target *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", models.NewFetchError(models.FetchNetwork, e.Name(), "build request", err)
	}
	setBrowserHeaders(req.Header, RandomUserAgent())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", classifyTransportError(e.Name(), "request failed", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", models.NewFetchError(classifyStatus(resp.StatusCode), e.Name(),
			fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", classifyTransportError(e.Name(), "read body", err)
	}
	if len(body) < minDirectBodyBytes {
		return "", models.NewFetchError(models.FetchBlocked, e.Name(),
			fmt.Sprintf("body too small (%d bytes)", len(body)), nil)
	}

	html := string(body)
	if e.markers.IsChallengePage(html) {
		return "", models.NewFetchError(models.FetchBlocked, e.Name(), "challenge page", nil)
	}
	return html, nil
}

// setBrowserHeaders sets the headers Chrome sends on a top-level navigation.
// Accept-Encoding is left to the transport so gzip is decoded transparently.
func setBrowserHeaders(h http.Header, userAgent string) {
	h.Set("User-Agent", userAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Cache-Control", "max-age=0")
}
