package scraper

import (
	"log/slog"
	"math/rand/v2"
	"net/url"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"
)

// browserUserAgent matches the navigator overrides in extraStealthJS.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Viewport is a window size the browser may present.
type Viewport struct {
	Width  int
	Height int
}

// viewports are common desktop resolutions.
var viewports = []Viewport{
	{1920, 1080},
	{1536, 864},
	{1440, 900},
	{1366, 768},
	{1280, 800},
}

// pickViewport returns one of the common desktop viewports.
func pickViewport(rng *rand.Rand) Viewport {
	return viewports[rng.IntN(len(viewports))]
}

// extraStealthJS patches what go-rod/stealth leaves for a Mac Chrome profile.
const extraStealthJS = `(() => {
	const define = (obj, prop, value) => {
		try { Object.defineProperty(obj, prop, { get: () => value, configurable: true }); } catch (e) {}
	};
	define(navigator, 'webdriver', undefined);
	define(navigator, 'languages', ['en-US', 'en']);
	define(navigator, 'platform', 'MacIntel');
	define(navigator, 'hardwareConcurrency', 8);
	define(navigator, 'deviceMemory', 8);
	define(navigator, 'maxTouchPoints', 0);
	define(navigator, 'plugins', [
		{ name: 'PDF Viewer', filename: 'internal-pdf-viewer' },
		{ name: 'Chrome PDF Viewer', filename: 'internal-pdf-viewer' },
		{ name: 'Chromium PDF Viewer', filename: 'internal-pdf-viewer' },
	]);
	window.chrome = window.chrome || {};
	window.chrome.runtime = window.chrome.runtime || {};
	if (navigator.permissions && navigator.permissions.query) {
		const query = navigator.permissions.query.bind(navigator.permissions);
		navigator.permissions.query = (p) =>
			p && p.name === 'notifications'
				? Promise.resolve({ state: Notification.permission })
				: query(p);
	}
	const patchGL = (proto) => {
		if (!proto) return;
		const getParameter = proto.getParameter;
		proto.getParameter = function (param) {
			if (param === 37445) return 'Intel Inc.';
			if (param === 37446) return 'Intel Iris OpenGL Engine';
			return getParameter.call(this, param);
		};
	};
	patchGL(window.WebGLRenderingContext && WebGLRenderingContext.prototype);
	patchGL(window.WebGL2RenderingContext && WebGL2RenderingContext.prototype);
})();`

// applyStealth must run before navigation: scripts registered with
// EvalOnNewDocument only affect documents loaded afterwards.
func applyStealth(page *rod.Page, target *url.URL, vp Viewport) {
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
	}
	if _, err := page.EvalOnNewDocument(extraStealthJS); err != nil {
		slog.Warn("extra stealth injection failed", "error", err)
	}

	if err := (proto.NetworkSetUserAgentOverride{
		UserAgent:      browserUserAgent,
		AcceptLanguage: "en-US,en;q=0.9",
		Platform:       "MacIntel",
	}).Call(page); err != nil {
		slog.Debug("user agent override failed", "error", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}).Call(page); err != nil {
		slog.Debug("viewport override failed", "error", err)
	}

	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{
			"Referer": "https://www.google.com/search?q=" + url.QueryEscape(target.Hostname()),
		}),
	}.Call(page)
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
