package models

// AcquireResponse is the response for POST /api/v1/acquire.
type AcquireResponse struct {
	// Success indicates whether a PageContent was produced.
	Success bool `json:"success"`

	// Content is the acquired page content. It may be a synthetic fallback
	// built from the URL when no backend could reach the site.
	Content *PageContent `json:"content,omitempty"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// AcquireMs is the time spent inside the acquisition pipeline.
	AcquireMs int64 `json:"acquire_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status       string              `json:"status"` // "healthy" or "degraded"
	Uptime       string              `json:"uptime"`
	BrowserStats BrowserStats        `json:"browser_stats"`
	Plan         []BackendCapability `json:"plan"`
	Version      string              `json:"version"`
}

// BrowserStats reports the state of the shared browser and its worker pool.
type BrowserStats struct {
	Enabled       bool `json:"enabled"`
	Live          bool `json:"live"`
	Launches      int  `json:"launches"`
	MaxWorkers    int  `json:"max_workers"`
	ActiveWorkers int  `json:"active_workers"`
}
