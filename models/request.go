package models

// AcquireRequest is the payload for POST /api/v1/acquire.
type AcquireRequest struct {
	// URL is the startup page to acquire. Required.
	URL string `json:"url" binding:"required"`

	// MaxAge enables the response cache: a cached PageContent younger than
	// MaxAge milliseconds is returned without running the pipeline.
	// Default: 0 (cache disabled).
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}
