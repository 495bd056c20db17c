package engine

import (
	"context"
	"net/url"

	"github.com/use-agent/roastscrape/models"
)

// Engine is the interface that all acquisition backends implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http", "solver", "rod", "cache").
	Name() string

	// Capability describes the backend for logging and plan inspection.
	Capability() models.BackendCapability

	// Fetch retrieves the raw HTML for target. Failures are returned as
	// *models.FetchError.
	Fetch(ctx context.Context, target *url.URL) (string, error)
}

// ContentBuilder is implemented by engines that need their own extraction,
// e.g. to strip wrapper markup added by a third party.
type ContentBuilder interface {
	BuildContent(target *url.URL, html string) *models.PageContent
}
