package engine

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/use-agent/roastscrape/models"
)

// classifyTransportError maps a client-side failure (dial, TLS, read,
// deadline) to a FetchError.
func classifyTransportError(engine, msg string, err error) *models.FetchError {
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewFetchError(models.FetchTimeout, engine, msg, err)
	case errors.As(err, &ne) && ne.Timeout():
		return models.NewFetchError(models.FetchTimeout, engine, msg, err)
	default:
		return models.NewFetchError(models.FetchNetwork, engine, msg, err)
	}
}

// classifyStatus maps a non-2xx HTTP status to a FetchError kind.
// 403 and 503 are what bot walls answer with.
func classifyStatus(status int) models.FetchErrorKind {
	switch {
	case status == http.StatusForbidden, status == http.StatusServiceUnavailable:
		return models.FetchBlocked
	case status >= 400 && status < 500:
		return models.FetchForbidden
	default:
		return models.FetchNetwork
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
