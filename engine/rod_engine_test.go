package engine

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/roastscrape/models"
)

func TestRodEngine_ReturnsHTML(t *testing.T) {
	e := NewRodEngine(func(ctx context.Context, target *url.URL) (string, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return richHTML, nil
	}, NewWorkerPool(2), time.Second)

	html, err := e.Fetch(context.Background(), mustURL(t, "https://acme.example"))
	require.NoError(t, err)
	assert.Equal(t, richHTML, html)
}

func TestRodEngine_PassesFetchErrors(t *testing.T) {
	e := NewRodEngine(func(ctx context.Context, target *url.URL) (string, error) {
		return "", models.NewFetchError(models.FetchBlocked, "rod", "challenge not solved", nil)
	}, nil, 0)

	_, err := e.Fetch(context.Background(), mustURL(t, "https://acme.example"))
	requireFetchKind(t, err, models.FetchBlocked)
}

func TestRodEngine_WrapsOtherErrors(t *testing.T) {
	e := NewRodEngine(func(ctx context.Context, target *url.URL) (string, error) {
		return "", errors.New("browser crashed")
	}, nil, 0)

	_, err := e.Fetch(context.Background(), mustURL(t, "https://acme.example"))
	requireFetchKind(t, err, models.FetchNetwork)
}

func TestRodEngine_HardTimeout(t *testing.T) {
	e := NewRodEngine(func(ctx context.Context, target *url.URL) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}, nil, 20*time.Millisecond)

	_, err := e.Fetch(context.Background(), mustURL(t, "https://acme.example"))
	requireFetchKind(t, err, models.FetchTimeout)
}

func TestRodEngine_NoFetchFunc(t *testing.T) {
	_, err := NewRodEngine(nil, nil, 0).Fetch(context.Background(), mustURL(t, "https://acme.example"))
	requireFetchKind(t, err, models.FetchNetwork)
}
