package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/roastscrape/models"
)

func content(summary string) *models.PageContent {
	return models.NewPageContent("https://acme.io", models.StringPtr("Acme"), nil, []string{"Hi"}, summary)
}

// clock is a manually advanced time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(t *testing.T, maxEntries int) (*Cache, *clock) {
	t.Helper()
	c := New(maxEntries, time.Hour)
	t.Cleanup(c.Close)
	clk := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c.now = clk.now
	return c, clk
}

func TestKey_Normalizes(t *testing.T) {
	base := Key("https://acme.io/pricing")
	assert.Equal(t, base, Key("HTTPS://ACME.io/pricing/"))
	assert.Equal(t, base, Key("  https://acme.io/pricing#plans "))
	assert.NotEqual(t, base, Key("https://acme.io/pricing?tier=pro"))
	assert.NotEqual(t, base, Key("http://acme.io/pricing"))
	assert.Len(t, base, 64)
}

func TestCache_GetRespectsMaxAge(t *testing.T) {
	c, clk := newTestCache(t, 10)
	key := Key("https://acme.io")
	c.Set(key, content("hello"))

	got, ok := c.Get(key, 1000)
	require.True(t, ok)
	assert.Equal(t, "hello", got.BodySummary)

	_, ok = c.Get(key, 0)
	assert.False(t, ok, "max age 0 disables lookup")

	clk.t = clk.t.Add(2 * time.Second)
	_, ok = c.Get(key, 1000)
	assert.False(t, ok)
	_, ok = c.Get(key, 5000)
	assert.True(t, ok)
}

func TestCache_Miss(t *testing.T) {
	c, _ := newTestCache(t, 10)
	_, ok := c.Get(Key("https://nowhere.io"), 60000)
	assert.False(t, ok)
}

func TestCache_EvictsOldestAtCapacity(t *testing.T) {
	c, clk := newTestCache(t, 2)

	c.Set("a", content("a"))
	clk.t = clk.t.Add(time.Second)
	c.Set("b", content("b"))
	clk.t = clk.t.Add(time.Second)
	c.Set("c", content("c"))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a", 60000)
	assert.False(t, ok)
	_, ok = c.Get("c", 60000)
	assert.True(t, ok)

	// Overwriting an existing key does not evict.
	c.Set("b", content("b2"))
	assert.Equal(t, 2, c.Len())
}

func TestCache_SetIgnoresNil(t *testing.T) {
	c, _ := newTestCache(t, 2)
	c.Set("a", nil)
	assert.Zero(t, c.Len())
}

func TestCache_EvictExpired(t *testing.T) {
	c, clk := newTestCache(t, 10)
	c.Set("old", content("old"))
	clk.t = clk.t.Add(90 * time.Minute)
	c.Set("new", content("new"))

	c.evictExpired()
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("new", 60000)
	assert.True(t, ok)
}
