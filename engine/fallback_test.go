package engine

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/roastscrape/models"
)

func TestSyntheticContent_FakeStartup(t *testing.T) {
	u := mustURL(t, "https://totallyfakestartup123.xyz/products?ref=ig")

	got := SyntheticContent(u, ReasonUnreachable)

	require.NotNil(t, got.Title)
	assert.Equal(t, "TOTALLYFAKESTARTUP123 - [Unreachable]", *got.Title)
	assert.Equal(t, []string{
		"Domain: totallyfakestartup123.xyz",
		"TLD Analysis: " + tldNotes["xyz"],
	}, got.Headings)
	assert.Contains(t, got.BodySummary, "totallyfakestartup123.xyz")
	assert.Contains(t, got.BodySummary, "TLD=.xyz")
	assert.Contains(t, got.BodySummary, "path=/products")
	assert.Contains(t, got.BodySummary, "way too long")

	require.NotNil(t, got.Description)
	assert.Contains(t, *got.Description, "path: /products")
	assert.Contains(t, *got.Description, "params: ref=ig")
	assert.Equal(t, u.String(), got.SourceURL)
}

func TestSyntheticContent_Subdomain(t *testing.T) {
	got := SyntheticContent(mustURL(t, "https://app.beta.acme.io/"), ReasonProtected)

	assert.Equal(t, "ACME - [Bot Protected]", got.TitleOr(""))
	assert.Contains(t, got.Headings, "Subdomain: app.beta (what a convoluted URL)")
	assert.Contains(t, got.BodySummary, "subdomain=app.beta")
	assert.Contains(t, got.BodySummary, "path=/,")
	assert.Contains(t, got.BodySummary, "behind bot protection")
	assert.Contains(t, got.DescriptionOr(""), "subdomain: app.beta")
}

func TestSyntheticContent_UnknownTLD(t *testing.T) {
	got := SyntheticContent(mustURL(t, "https://acme.com"), ReasonUnreachable)

	assert.Contains(t, got.Headings, "TLD Analysis: "+defaultTLDNote)
	assert.Contains(t, got.BodySummary, "subdomain=none")
	assert.Contains(t, got.BodySummary, "trying hard to be short")
}

func TestSyntheticContent_NeverMinimal(t *testing.T) {
	got := SyntheticContent(mustURL(t, "https://x.ai"), ReasonUnreachable)
	assert.False(t, defaultMarkersForTest().IsMinimal(got))
}

func TestSyntheticContent_BoundedSummary(t *testing.T) {
	longLabel := strings.Repeat("a", 63)
	host := strings.Join([]string{longLabel, longLabel, longLabel, "acme", "io"}, ".")
	raw := "https://" + host + "/" + strings.Repeat("products/", 80) + "?" + strings.Repeat("k=v&", 50)

	got := SyntheticContent(mustURL(t, raw), ReasonProtected)

	assert.LessOrEqual(t, utf8.RuneCountInString(got.BodySummary), 503)
	assert.True(t, strings.HasSuffix(got.BodySummary, "..."))
	assert.Contains(t, got.BodySummary, "The website acme could not be scraped")
	for _, h := range got.Headings {
		assert.Less(t, utf8.RuneCountInString(h), 200, h)
	}
}

func TestSyntheticContent_PathFromHints(t *testing.T) {
	got := SyntheticContent(mustURL(t, "https://acme.io/en/products/shoes/running/fast"), ReasonUnreachable)

	assert.Contains(t, got.BodySummary, "path=/products/shoes/running,")
	assert.NotContains(t, got.BodySummary, "fast")
}

func TestSyntheticContent_IPHost(t *testing.T) {
	tests := []struct {
		raw  string
		host string
	}{
		{"http://8.8.8.8/pricing", "8.8.8.8"},
		{"http://127.0.0.1:8080/", "127.0.0.1"},
		{"http://[2001:db8::1]/", "2001:db8::1"},
	}
	for _, tc := range tests {
		t.Run(tc.host, func(t *testing.T) {
			got := SyntheticContent(mustURL(t, tc.raw), ReasonUnreachable)

			assert.Equal(t, strings.ToUpper(tc.host)+" - [Unreachable]", got.TitleOr(""))
			assert.Equal(t, "IP Address: "+tc.host, got.Headings[0])
			assert.Contains(t, got.Headings, "TLD Analysis: "+ipTLDNote)
			assert.Len(t, got.Headings, 2)
			assert.Contains(t, got.BodySummary, "The website "+tc.host+" could not be scraped")
			assert.Contains(t, got.BodySummary, "ip="+tc.host)
			assert.Contains(t, got.BodySummary, "TLD=none")
			assert.Contains(t, got.BodySummary, "subdomain=none")
			assert.Contains(t, got.DescriptionOr(""), "Startup at IP address "+tc.host)
		})
	}
}

func TestURLHints(t *testing.T) {
	assert.Equal(t, []string{"products", "shoes", "running"}, urlPathHints("/en/products/shoes/running/fast"))
	assert.Nil(t, urlPathHints("/"))
	assert.Equal(t, []string{"ref=ig", "beta", "q=a b"}, urlQueryHints("ref=ig&beta&=x&q=a+b&utm=1"))
}

func TestFallbackReason(t *testing.T) {
	blocked := models.SoftFailed("http", models.NewFetchError(models.FetchBlocked, "http", "403", nil))
	forbidden := models.SoftFailed("http", models.NewFetchError(models.FetchForbidden, "http", "404", nil))
	network := models.SoftFailed("cache", models.NewFetchError(models.FetchNetwork, "cache", "dns", nil))

	assert.Equal(t, ReasonProtected, fallbackReason([]models.Attempt{network, blocked}))
	assert.Equal(t, ReasonUnreachable, fallbackReason([]models.Attempt{forbidden}))
	assert.Equal(t, ReasonUnreachable, fallbackReason([]models.Attempt{network}))
	assert.Equal(t, ReasonUnreachable, fallbackReason(nil))
}
