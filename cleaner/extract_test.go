package cleaner

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_HeadingAndParagraph(t *testing.T) {
	para := "This paragraph is 25 char"
	require.Len(t, para, 25)

	html := "<html><head><title> Foo Inc </title>" +
		`<meta name="description" content=" We build foo. ">` +
		"</head><body><h1>Foo</h1><p>" + para + "</p></body></html>"

	got := Extract("https://foo.example", html)

	require.NotNil(t, got.Title)
	assert.Equal(t, "Foo Inc", *got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "We build foo.", *got.Description)
	assert.Equal(t, []string{"Foo"}, got.Headings)
	assert.Contains(t, got.BodySummary, para)
	assert.Equal(t, "https://foo.example", got.SourceURL)
}

func TestExtract_MissingTitleAndDescription(t *testing.T) {
	got := Extract("https://x.example", "<html><body><p>short</p></body></html>")

	assert.Nil(t, got.Title)
	assert.Nil(t, got.Description)
	assert.Empty(t, got.Headings)
	assert.Equal(t, "", got.BodySummary)
}

func TestExtract_EmptyInput(t *testing.T) {
	got := Extract("https://x.example", "")
	require.NotNil(t, got)
	assert.Nil(t, got.Title)
	assert.Empty(t, got.Headings)
}

func TestExtract_SummaryTruncation(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 20; i++ {
		b.WriteString("<p>")
		b.WriteString(strings.Repeat("a", 100))
		b.WriteString("</p>")
	}
	b.WriteString("</body></html>")

	got := Extract("https://x.example", b.String())

	assert.True(t, strings.HasSuffix(got.BodySummary, "..."))
	assert.Equal(t, 503, utf8.RuneCountInString(got.BodySummary))
	assert.Equal(t, 500, utf8.RuneCountInString(strings.TrimSuffix(got.BodySummary, "...")))
}

func TestExtract_SummaryTruncationKeepsRunes(t *testing.T) {
	para := strings.Repeat("é", 120)
	html := "<body>" + strings.Repeat("<p>"+para+"</p>", 5) + "</body>"

	got := Extract("https://x.example", html)

	assert.True(t, utf8.ValidString(got.BodySummary))
	assert.Equal(t, 503, utf8.RuneCountInString(got.BodySummary))
}

func TestExtract_SkipsShortParagraphs(t *testing.T) {
	html := "<body><p>tiny</p><p>exactly twenty chars</p><p>this one is long enough to keep</p></body>"

	got := Extract("https://x.example", html)

	assert.Equal(t, "this one is long enough to keep ", got.BodySummary)
}

func TestExtract_OnlyFirstFiveParagraphs(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteString("<p>filler</p>")
	}
	b.WriteString("<p>the sixth paragraph is long but ignored</p>")

	got := Extract("https://x.example", "<body>"+b.String()+"</body>")

	assert.Equal(t, "", got.BodySummary)
}

func TestExtract_HeadingOrderAndLimits(t *testing.T) {
	var b strings.Builder
	b.WriteString("<body>")
	for _, tag := range []string{"h3", "h2", "h1"} {
		for i := 0; i < 4; i++ {
			b.WriteString("<" + tag + ">" + tag + "-" + string(rune('a'+i)) + "</" + tag + ">")
		}
	}
	b.WriteString("</body>")

	got := Extract("https://x.example", b.String())

	assert.Equal(t, []string{
		"h1-a", "h1-b", "h1-c",
		"h2-a", "h2-b", "h2-c",
		"h3-a", "h3-b", "h3-c",
	}, got.Headings)
}

func TestExtract_DropsEmptyAndLongHeadings(t *testing.T) {
	long := strings.Repeat("x", 201)
	html := "<body><h1>  </h1><h1>" + long + "</h1><h1>Kept</h1><h2>Also kept</h2></body>"

	got := Extract("https://x.example", html)

	assert.Equal(t, []string{"Kept", "Also kept"}, got.Headings)
}

func TestExtract_HeadingLengthBoundary(t *testing.T) {
	tests := []struct {
		name  string
		runes int
		kept  bool
	}{
		{"199 chars kept", 199, true},
		{"200 chars kept", 200, true},
		{"201 chars dropped", 201, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text := strings.Repeat("é", tc.runes)
			got := Extract("https://x.example", "<body><h1>"+text+"</h1><h2>Next</h2></body>")
			if tc.kept {
				assert.Equal(t, []string{text, "Next"}, got.Headings)
			} else {
				assert.Equal(t, []string{"Next"}, got.Headings)
			}
		})
	}
}

func TestExtract_HeadingTextIncludesDescendants(t *testing.T) {
	got := Extract("https://x.example", "<h1>Ship <em>faster</em></h1>")
	assert.Equal(t, []string{"Ship faster"}, got.Headings)
}

func TestFindTitleCandidates(t *testing.T) {
	html := `<html><head>
		<title>Cache: foo</title>
		<meta property="og:title" content=" OG Foo ">
		<meta name="twitter:title" content="TW Foo">
	</head></html>`

	doc := mustDoc(t, html)
	got := FindTitleCandidates(doc)

	assert.Equal(t, "OG Foo", got.OpenGraph)
	assert.Equal(t, "TW Foo", got.Twitter)
	assert.Equal(t, "Cache: foo", got.Document)
}

func TestTruncateSummary(t *testing.T) {
	assert.Equal(t, "short", TruncateSummary("short"))

	long := strings.Repeat("é", 600)
	got := TruncateSummary(long)
	assert.Equal(t, 503, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}
