package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TitleCandidates holds the title sources found in a document, trimmed.
// Empty strings mean the source is absent.
type TitleCandidates struct {
	OpenGraph string
	Twitter   string
	Document  string
}

// FindTitleCandidates collects og:title, twitter:title and <title>.
func FindTitleCandidates(doc *goquery.Document) TitleCandidates {
	og, _ := doc.FindMatcher(ogTitleSel).First().Attr("content")
	tw, _ := doc.FindMatcher(twitterTitleSel).First().Attr("content")
	return TitleCandidates{
		OpenGraph: strings.TrimSpace(og),
		Twitter:   strings.TrimSpace(tw),
		Document:  strings.TrimSpace(doc.FindMatcher(titleSel).First().Text()),
	}
}
