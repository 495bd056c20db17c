package cleaner

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/roastscrape/models"
)

const (
	headingsPerLevel  = 3
	maxHeadings       = 10
	maxHeadingLen     = 200
	summaryParagraphs = 5
	minParagraphLen   = 20
	maxSummaryLen     = 500
)

// Extract parses rawHTML into a PageContent for sourceURL. It never fails:
// malformed or empty documents simply yield empty fields.
func Extract(sourceURL, rawHTML string) *models.PageContent {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return models.NewPageContent(sourceURL, nil, nil, nil, "")
	}
	return ExtractDocument(sourceURL, doc)
}

// ExtractDocument builds a PageContent from an already parsed document.
func ExtractDocument(sourceURL string, doc *goquery.Document) *models.PageContent {
	return models.NewPageContent(
		sourceURL,
		extractTitle(doc),
		extractDescription(doc),
		extractHeadings(doc),
		extractSummary(doc),
	)
}

func extractTitle(doc *goquery.Document) *string {
	t := doc.FindMatcher(titleSel).First()
	if t.Length() == 0 {
		return nil
	}
	return models.StringPtr(strings.TrimSpace(t.Text()))
}

func extractDescription(doc *goquery.Document) *string {
	content, ok := doc.FindMatcher(descriptionSel).First().Attr("content")
	if !ok {
		return nil
	}
	return models.StringPtr(strings.TrimSpace(content))
}

// extractHeadings takes the first three h1, h2 and h3 elements in that
// order, dropping empty or overlong ones.
func extractHeadings(doc *goquery.Document) []string {
	headings := []string{}
	for _, sel := range headingSels {
		firstN(doc.FindMatcher(sel), headingsPerLevel).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text == "" || utf8.RuneCountInString(text) > maxHeadingLen {
				return
			}
			headings = append(headings, text)
		})
	}
	if len(headings) > maxHeadings {
		headings = headings[:maxHeadings]
	}
	return headings
}

// extractSummary concatenates the leading paragraphs, skipping short ones,
// and truncates to 500 characters followed by "...".
func extractSummary(doc *goquery.Document) string {
	var b strings.Builder
	n := 0
	firstN(doc.FindMatcher(paragraphSel), summaryParagraphs).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if l := utf8.RuneCountInString(text); l > minParagraphLen {
			b.WriteString(text)
			b.WriteByte(' ')
			n += l + 1
		}
		return n <= maxSummaryLen
	})
	return TruncateSummary(b.String())
}

// TruncateSummary applies the body summary bound: at most 500 characters,
// followed by "..." when cut.
func TruncateSummary(s string) string {
	return truncateRunes(s, maxSummaryLen)
}

// truncateRunes cuts s to max characters and appends "..." when it was
// longer. Cuts always land on a rune boundary.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	i := 0
	for pos := range s {
		if i == max {
			return s[:pos] + "..."
		}
		i++
	}
	return s
}
