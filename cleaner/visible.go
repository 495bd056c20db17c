package cleaner

import (
	"strings"

	"golang.org/x/net/html"
)

// invisibleTags hold text the user never sees.
var invisibleTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
	"svg":      {},
}

// visibleBodyWords counts whitespace-separated words of visible text inside
// <body>. The second result is false when the document has no body tag.
func visibleBodyWords(rawHTML string) (int, bool) {
	z := html.NewTokenizer(strings.NewReader(rawHTML))
	inBody := false
	sawBody := false
	skipDepth := 0
	words := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return words, sawBody
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "body" {
				inBody = true
				sawBody = true
				continue
			}
			if _, ok := invisibleTags[tag]; ok && tt == html.StartTagToken {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "body" {
				inBody = false
				continue
			}
			if _, ok := invisibleTags[tag]; ok && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if inBody && skipDepth == 0 {
				words += len(strings.Fields(string(z.Text())))
			}
		}
	}
}
