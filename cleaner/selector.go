package cleaner

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Selectors are compiled once; goquery accepts them through FindMatcher.
var (
	titleSel       = cascadia.MustCompile("title")
	descriptionSel = cascadia.MustCompile(`meta[name="description"]`)
	paragraphSel   = cascadia.MustCompile("p")
	headingSels    = []cascadia.Selector{
		cascadia.MustCompile("h1"),
		cascadia.MustCompile("h2"),
		cascadia.MustCompile("h3"),
	}
	ogTitleSel      = cascadia.MustCompile(`meta[property="og:title"]`)
	twitterTitleSel = cascadia.MustCompile(`meta[name="twitter:title"]`)
)

// firstN returns at most n elements of sel, in document order.
func firstN(sel *goquery.Selection, n int) *goquery.Selection {
	if sel.Length() <= n {
		return sel
	}
	return sel.Slice(0, n)
}
