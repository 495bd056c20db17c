package cleaner

import "strings"

// minBodyWords is the visible word count below which a rendered body is
// considered a loading shell.
const minBodyWords = 30

// IsChallengePage reports whether the raw HTML is an anti-bot challenge
// page. Matching is a case-insensitive substring search.
func (m Markers) IsChallengePage(html string) bool {
	return containsAny(strings.ToLower(html), m.Challenge)
}

// IsSPALoading reports whether the document still looks like a
// client-side application that has not rendered its content: either an
// SPA marker is present, or the <body> holds fewer than 30 visible words.
func (m Markers) IsSPALoading(html string) bool {
	if containsAny(strings.ToLower(html), m.SPA) {
		return true
	}
	words, hasBody := visibleBodyWords(html)
	return hasBody && words < minBodyWords
}
