package cleaner

import (
	"strings"
	"unicode/utf8"

	"github.com/use-agent/roastscrape/models"
)

// minDescriptionLen is the description length (in characters) above which
// a description alone counts as real content.
const minDescriptionLen = 20

// IsMinimal reports whether content is too thin to be worth returning,
// in which case the caller should try the next backend.
//
// Rules, first match wins:
//  1. headings and a body summary present: not minimal
//  2. no headings, no summary, no meaningful description: minimal
//  3. summary contains an SPA loading marker: minimal
//  4. otherwise minimal only when both headings and summary are empty
func (m Markers) IsMinimal(content *models.PageContent) bool {
	if content == nil {
		return true
	}
	hasHeadings := len(content.Headings) > 0
	hasSummary := strings.TrimSpace(content.BodySummary) != ""
	hasDescription := content.Description != nil &&
		utf8.RuneCountInString(*content.Description) > minDescriptionLen

	if hasHeadings && hasSummary {
		return false
	}
	if !hasHeadings && !hasSummary && !hasDescription {
		return true
	}
	if containsAny(strings.ToLower(content.BodySummary), m.SPA) {
		return true
	}
	return !hasHeadings && !hasSummary
}

// IsMinimal applies the built-in markers.
func IsMinimal(content *models.PageContent) bool {
	return defaults.IsMinimal(content)
}
