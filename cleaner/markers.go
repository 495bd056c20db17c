package cleaner

import "strings"

// defaultChallengeMarkers are lower-case substrings that identify an
// anti-bot interstitial rather than the site's real content.
var defaultChallengeMarkers = []string{
	"cf-browser-verification",
	"cf-challenge",
	"cf-turnstile",
	"cf-chl",
	"_cf_chl",
	"checking your browser",
	"just a moment",
	"please wait while we verify",
	"enable javascript and cookies to continue",
	"challenge-platform",
	"challenges.cloudflare.com",
	"ray id:</",
	"cloudflare ray id",
	"verify you are human",
	"security check",
}

// defaultSPAMarkers identify client-rendered pages whose content has not
// been rendered yet.
var defaultSPAMarkers = []string{
	"__next_data__",
	"__nuxt",
	"ng-app",
	"ng-controller",
	"data-reactroot",
	"data-react-helmet",
	"_app-root",
	"app-root",
	"loading your",
	"loading...",
	"memuat...",
	"please wait",
	"initializing",
}

// Markers holds the substring lists used for challenge and SPA detection.
// All entries are stored lower-case; matching is case-insensitive.
type Markers struct {
	Challenge []string
	SPA       []string
}

// DefaultMarkers returns a fresh copy of the built-in marker lists.
func DefaultMarkers() Markers {
	return Markers{
		Challenge: append([]string(nil), defaultChallengeMarkers...),
		SPA:       append([]string(nil), defaultSPAMarkers...),
	}
}

// WithExtra returns a copy of m with the extra markers appended.
// Blank entries and duplicates are skipped.
func (m Markers) WithExtra(challenge, spa []string) Markers {
	return Markers{
		Challenge: mergeMarkers(m.Challenge, challenge),
		SPA:       mergeMarkers(m.SPA, spa),
	}
}

func mergeMarkers(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, s := range list {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func containsAny(lower string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

var defaults = DefaultMarkers()

// IsChallengePage reports whether html matches a built-in challenge marker.
func IsChallengePage(html string) bool {
	return defaults.IsChallengePage(html)
}

// IsSPALoading reports whether html looks like an unrendered SPA shell
// using the built-in markers.
func IsSPALoading(html string) bool {
	return defaults.IsSPALoading(html)
}
