package engine

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/use-agent/roastscrape/cleaner"
	"github.com/use-agent/roastscrape/models"
)

// Reason explains why the synthetic fallback was used.
type Reason int

const (
	// ReasonUnreachable means no backend got a usable page.
	ReasonUnreachable Reason = iota
	// ReasonProtected means at least one backend was turned away by bot
	// protection.
	ReasonProtected
)

func (r Reason) String() string {
	if r == ReasonProtected {
		return "behind bot protection"
	}
	return "unreachable"
}

func (r Reason) label() string {
	if r == ReasonProtected {
		return "Bot Protected"
	}
	return "Unreachable"
}

func (r Reason) note() string {
	if r == ReasonProtected {
		return "the site hides behind bot protection, clearly scared of being scraped"
	}
	return "the site could not be reached"
}

var tldNotes = map[string]string{
	"io":   "went with .io to look tech-savvy, the domain is the whole investment",
	"co":   "picked .co because the .com was taken, literally the second choice",
	"id":   "at least it uses a local domain",
	"xyz":  "picked .xyz because it is the cheapest domain on earth",
	"app":  "uses .app to look modern, whether an app exists is another question",
	"dev":  "uses .dev, developer wannabe detected",
	"ai":   "uses .ai so people assume an AI startup, probably a chatbot wrapper",
	"tech": "uses .tech, as generic as the startup idea",
}

const defaultTLDNote = "a perfectly ordinary domain"

const maxURLHints = 3

const (
	ipTLDNote   = "no domain name at all, just a bare IP address"
	ipNameNote  = "a raw IP address nobody will ever remember"
	maxHostRune = 120
)

// SyntheticContent builds a PageContent from the URL alone, for sites no
// backend could read. The summary always names the host, and its TLD when
// the host is a domain name.
func SyntheticContent(u *url.URL, reason Reason) *models.PageContent {
	host := u.Hostname()
	if host == "" {
		host = "unknown"
	}
	shown := clip(host)
	hostIsIP := net.ParseIP(host) != nil

	name, subdomain, tld, tldNote, nameNote := shown, "", "", ipTLDNote, ipNameNote
	if !hostIsIP {
		parts := strings.Split(host, ".")
		if n := mainDomainName(host); n != "" {
			name = clip(n)
		}
		if len(parts) > 2 {
			subdomain = clip(strings.Join(parts[:len(parts)-2], "."))
		}
		tld = parts[len(parts)-1]
		if len(parts) == 1 {
			tld = "com"
		}
		tld = clip(tld)
		var ok bool
		if tldNote, ok = tldNotes[strings.ToLower(tld)]; !ok {
			tldNote = defaultTLDNote
		}
		nameNote = "trying hard to be short"
		if len(name) > 10 {
			nameNote = "way too long"
		}
	}
	pathHints := urlPathHints(u.Path)
	queryHints := urlQueryHints(u.RawQuery)

	kind, field := "domain", "domain"
	if hostIsIP {
		kind, field = "IP address", "ip"
	}
	desc := []string{"Startup at " + kind + " " + shown}
	if subdomain != "" {
		desc = append(desc, "subdomain: "+subdomain)
	}
	if len(pathHints) > 0 {
		desc = append(desc, "path: /"+strings.Join(pathHints, "/"))
	}
	if len(queryHints) > 0 {
		desc = append(desc, "params: "+strings.Join(queryHints, ", "))
	}
	desc = append(desc, "("+reason.note()+")")

	headings := []string{"Domain: " + shown}
	if hostIsIP {
		headings[0] = "IP Address: " + shown
	}
	headings = append(headings, "TLD Analysis: "+tldNote)
	if subdomain != "" {
		headings = append(headings, "Subdomain: "+subdomain+" (what a convoluted URL)")
	}

	path := "/" + strings.Join(pathHints, "/")
	sub := subdomain
	if sub == "" {
		sub = "none"
	}
	tldField := "none"
	if tld != "" {
		tldField = "." + tld
	}
	summary := fmt.Sprintf(
		"The website %s could not be scraped (%s). URL analysis: %s=%s, TLD=%s (%s), path=%s, subdomain=%s. "+
			"The roast can still work from the host name, which is %s, the URL structure and the choice of TLD.",
		name, reason, field, shown, tldField, tldNote, path, sub, nameNote,
	)

	title := fmt.Sprintf("%s - [%s]", strings.ToUpper(name), reason.label())
	return models.NewPageContent(u.String(), &title, models.StringPtr(strings.Join(desc, ", ")),
		headings, cleaner.TruncateSummary(summary))
}

// clip bounds host-derived text so headings stay under the 200 character
// limit the extractor enforces.
func clip(s string) string {
	r := []rune(s)
	if len(r) <= maxHostRune {
		return s
	}
	return string(r[:maxHostRune]) + "..."
}

// mainDomainName returns the label left of the TLD ("acme" for
// "app.acme.io"), or host itself when it has no dot.
func mainDomainName(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) > 1 {
		return parts[len(parts)-2]
	}
	return host
}

func urlPathHints(path string) []string {
	var hints []string
	for _, seg := range strings.Split(path, "/") {
		if len(seg) > 2 {
			hints = append(hints, seg)
			if len(hints) == maxURLHints {
				break
			}
		}
	}
	return hints
}

// urlQueryHints keeps the first query parameters in their original order
// as "k=v" (or "k" when the value is empty).
func urlQueryHints(rawQuery string) []string {
	var hints []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		if uk, err := url.QueryUnescape(k); err == nil {
			k = uk
		}
		if uv, err := url.QueryUnescape(v); err == nil {
			v = uv
		}
		if k == "" {
			continue
		}
		if v == "" {
			hints = append(hints, k)
		} else {
			hints = append(hints, k+"="+v)
		}
		if len(hints) == maxURLHints {
			break
		}
	}
	return hints
}
