package engine

import (
	"net"
	"net/url"
	"strings"

	"github.com/use-agent/roastscrape/models"
)

// MaxURLLength is the longest URL accepted for acquisition.
const MaxURLLength = 2048

// ValidateURL trims and parses rawURL. Errors wrap models.ErrInvalidInput.
// Loopback and private hosts are rejected unless allowPrivate is set.
func ValidateURL(rawURL string, allowPrivate bool) (*url.URL, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return nil, models.NewInvalidInput("url must not be empty")
	}
	if len(s) > MaxURLLength {
		return nil, models.NewInvalidInput("url is too long")
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, models.NewInvalidInput("url is malformed")
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, models.NewInvalidInput("only http and https urls are allowed")
	}
	u.Scheme = scheme
	if u.Hostname() == "" {
		return nil, models.NewInvalidInput("url must have a host")
	}
	if !allowPrivate && isPrivateHost(u.Hostname()) {
		return nil, models.NewInvalidInput("local and private addresses are not allowed")
	}
	return u, nil
}

func isPrivateHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast()
}
