package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Acquire   AcquireConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// AcquireConfig controls the backend plan and per-backend limits.
type AcquireConfig struct {
	// SolverURL is the FlareSolverr-compatible endpoint. Empty disables
	// the solver backend.
	SolverURL string

	HTTPTimeout     time.Duration // default: 15s
	SolverTimeout   time.Duration // default: 70s
	HeadlessTimeout time.Duration // default: 60s

	// CacheEnabled toggles the public cache backend.
	CacheEnabled bool // default: true
	CacheBaseURL string
	CacheTimeout time.Duration // default: 5s, applied per leg

	// ChallengeMarkers and SPAMarkers are appended to the built-in lists.
	ChallengeMarkers []string
	SPAMarkers       []string

	// AllowPrivateHosts lets localhost and private ranges through URL
	// validation (useful against local fixtures).
	AllowPrivateHosts bool // default: false
}

// CacheConfig controls the acquire response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 1000

	// TTL bounds how long an entry survives regardless of max_age.
	TTL time.Duration // default: 1h
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Enabled toggles the headless browser backend.
	Enabled bool // default: true

	// Headless is false when VISIBLE_BROWSER is set.
	Headless bool

	// Proxy is the proxy URL the browser is launched with.
	Proxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Workers bounds concurrent browser sessions.
	Workers int // default: 2

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string

	// MaxAttempts and ChallengeBudget bound the challenge poll loop.
	MaxAttempts     int           // default: 8
	ChallengeBudget time.Duration // default: 45s
	PollInterval    time.Duration // default: 2s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	_, visible := os.LookupEnv("VISIBLE_BROWSER")
	return &Config{
		Server: ServerConfig{
			Host: envOr("ROAST_HOST", "0.0.0.0"),
			Port: envIntOr("ROAST_PORT", 8080),
			Mode: envOr("ROAST_MODE", "release"),
		},
		Browser: BrowserConfig{
			Enabled:    envBoolOr("ROAST_BROWSER_ENABLED", true),
			Headless:   !visible,
			Proxy:      os.Getenv("ROAST_PROXY"),
			NoSandbox:  envBoolOr("ROAST_NO_SANDBOX", false),
			BrowserBin: os.Getenv("ROAST_BROWSER_BIN"),
			Workers:    envIntOr("ROAST_BROWSER_WORKERS", 2),
			BlockedResourceTypes: envSliceOr("ROAST_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
			MaxAttempts:     envIntOr("ROAST_CHALLENGE_MAX_ATTEMPTS", 8),
			ChallengeBudget: envDurationOr("ROAST_CHALLENGE_BUDGET", 45*time.Second),
			PollInterval:    envDurationOr("ROAST_CHALLENGE_POLL", 2*time.Second),
		},
		Acquire: AcquireConfig{
			SolverURL:         strings.TrimSpace(os.Getenv("FLARESOLVERR_URL")),
			HTTPTimeout:       envDurationOr("ROAST_HTTP_TIMEOUT", 15*time.Second),
			SolverTimeout:     envDurationOr("ROAST_SOLVER_TIMEOUT", 70*time.Second),
			HeadlessTimeout:   envDurationOr("ROAST_HEADLESS_TIMEOUT", 60*time.Second),
			CacheEnabled:      envBoolOr("ROAST_CACHE_ENABLED", true),
			CacheBaseURL:      os.Getenv("ROAST_CACHE_BASE_URL"),
			CacheTimeout:      envDurationOr("ROAST_CACHE_TIMEOUT", 5*time.Second),
			ChallengeMarkers:  envSliceOr("ROAST_CHALLENGE_MARKERS", nil),
			SPAMarkers:        envSliceOr("ROAST_SPA_MARKERS", nil),
			AllowPrivateHosts: envBoolOr("ROAST_ALLOW_PRIVATE_HOSTS", false),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("ROAST_AUTH_ENABLED", true),
			APIKeys: envSliceOr("ROAST_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("ROAST_RATE_RPS", 5.0),
			Burst:             envIntOr("ROAST_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("CACHE_MAX_ENTRIES", 1000),
			TTL:        envDurationOr("ROAST_CACHE_TTL", time.Hour),
		},
		Log: LogConfig{
			Level:  envOr("ROAST_LOG_LEVEL", "info"),
			Format: envOr("ROAST_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
