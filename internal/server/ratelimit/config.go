package ratelimit

import (
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one class of request. Patterns use http.ServeMux syntax, and
// every request matching any of them draws from the same per-client bucket.
type Rule struct {
	Name     string
	Patterns []string
	Limit    int           // requests per Window; 0 means unlimited
	Window   time.Duration // period over which Limit applies
	Burst    int           // defaults to Limit
}

// Unlimited reports whether the rule lets every request through
func (r Rule) Unlimited() bool {
	return r.Limit <= 0 || r.Window <= 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// Default applies to requests no rule matches
	Default         Rule
	Rules           []Rule
	CleanupInterval time.Duration
	IdleTimeout     time.Duration // buckets unused for this long are dropped
	Exempt          map[netip.Addr]bool
	Blocked         map[netip.Addr]bool
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment
// variables. Unparseable values fall back to the defaults.
func LoadConfig() *Config {
	if !envOr("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled: true,
		Default: Rule{
			Name:   "default",
			Limit:  envOr("RATE_LIMIT_DEFAULT_LIMIT", 1000, strconv.Atoi),
			Window: envOr("RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		},
		Rules:           DefaultRules(),
		CleanupInterval: envOr("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		IdleTimeout:     envOr("RATE_LIMIT_IDLE_TIMEOUT", time.Hour, time.ParseDuration),
		Exempt:          parseAddrs(os.Getenv("RATE_LIMIT_EXEMPT")),
		Blocked:         parseAddrs(os.Getenv("RATE_LIMIT_BLOCKED")),
	}
}

// DefaultRules returns the limits for the editor API. Model-backed calls share
// one bucket so a client cannot multiply its allowance across sessions.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "health", Patterns: []string{"GET /health"}},
		{
			Name:     "ai",
			Patterns: []string{"POST /sessions/{id}/assist/", "POST /sessions/{id}/analyze", "POST /sessions/{id}/highlights"},
			Limit:    30, Window: time.Minute, Burst: 5,
		},
		{Name: "parse", Patterns: []string{"POST /sessions/{id}/parse"}, Limit: 10, Window: time.Minute, Burst: 2},
		{
			Name:     "export",
			Patterns: []string{"GET /sessions/{id}/export/{format}", "GET /documents/{id}/exports/{format}"},
			Limit:    20, Window: time.Minute, Burst: 5,
		},
		{
			Name:     "persist",
			Patterns: []string{"POST /sessions", "POST /sessions/{id}/save", "DELETE /documents/{id}"},
			Limit:    60, Window: time.Minute, Burst: 10,
		},
		{
			Name: "edit",
			Patterns: []string{
				"POST /sessions/{id}/",
				"PUT /sessions/{id}/",
				"PATCH /sessions/{id}/",
				"DELETE /sessions/{id}/",
			},
			Limit: 600, Window: time.Minute, Burst: 60,
		},
	}
}

func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

// parseAddrs parses a comma-separated list of client IPs, skipping invalid entries.
func parseAddrs(list string) map[netip.Addr]bool {
	result := make(map[netip.Addr]bool)
	for _, entry := range strings.Split(list, ",") {
		addr, err := netip.ParseAddr(strings.TrimSpace(entry))
		if err != nil {
			continue
		}
		result[addr.Unmap()] = true
	}
	return result
}
