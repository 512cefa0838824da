package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/cv-enhancer/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Path pattern: exact, "*" for one segment, trailing "/" for a prefix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// FromConfig builds the limiter configuration from the service configuration.
func FromConfig(c config.RateLimitConfig) *Config {
	if !c.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    c.DefaultLimit,
		DefaultWindow:   c.DefaultWindow,
		CleanupInterval: c.CleanupInterval,
		Whitelist:       parseIPList(c.Whitelist),
		Blacklist:       parseIPList(c.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model-backed and scraping operations
		{Path: "/api/cvs/*/analyze", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/cvs/*/enhance-for-job", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/cvs/*/customize", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/api/cvs/*/upload", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/cover-letters/generate-with-ai", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/cover-letters/extract-job-from-url", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// PDF compilation
		{Path: "/api/cvs/*/export", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},

		// Credential checks
		{Path: "/api/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/register", Method: "POST", Limit: 5, Window: time.Minute, Burst: 3},
		{Path: "/api/auth/password", Method: "PUT", Limit: 5, Window: time.Minute, Burst: 3},
	}
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
