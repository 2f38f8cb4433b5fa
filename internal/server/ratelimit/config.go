package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern; "*" matches one segment, a trailing "/" matches a prefix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
// exportPerMinute is the limit applied to PDF exports; non-positive leaves
// exports on the default limit.
func LoadConfig(exportPerMinute int) *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	defaultLimit := getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000)
	defaultWindow := getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute)
	cleanupInterval := getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute)

	whitelist := parseIPList(getEnvString("RATE_LIMIT_WHITELIST", ""))
	blacklist := parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", ""))

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    defaultLimit,
		DefaultWindow:   defaultWindow,
		CleanupInterval: cleanupInterval,
		Whitelist:       whitelist,
		Blacklist:       blacklist,
		EndpointConfigs: DefaultEndpointConfigs(exportPerMinute),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs(exportPerMinute int) []EndpointConfig {
	var configs []EndpointConfig

	// Tier 1: PDF export launches a browser (strictest limits)
	if exportPerMinute > 0 {
		configs = append(configs, EndpointConfig{
			Path: "/v1/resumes/*/export", Method: "POST", Limit: exportPerMinute, Window: time.Minute, Burst: max(1, exportPerMinute/5),
		})
	}

	// Tier 2: Write operations (moderate limits)
	configs = append(configs,
		EndpointConfig{Path: "/v1/resumes", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		EndpointConfig{Path: "/v1/resumes/", Method: "PUT", Limit: 300, Window: time.Minute, Burst: 30},
		EndpointConfig{Path: "/v1/resumes/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		EndpointConfig{Path: "/v1/resumes/*/previews", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
	)

	// Tier 3: Read and navigation operations - handled by default limit
	// Tier 4: Health check (unlimited) - handled by special case in matcher
	return configs
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}
