package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// CORS
	CORSOrigins []string

	// Pipeline defaults
	DefaultLanguage string
	DefaultFormat   string

	// Upstream fetching
	UserAgent      string
	FetchTimeout   time.Duration
	RequestBudget  time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	// Optional Data API enrichment (video-info only; the extraction
	// pipeline never depends on a key).
	YouTubeAPIKey string

	// Redis
	EnableCache bool
	RedisURL    string

	// Rate Limiting
	RateLimitRequests int
	RateLimitWindow   int
	RateLimitBurst    int

	// Features
	EnableMetrics bool
}

func New() *Config {
	c := &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// CORS
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "*"), ","),

		// Pipeline defaults
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "fr"),
		DefaultFormat:   getEnv("DEFAULT_FORMAT", "srt"),

		// Upstream fetching
		UserAgent: getEnv("UPSTREAM_USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		FetchTimeout:   getEnvAsDuration("FETCH_TIMEOUT", 20*time.Second),
		RequestBudget:  getEnvAsDuration("REQUEST_BUDGET", 50*time.Second),
		MaxRetries:     getEnvAsInt("FETCH_MAX_RETRIES", 2),
		RetryBaseDelay: getEnvAsDuration("FETCH_RETRY_BASE_DELAY", time.Second),
		RetryMaxDelay:  getEnvAsDuration("FETCH_RETRY_MAX_DELAY", 5*time.Second),

		YouTubeAPIKey: getEnv("YOUTUBE_API_KEY", ""),

		// Redis
		EnableCache: getEnvAsBool("ENABLE_CACHE", false),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		// Rate Limiting
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 0),

		// Features
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}

	return c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
