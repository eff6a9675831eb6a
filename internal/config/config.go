// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all environment-derived settings for the service.
// Loaded once at boot; never mutated afterward.
type Config struct {
	Port                   int
	LogLevel               string
	APIKey                 string
	MaxFileSize            int64
	MaxDocumentConcurrency int
	RequestTimeout         time.Duration
	DefaultAuthorName      string
	DefaultAuthorEmail     string
	RedisAddr              string
	Env                    string
}

const (
	defaultPort                   = 3000
	defaultMaxFileSize            = 50 << 20 // 50 MiB
	defaultMaxDocumentConcurrency = 4
	defaultRequestTimeoutMS       = 120_000
	defaultAuthorName             = "Redline Service"
	defaultAuthorEmail            = "redline-service@example.com"
)

// Load reads the environment and validates it. The process MUST refuse to
// start without API_KEY, mirroring the teacher's fail-fast boot checks.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                   envInt("PORT", defaultPort),
		LogLevel:               envString("LOG_LEVEL", "info"),
		APIKey:                 os.Getenv("API_KEY"),
		MaxFileSize:            envInt64("MAX_FILE_SIZE", defaultMaxFileSize),
		MaxDocumentConcurrency: envInt("MAX_DOCUMENT_CONCURRENCY", defaultMaxDocumentConcurrency),
		RequestTimeout:         time.Duration(envInt("REQUEST_TIMEOUT_MS", defaultRequestTimeoutMS)) * time.Millisecond,
		DefaultAuthorName:      envString("DEFAULT_AUTHOR_NAME", defaultAuthorName),
		DefaultAuthorEmail:     envString("DEFAULT_AUTHOR_EMAIL", defaultAuthorEmail),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		Env:                    envString("ENV", "prod"),
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("config: API_KEY is required")
	}
	if cfg.MaxDocumentConcurrency <= 0 {
		return nil, fmt.Errorf("config: MAX_DOCUMENT_CONCURRENCY must be positive")
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("config: MAX_FILE_SIZE must be positive")
	}

	return cfg, nil
}

func envString(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(name string, def int64) int64 {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}
