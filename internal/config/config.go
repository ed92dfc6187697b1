// Package config loads runtime configuration from environment
// variables with sensible defaults. CLI flags override these values.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the scrape engine.
type Config struct {
	Engine  EngineConfig
	Session SessionConfig
	Log     LogConfig
}

type EngineConfig struct {
	// SourceTimeout bounds each source task within a run.
	SourceTimeout time.Duration
}

type SessionConfig struct {
	// Proxies as a comma-separated list; each entry in any of the
	// accepted proxy formats.
	Proxies []string
	CACert  string
	// RequestDelay paces requests when no proxies are configured.
	RequestDelay time.Duration
	MaxAttempts  int
	BackoffBase  time.Duration
	BackoffCap   time.Duration
	Timeout      time.Duration
	UserAgent    string
}

type LogConfig struct {
	Encoding string
}

// Load creates a Config from environment variables with defaults.
func Load() *Config {
	return &Config{
		Engine: EngineConfig{
			SourceTimeout: time.Duration(getEnvInt("SOURCE_TIMEOUT_SEC", 120)) * time.Second,
		},
		Session: SessionConfig{
			Proxies:      getEnvList("PROXIES"),
			CACert:       getEnv("CA_CERT", ""),
			RequestDelay: time.Duration(getEnvInt("REQUEST_DELAY_MS", 2000)) * time.Millisecond,
			MaxAttempts:  getEnvInt("MAX_ATTEMPTS", 3),
			BackoffBase:  time.Duration(getEnvInt("BACKOFF_BASE_SEC", 30)) * time.Second,
			BackoffCap:   time.Duration(getEnvInt("BACKOFF_CAP_SEC", 600)) * time.Second,
			Timeout:      time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,
			UserAgent:    getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		},
		Log: LogConfig{
			Encoding: getEnv("LOG_ENCODING", "console"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
