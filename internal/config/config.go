package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Key-value backend
	Backend     string // memory, redis, pebble, sqlite or postgres
	RedisURL    string
	DatabaseURL string
	SQLitePath  string
	PebbleDir   string
	KVTimeout   time.Duration

	// Scroll
	Window       int    // hour buckets covered by a seek
	ChannelScope string // "window" or "all"

	// Rate limiting
	RateLimitWhitelist []string // IPs or CIDRs exempt from rate limiting
	AutoBlockEnabled   bool     // Enable auto-blocking after repeated violations
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics when the backend cannot persist data.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Backend:          getEnv("KV_BACKEND", "memory"),
		RedisURL:         os.Getenv("REDIS_URL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       os.Getenv("SQLITE_PATH"),
		PebbleDir:        os.Getenv("PEBBLE_DIR"),
		KVTimeout:        getDuration("KV_TIMEOUT", 5*time.Second),
		Window:           getInt("SCROLL_WINDOW", 24),
		ChannelScope:     getEnv("CHANNEL_SCOPE", "window"),
		AutoBlockEnabled: getEnv("AUTO_BLOCK_ENABLED", "false") == "true",
	}

	// Parse whitelist (comma-separated IPs or CIDRs)
	if whitelist := os.Getenv("RATE_LIMIT_WHITELIST"); whitelist != "" {
		for _, entry := range strings.Split(whitelist, ",") {
			entry = strings.TrimSpace(entry)
			if entry != "" {
				cfg.RateLimitWhitelist = append(cfg.RateLimitWhitelist, entry)
			}
		}
	}

	if cfg.Env == "production" {
		if cfg.Backend == "memory" {
			panic("KV_BACKEND=memory is not allowed in production")
		}
		if cfg.Backend == "redis" && cfg.RedisURL == "" {
			panic("REDIS_URL is required for the redis backend")
		}
		if cfg.Backend == "postgres" && cfg.DatabaseURL == "" {
			panic("DATABASE_URL is required for the postgres backend")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
