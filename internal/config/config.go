package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultMaxImageBytes is the largest accepted image upload.
const DefaultMaxImageBytes = 5 * 1024 * 1024

type Config struct {
	Port            string
	RedisURL        string
	Environment     string
	MaxImageBytes   int64
	PreviewCacheTTL time.Duration
	SessionIdleTTL  time.Duration
	AllowedOrigins  []string
	Events          EventConfig
}

// LoadConfig reads .env when present and falls back to defaults for every
// unset variable.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		RedisURL:        getEnv("REDIS_URL", ""),
		Environment:     getEnv("ENVIRONMENT", "development"),
		MaxImageBytes:   getEnvInt64("MAX_IMAGE_BYTES", DefaultMaxImageBytes),
		PreviewCacheTTL: getEnvDuration("PREVIEW_CACHE_TTL", 10*time.Minute),
		SessionIdleTTL:  getEnvDuration("SESSION_IDLE_TTL", 2*time.Hour),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		Events: EventConfig{
			Enabled:      getEnv("EVENTS_ENABLED", "false") == "true",
			Publisher:    getEnv("EVENTS_PUBLISHER", "mock"),
			KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			Topic:        getEnv("AUTHORING_TOPIC", "authoring-events"),
		},
	}, nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
