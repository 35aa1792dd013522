package config

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SAP-F-2025/di-authoring-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"PORT", "REDIS_URL", "ENVIRONMENT", "MAX_IMAGE_BYTES", "PREVIEW_CACHE_TTL", "SESSION_IDLE_TTL", "ALLOWED_ORIGINS", "EVENTS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, int64(DefaultMaxImageBytes), cfg.MaxImageBytes)
	assert.Equal(t, 10*time.Minute, cfg.PreviewCacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.Events.Enabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("MAX_IMAGE_BYTES", "1024")
	t.Setenv("PREVIEW_CACHE_TTL", "30s")
	t.Setenv("SESSION_IDLE_TTL", "45m")
	t.Setenv("ALLOWED_ORIGINS", " https://admin.example.com , ")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, int64(1024), cfg.MaxImageBytes)
	assert.Equal(t, 30*time.Second, cfg.PreviewCacheTTL)
	assert.Equal(t, 45*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, []string{"https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.GetKafkaBrokers())
}

func TestLoadConfig_InvalidNumbersFallBack(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MAX_IMAGE_BYTES", "lots")
	t.Setenv("PREVIEW_CACHE_TTL", "-5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultMaxImageBytes), cfg.MaxImageBytes)
	assert.Equal(t, 10*time.Minute, cfg.PreviewCacheTTL)
}

func TestCreateEventPublisher_Selection(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		cfg  EventConfig
		want events.EventPublisher
	}{
		{"disabled", EventConfig{Enabled: false, Publisher: "kafka"}, &events.NoopEventPublisher{}},
		{"defaults", EventConfig{Publisher: "mock"}, &events.NoopEventPublisher{}},
		{"explicit mock", EventConfig{Enabled: true, Publisher: "mock"}, &events.MockEventPublisher{}},
		{"unknown", EventConfig{Enabled: true, Publisher: "carrier-pigeon"}, &events.NoopEventPublisher{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher, err := tt.cfg.CreateEventPublisher(logger)
			require.NoError(t, err)
			assert.IsType(t, tt.want, publisher)
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
