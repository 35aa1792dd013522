package pkg

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/di-authoring-service/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), &config.Config{RedisURL: "http://not-redis"})
	assert.ErrorContains(t, err, "invalid REDIS_URL")
}
