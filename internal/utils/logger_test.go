package utils

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestLogRequest_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusConflict, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		newBufferLogger(&buf).LogRequest("GET", "/health", tt.status, "1ms")
		assert.Contains(t, buf.String(), tt.level)
		assert.Contains(t, buf.String(), "path=/health")
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	newBufferLogger(&buf).With("draft_id", "d1").LogError(errors.New("boom"), "Export failed")

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "draft_id=d1")
}

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer

	router := gin.New()
	router.Use(LoggerMiddleware(newBufferLogger(&buf)))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, buf.String(), "status_code=204")
	assert.Contains(t, buf.String(), "request_id=req-1")
}
