package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service   string
	Component string
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation, draftID string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		// Client mistakes are not service failures
		switch {
		case IsNotFound(err):
			level = slog.LevelInfo
			status = "not_found"
		case IsBadRequest(err):
			level = slog.LevelWarn
			status = "invalid_input"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		case apperrors.IsUploadRejected(err):
			level = slog.LevelWarn
			status = "upload_rejected"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("draft_id", draftID),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		if ve, ok := err.(ValidationErrors); ok {
			attrs = append(attrs, slog.Int("validation_errors_count", len(ve)))
		}
		if ie, ok := IsIncomplete(err); ok {
			attrs = append(attrs, slog.Any("missing", ie.Completeness.Missing))
		}
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

func (l *ServiceLogger) LogValidationError(ctx context.Context, operation string, validationErrors ValidationErrors) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.Int("error_count", len(validationErrors)),
	}

	for i, err := range validationErrors {
		if i >= 5 {
			break
		}
		attrs = append(attrs, slog.Group(fmt.Sprintf("error_%d", i+1),
			slog.String("field", err.Field),
			slog.String("message", err.Message),
			slog.Any("value", err.Value),
		))
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Validation failed", attrs...)
}

// ===== CONTEXT HELPERS =====

type contextKey string

// RequestIDKey is the context key under which handlers store the request id
const RequestIDKey contextKey = "request_id"

// ContextualLogger times one operation and logs its outcome
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	draftID   string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation, draftID string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		draftID:   draftID,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(err error) {
	cl.logger.LogOperation(cl.ctx, cl.operation, cl.draftID, time.Since(cl.startTime), err)

	if validationErrors, ok := err.(ValidationErrors); ok {
		cl.logger.LogValidationError(cl.ctx, cl.operation, validationErrors)
	}
}
