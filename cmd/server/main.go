package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/di-authoring-service/internal/cache"
	"github.com/SAP-F-2025/di-authoring-service/internal/config"
	"github.com/SAP-F-2025/di-authoring-service/internal/handlers"
	"github.com/SAP-F-2025/di-authoring-service/internal/services"
	"github.com/SAP-F-2025/di-authoring-service/internal/utils"
	"github.com/SAP-F-2025/di-authoring-service/internal/validator"
	"github.com/SAP-F-2025/di-authoring-service/pkg"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	previewCache, closeCache := newPreviewCache(ctx, cfg, logger)
	defer closeCache()

	eventPublisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := eventPublisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	v := validator.New()
	draftService := services.NewDraftService(services.DraftServiceDeps{
		Validator:      v,
		ImportExport:   services.NewImportExportService(logger, v),
		Uploads:        services.NewUploadService(cfg.MaxImageBytes, logger),
		Previews:       services.NewPreviewService(previewCache, cfg.PreviewCacheTTL, logger),
		EventPublisher: eventPublisher,
		Logger:         logger,
	})

	go services.RunIdleSweeper(ctx, draftService, max(cfg.SessionIdleTTL/4, time.Second), cfg.SessionIdleTTL)

	hm := handlers.NewHandlerManager(draftService, cfg.AllowedOrigins, utils.NewSlogLogger(logger))
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           hm.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

// newPreviewCache uses Redis when REDIS_URL is set and an in-process cache
// otherwise.
func newPreviewCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.CacheService, func()) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, using in-memory preview cache")
		return cache.NewMemoryCache(), func() {}
	}

	client, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory preview cache", "error", err)
		return cache.NewMemoryCache(), func() {}
	}

	zapLogger, err := utils.NewZapLogger(cfg.IsProduction())
	if err != nil {
		logger.Warn("Failed to create cache logger", "error", err)
		zapLogger = zap.NewNop()
	}

	return cache.NewRedisCache(client, zapLogger, "di:"), func() {
		_ = zapLogger.Sync()
		if err := client.Close(); err != nil {
			logger.Error("Failed to close redis client", "error", err)
		}
	}
}
