package handlers

import (
	"net/http"
	"time"

	"github.com/SAP-F-2025/di-authoring-service/internal/services"
	"github.com/SAP-F-2025/di-authoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	draftHandler    *DraftHandler
	transferHandler *TransferHandler
	draftService    services.DraftService
	allowedOrigins  []string
	logger          utils.Logger
}

func NewHandlerManager(draftService services.DraftService, allowedOrigins []string, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		draftHandler:    NewDraftHandler(draftService, logger),
		transferHandler: NewTransferHandler(draftService, logger),
		draftService:    draftService,
		allowedOrigins:  allowedOrigins,
		logger:          logger,
	}
}

// NewRouter builds the engine with middleware and every route installed.
func (hm *HandlerManager) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), utils.LoggerMiddleware(hm.logger))
	if len(hm.allowedOrigins) > 0 {
		router.Use(CORS(hm.allowedOrigins))
	}
	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		drafts := v1.Group("/drafts")
		{
			drafts.POST("", hm.draftHandler.CreateDraft)
			drafts.GET("/:id", hm.draftHandler.GetDraft)
			drafts.PUT("/:id", hm.draftHandler.ReplaceDraft)
			drafts.DELETE("/:id", hm.draftHandler.DeleteDraft)
			drafts.POST("/:id/edits", hm.draftHandler.EditDraft)
			drafts.GET("/:id/preview", hm.draftHandler.PreviewDraft)

			// Files
			drafts.POST("/:id/import", hm.transferHandler.ImportFile)
			drafts.POST("/:id/image", hm.transferHandler.UploadImage)
			drafts.GET("/:id/export/:format", hm.transferHandler.ExportDraft)
		}

		verbal := v1.Group("/verbal")
		{
			verbal.POST("/import", hm.transferHandler.ImportVerbal)
		}
	}
}

// HealthCheck provides a simple health check endpoint
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "di-authoring-service",
		"drafts":    hm.draftService.Count(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
