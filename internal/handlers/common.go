package handlers

import (
	"github.com/SAP-F-2025/di-authoring-service/internal/services"
	"github.com/SAP-F-2025/di-authoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== REQUEST STRUCTURES =====

// CreateDraftRequest opens a new authoring session
type CreateDraftRequest struct {
	Type   string `json:"type" binding:"required"`
	Sample bool   `json:"sample"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) requestFields(c *gin.Context, additionalFields []interface{}) []interface{} {
	fields := []interface{}{
		"request_id", c.GetString(requestIDKey),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	return append(fields, additionalFields...)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := h.requestFields(c, additionalFields)
	fields = append(fields, "remote_addr", c.ClientIP())
	h.logger.Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	h.logger.LogError(err, message, h.requestFields(c, additionalFields)...)
}

func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	h.logger.Warn(message, h.requestFields(c, additionalFields)...)
}

func (h *BaseHandler) LogDebug(c *gin.Context, message string, additionalFields ...interface{}) {
	h.logger.Debug(message, h.requestFields(c, additionalFields)...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{Message: message, Code: services.ErrorCode(err)}
	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	// Client mistakes are warnings; only server faults are logged as errors
	switch {
	case err != nil && statusCode >= 500:
		h.LogError(c, err, message, "status_code", statusCode)
	case err != nil:
		h.LogWarn(c, message, "status_code", statusCode, "error", err)
	default:
		h.LogWarn(c, message, "status_code", statusCode)
	}

	c.JSON(statusCode, errorResp)
}

// RespondWithSuccess sends a consistent success response and logs it
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}, additionalFields ...interface{}) {
	fields := append([]interface{}{"status_code", statusCode}, additionalFields...)
	h.LogDebug(c, message, fields...)

	c.JSON(statusCode, SuccessResponse{Message: message, Data: data})
}
