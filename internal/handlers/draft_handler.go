package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/SAP-F-2025/di-authoring-service/internal/errors"
	"github.com/SAP-F-2025/di-authoring-service/internal/models"
	"github.com/SAP-F-2025/di-authoring-service/internal/services"
	"github.com/SAP-F-2025/di-authoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type DraftHandler struct {
	BaseHandler
	draftService services.DraftService
}

func NewDraftHandler(draftService services.DraftService, logger utils.Logger) *DraftHandler {
	return &DraftHandler{
		BaseHandler:  NewBaseHandler(logger),
		draftService: draftService,
	}
}

// CreateDraft opens an authoring session
// @Summary Create draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param draft body CreateDraftRequest true "Question type and whether to start from the sample"
// @Success 201 {object} services.DraftSnapshot
// @Failure 400 {object} ErrorResponse
// @Router /drafts [post]
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	h.LogRequest(c, "Creating draft", "type", req.Type, "sample", req.Sample)

	snap, err := h.draftService.Create(c.Request.Context(), models.QuestionType(req.Type), req.Sample)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snap)
}

// GetDraft returns the current state of a draft together with its gate result
// @Summary Get draft
// @Tags drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} services.DraftSnapshot
// @Failure 404 {object} ErrorResponse
// @Router /drafts/{id} [get]
func (h *DraftHandler) GetDraft(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.draftService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// ReplaceDraft swaps the whole draft for the posted {type, question} document
// @Summary Replace draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Success 200 {object} services.DraftSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /drafts/{id} [put]
func (h *DraftHandler) ReplaceDraft(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	data, err := c.GetRawData()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	h.LogRequest(c, "Replacing draft", "draft_id", id, "bytes", len(data))

	snap, err := h.draftService.Replace(c.Request.Context(), id, data)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// DeleteDraft discards a draft
// @Summary Delete draft
// @Tags drafts
// @Param id path string true "Draft ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /drafts/{id} [delete]
func (h *DraftHandler) DeleteDraft(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Discarding draft", "draft_id", id)

	if err := h.draftService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// EditDraft applies one editor command
// @Summary Edit draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param id path string true "Draft ID"
// @Param edit body services.EditCommand true "Edit command"
// @Success 200 {object} services.DraftSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /drafts/{id}/edits [post]
func (h *DraftHandler) EditDraft(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var cmd services.EditCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	h.LogDebug(c, "Editing draft", "draft_id", id, "op", cmd.Op)

	snap, err := h.draftService.Edit(c.Request.Context(), id, cmd)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// PreviewDraft renders the read-only view of a complete draft
// @Summary Preview draft
// @Tags drafts
// @Produce json
// @Param id path string true "Draft ID"
// @Param sortBy query string false "Table Analysis sort column"
// @Success 200 {object} services.PreviewView
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /drafts/{id}/preview [get]
func (h *DraftHandler) PreviewDraft(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var opts services.PreviewOptions
	if sortBy, ok := c.GetQuery("sortBy"); ok {
		opts.SortBy = &sortBy
	}

	view, err := h.draftService.Preview(c.Request.Context(), id, opts)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ===== ERROR MAPPING =====

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	if incomplete, ok := services.IsIncomplete(err); ok {
		h.RespondWithError(c, http.StatusConflict, "Draft is incomplete", err, incomplete.Completeness)
		return
	}

	var uploadErr *apperrors.UploadRejectedError
	if errors.As(err, &uploadErr) {
		status := http.StatusUnsupportedMediaType
		if uploadErr.TooLarge() {
			status = http.StatusRequestEntityTooLarge
		}
		h.RespondWithError(c, status, "Upload rejected", err, uploadErr)
		return
	}

	var parseErr *apperrors.ParseError
	if errors.As(err, &parseErr) {
		details := map[string]interface{}{
			"format": parseErr.Format,
			"line":   parseErr.Line,
			"reason": parseErr.Message,
		}
		var validationErrors services.ValidationErrors
		if errors.As(err, &validationErrors) {
			details["fields"] = validationErrors
		}
		h.RespondWithError(c, http.StatusBadRequest, "Invalid file", err, details)
		return
	}

	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, validationErrors)
		return
	}

	var preconditionErr *apperrors.PreconditionError
	if errors.As(err, &preconditionErr) {
		h.RespondWithError(c, http.StatusConflict, "Edit not allowed", err, preconditionErr)
		return
	}

	switch {
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Draft not found", err)
	case services.IsValidation(err), services.IsBadRequest(err):
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request", err, err.Error())
	case errors.Is(err, services.ErrStaleDraft):
		h.RespondWithError(c, http.StatusConflict, "Draft was replaced while loading", err)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, "Operation not allowed for this draft", err, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.RespondWithError(c, http.StatusRequestTimeout, "Request cancelled", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", fmt.Errorf("%w: %w", services.ErrInternalError, err))
	}
}
