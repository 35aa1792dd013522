package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/di-authoring-service/internal/models"
	"github.com/SAP-F-2025/di-authoring-service/internal/services"
	"github.com/SAP-F-2025/di-authoring-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// TransferHandler moves drafts in and out of files: JSON and CSV import,
// image upload, JSON/CSV/XLSX export and the verbal question sheet import.
type TransferHandler struct {
	BaseHandler
	draftService services.DraftService
}

func NewTransferHandler(draftService services.DraftService, logger utils.Logger) *TransferHandler {
	return &TransferHandler{
		BaseHandler:  NewBaseHandler(logger),
		draftService: draftService,
	}
}

// ExportDraft downloads a complete draft
// @Summary Export draft
// @Tags transfer
// @Produce octet-stream
// @Param id path string true "Draft ID"
// @Param format path string true "json, csv or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /drafts/{id}/export/{format} [get]
func (h *TransferHandler) ExportDraft(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	format := models.ExportFormat(c.Param("format"))

	h.LogRequest(c, "Exporting draft", "draft_id", id, "format", format)

	file, err := h.draftService.Export(c.Request.Context(), id, format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// ImportFile loads a .json question or a .csv table into a draft
// @Summary Import file
// @Tags transfer
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Draft ID"
// @Param file formData file true "Question JSON or table CSV"
// @Param source formData int false "Multi-Source tab that receives a CSV table"
// @Success 200 {object} services.DraftSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /drafts/{id}/import [post]
func (h *TransferHandler) ImportFile(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	sourceID, ok := parseSourceField(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", nil, err.Error())
		return
	}
	f, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unable to read file", err)
		return
	}
	defer f.Close()

	h.LogRequest(c, "Importing file", "draft_id", id, "file_name", header.Filename, "size", header.Size)

	snap, err := h.draftService.Import(c.Request.Context(), id, header.Filename, sourceID, f)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// UploadImage attaches a PNG, JPEG or GIF to a draft
// @Summary Upload image
// @Tags transfer
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Draft ID"
// @Param image formData file true "Graph or source image"
// @Param source formData int false "Multi-Source tab that receives the image"
// @Success 200 {object} services.DraftSnapshot
// @Failure 413 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Router /drafts/{id}/image [post]
func (h *TransferHandler) UploadImage(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	sourceID, ok := parseSourceField(c)
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Image is required", nil, err.Error())
		return
	}
	f, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unable to read image", err)
		return
	}
	defer f.Close()

	contentType := header.Header.Get("Content-Type")
	h.LogRequest(c, "Uploading image", "draft_id", id, "content_type", contentType, "size", header.Size)

	snap, err := h.draftService.AttachImage(c.Request.Context(), id, sourceID, f, contentType, header.Size)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// ImportVerbal parses a verbal question sheet (.csv, .xlsx or .xls)
// @Summary Import verbal questions
// @Tags transfer
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Question sheet"
// @Success 200 {object} SuccessResponse{data=models.ImportSummary}
// @Failure 400 {object} ErrorResponse
// @Router /verbal/import [post]
func (h *TransferHandler) ImportVerbal(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", nil, err.Error())
		return
	}
	f, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unable to read file", err)
		return
	}
	defer f.Close()

	h.LogRequest(c, "Importing verbal questions", "file_name", header.Filename, "size", header.Size)

	summary, err := h.draftService.ImportVerbal(c.Request.Context(), f, header.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	message := "Import completed successfully"
	if summary.ErrorCount > 0 {
		message = fmt.Sprintf("Import completed with %d errors", summary.ErrorCount)
	}
	h.RespondWithSuccess(c, http.StatusOK, message, summary, "imported", summary.SuccessCount)
}
