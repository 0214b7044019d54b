package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sentinel-portal/service"
)

const (
	defaultMaxUploadBytes = 10 * 1024 * 1024

	// room for multipart boundaries and part headers around the file
	multipartOverhead = 64 * 1024
)

// AnalysisHandler handles statement uploads and run status
type AnalysisHandler struct {
	analysisService  *service.AnalysisService
	maxFileSize      int64
	allowedMimeTypes map[string]bool
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService, maxFileSize int64) *AnalysisHandler {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxUploadBytes
	}
	return &AnalysisHandler{
		analysisService: analysisService,
		maxFileSize:     maxFileSize,
		allowedMimeTypes: map[string]bool{
			"application/pdf":          true,
			"application/octet-stream": true,
		},
	}
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	limit := h.maxFileSize + multipartOverhead
	if c.Request.ContentLength > limit {
		h.respondTooLarge(c)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondTooLarge(c)
			return
		}
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}

	if fileHeader.Size > h.maxFileSize {
		h.respondTooLarge(c)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		// Try to infer from extension
		if strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
			mimeType = "application/pdf"
		} else {
			mimeType = "application/octet-stream"
		}
	}
	if !h.allowedMimeTypes[mimeType] {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only PDF uploads are supported.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return
	}
	defer file.Close()

	result, err := h.analysisService.Analyze(c.Request.Context(), service.AnalyzeRequest{
		Filename:  fileHeader.Filename,
		Statement: file,
	})
	if err != nil {
		_ = c.Error(err)

		var upstreamErr *service.UpstreamError
		switch {
		case errors.As(err, &upstreamErr):
			respondError(c, http.StatusBadGateway, "ANALYSIS_FAILED", upstreamErr.Error())
		case errors.Is(err, service.ErrUpstreamFailed):
			respondError(c, http.StatusBadGateway, "ANALYSIS_FAILED", err.Error())
		case errors.Is(err, service.ErrStagingFailed):
			respondError(c, http.StatusInternalServerError, "STAGING_FAILED", err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		}
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"run":      result.Run,
		"decision": result.Decision,
		"view":     result.View,
	})
}

func (h *AnalysisHandler) respondTooLarge(c *gin.Context) {
	respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE",
		fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize))
}

// GetRun handles GET /api/runs/:id
func (h *AnalysisHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid run ID format")
		return
	}

	result, err := h.analysisService.GetRun(c.Request.Context(), service.GetRunRequest{RunID: id})
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "Analysis run not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "RETRIEVAL_FAILED", err.Error())
		return
	}

	respondData(c, http.StatusOK, result.Run)
}
