package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sentinel-portal/memo"
)

// MemoHandler exposes the memo parser for previews and support tooling
type MemoHandler struct{}

// NewMemoHandler creates a new memo handler
func NewMemoHandler() *MemoHandler {
	return &MemoHandler{}
}

// ParseMemoRequest represents the request body for parsing a memo
type ParseMemoRequest struct {
	Text     string `json:"text"`
	Kind     string `json:"kind" binding:"required"`
	Bulleted bool   `json:"bulleted"`
}

// Parse handles POST /api/memos/parse
func (h *MemoHandler) Parse(c *gin.Context) {
	var req ParseMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	kind, err := memo.ParseKind(req.Kind)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_KIND", "kind must be compliance or advisory")
		return
	}

	rendered := memo.Render(req.Text, kind, req.Bulleted)
	respondData(c, http.StatusOK, gin.H{
		"kind":     kind,
		"labels":   memo.ExpectedLabels(kind),
		"sections": memo.Extract(req.Text, kind),
		"rendered": rendered,
		"empty":    len(rendered) == 0,
	})
}
