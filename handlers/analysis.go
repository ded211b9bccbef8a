package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-dashboard/analytics"
	"resume-dashboard/dataset"
)

// AnalysisHandler runs analysis modes over the (optionally filtered) dataset.
type AnalysisHandler struct {
	loader *dataset.Loader
}

func NewAnalysisHandler(loader *dataset.Loader) *AnalysisHandler {
	return &AnalysisHandler{loader: loader}
}

// AnalysisRequest names the mode and carries optional filter criteria plus
// per-mode parameters.
type AnalysisRequest struct {
	Mode   string             `json:"mode" binding:"required"`
	Filter analytics.Criteria `json:"filter"`
	Params analytics.Params   `json:"params"`
}

func (h *AnalysisHandler) RunAnalysis(c *gin.Context) {
	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rs, err := h.loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := analytics.Analyze(analytics.Filter(rs, req.Filter), req.Mode, req.Params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
