package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-dashboard/analytics"
	"resume-dashboard/dataset"
	"resume-dashboard/export"
	"resume-dashboard/monitoring"
)

// ExportHandler streams the dataset as a downloadable file.
type ExportHandler struct {
	loader *dataset.Loader
}

func NewExportHandler(loader *dataset.Loader) *ExportHandler {
	return &ExportHandler{loader: loader}
}

type ExportRequest struct {
	Format  string             `json:"format" binding:"required"`
	Columns []string           `json:"columns"`
	Filter  analytics.Criteria `json:"filter"`
}

func (h *ExportHandler) ExportRecords(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contentType := export.ContentType(req.Format)
	if contentType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown export format %q", req.Format)})
		return
	}

	rs, err := h.loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	filtered := analytics.Filter(rs, req.Filter)

	for _, name := range req.Columns {
		if _, ok := dataset.LookupColumn(name); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown column %q", name)})
			return
		}
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(req.Format)))

	if err := export.Write(c.Writer, filtered, req.Format, req.Columns); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	monitoring.ExportsTotal.WithLabelValues(req.Format).Inc()
}
