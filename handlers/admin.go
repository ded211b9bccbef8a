package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resume-dashboard/dataset"
	"resume-dashboard/models"
	"resume-dashboard/seed"
	"resume-dashboard/utils"
)

// AdminHandler covers the destructive and maintenance operations: clearing,
// bulk replace, backups and synthetic seeding.
type AdminHandler struct {
	repo      models.Repository
	loader    *dataset.Loader
	es        utils.ElasticsearchClient
	backupDir string
}

func NewAdminHandler(repo models.Repository, loader *dataset.Loader, es utils.ElasticsearchClient, backupDir string) *AdminHandler {
	return &AdminHandler{
		repo:      repo,
		loader:    loader,
		es:        es,
		backupDir: backupDir,
	}
}

func (h *AdminHandler) ClearRecords(c *gin.Context) {
	var ids []uint
	if h.es != nil {
		if recs, err := h.repo.LoadRecords(); err == nil {
			for i := range recs {
				ids = append(ids, recs[i].ID)
			}
		}
	}

	if err := h.repo.ClearRecords(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.loader.Invalidate(c.Request.Context())

	if h.es != nil {
		go h.dropFromIndex(ids)
	}

	c.Status(http.StatusNoContent)
}

// ReplaceRecords swaps the whole dataset for the posted records, all-or-nothing.
func (h *AdminHandler) ReplaceRecords(c *gin.Context) {
	var recs []models.Record
	if err := c.ShouldBindJSON(&recs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for i := range recs {
		if err := recs[i].Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("record %d: %s", i, err.Error())})
			return
		}
	}

	if err := h.repo.ReplaceRecords(recs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.loader.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"count": len(recs)})
}

func (h *AdminHandler) Backup(c *gin.Context) {
	path, err := h.repo.Backup(h.backupDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

// SeedRecords appends synthetic records for demos. Count defaults to 500.
func (h *AdminHandler) SeedRecords(c *gin.Context) {
	count := 500
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be a positive integer"})
			return
		}
		count = n
	}

	recs := seed.Generate(count, time.Now().UnixNano())
	for i := range recs {
		if err := h.repo.CreateRecord(&recs[i]); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	h.loader.Invalidate(c.Request.Context())

	c.JSON(http.StatusCreated, gin.H{"count": count})
}

// Stats reports dataset size and per-column quality.
func (h *AdminHandler) Stats(c *gin.Context) {
	rs, err := h.loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   rs.Len(),
		"columns": dataset.Quality(rs),
	})
}

func (h *AdminHandler) dropFromIndex(ids []uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, id := range ids {
		if err := h.es.DeleteRecord(ctx, recordIndex, fmt.Sprintf("%d", id)); err != nil {
			slog.Warn("delete from index failed", "id", id, "error", err)
		}
	}
}
