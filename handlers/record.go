package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resume-dashboard/analytics"
	"resume-dashboard/dataset"
	"resume-dashboard/models"
	"resume-dashboard/utils"
)

const (
	recordTopic = "record_events"
	recordIndex = "records"
)

// RecordHandler serves record entry and retrieval. Kafka and Elasticsearch
// are optional: nil clients disable events and index maintenance.
type RecordHandler struct {
	repo   models.Repository
	loader *dataset.Loader
	kafka  utils.KafkaProducer
	es     utils.ElasticsearchClient
}

func NewRecordHandler(repo models.Repository, loader *dataset.Loader, kafka utils.KafkaProducer, es utils.ElasticsearchClient) *RecordHandler {
	return &RecordHandler{
		repo:   repo,
		loader: loader,
		kafka:  kafka,
		es:     es,
	}
}

func (h *RecordHandler) ListRecords(c *gin.Context) {
	rs, err := h.loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   rs.Len(),
		"records": rs.Rows(),
	})
}

func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var rec models.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.CreateRecord(&rec); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrValidation) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.loader.Invalidate(c.Request.Context())

	if h.kafka != nil {
		go h.sendRecordEvent("record_created", &rec)
	}
	if h.es != nil {
		go h.indexRecord(&rec)
	}

	c.JSON(http.StatusCreated, rec)
}

func (h *RecordHandler) RecentRecords(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	recs, err := h.repo.LatestRecords(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(recs),
		"records": recs,
	})
}

// QueryRecords filters the loaded dataset by criteria from the request body.
func (h *RecordHandler) QueryRecords(c *gin.Context) {
	var criteria analytics.Criteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rs, err := h.loader.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filtered := analytics.Filter(rs, criteria)
	c.JSON(http.StatusOK, gin.H{
		"total":   rs.Len(),
		"count":   filtered.Len(),
		"records": dataset.Records(filtered),
	})
}

// SearchRecords runs a full-text query against the Elasticsearch index,
// falling back to the in-memory substring filter when no index is wired.
func (h *RecordHandler) SearchRecords(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter is required"})
		return
	}

	if h.es == nil {
		rs, err := h.loader.Load(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		filtered := analytics.Filter(rs, analytics.Criteria{Search: q})
		c.JSON(http.StatusOK, gin.H{
			"count":   filtered.Len(),
			"records": dataset.Records(filtered),
		})
		return
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q,
				"fields": []string{"*"},
			},
		},
	}
	hits, err := h.es.SearchRecords(c.Request.Context(), recordIndex, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(hits),
		"records": hits,
	})
}

func (h *RecordHandler) sendRecordEvent(eventType string, rec *models.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := map[string]interface{}{
		"event":             eventType,
		"id":                rec.ID,
		"healthcare_role":   rec.HealthcareRole,
		"employment_status": rec.EmploymentStatus,
	}
	jsonData, err := json.Marshal(event)
	if err != nil {
		slog.Warn("marshal kafka event failed", "error", err)
		return
	}
	if err := h.kafka.SendMessage(ctx, recordTopic, nil, jsonData); err != nil {
		slog.Warn("send kafka event failed", "error", err)
	}
}

func (h *RecordHandler) indexRecord(rec *models.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id := fmt.Sprintf("%d", rec.ID)
	if err := h.es.IndexRecord(ctx, recordIndex, id, rec); err != nil {
		slog.Warn("index record failed", "id", rec.ID, "error", err)
	}
}
