package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-dashboard/dataset"
	"resume-dashboard/models"
)

func intPtr(v int) *int { return &v }

func setupRouter(t *testing.T) (*gin.Engine, models.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := models.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	loader := dataset.NewLoader(repo, dataset.NewMemoryCache(time.Minute))

	recordHandler := NewRecordHandler(repo, loader, nil, nil)
	analysisHandler := NewAnalysisHandler(loader)
	exportHandler := NewExportHandler(loader)
	adminHandler := NewAdminHandler(repo, loader, nil, t.TempDir())

	router := gin.New()
	api := router.Group("/api/v1")
	api.GET("/records", recordHandler.ListRecords)
	api.POST("/records", recordHandler.CreateRecord)
	api.PUT("/records", adminHandler.ReplaceRecords)
	api.DELETE("/records", adminHandler.ClearRecords)
	api.GET("/records/recent", recordHandler.RecentRecords)
	api.GET("/records/search", recordHandler.SearchRecords)
	api.POST("/records/query", recordHandler.QueryRecords)
	api.POST("/analysis", analysisHandler.RunAnalysis)
	api.POST("/export", exportHandler.ExportRecords)
	api.GET("/stats", adminHandler.Stats)
	api.POST("/admin/backup", adminHandler.Backup)
	api.POST("/admin/seed", adminHandler.SeedRecords)

	return router, repo
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedRecords(t *testing.T, repo models.Repository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		rec := models.Record{
			Age: 25 + i, Sex: "Female", EmploymentStatus: "Full-time", HealthcareRole: "Nurse",
			Department:      "Emergency",
			WorkStressLevel: intPtr(i % 11),
			BurnoutLevel:    intPtr((i * 3) % 11),
			SocialIsolation: intPtr((i * 7) % 11),
			TimeToCrisis:    intPtr(30 + i*10),
			CrisisEvent:     intPtr(i % 2),
			ObservationDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
		}
		require.NoError(t, repo.CreateRecord(&rec))
	}
}

func TestCreateRecord(t *testing.T) {
	router, repo := setupRouter(t)

	body := map[string]any{
		"age": 34, "sex": "Female", "employment_status": "Full-time",
		"healthcare_role": "Nurse", "burnout_level": 7,
	}
	w := doJSON(t, router, http.MethodPost, "/api/v1/records", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	n, err := repo.CountRecords()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCreateRecordInvalidAge(t *testing.T) {
	router, repo := setupRouter(t)

	body := map[string]any{
		"age": 15, "sex": "Female", "employment_status": "Full-time", "healthcare_role": "Nurse",
	}
	w := doJSON(t, router, http.MethodPost, "/api/v1/records", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	n, err := repo.CountRecords()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListRecords(t *testing.T) {
	router, repo := setupRouter(t)
	seedRecords(t, repo, 3)

	w := doJSON(t, router, http.MethodGet, "/api/v1/records", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int             `json:"count"`
		Records []models.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	assert.Len(t, resp.Records, 3)
}

func TestRecentRecords(t *testing.T) {
	router, repo := setupRouter(t)
	seedRecords(t, repo, 5)

	w := doJSON(t, router, http.MethodGet, "/api/v1/records/recent?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int             `json:"count"`
		Records []models.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	// Newest observation first.
	assert.Equal(t, 29, resp.Records[0].Age)
	assert.Equal(t, 28, resp.Records[1].Age)
}

func TestRecentRecordsBadLimit(t *testing.T) {
	router, _ := setupRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/v1/records/recent?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryRecords(t *testing.T) {
	router, repo := setupRouter(t)
	seedRecords(t, repo, 10)

	body := map[string]any{
		"ranges": map[string]any{
			"work_stress_level": map[string]float64{"min": 5, "max": 10},
		},
	}
	w := doJSON(t, router, http.MethodPost, "/api/v1/records/query", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total int `json:"total"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.Total)
	assert.Equal(t, 5, resp.Count)
}

func TestSearchFallsBackWithoutIndex(t *testing.T) {
	router, repo := setupRouter(t)
	seedRecords(t, repo, 4)

	w := doJSON(t, router, http.MethodGet, "/api/v1/records/search?q=emergency", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
}

func TestRunAnalysisDescriptive(t *testing.T) {
	router, repo := setupRouter(t)
	seedRecords(t, repo, 6)

	w := doJSON(t, router, http.MethodPost, "/api/v1/analysis", map[string]any{"mode": "descriptive"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Mode      string `json:"mode"`
		Available bool   `json:"available"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "descriptive", resp.Mode)
	assert.True(t, resp.Available)
}

func TestRunAnalysisUnknownMode(t *testing.T) {
	router, _ := setupRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/v1/analysis", map[string]any{"mode": "astrology"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportCSV(t *testing.T) {
	router, repo := setupRouter(t)
	seedRecords(t, repo, 2)

	body := map[string]any{"format": "csv", "columns": []string{"age", "sex"}}
	w := doJSON(t, router, http.MethodPost, "/api/v1/export", body)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "resume_data.csv")
	assert.Contains(t, w.Body.String(), "age,sex")
}

func TestExportUnknownFormat(t *testing.T) {
	router, _ := setupRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/v1/export", map[string]any{"format": "xml"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearRecords(t *testing.T) {
	router, repo := setupRouter(t)
	seedRecords(t, repo, 3)

	w := doJSON(t, router, http.MethodDelete, "/api/v1/records", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	n, err := repo.CountRecords()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReplaceRecords(t *testing.T) {
	router, repo := setupRouter(t)
	seedRecords(t, repo, 2)

	body := []map[string]any{
		{"age": 50, "sex": "Male", "employment_status": "Part-time", "healthcare_role": "Doctor"},
	}
	w := doJSON(t, router, http.MethodPut, "/api/v1/records", body)
	require.Equal(t, http.StatusOK, w.Code)

	recs, err := repo.LoadRecords()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 50, recs[0].Age)
}

func TestReplaceRecordsRejectsInvalid(t *testing.T) {
	router, repo := setupRouter(t)
	seedRecords(t, repo, 2)

	body := []map[string]any{
		{"age": 50, "sex": "Male", "employment_status": "Part-time", "healthcare_role": "Doctor"},
		{"age": 12, "sex": "Male", "employment_status": "Part-time", "healthcare_role": "Doctor"},
	}
	w := doJSON(t, router, http.MethodPut, "/api/v1/records", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	n, err := repo.CountRecords()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n, "invalid payload must leave the store untouched")
}

func TestStats(t *testing.T) {
	router, repo := setupRouter(t)
	seedRecords(t, repo, 4)

	w := doJSON(t, router, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int                     `json:"count"`
		Columns []dataset.ColumnQuality `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Count)
	assert.NotEmpty(t, resp.Columns)
}

func TestBackup(t *testing.T) {
	router, repo := setupRouter(t)
	seedRecords(t, repo, 1)

	w := doJSON(t, router, http.MethodPost, "/api/v1/admin/backup", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Path string `json:"path"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.FileExists(t, resp.Path)
}

func TestSeedRecords(t *testing.T) {
	router, repo := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/admin/seed?count=20", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	n, err := repo.CountRecords()
	require.NoError(t, err)
	assert.EqualValues(t, 20, n)
}

func TestSeedRecordsBadCount(t *testing.T) {
	router, _ := setupRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/v1/admin/seed?count=-3", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
