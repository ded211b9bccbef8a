package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"resume-dashboard/config"
	"resume-dashboard/dataset"
	"resume-dashboard/handlers"
	"resume-dashboard/middleware"
	"resume-dashboard/models"
	"resume-dashboard/monitoring"
	"resume-dashboard/utils"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load(os.Getenv("RESUME_CONFIG"))
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.LogLevel)

	if cfg.SentryDSN != "" {
		if err := utils.InitSentry(cfg.SentryDSN, cfg.Environment, version); err != nil {
			slog.Warn("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	repo, err := models.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		slog.Error("open database failed", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	cache := buildCache(cfg)
	loader := dataset.NewLoader(repo, cache)

	var kafka utils.KafkaProducer
	if cfg.KafkaBroker != "" {
		if kafka, err = utils.NewKafkaProducer(cfg.KafkaBroker); err != nil {
			slog.Warn("kafka unavailable, events disabled", "error", err)
			kafka = nil
		} else {
			defer kafka.Close()
		}
	}

	var es utils.ElasticsearchClient
	if cfg.ElasticURL != "" {
		if es, err = utils.NewElasticsearchClient(cfg.ElasticURL); err != nil {
			slog.Warn("elasticsearch unavailable, search index disabled", "error", err)
			es = nil
		} else {
			defer es.Close()
		}
	}

	monitoring.Init()

	recordHandler := handlers.NewRecordHandler(repo, loader, kafka, es)
	analysisHandler := handlers.NewAnalysisHandler(loader)
	exportHandler := handlers.NewExportHandler(loader)
	adminHandler := handlers.NewAdminHandler(repo, loader, es, cfg.BackupDir)

	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		middleware.SentryMiddleware(),
		middleware.ErrorHandler(),
		middleware.PrometheusMetrics(),
	)

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			count, err := repo.CountRecords()
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok", "records": count})
		})

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
	}

	router.GET("/metrics", gin.WrapH(monitoring.Handler()))

	slog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// buildCache prefers Redis when configured, retrying briefly before falling
// back to the in-process cache.
func buildCache(cfg *config.Config) dataset.Cache {
	if cfg.RedisAddr == "" {
		return dataset.NewMemoryCache(cfg.CacheTTL)
	}

	var client utils.RedisClient
	var err error
	for i := 0; i < 3; i++ {
		client, err = utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err == nil {
			return dataset.NewRedisCache(client, cfg.CacheTTL)
		}
		time.Sleep(time.Second)
	}
	slog.Warn("redis unavailable, using in-process cache", "error", err)
	return dataset.NewMemoryCache(cfg.CacheTTL)
}
