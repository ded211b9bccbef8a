// Package config loads service configuration from environment variables and
// an optional resume.yaml file. Precedence: env vars > config file > defaults.
//
// Environment variables use the RESUME_ prefix with underscores for nesting,
// e.g. RESUME_DB_PATH, RESUME_CACHE_TTL, RESUME_REDIS_ADDR.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete service configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string `mapstructure:"port"`

	// DBPath is the SQLite database file. A single-user deployment keeps
	// everything in one local file.
	DBPath string `mapstructure:"db_path"`

	// BackupDir receives timestamped database copies.
	BackupDir string `mapstructure:"backup_dir"`

	// CacheTTL bounds how long a loaded table snapshot is reused before a
	// fresh read from the database.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// RedisAddr enables the Redis snapshot cache when non-empty.
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`

	// KafkaBroker enables record-event publishing when non-empty.
	KafkaBroker string `mapstructure:"kafka_broker"`

	// ElasticURL enables the optional search index when non-empty.
	ElasticURL string `mapstructure:"elastic_url"`

	// SentryDSN enables error capture when non-empty.
	SentryDSN string `mapstructure:"sentry_dsn"`

	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// Load reads configuration, searching ./resume.yaml if no explicit path is
// given. Defaults are always valid, so a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("RESUME")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Defaults registered before reading so AutomaticEnv knows every key.
	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "resume_data.db")
	v.SetDefault("backup_dir", "backups")
	v.SetDefault("cache_ttl", time.Hour)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("kafka_broker", "")
	v.SetDefault("elastic_url", "")
	v.SetDefault("sentry_dsn", "")
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("resume")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("cache_ttl must be positive, got %s", cfg.CacheTTL)
	}

	return &cfg, nil
}
