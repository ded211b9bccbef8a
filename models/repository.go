package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("validation failed")
)

// Repository is the storage boundary for survey records. Records are
// immutable once written; the only mutation paths are the bulk
// clear/replace operations driven by the admin surface.
type Repository interface {
	CreateRecord(rec *Record) error
	LoadRecords() ([]Record, error)
	LatestRecords(limit int) ([]Record, error)
	CountRecords() (int64, error)
	ClearRecords() error
	ReplaceRecords(recs []Record) error
	Backup(dir string) (string, error)
	Close() error
}

// SQLiteRepository keeps the whole store in a single local database file.
type SQLiteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// CreateRecord validates and appends a single record. Validation failure
// leaves the store untouched.
func (r *SQLiteRepository) CreateRecord(rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.ObservationDate.IsZero() {
		rec.ObservationDate = time.Now()
	}
	return r.db.Create(rec).Error
}

func (r *SQLiteRepository) LoadRecords() ([]Record, error) {
	var recs []Record
	if err := r.db.Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return recs, nil
}

// LatestRecords returns the most recent rows by observation date, newest
// first. Feeds the editable admin grid.
func (r *SQLiteRepository) LatestRecords(limit int) ([]Record, error) {
	var recs []Record
	if err := r.db.Order("observation_date DESC").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to load latest records: %w", err)
	}
	return recs, nil
}

func (r *SQLiteRepository) CountRecords() (int64, error) {
	var n int64
	if err := r.db.Model(&Record{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) ClearRecords() error {
	if err := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Record{}).Error; err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

// ReplaceRecords swaps the full table contents in one transaction.
// Records keep any identifier they arrive with.
func (r *SQLiteRepository) ReplaceRecords(recs []Record) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Record{}).Error; err != nil {
			return fmt.Errorf("failed to clear records: %w", err)
		}
		if len(recs) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(recs, 200).Error; err != nil {
			return fmt.Errorf("failed to insert replacement records: %w", err)
		}
		return nil
	})
}

// Backup writes a consistent copy of the database to a timestamped file
// under dir and returns its path.
func (r *SQLiteRepository) Backup(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	dest := filepath.Join(dir, fmt.Sprintf("resume_data_%s.db", time.Now().Format("20060102_150405")))
	if err := r.db.Exec("VACUUM INTO ?", dest).Error; err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}
	return dest, nil
}

func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
