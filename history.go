package main

import (
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// RunRecord represents the schema of the run_records table, one row per
// pipeline run. It is an operational log only; nothing in the pipeline or
// the query engine reads it back.
type RunRecord struct {
	ID                uint   `gorm:"primaryKey"`
	StartedAt         int64  `gorm:"not null"` // unix seconds
	FinishedAt        int64  `gorm:"not null"`
	DocumentsIndexed  int    `gorm:"not null"`
	DocumentsSkipped  int    `gorm:"not null"`
	Pages             int    `gorm:"not null"`
	Words             int    `gorm:"not null"`
	IndexPath         string `gorm:"size:4096"`
}

// NewRunRecord builds a history row from a completed run summary.
func NewRunRecord(summary *RunSummary) RunRecord {
	return RunRecord{
		StartedAt:        summary.Started.Unix(),
		FinishedAt:       summary.Finished.Unix(),
		DocumentsIndexed: summary.Processed(),
		DocumentsSkipped: summary.SkippedCount(),
		Pages:            summary.Pages(),
		Words:            summary.Records,
		IndexPath:        summary.IndexPath,
	}
}

// InitializeDB initializes the SQLite database and migrates the schema
func InitializeDB(historyDir string) *gorm.DB {
	if err := os.MkdirAll(historyDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create history directory: %v", err)
	}

	dbPath := filepath.Join(historyDir, "run_history.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&RunRecord{}); err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	return db
}

// InsertRunRecord inserts a new run record into the database
func InsertRunRecord(db *gorm.DB, record RunRecord) error {
	result := db.Create(&record)
	return result.Error
}

// GetAllRunRecords retrieves all run records, newest first
func GetAllRunRecords(db *gorm.DB) ([]RunRecord, error) {
	var records []RunRecord
	result := db.Order("started_at desc").Find(&records)
	return records, result.Error
}
