package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/vbarros/aquaponia-monitor/internal/database"
	"github.com/vbarros/aquaponia-monitor/internal/models"
)

// openTestDB creates a fresh migrated database in a temp directory.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Setup(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("database.Setup() error = %v", err)
	}

	return db
}

func floatPtr(v float64) *float64 {
	return &v
}

// newEmptyReading is an observation with both sensors absent.
func newEmptyReading() *models.Reading {
	return &models.Reading{Timestamp: time.Now().UTC()}
}

// insertReading inserts a reading with the given timestamp and temperature,
// failing the test on error.
func insertReading(t *testing.T, s *ReadingStore, ts time.Time, temperature *float64) *models.Reading {
	t.Helper()

	reading := &models.Reading{
		Temperature: temperature,
		Level:       floatPtr(75),
		Timestamp:   ts,
	}
	if err := s.Insert(context.Background(), reading); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	return reading
}
