package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vbarros/aquaponia-monitor/internal/models"
)

// ErrNoReadings is returned when an operation needs a current reading and the
// readings table is empty.
var ErrNoReadings = errors.New("no readings recorded")

// Device identifies a controllable actuator.
type Device string

const (
	DevicePump   Device = "pump"
	DeviceHeater Device = "heater"
)

// LatestReadingCount is how many rows the "latest" view returns.
const LatestReadingCount = 10

// ReadingStore persists sensor readings. Rows are append-only except for the
// two status columns, which the control relay may overwrite on the most
// recent row.
type ReadingStore struct {
	db *gorm.DB
}

// NewReadingStore creates a reading store backed by db.
func NewReadingStore(db *gorm.DB) *ReadingStore {
	return &ReadingStore{db: db}
}

// Insert appends one reading. A zero timestamp defaults to the current time.
// Timestamps are normalized to UTC so their stored text form sorts
// chronologically.
func (s *ReadingStore) Insert(ctx context.Context, reading *models.Reading) error {
	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now()
	}
	reading.Timestamp = reading.Timestamp.UTC()

	if reading.DataSource == "" {
		reading.DataSource = models.DataSourceThingSpeak
	}
	if reading.DataQuality == 0 {
		reading.DataQuality = 1.0
	}

	if err := s.db.WithContext(ctx).Create(reading).Error; err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}

	return nil
}

// LatestN returns the n most recent readings by timestamp, reordered
// ascending for chronological display. An empty table yields an empty slice.
func (s *ReadingStore) LatestN(ctx context.Context, n int) ([]models.Reading, error) {
	var readings []models.Reading

	err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(n).
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query latest readings: %w", err)
	}

	for i, j := 0, len(readings)-1; i < j; i, j = i+1, j-1 {
		readings[i], readings[j] = readings[j], readings[i]
	}

	return readings, nil
}

// Latest returns the single most recent reading, or ErrNoReadings.
func (s *ReadingStore) Latest(ctx context.Context) (*models.Reading, error) {
	var reading models.Reading

	err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoReadings
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest reading: %w", err)
	}

	return &reading, nil
}

// Range returns readings with start <= timestamp <= end, ascending. Bounds
// are passed to SQLite untouched; a malformed bound compares as NULL and
// yields an empty result rather than an error.
func (s *ReadingStore) Range(ctx context.Context, start, end string) ([]models.Reading, error) {
	var readings []models.Reading

	err := s.db.WithContext(ctx).
		Where("datetime(timestamp) BETWEEN datetime(?) AND datetime(?)", start, end).
		Order("timestamp ASC").
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query readings range: %w", err)
	}

	return readings, nil
}

// UpdateStatus sets the pump or heater status on the row that is most recent
// at call time. The target row id is resolved and updated inside one
// transaction so a concurrent insert cannot split the two steps.
func (s *ReadingStore) UpdateStatus(ctx context.Context, device Device, state bool) error {
	column, err := statusColumn(device)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reading models.Reading

		err := tx.Order("timestamp DESC").First(&reading).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoReadings
		}
		if err != nil {
			return fmt.Errorf("failed to resolve latest reading: %w", err)
		}

		err = tx.Model(&models.Reading{}).
			Where("id = ?", reading.ID).
			Update(column, state).Error
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", column, err)
		}

		return nil
	})
}

// PruneOlderThan deletes readings older than the cutoff and reports how many
// rows were removed.
func (s *ReadingStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("datetime(timestamp) < datetime(?)", cutoff.UTC()).
		Delete(&models.Reading{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune readings: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func statusColumn(device Device) (string, error) {
	switch device {
	case DevicePump:
		return "pump_status", nil
	case DeviceHeater:
		return "heater_status", nil
	default:
		return "", fmt.Errorf("unknown device %q", device)
	}
}
