package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vbarros/aquaponia-monitor/internal/models"
)

// statDateFormat is the DATE column format of daily_stats.
const statDateFormat = "2006-01-02"

// StatsStore maintains the daily_stats aggregates derived from readings.
type StatsStore struct {
	db *gorm.DB
}

// NewStatsStore creates a stats store backed by db.
func NewStatsStore(db *gorm.DB) *StatsStore {
	return &StatsStore{db: db}
}

type dailyAggregate struct {
	MinTemperature   *float64
	MaxTemperature   *float64
	AvgTemperature   *float64
	MinLevel         *float64
	MaxLevel         *float64
	AvgLevel         *float64
	PumpActiveTime   int
	HeaterActiveTime int
	ReadingCount     int
}

// Rollup recomputes the daily_stats row for the UTC day containing the given
// time. Temperature and level aggregates skip NULL samples. Active time is a
// sample count; with the one-minute collection cadence that approximates
// minutes. A day with no readings is left untouched.
func (s *StatsStore) Rollup(ctx context.Context, day time.Time) error {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var agg dailyAggregate

	err := s.db.WithContext(ctx).
		Model(&models.Reading{}).
		Select(`min(temperature) AS min_temperature,
			max(temperature) AS max_temperature,
			avg(temperature) AS avg_temperature,
			min(level) AS min_level,
			max(level) AS max_level,
			avg(level) AS avg_level,
			count(CASE WHEN pump_status THEN 1 END) AS pump_active_time,
			count(CASE WHEN heater_status THEN 1 END) AS heater_active_time,
			count(*) AS reading_count`).
		Where("datetime(timestamp) >= datetime(?) AND datetime(timestamp) < datetime(?)", dayStart, dayEnd).
		Scan(&agg).Error
	if err != nil {
		return fmt.Errorf("failed to aggregate readings for %s: %w", dayStart.Format(statDateFormat), err)
	}

	if agg.ReadingCount == 0 {
		return nil
	}

	stat := models.DailyStat{
		Date:             dayStart.Format(statDateFormat),
		MinTemperature:   agg.MinTemperature,
		MaxTemperature:   agg.MaxTemperature,
		AvgTemperature:   agg.AvgTemperature,
		MinLevel:         agg.MinLevel,
		MaxLevel:         agg.MaxLevel,
		AvgLevel:         agg.AvgLevel,
		PumpActiveTime:   agg.PumpActiveTime,
		HeaterActiveTime: agg.HeaterActiveTime,
		ReadingCount:     agg.ReadingCount,
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"min_temperature", "max_temperature", "avg_temperature",
			"min_level", "max_level", "avg_level",
			"pump_active_time", "heater_active_time", "reading_count",
		}),
	}).Create(&stat).Error
	if err != nil {
		return fmt.Errorf("failed to upsert daily stats for %s: %w", stat.Date, err)
	}

	return nil
}

// Recent returns the daily_stats rows for the last n days, newest first.
func (s *StatsStore) Recent(ctx context.Context, days int) ([]models.DailyStat, error) {
	var stats []models.DailyStat

	err := s.db.WithContext(ctx).
		Order("date DESC").
		Limit(days).
		Find(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}

	return stats, nil
}

// PruneOlderThan deletes daily_stats rows dated before the cutoff day.
func (s *StatsStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("date < ?", cutoff.UTC().Format(statDateFormat)).
		Delete(&models.DailyStat{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune daily stats: %w", result.Error)
	}

	return result.RowsAffected, nil
}
