package models

import (
	"time"
)

// DailyStat is a precomputed per-day aggregate over the readings table.
// Aggregates over temperature and level ignore NULL samples, so a day with no
// working temperature sensor has nil temperature aggregates but may still
// have level aggregates.
type DailyStat struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Date             string    `gorm:"uniqueIndex;size:10" json:"date"`
	MinTemperature   *float64  `json:"min_temperature"`
	MaxTemperature   *float64  `json:"max_temperature"`
	AvgTemperature   *float64  `json:"avg_temperature"`
	MinLevel         *float64  `json:"min_level"`
	MaxLevel         *float64  `json:"max_level"`
	AvgLevel         *float64  `json:"avg_level"`
	PumpActiveTime   int       `json:"pump_active_time"`
	HeaterActiveTime int       `json:"heater_active_time"`
	ReadingCount     int       `json:"reading_count"`
	CreatedAt        time.Time `json:"created_at"`
}
