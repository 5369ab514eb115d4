package models

import (
	"time"
)

// DataSourceThingSpeak marks readings collected from the remote channel.
const DataSourceThingSpeak = "thingspeak"

// Reading is a single sensor/actuator observation. Temperature and Level are
// pointers because either sensor can be absent from a sample; a missing value
// is stored as NULL, never as zero.
type Reading struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Temperature      *float64  `json:"temperature"`
	Level            *float64  `json:"level"`
	PumpStatus       bool      `json:"pump_status"`
	HeaterStatus     bool      `json:"heater_status"`
	Timestamp        time.Time `gorm:"index" json:"timestamp"`
	CreatedAt        time.Time `json:"created_at"`
	TemperatureTrend float64   `json:"temperature_trend"`
	LevelTrend       float64   `json:"level_trend"`
	IsTempCritical   bool      `json:"is_temp_critical"`
	IsLevelCritical  bool      `json:"is_level_critical"`
	DataSource       string    `gorm:"size:50" json:"data_source"`
	DataQuality      float64   `json:"data_quality"`
}
