package models

import (
	"time"
)

// Setting is a named configuration value. Values are stored as text and
// coerced to bool/number/string on read by the settings store.
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
