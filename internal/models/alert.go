package models

import (
	"time"
)

// Alert is a threshold violation attached to a reading. The table exists as
// an extension point; the collection pipeline does not produce alerts yet.
type Alert struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Type       string     `gorm:"size:50" json:"type"`
	Severity   string     `gorm:"size:20" json:"severity"`
	Message    string     `json:"message"`
	ReadingID  *uint      `json:"reading_id"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at"`
}
