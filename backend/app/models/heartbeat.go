package models

import "time"

// HeartbeatRecord is an append-only liveness log entry. Never updated after insert.
type HeartbeatRecord struct {
	ID           uint      `gorm:"primaryKey"`
	DeviceID     string    `gorm:"index;size:191;not null"`
	ReceivedAt   time.Time `gorm:"index;not null"`
	AgentVersion string    `gorm:"size:64"`
	Metrics      string    `gorm:"type:longtext"` // opaque key/value JSON
	Alerts       string    `gorm:"type:longtext"` // JSON list
}
