package models

import "time"

const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusSuccess = "success"
	JobStatusFailed  = "failed"
)

// Job is one queued command for a device. Status only moves forward along
// queued -> running -> success|failed; a failed job is retried by creating a
// new job, never by resurrecting this row.
type Job struct {
	ID        string `gorm:"primaryKey;size:191"`
	DeviceID  string `gorm:"index;size:191;not null"`
	Type      string `gorm:"size:64;not null"`
	Payload   string `gorm:"type:longtext"` // JSON, shape fixed by Type
	Status    string `gorm:"size:16;index;not null;default:queued"`
	Attempts  int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JobLog is an append-only agent-reported log line for a job.
type JobLog struct {
	ID        uint   `gorm:"primaryKey"`
	JobID     string `gorm:"index;size:191;not null"`
	DeviceID  string `gorm:"index;size:191"`
	Content   string `gorm:"type:longtext"`
	CreatedAt time.Time
}
