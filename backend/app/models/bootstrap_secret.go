package models

import "time"

// BootstrapSecret holds the one-way hash of the secret a not-yet-paired device
// sets on itself. Only the hash is ever stored.
type BootstrapSecret struct {
	ID         uint   `gorm:"primaryKey"`
	DeviceCode string `gorm:"uniqueIndex;size:32;not null"`
	SecretHash string `gorm:"size:255;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
