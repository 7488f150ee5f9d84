package models

import "time"

const (
	DeviceStatusOffline = "offline"
	DeviceStatusOnline  = "online"
)

type Device struct {
	ID           string  `gorm:"primaryKey;size:191"`
	DeviceCode   string  `gorm:"uniqueIndex;size:32;not null"`
	OwnerID      *string `gorm:"index;size:191"`
	OwnerName    string  `gorm:"size:255"`
	IsActive     bool    `gorm:"not null;default:false"`
	Status       string  `gorm:"size:16;not null;default:offline"`
	LastSeen     *time.Time
	CurrentToken string `gorm:"size:1024"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (d *Device) Owned() bool { return d.OwnerID != nil && *d.OwnerID != "" }

func (d *Device) OwnedBy(ownerID string) bool { return d.OwnerID != nil && *d.OwnerID == ownerID }
