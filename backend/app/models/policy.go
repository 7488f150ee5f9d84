package models

import "time"

// NetworkPolicyProfile is the network-level default policy a parent assigns to
// their clients. Owned by the profile editor, read-only here.
type NetworkPolicyProfile struct {
	ID                string  `gorm:"primaryKey;size:191"`
	ParentID          string  `gorm:"index;size:191;not null"`
	Name              string  `gorm:"size:255"`
	SafeSearch        *bool
	KillSwitchMode    *string `gorm:"size:16"`
	DNSAllowlist      string  `gorm:"type:longtext"` // JSON list of hostnames
	BlockedCategories string  `gorm:"type:longtext"` // JSON list
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ChildPolicyOverride is the child-scoped DNS/content override. Fields left
// nil inherit from the network profile.
type ChildPolicyOverride struct {
	ID                string  `gorm:"primaryKey;size:191"`
	ChildID           string  `gorm:"uniqueIndex;size:191;not null"`
	SafeSearch        *bool
	KillSwitchMode    *string `gorm:"size:16"`
	DNSAllowlist      string  `gorm:"type:longtext"`
	BlockedCategories string  `gorm:"type:longtext"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PolicyClient maps a network client (device or MAC) to its parent, assigned
// profile, and optionally a child.
type PolicyClient struct {
	ID        string  `gorm:"primaryKey;size:191"`
	ParentID  string  `gorm:"index;size:191;not null"`
	MAC       string  `gorm:"index;size:32"`
	ProfileID *string `gorm:"size:191"`
	ChildID   *string `gorm:"size:191"`
	ChildName string  `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
