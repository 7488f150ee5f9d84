package dto

import "time"

type RegisterDeviceRequest struct {
	DeviceCode string `json:"device_code,omitempty"`
}

type RegisterDeviceResponse struct {
	DeviceID        string `json:"device_id"`
	DeviceCode      string `json:"device_code"`
	PairingRequired bool   `json:"pairing_required"`
}

type CheckDeviceResponse struct {
	IsPaired   bool   `json:"is_paired"`
	ParentName string `json:"parent_name,omitempty"`
	ChildName  string `json:"child_name,omitempty"`
}

type ActivateDeviceRequest struct {
	DeviceCode string `json:"device_code,omitempty"`
	DeviceID   string `json:"device_id,omitempty"`
}

type DeviceView struct {
	ID         string     `json:"id"`
	DeviceCode string     `json:"device_code"`
	OwnerID    string     `json:"owner_id,omitempty"`
	IsActive   bool       `json:"is_active"`
	Status     string     `json:"status"`
	LastSeen   *time.Time `json:"last_seen,omitempty"`
}

type ActivateDeviceResponse struct {
	OK     bool       `json:"ok"`
	Device DeviceView `json:"device"`
}

type DeviceStatusResponse struct {
	DeviceJWT string `json:"device_jwt,omitempty"`
	IsActive  bool   `json:"is_active"`
	Activated bool   `json:"activated"`
}

type ResetDeviceRequest struct {
	DeviceCode string `json:"device_code"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
