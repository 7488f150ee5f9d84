package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Job types form a closed set: the payload shape is fixed per type and checked
// at the boundary instead of trusting the caller's JSON blindly.
const (
	JobAllowApp      = "ALLOW_APP"
	JobBlockApp      = "BLOCK_APP"
	JobApplyPolicy   = "APPLY_POLICY"
	JobInstallApp    = "INSTALL_APP"
	JobUninstallApp  = "UNINSTALL_APP"
	JobSetKillSwitch = "SET_KILL_SWITCH"
)

type AllowAppPayload struct {
	AppID string `json:"app_id"`
}

type BlockAppPayload struct {
	AppID string `json:"app_id"`
}

type ApplyPolicyPayload struct {
	Refresh bool `json:"refresh"`
}

type InstallAppPayload struct {
	AppID   string `json:"app_id"`
	Version string `json:"version,omitempty"`
}

type UninstallAppPayload struct {
	AppID string `json:"app_id"`
}

type SetKillSwitchPayload struct {
	Mode string `json:"mode"` // pause | block | off
}

// DecodeJobPayload strictly decodes raw into the variant matching jobType.
// Unknown types and malformed or mis-shaped payloads are rejected.
func DecodeJobPayload(jobType string, raw json.RawMessage) (any, error) {
	var dst any
	switch jobType {
	case JobAllowApp:
		dst = &AllowAppPayload{}
	case JobBlockApp:
		dst = &BlockAppPayload{}
	case JobApplyPolicy:
		dst = &ApplyPolicyPayload{}
	case JobInstallApp:
		dst = &InstallAppPayload{}
	case JobUninstallApp:
		dst = &UninstallAppPayload{}
	case JobSetKillSwitch:
		dst = &SetKillSwitchPayload{}
	default:
		return nil, fmt.Errorf("unknown job type %q", jobType)
	}
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return nil, fmt.Errorf("payload for %s: %w", jobType, err)
	}
	return dst, nil
}

type CreateJobRequest struct {
	DeviceID string          `json:"device_id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

type JobView struct {
	ID        string          `json:"id"`
	DeviceID  string          `json:"device_id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Status    string          `json:"status"`
	Attempts  int             `json:"attempts"`
	CreatedAt int64           `json:"created_at"`
	UpdatedAt int64           `json:"updated_at"`
}

type ReportJobRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"` // success | failed
	Log    string `json:"log,omitempty"`
}
