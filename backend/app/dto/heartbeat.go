package dto

import "encoding/json"

type HeartbeatRequest struct {
	AgentVersion string          `json:"agent_version"`
	Metrics      json.RawMessage `json:"metrics,omitempty"`
	Alerts       json.RawMessage `json:"alerts,omitempty"`
}

type OnlineDevicesResponse struct {
	OnlineDevices []string `json:"online_devices"`
	Count         int      `json:"count"`
}
