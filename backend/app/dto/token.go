package dto

type BootstrapRequest struct {
	DeviceCode    string `json:"device_code"`
	RefreshSecret string `json:"refresh_secret"`
}

type RotateTokenRequest struct {
	DeviceID string `json:"device_id"`
}

type RotateTokenResponse struct {
	OK        bool   `json:"ok"`
	DeviceJWT string `json:"device_jwt"`
}

type MintTokenRequest struct {
	DeviceExternalID string `json:"device_external_id"`
	ParentID         string `json:"parent_id"`
	TTL              int    `json:"ttl"`
}

type MintTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	ExpiresAt int64  `json:"expires_at"`
}
