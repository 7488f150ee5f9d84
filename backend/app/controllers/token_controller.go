package controllers

import (
	"net/http"
	"time"

	"guardian-control/backend/app/apperr"
	"guardian-control/backend/app/dto"
	"guardian-control/backend/app/middleware"
	"guardian-control/backend/app/services"
)

type TokenController struct {
	Tokens  *services.TokenService
	Devices *services.DeviceService
}

func NewTokenController(tokens *services.TokenService, devices *services.DeviceService) *TokenController {
	return &TokenController{Tokens: tokens, Devices: devices}
}

// Bootstrap handles POST /device-bootstrap. No credential: a brand-new device
// has none. The service enforces the unowned-only boundary.
func (c *TokenController) Bootstrap(w http.ResponseWriter, r *http.Request) {
	var req dto.BootstrapRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.DeviceCode == "" {
		writeError(w, r, apperr.New(apperr.Validation, "device_code is required"))
		return
	}
	if err := c.Tokens.Bootstrap(req.DeviceCode, req.RefreshSecret); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}

// Rotate handles POST /rotate-device-token (parent bearer).
func (c *TokenController) Rotate(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		writeError(w, r, apperr.New(apperr.Authentication, "missing credential"))
		return
	}
	var req dto.RotateTokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.DeviceID == "" {
		writeError(w, r, apperr.New(apperr.Validation, "device_id is required"))
		return
	}
	minted, err := c.Tokens.Rotate(req.DeviceID, claims.Subject)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.RotateTokenResponse{OK: true, DeviceJWT: minted.Token})
}

// Mint handles POST /get-device-jwt (service-internal): a short-lived device
// token for a device the named parent owns.
func (c *TokenController) Mint(w http.ResponseWriter, r *http.Request) {
	var req dto.MintTokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.DeviceExternalID == "" || req.ParentID == "" {
		writeError(w, r, apperr.New(apperr.Validation, "device_external_id and parent_id are required"))
		return
	}
	d, err := c.Devices.LookupByID(req.DeviceExternalID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	minted, err := c.Tokens.Mint(d.DeviceCode, req.ParentID, time.Duration(req.TTL)*time.Second)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MintTokenResponse{
		Token:     minted.Token,
		ExpiresIn: int(time.Until(minted.ExpiresAt).Seconds()),
		ExpiresAt: minted.ExpiresAt.Unix(),
	})
}
