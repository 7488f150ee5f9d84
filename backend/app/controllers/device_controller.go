package controllers

import (
	"net/http"

	"guardian-control/backend/app/apperr"
	"guardian-control/backend/app/dto"
	"guardian-control/backend/app/middleware"
	"guardian-control/backend/app/models"
	"guardian-control/backend/app/services"
)

type DeviceController struct {
	Devices *services.DeviceService
	Tokens  *services.TokenService
}

func NewDeviceController(devices *services.DeviceService, tokens *services.TokenService) *DeviceController {
	return &DeviceController{Devices: devices, Tokens: tokens}
}

func deviceView(d *models.Device) dto.DeviceView {
	v := dto.DeviceView{
		ID:         d.ID,
		DeviceCode: d.DeviceCode,
		IsActive:   d.IsActive,
		Status:     d.Status,
		LastSeen:   d.LastSeen,
	}
	if d.OwnerID != nil {
		v.OwnerID = *d.OwnerID
	}
	return v
}

// Collection serves /devices: POST registers (device-initiated, no auth),
// GET ?device_code= checks pairing state.
func (c *DeviceController) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.register(w, r)
	case http.MethodGet:
		c.check(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (c *DeviceController) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterDeviceRequest
	// empty body is fine: the code is generated server-side
	_ = decodeBody(r, &req)
	d, err := c.Devices.Register(req.DeviceCode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.RegisterDeviceResponse{
		DeviceID:        d.ID,
		DeviceCode:      d.DeviceCode,
		PairingRequired: true,
	})
}

func (c *DeviceController) check(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("device_code")
	if code == "" {
		writeError(w, r, apperr.New(apperr.Validation, "device_code is required"))
		return
	}
	d, err := c.Devices.LookupByCode(code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CheckDeviceResponse{
		IsPaired:   d.Owned(),
		ParentName: d.OwnerName,
	})
}

// Activate handles POST /device-activate (parent bearer). Activation also
// mints the first standing token so the device-status poll can hand it out.
func (c *DeviceController) Activate(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		writeError(w, r, apperr.New(apperr.Authentication, "missing credential"))
		return
	}
	var req dto.ActivateDeviceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	code := req.DeviceCode
	if code == "" && req.DeviceID != "" {
		d, err := c.Devices.LookupByID(req.DeviceID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		code = d.DeviceCode
	}
	if code == "" {
		writeError(w, r, apperr.New(apperr.Validation, "device_code or device_id is required"))
		return
	}
	d, err := c.Devices.Activate(code, claims.Subject, claims.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if d.CurrentToken == "" {
		if _, err := c.Tokens.Rotate(d.ID, claims.Subject); err != nil {
			writeError(w, r, err)
			return
		}
		if d, err = c.Devices.LookupByID(d.ID); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, dto.ActivateDeviceResponse{OK: true, Device: deviceView(d)})
}

// Status handles GET /device-status?device_id= — the unauthenticated pairing
// poll. Once a parent has activated the device, the poll returns the standing
// token exactly as persisted.
func (c *DeviceController) Status(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("device_id")
	if id == "" {
		writeError(w, r, apperr.New(apperr.Validation, "device_id is required"))
		return
	}
	d, err := c.Devices.LookupByID(id)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			err = apperr.New(apperr.Validation, "unknown device_id")
		}
		writeError(w, r, err)
		return
	}
	resp := dto.DeviceStatusResponse{IsActive: d.IsActive, Activated: d.Owned()}
	if d.IsActive {
		resp.DeviceJWT = d.CurrentToken
	}
	writeJSON(w, http.StatusOK, resp)
}

// Reset handles POST /device-reset (admin bearer).
func (c *DeviceController) Reset(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetDeviceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.DeviceCode == "" {
		writeError(w, r, apperr.New(apperr.Validation, "device_code is required"))
		return
	}
	if err := c.Devices.Reset(req.DeviceCode); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}
