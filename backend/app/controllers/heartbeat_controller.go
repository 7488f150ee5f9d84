package controllers

import (
	"net/http"
	"time"

	"guardian-control/backend/app/apperr"
	"guardian-control/backend/app/dto"
	"guardian-control/backend/app/services"
)

type HeartbeatController struct {
	Liveness *services.LivenessService
	Devices  *services.DeviceService
}

func NewHeartbeatController(liveness *services.LivenessService, devices *services.DeviceService) *HeartbeatController {
	return &HeartbeatController{Liveness: liveness, Devices: devices}
}

// Ingest serves POST /heartbeat (device token, x-device-id header). The header
// must name the same device the token was minted for.
func (c *HeartbeatController) Ingest(w http.ResponseWriter, r *http.Request) {
	d, err := deviceFromToken(r, c.Devices)
	if err != nil {
		writeError(w, r, err)
		return
	}
	headerID := r.Header.Get("x-device-id")
	if headerID == "" {
		writeError(w, r, apperr.New(apperr.Validation, "x-device-id header is required"))
		return
	}
	if headerID != d.ID {
		writeError(w, r, apperr.New(apperr.Authorization, "device id does not match token"))
		return
	}
	var req dto.HeartbeatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Liveness.IngestHeartbeat(r.Context(), d.ID, req.AgentVersion, req.Metrics, req.Alerts); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}

// MarkOffline serves POST /devices-mark-offline (service-internal), the
// externally scheduled stale sweep. ?grace= overrides the configured window.
func (c *HeartbeatController) MarkOffline(w http.ResponseWriter, r *http.Request) {
	grace := c.Liveness.Grace()
	if raw := r.URL.Query().Get("grace"); raw != "" {
		parsed, err := time.ParseDuration(raw + "s")
		if err != nil || parsed <= 0 {
			writeError(w, r, apperr.New(apperr.Validation, "grace must be a positive number of seconds"))
			return
		}
		grace = parsed
	}
	if _, err := c.Liveness.SweepStale(grace); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}

// Online serves GET /devices-online (admin bearer): ?device_id= checks one
// device, no query lists every online device.
func (c *HeartbeatController) Online(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("device_id"); id != "" {
		online, err := c.Liveness.Online(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"online": online})
		return
	}
	ids, err := c.Liveness.OnlineDevices()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OnlineDevicesResponse{OnlineDevices: ids, Count: len(ids)})
}
