package controllers

import (
	"net/http"

	"guardian-control/backend/app/apperr"
	jwtutil "guardian-control/backend/app/jwt"
	"guardian-control/backend/app/middleware"
	"guardian-control/backend/app/models"
	"guardian-control/backend/app/services"
)

// deviceFromToken resolves the device a verified device token names. The
// token subject is the device code.
func deviceFromToken(r *http.Request, devices *services.DeviceService) (*models.Device, error) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil || claims.Role != jwtutil.RoleDevice {
		return nil, apperr.New(apperr.Authentication, "device token required")
	}
	return devices.LookupByCode(claims.Subject)
}
