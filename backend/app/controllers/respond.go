package controllers

import (
	"encoding/json"
	"net/http"

	"guardian-control/backend/app/apperr"
	"guardian-control/backend/global"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError classifies err into the taxonomy and emits {error: message}.
// Internal causes are logged at the boundary and masked in the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		global.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("handler failure")
	}
	writeJSON(w, status, map[string]string{"error": apperr.Message(err)})
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.Validation, "malformed request body", err)
	}
	return nil
}
