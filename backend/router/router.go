package router

import (
	"net/http"

	"guardian-control/backend/app/controllers"
	"guardian-control/backend/app/middleware"
)

func NewRouter(
	deviceCtrl *controllers.DeviceController,
	tokenCtrl *controllers.TokenController,
	jobCtrl *controllers.JobController,
	hbCtrl *controllers.HeartbeatController,
	policyCtrl *controllers.PolicyController,
	mw *middleware.Auth,
) http.Handler {
	mux := http.NewServeMux()

	// device-initiated, no credential yet
	mux.HandleFunc("/devices", deviceCtrl.Collection)
	mux.HandleFunc("/device-status", deviceCtrl.Status)
	mux.HandleFunc("/device-bootstrap", tokenCtrl.Bootstrap)

	// parent/admin bearer
	mux.Handle("/device-activate", mw.RequireUser(http.HandlerFunc(deviceCtrl.Activate)))
	mux.Handle("/rotate-device-token", mw.RequireUser(http.HandlerFunc(tokenCtrl.Rotate)))
	mux.Handle("/device-jobs", mw.RequireUser(http.HandlerFunc(jobCtrl.Collection)))

	// admin bearer
	mux.Handle("/device-reset", mw.RequireAdmin(http.HandlerFunc(deviceCtrl.Reset)))
	mux.Handle("/devices-online", mw.RequireAdmin(http.HandlerFunc(hbCtrl.Online)))

	// device token
	mux.Handle("/heartbeat", mw.RequireDevice(http.HandlerFunc(hbCtrl.Ingest)))
	mux.Handle("/device-jobs-poll", mw.RequireDevice(http.HandlerFunc(jobCtrl.Poll)))
	mux.Handle("/device-jobs-report", mw.RequireDevice(http.HandlerFunc(jobCtrl.Report)))

	// service-internal
	mux.Handle("/get-device-jwt", mw.RequireService(http.HandlerFunc(tokenCtrl.Mint)))
	mux.Handle("/devices-mark-offline", mw.RequireService(http.HandlerFunc(hbCtrl.MarkOffline)))
	mux.Handle("/policy-render", mw.RequireService(http.HandlerFunc(policyCtrl.Render)))

	return mux
}
