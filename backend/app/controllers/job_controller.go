package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"guardian-control/backend/app/apperr"
	"guardian-control/backend/app/dto"
	"guardian-control/backend/app/models"
	"guardian-control/backend/app/services"
)

type JobController struct {
	Jobs    *services.JobService
	Devices *services.DeviceService
}

func NewJobController(jobs *services.JobService, devices *services.DeviceService) *JobController {
	return &JobController{Jobs: jobs, Devices: devices}
}

func jobView(j models.Job) dto.JobView {
	v := dto.JobView{
		ID:        j.ID,
		DeviceID:  j.DeviceID,
		Type:      j.Type,
		Status:    j.Status,
		Attempts:  j.Attempts,
		CreatedAt: j.CreatedAt.Unix(),
		UpdatedAt: j.UpdatedAt.Unix(),
	}
	if j.Payload != "" {
		v.Payload = json.RawMessage(j.Payload)
	}
	return v
}

func jobViews(jobs []models.Job) []dto.JobView {
	out := make([]dto.JobView, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobView(j))
	}
	return out
}

// Collection serves /device-jobs for owners/admins: POST queues a command,
// GET ?device_id=&limit= inspects the queue newest-first.
func (c *JobController) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.create(w, r)
	case http.MethodGet:
		c.list(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (c *JobController) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateJobRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	j, err := c.Jobs.Create(req.DeviceID, req.Type, req.Payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jobView(*j))
}

func (c *JobController) list(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("device_id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	jobs, err := c.Jobs.List(deviceID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobViews(jobs))
}

// Poll serves GET /device-jobs-poll for the device agent: queued jobs for the
// token's own device, claimed to running in FIFO order.
func (c *JobController) Poll(w http.ResponseWriter, r *http.Request) {
	d, err := deviceFromToken(r, c.Devices)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	jobs, err := c.Jobs.PollForAgent(d.ID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobViews(jobs))
}

// Report serves POST /device-jobs-report. The reporting credential is bound
// to the job's device: a device token can only report its own jobs.
func (c *JobController) Report(w http.ResponseWriter, r *http.Request) {
	d, err := deviceFromToken(r, c.Devices)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.ReportJobRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ID == "" {
		writeError(w, r, apperr.New(apperr.Validation, "id is required"))
		return
	}
	j, err := c.Jobs.Lookup(req.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if j.DeviceID != d.ID {
		writeError(w, r, apperr.New(apperr.Authorization, "job belongs to another device"))
		return
	}
	if err := c.Jobs.ReportOutcome(req.ID, req.Status, req.Log); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}
