package services

import (
	"encoding/json"
	"errors"

	"guardian-control/backend/app/apperr"
	"guardian-control/backend/app/dto"
	"guardian-control/backend/app/models"
	"guardian-control/backend/app/repo"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type JobService struct {
	jobs    *repo.JobRepository
	logs    *repo.JobLogRepository
	devices *repo.DeviceRepository
	logger  zerolog.Logger
}

func NewJobService(jobs *repo.JobRepository, logs *repo.JobLogRepository, devices *repo.DeviceRepository, logger zerolog.Logger) *JobService {
	return &JobService{jobs: jobs, logs: logs, devices: devices, logger: logger}
}

// Create queues a command for a device. The type must name a known payload
// variant and the payload must decode into that variant's shape.
func (s *JobService) Create(deviceID, jobType string, payload json.RawMessage) (*models.Job, error) {
	if deviceID == "" {
		return nil, apperr.New(apperr.Validation, "device_id is required")
	}
	if _, err := dto.DecodeJobPayload(jobType, payload); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "invalid job", err)
	}
	if _, err := s.devices.FindByID(deviceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "device not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "lookup device", err)
	}
	j := &models.Job{
		ID:       uuid.NewString(),
		DeviceID: deviceID,
		Type:     jobType,
		Payload:  string(payload),
		Status:   models.JobStatusQueued,
	}
	if err := s.jobs.Create(j); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "create job", err)
	}
	return j, nil
}

// List returns the device's queue newest-first. Read-only.
func (s *JobService) List(deviceID string, limit int) ([]models.Job, error) {
	if deviceID == "" {
		return nil, apperr.New(apperr.Validation, "device_id is required")
	}
	jobs, err := s.jobs.ListByDevice(deviceID, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list jobs", err)
	}
	return jobs, nil
}

// PollForAgent hands queued jobs to the device's agent in creation order,
// marking each running.
func (s *JobService) PollForAgent(deviceID string, limit int) ([]models.Job, error) {
	jobs, err := s.jobs.ClaimQueued(deviceID, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "claim jobs", err)
	}
	return jobs, nil
}

// ReportOutcome records a terminal agent-reported status. The write is a
// monotonic set guarded on the job still being non-terminal, which makes
// at-least-once agent delivery safe: a duplicate report changes nothing.
// The log append is best-effort and never fails the report.
func (s *JobService) ReportOutcome(jobID, status, logLine string) error {
	if status != models.JobStatusSuccess && status != models.JobStatusFailed {
		return apperr.New(apperr.Validation, "status must be success or failed")
	}
	j, err := s.jobs.FindByID(jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "job not found")
		}
		return apperr.Wrap(apperr.Internal, "lookup job", err)
	}
	n, err := s.jobs.Finish(jobID, status)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "report outcome", err)
	}
	if n == 0 && j.Status != status {
		// Already terminal with a different outcome; terminal states never move.
		return apperr.New(apperr.Conflict, "job already finished")
	}
	if logLine != "" && n > 0 {
		if err := s.logs.Create(&models.JobLog{JobID: jobID, DeviceID: j.DeviceID, Content: logLine}); err != nil {
			s.logger.Warn().Err(err).Str("job_id", jobID).Msg("job log append failed")
		}
	}
	return nil
}

// Lookup is used by the report handler to bind the reporting credential to
// the job's device before accepting an outcome.
func (s *JobService) Lookup(jobID string) (*models.Job, error) {
	j, err := s.jobs.FindByID(jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "job not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "lookup job", err)
	}
	return j, nil
}
