package repo

import (
	"guardian-control/backend/app/models"

	"gorm.io/gorm"
)

type JobRepository struct{ db *gorm.DB }

func NewJobRepository(db *gorm.DB) *JobRepository { return &JobRepository{db: db} }

func (r *JobRepository) Create(j *models.Job) error { return r.db.Create(j).Error }

func (r *JobRepository) FindByID(id string) (*models.Job, error) {
	var j models.Job
	if err := r.db.Where("id = ?", id).First(&j).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

// ListByDevice returns the newest jobs first, for queue inspection.
func (r *JobRepository) ListByDevice(deviceID string, limit int) ([]models.Job, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var jobs []models.Job
	err := r.db.Where("device_id = ?", deviceID).
		Order("created_at DESC, id DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

// ClaimQueued hands queued jobs to the polling agent in FIFO order, flipping
// each to running with a guarded update so a concurrent claim takes each job
// at most once.
func (r *JobRepository) ClaimQueued(deviceID string, limit int) ([]models.Job, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var queued []models.Job
	if err := r.db.Where("device_id = ? AND status = ?", deviceID, models.JobStatusQueued).
		Order("created_at ASC, id ASC").Limit(limit).Find(&queued).Error; err != nil {
		return nil, err
	}
	claimed := make([]models.Job, 0, len(queued))
	for _, j := range queued {
		res := r.db.Model(&models.Job{}).
			Where("id = ? AND status = ?", j.ID, models.JobStatusQueued).
			Update("status", models.JobStatusRunning)
		if res.Error != nil {
			return claimed, res.Error
		}
		if res.RowsAffected == 1 {
			j.Status = models.JobStatusRunning
			claimed = append(claimed, j)
		}
	}
	return claimed, nil
}

// Finish applies a terminal status as a monotonic set: the update is guarded
// on the job still being non-terminal, so re-reporting the same outcome is a
// no-op rather than a double-count. A first failed report bumps attempts via
// the same guarded write.
func (r *JobRepository) Finish(id, status string) (int64, error) {
	values := map[string]any{"status": status}
	if status == models.JobStatusFailed {
		values["attempts"] = gorm.Expr("attempts + 1")
	}
	res := r.db.Model(&models.Job{}).
		Where("id = ? AND status IN ?", id, []string{models.JobStatusQueued, models.JobStatusRunning}).
		Updates(values)
	return res.RowsAffected, res.Error
}

// DeleteQueuedByDevice drops still-queued jobs for a de-provisioned device.
func (r *JobRepository) DeleteQueuedByDevice(deviceID string) error {
	return r.db.Where("device_id = ? AND status = ?", deviceID, models.JobStatusQueued).
		Delete(&models.Job{}).Error
}

type JobLogRepository struct{ db *gorm.DB }

func NewJobLogRepository(db *gorm.DB) *JobLogRepository { return &JobLogRepository{db: db} }

func (r *JobLogRepository) Create(l *models.JobLog) error { return r.db.Create(l).Error }

func (r *JobLogRepository) LatestByJob(jobID string, limit int) ([]models.JobLog, error) {
	if limit <= 0 {
		limit = 1
	}
	var logs []models.JobLog
	err := r.db.Where("job_id = ?", jobID).Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
