package repo

import (
	"guardian-control/backend/app/models"

	"gorm.io/gorm"
)

type HeartbeatRepository struct{ db *gorm.DB }

func NewHeartbeatRepository(db *gorm.DB) *HeartbeatRepository {
	return &HeartbeatRepository{db: db}
}

func (r *HeartbeatRepository) Create(h *models.HeartbeatRecord) error {
	return r.db.Create(h).Error
}

func (r *HeartbeatRepository) LatestByDevice(deviceID string, limit int) ([]models.HeartbeatRecord, error) {
	if limit <= 0 {
		limit = 1
	}
	var out []models.HeartbeatRecord
	err := r.db.Where("device_id = ?", deviceID).Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}
