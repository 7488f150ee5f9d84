package repo

import (
	"time"

	"guardian-control/backend/app/models"

	"gorm.io/gorm"
)

type DeviceRepository struct{ db *gorm.DB }

func NewDeviceRepository(db *gorm.DB) *DeviceRepository { return &DeviceRepository{db: db} }

func (r *DeviceRepository) Create(d *models.Device) error { return r.db.Create(d).Error }

func (r *DeviceRepository) FindByCode(code string) (*models.Device, error) {
	var d models.Device
	if err := r.db.Where("device_code = ?", code).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DeviceRepository) FindByID(id string) (*models.Device, error) {
	var d models.Device
	if err := r.db.Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DeviceRepository) CodeExists(code string) (bool, error) {
	var n int64
	if err := r.db.Model(&models.Device{}).Where("device_code = ?", code).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetOwner claims the device. Guarded so a concurrent claim by another owner
// cannot overwrite an existing one; callers re-read to tell the cases apart.
func (r *DeviceRepository) SetOwner(code, ownerID, ownerName string) error {
	return r.db.Model(&models.Device{}).
		Where("device_code = ? AND (owner_id IS NULL OR owner_id = ?)", code, ownerID).
		Updates(map[string]any{
			"owner_id":   ownerID,
			"owner_name": ownerName,
			"is_active":  true,
		}).Error
}

// Clear de-provisions the device: ownership, activation, standing token and
// status all revert to the unowned state.
func (r *DeviceRepository) Clear(code string) error {
	return r.db.Model(&models.Device{}).
		Where("device_code = ?", code).
		Updates(map[string]any{
			"owner_id":      nil,
			"owner_name":    "",
			"is_active":     false,
			"current_token": "",
			"status":        models.DeviceStatusOffline,
		}).Error
}

func (r *DeviceRepository) SetCurrentToken(id, token string) error {
	return r.db.Model(&models.Device{}).Where("id = ?", id).
		Update("current_token", token).Error
}

// TouchSeen records a heartbeat: the device is online as of now.
func (r *DeviceRepository) TouchSeen(id string, now time.Time) (int64, error) {
	res := r.db.Model(&models.Device{}).Where("id = ?", id).
		Updates(map[string]any{
			"last_seen": now,
			"status":    models.DeviceStatusOnline,
		})
	return res.RowsAffected, res.Error
}

// MarkStaleOffline flips online devices whose last_seen predates cutoff. The
// condition is evaluated at write time, so a heartbeat landing mid-sweep wins.
func (r *DeviceRepository) MarkStaleOffline(cutoff time.Time) (int64, error) {
	res := r.db.Model(&models.Device{}).
		Where("status = ? AND last_seen IS NOT NULL AND last_seen < ?", models.DeviceStatusOnline, cutoff).
		Update("status", models.DeviceStatusOffline)
	return res.RowsAffected, res.Error
}

func (r *DeviceRepository) ListByStatus(status string) ([]models.Device, error) {
	var out []models.Device
	err := r.db.Where("status = ?", status).Order("device_code ASC").Find(&out).Error
	return out, err
}
