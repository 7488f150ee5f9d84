package repo

import (
	"guardian-control/backend/app/models"

	"gorm.io/gorm"
)

type BootstrapSecretRepository struct{ db *gorm.DB }

func NewBootstrapSecretRepository(db *gorm.DB) *BootstrapSecretRepository {
	return &BootstrapSecretRepository{db: db}
}

// Upsert replaces any previous hash for the code. A device may re-bootstrap
// while it is still unowned.
func (r *BootstrapSecretRepository) Upsert(code, hash string) error {
	var existing models.BootstrapSecret
	if err := r.db.Where("device_code = ?", code).First(&existing).Error; err == nil {
		existing.SecretHash = hash
		return r.db.Save(&existing).Error
	}
	return r.db.Create(&models.BootstrapSecret{DeviceCode: code, SecretHash: hash}).Error
}

func (r *BootstrapSecretRepository) FindByCode(code string) (*models.BootstrapSecret, error) {
	var s models.BootstrapSecret
	if err := r.db.Where("device_code = ?", code).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
