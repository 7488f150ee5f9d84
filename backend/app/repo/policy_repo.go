package repo

import (
	"guardian-control/backend/app/models"

	"gorm.io/gorm"
)

// PolicyRepository reads the externally-owned policy tables. Nothing here
// writes; profile editing belongs to another system.
type PolicyRepository struct{ db *gorm.DB }

func NewPolicyRepository(db *gorm.DB) *PolicyRepository { return &PolicyRepository{db: db} }

func (r *PolicyRepository) ClientByID(parentID, clientID string) (*models.PolicyClient, error) {
	var c models.PolicyClient
	if err := r.db.Where("parent_id = ? AND id = ?", parentID, clientID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PolicyRepository) ClientByMAC(parentID, mac string) (*models.PolicyClient, error) {
	var c models.PolicyClient
	if err := r.db.Where("parent_id = ? AND mac = ?", parentID, mac).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PolicyRepository) ProfileByID(id string) (*models.NetworkPolicyProfile, error) {
	var p models.NetworkPolicyProfile
	if err := r.db.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PolicyRepository) OverrideByChild(childID string) (*models.ChildPolicyOverride, error) {
	var o models.ChildPolicyOverride
	if err := r.db.Where("child_id = ?", childID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}
