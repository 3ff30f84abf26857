package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fstgc/vms/internal/apperrors"
	"github.com/fstgc/vms/internal/models"
)

// CriteriaRepository handles badge criteria database operations.
type CriteriaRepository struct {
	db *DB
}

// NewCriteriaRepository creates a new criteria repository.
func NewCriteriaRepository(db *DB) *CriteriaRepository {
	return &CriteriaRepository{db: db}
}

// Create inserts a new badge criterion.
func (r *CriteriaRepository) Create(c *models.BadgeCriteria) error {
	return r.db.Create(c).Error
}

// FindByID retrieves a criterion by id.
func (r *CriteriaRepository) FindByID(id uint) (*models.BadgeCriteria, error) {
	var c models.BadgeCriteria
	err := r.db.First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("badge criteria", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindActive retrieves all active criteria ordered by threshold ascending.
func (r *CriteriaRepository) FindActive() ([]models.BadgeCriteria, error) {
	var criteria []models.BadgeCriteria
	err := r.db.
		Where("active = ?", true).
		Order("criteria_type ASC, threshold_value ASC").
		Find(&criteria).Error
	return criteria, err
}

// Count returns the total number of criteria rows.
func (r *CriteriaRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.BadgeCriteria{}).Count(&count).Error
	return count, err
}
