package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fstgc/vms/internal/apperrors"
	"github.com/fstgc/vms/internal/models"
)

// VolunteerRepository handles volunteer database operations.
type VolunteerRepository struct {
	db *DB
}

// NewVolunteerRepository creates a new volunteer repository.
func NewVolunteerRepository(db *DB) *VolunteerRepository {
	return &VolunteerRepository{db: db}
}

// Create inserts a new volunteer.
func (r *VolunteerRepository) Create(v *models.Volunteer) error {
	return r.db.Create(v).Error
}

// FindByID retrieves a volunteer by id.
func (r *VolunteerRepository) FindByID(id uint) (*models.Volunteer, error) {
	var v models.Volunteer
	err := r.db.First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("volunteer", id)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByEmail retrieves a volunteer by email.
func (r *VolunteerRepository) FindByEmail(email string) (*models.Volunteer, error) {
	var v models.Volunteer
	err := r.db.Where("email = ?", email).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("volunteer", 0)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FindActive retrieves all active volunteers ordered by id.
func (r *VolunteerRepository) FindActive() ([]models.Volunteer, error) {
	var volunteers []models.Volunteer
	err := r.db.
		Where("status = ?", models.VolunteerActive).
		Order("id ASC").
		Find(&volunteers).Error
	return volunteers, err
}

// Update persists changes to an existing volunteer.
func (r *VolunteerRepository) Update(v *models.Volunteer) error {
	return r.db.Save(v).Error
}
