package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fstgc/vms/internal/apperrors"
	"github.com/fstgc/vms/internal/models"
)

// AttendanceRepository handles attendance record database operations.
type AttendanceRepository struct {
	db *DB
}

// NewAttendanceRepository creates a new attendance repository.
func NewAttendanceRepository(db *DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts a new attendance record.
func (r *AttendanceRepository) Create(a *models.AttendanceRecord) error {
	return r.db.Create(a).Error
}

// FindByID retrieves an attendance record by id.
func (r *AttendanceRepository) FindByID(id uint) (*models.AttendanceRecord, error) {
	var a models.AttendanceRecord
	err := r.db.First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("attendance record", id)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByVolunteer retrieves all attendance records for a volunteer ordered by check-in.
func (r *AttendanceRepository) FindByVolunteer(volunteerID uint) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.db.
		Where("volunteer_id = ?", volunteerID).
		Order("check_in_time ASC").
		Find(&records).Error
	return records, err
}

// FindByVolunteerAndEvent retrieves the attendance record for a volunteer/event
// pair, or nil when none exists.
func (r *AttendanceRepository) FindByVolunteerAndEvent(volunteerID, eventID uint) (*models.AttendanceRecord, error) {
	var a models.AttendanceRecord
	err := r.db.
		Where("volunteer_id = ? AND event_id = ?", volunteerID, eventID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Update persists changes to an existing attendance record.
func (r *AttendanceRepository) Update(a *models.AttendanceRecord) error {
	return r.db.Save(a).Error
}

// Delete removes an attendance record by id. Returns false when no row matched.
func (r *AttendanceRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.AttendanceRecord{}, id)
	return res.RowsAffected > 0, res.Error
}
