package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fstgc/vms/internal/apperrors"
	"github.com/fstgc/vms/internal/models"
)

// TimesheetRepository handles timesheet database operations.
type TimesheetRepository struct {
	db *DB
}

// NewTimesheetRepository creates a new timesheet repository.
func NewTimesheetRepository(db *DB) *TimesheetRepository {
	return &TimesheetRepository{db: db}
}

// Save inserts a new timesheet.
func (r *TimesheetRepository) Save(t *models.Timesheet) error {
	return r.db.Create(t).Error
}

// Update persists changes to an existing timesheet.
func (r *TimesheetRepository) Update(t *models.Timesheet) error {
	return r.db.Save(t).Error
}

// FindByID retrieves a timesheet by id.
func (r *TimesheetRepository) FindByID(id uint) (*models.Timesheet, error) {
	var t models.Timesheet
	err := r.db.First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("timesheet", id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindByVolunteer retrieves all timesheets for a volunteer, newest first.
func (r *TimesheetRepository) FindByVolunteer(volunteerID uint) ([]models.Timesheet, error) {
	var timesheets []models.Timesheet
	err := r.db.
		Where("volunteer_id = ?", volunteerID).
		Order("created_at DESC").
		Find(&timesheets).Error
	return timesheets, err
}

// FindByVolunteerAndEvent retrieves the timesheet bound to a volunteer/event
// pair, or nil when none exists.
func (r *TimesheetRepository) FindByVolunteerAndEvent(volunteerID, eventID uint) (*models.Timesheet, error) {
	var t models.Timesheet
	err := r.db.
		Where("volunteer_id = ? AND event_id = ?", volunteerID, eventID).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindPendingApprovals retrieves all timesheets awaiting approval, oldest first.
func (r *TimesheetRepository) FindPendingApprovals() ([]models.Timesheet, error) {
	var timesheets []models.Timesheet
	err := r.db.
		Where("approval_status = ?", models.TimesheetPending).
		Order("created_at ASC").
		Find(&timesheets).Error
	return timesheets, err
}

// Delete removes a timesheet by id. Returns false when no row matched.
func (r *TimesheetRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Timesheet{}, id)
	return res.RowsAffected > 0, res.Error
}
