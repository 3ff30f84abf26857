// Package attendance manages check-in/check-out records, the source of truth
// for volunteer hours.
package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/fstgc/vms/internal/apperrors"
	"github.com/fstgc/vms/internal/metrics"
	"github.com/fstgc/vms/internal/models"
	"github.com/fstgc/vms/internal/repository"
	"github.com/fstgc/vms/pkg/logger"
)

// AttendanceRepository interface for attendance record operations.
type AttendanceRepository interface {
	Create(a *models.AttendanceRecord) error
	Update(a *models.AttendanceRecord) error
	FindByID(id uint) (*models.AttendanceRecord, error)
	FindByVolunteer(volunteerID uint) ([]models.AttendanceRecord, error)
	FindByVolunteerAndEvent(volunteerID, eventID uint) (*models.AttendanceRecord, error)
	Delete(id uint) (bool, error)
}

// EventRepository interface for event lookups and registration counting.
type EventRepository interface {
	FindByID(id uint) (*models.Event, error)
	Update(e *models.Event) error
}

// VolunteerRepository interface for volunteer lookups.
type VolunteerRepository interface {
	FindByID(id uint) (*models.Volunteer, error)
}

// TimesheetSyncer propagates hour changes to a bound single-event timesheet.
type TimesheetSyncer interface {
	SyncEventHours(ctx context.Context, volunteerID, eventID uint, hoursWorked float64) error
}

// AwardChecker runs the automatic award evaluation after hours change.
type AwardChecker interface {
	CheckAndAssignAutomaticAwards(ctx context.Context, volunteerID uint) ([]models.Award, error)
}

// Service records and mutates attendance. Hours are derived on check-out and
// never hand-set.
type Service struct {
	attendanceRepo AttendanceRepository
	eventRepo      EventRepository
	volunteerRepo  VolunteerRepository
	timesheets     TimesheetSyncer
	awards         AwardChecker
	log            *logger.Logger
}

// NewService creates an attendance service with concrete repository types.
// Timesheet syncing and award checking are optional hooks.
func NewService(
	attendanceRepo *repository.AttendanceRepository,
	eventRepo *repository.EventRepository,
	volunteerRepo *repository.VolunteerRepository,
	timesheets TimesheetSyncer,
	awards AwardChecker,
	log *logger.Logger,
) *Service {
	return &Service{
		attendanceRepo: attendanceRepo,
		eventRepo:      eventRepo,
		volunteerRepo:  volunteerRepo,
		timesheets:     timesheets,
		awards:         awards,
		log:            log,
	}
}

// NewServiceWithInterfaces creates an attendance service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	attendanceRepo AttendanceRepository,
	eventRepo EventRepository,
	volunteerRepo VolunteerRepository,
	timesheets TimesheetSyncer,
	awards AwardChecker,
	log *logger.Logger,
) *Service {
	return &Service{
		attendanceRepo: attendanceRepo,
		eventRepo:      eventRepo,
		volunteerRepo:  volunteerRepo,
		timesheets:     timesheets,
		awards:         awards,
		log:            log,
	}
}

// CheckIn opens an attendance record for a volunteer at an event and claims a
// registration slot. A volunteer may hold at most one record per event.
func (s *Service) CheckIn(ctx context.Context, volunteerID, eventID uint, recordedBy *uint) (*models.AttendanceRecord, error) {
	if _, err := s.volunteerRepo.FindByID(volunteerID); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.IsFull() {
		return nil, apperrors.Validationf("event %q is at full capacity", event.Title)
	}

	existing, err := s.attendanceRepo.FindByVolunteerAndEvent(volunteerID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Validationf("volunteer %d is already checked in for event %d", volunteerID, eventID)
	}

	record := &models.AttendanceRecord{
		VolunteerID: volunteerID,
		EventID:     eventID,
		CheckInTime: time.Now(),
		Status:      models.AttendancePresent,
		RecordedBy:  recordedBy,
	}
	if err := s.attendanceRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to save attendance record: %w", err)
	}

	event.CurrentRegistrations++
	if err := s.eventRepo.Update(event); err != nil {
		s.log.Warn().Err(err).Uint("event_id", eventID).Msg("Failed to update event registration count")
	}

	metrics.RecordCheckIn()
	s.log.Info().
		Uint("volunteer_id", volunteerID).
		Uint("event_id", eventID).
		Msg("Volunteer checked in")

	return record, nil
}

// CheckOut completes an attendance record, deriving HoursWorked from the
// timestamps. The record's status is frozen after check-out. The bound
// single-event timesheet, if any, is refreshed, and the automatic award
// evaluation runs on the volunteer's new totals.
func (s *Service) CheckOut(ctx context.Context, attendanceID uint) (*models.AttendanceRecord, error) {
	record, err := s.attendanceRepo.FindByID(attendanceID)
	if err != nil {
		return nil, err
	}
	if record.Completed() {
		return nil, apperrors.InvalidTransition("check out", "already checked out")
	}

	now := time.Now()
	if now.Before(record.CheckInTime) {
		return nil, apperrors.Validationf("check-out time precedes check-in time")
	}

	record.CheckOutTime = &now
	record.HoursWorked = models.HoursBetween(record.CheckInTime, now)
	if err := s.attendanceRepo.Update(record); err != nil {
		return nil, fmt.Errorf("failed to save attendance record: %w", err)
	}

	metrics.RecordCheckOut()
	s.afterHoursChanged(ctx, record)
	return record, nil
}

// RecordFull creates a complete attendance record with both timestamps set,
// for after-the-fact data entry. HoursWorked is derived, never taken as input.
func (s *Service) RecordFull(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	if record.VolunteerID == 0 {
		return nil, apperrors.Validationf("volunteer id is required")
	}
	if record.EventID == 0 {
		return nil, apperrors.Validationf("event id is required")
	}
	if record.CheckInTime.IsZero() {
		return nil, apperrors.Validationf("check-in time is required")
	}
	if record.CheckOutTime != nil && record.CheckOutTime.Before(record.CheckInTime) {
		return nil, apperrors.Validationf("check-out time precedes check-in time")
	}
	if record.Status == "" {
		record.Status = models.AttendancePresent
	}
	if !models.ValidAttendanceStatus(record.Status) {
		return nil, apperrors.Validationf("attendance status %q is not valid", record.Status)
	}

	if _, err := s.volunteerRepo.FindByID(record.VolunteerID); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.FindByID(record.EventID); err != nil {
		return nil, err
	}

	if record.CheckOutTime != nil {
		record.HoursWorked = models.HoursBetween(record.CheckInTime, *record.CheckOutTime)
	} else {
		record.HoursWorked = 0
	}

	if err := s.attendanceRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to save attendance record: %w", err)
	}

	if record.Completed() {
		s.afterHoursChanged(ctx, record)
	}
	return record, nil
}

// UpdateStatus changes the presence status of a record that has not yet been
// checked out.
func (s *Service) UpdateStatus(_ context.Context, attendanceID uint, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	if !models.ValidAttendanceStatus(status) {
		return nil, apperrors.Validationf("attendance status %q is not valid", status)
	}

	record, err := s.attendanceRepo.FindByID(attendanceID)
	if err != nil {
		return nil, err
	}
	if record.Completed() {
		return nil, apperrors.InvalidTransition("update status", "checked out")
	}

	record.Status = status
	if err := s.attendanceRepo.Update(record); err != nil {
		return nil, fmt.Errorf("failed to save attendance record: %w", err)
	}
	return record, nil
}

// ByVolunteer retrieves all attendance records for a volunteer.
func (s *Service) ByVolunteer(_ context.Context, volunteerID uint) ([]models.AttendanceRecord, error) {
	return s.attendanceRepo.FindByVolunteer(volunteerID)
}

// Delete removes an attendance record and releases the event registration slot.
func (s *Service) Delete(_ context.Context, attendanceID uint) error {
	record, err := s.attendanceRepo.FindByID(attendanceID)
	if err != nil {
		return err
	}

	deleted, err := s.attendanceRepo.Delete(attendanceID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	if !deleted {
		return apperrors.NotFound("attendance record", attendanceID)
	}

	event, err := s.eventRepo.FindByID(record.EventID)
	if err == nil && event.CurrentRegistrations > 0 {
		event.CurrentRegistrations--
		if err := s.eventRepo.Update(event); err != nil {
			s.log.Warn().Err(err).Uint("event_id", event.ID).Msg("Failed to release event registration slot")
		}
	}
	return nil
}

// afterHoursChanged runs the derivation hooks once a record carries final
// hours. Hook failures are surfaced in the log but do not undo the attendance
// write itself.
func (s *Service) afterHoursChanged(ctx context.Context, record *models.AttendanceRecord) {
	if s.timesheets != nil {
		if err := s.timesheets.SyncEventHours(ctx, record.VolunteerID, record.EventID, record.HoursWorked); err != nil {
			s.log.Error().
				Err(err).
				Uint("volunteer_id", record.VolunteerID).
				Uint("event_id", record.EventID).
				Msg("Failed to sync event timesheet hours")
		}
	}
	if s.awards != nil {
		if _, err := s.awards.CheckAndAssignAutomaticAwards(ctx, record.VolunteerID); err != nil {
			s.log.Error().
				Err(err).
				Uint("volunteer_id", record.VolunteerID).
				Msg("Automatic award evaluation failed")
		}
	}
}
