// Package timesheets implements timesheet generation and the
// pending/approved/rejected approval workflow.
package timesheets

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fstgc/vms/internal/apperrors"
	"github.com/fstgc/vms/internal/metrics"
	"github.com/fstgc/vms/internal/models"
	"github.com/fstgc/vms/internal/repository"
	"github.com/fstgc/vms/pkg/keylock"
	"github.com/fstgc/vms/pkg/logger"
)

// TimesheetRepository interface for timesheet operations.
type TimesheetRepository interface {
	Save(t *models.Timesheet) error
	Update(t *models.Timesheet) error
	FindByID(id uint) (*models.Timesheet, error)
	FindByVolunteer(volunteerID uint) ([]models.Timesheet, error)
	FindByVolunteerAndEvent(volunteerID, eventID uint) (*models.Timesheet, error)
	FindPendingApprovals() ([]models.Timesheet, error)
	Delete(id uint) (bool, error)
}

// AttendanceRepository interface for attendance lookups.
type AttendanceRepository interface {
	FindByVolunteer(volunteerID uint) ([]models.AttendanceRecord, error)
	FindByVolunteerAndEvent(volunteerID, eventID uint) (*models.AttendanceRecord, error)
}

// Service drives the timesheet approval workflow. Status transitions are
// serialized per timesheet id so concurrent approve/reject calls cannot both
// pass the pending-status guard.
type Service struct {
	timesheetRepo  TimesheetRepository
	attendanceRepo AttendanceRepository
	log            *logger.Logger
	locks          *keylock.KeyLock
}

// NewService creates a timesheet service with concrete repository types.
func NewService(
	timesheetRepo *repository.TimesheetRepository,
	attendanceRepo *repository.AttendanceRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		timesheetRepo:  timesheetRepo,
		attendanceRepo: attendanceRepo,
		log:            log,
		locks:          keylock.New(),
	}
}

// NewServiceWithInterfaces creates a timesheet service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	timesheetRepo TimesheetRepository,
	attendanceRepo AttendanceRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		timesheetRepo:  timesheetRepo,
		attendanceRepo: attendanceRepo,
		log:            log,
		locks:          keylock.New(),
	}
}

// Generate creates a pending timesheet covering every attendance record whose
// check-in date falls inside [periodStart, periodEnd] inclusive. A period with
// no matching records yields a valid zero-hour timesheet.
func (s *Service) Generate(_ context.Context, volunteerID uint, periodStart, periodEnd time.Time) (*models.Timesheet, error) {
	if volunteerID == 0 {
		return nil, apperrors.Validationf("volunteer id is required")
	}
	start := dateOnly(periodStart)
	end := dateOnly(periodEnd)
	if end.Before(start) {
		return nil, apperrors.Validationf("period end %s is before period start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	records, err := s.attendanceRepo.FindByVolunteer(volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance records: %w", err)
	}

	var total float64
	for _, rec := range records {
		day := dateOnly(rec.CheckInTime)
		if day.Before(start) || day.After(end) {
			continue
		}
		total += rec.HoursWorked
	}

	timesheet := &models.Timesheet{
		VolunteerID:    volunteerID,
		PeriodStart:    start,
		PeriodEnd:      end,
		TotalHours:     roundHours(total),
		ApprovalStatus: models.TimesheetPending,
	}
	if err := s.timesheetRepo.Save(timesheet); err != nil {
		return nil, fmt.Errorf("failed to save timesheet: %w", err)
	}

	metrics.ObserveTimesheetHours(timesheet.TotalHours)
	s.log.Info().
		Uint("volunteer_id", volunteerID).
		Float64("total_hours", timesheet.TotalHours).
		Msg("Timesheet generated")

	return timesheet, nil
}

// SubmitForEvent creates a pending timesheet bound to exactly one completed
// attendance record. At most one timesheet may exist per (volunteer, event).
func (s *Service) SubmitForEvent(_ context.Context, volunteerID, eventID uint, eventName string) (*models.Timesheet, error) {
	if volunteerID == 0 {
		return nil, apperrors.Validationf("volunteer id is required")
	}
	if eventID == 0 {
		return nil, apperrors.Validationf("event id is required")
	}

	existing, err := s.timesheetRepo.FindByVolunteerAndEvent(volunteerID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing timesheet: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Validationf("a timesheet already exists for volunteer %d and event %d", volunteerID, eventID)
	}

	record, err := s.attendanceRepo.FindByVolunteerAndEvent(volunteerID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance record: %w", err)
	}
	if record == nil || !record.Completed() {
		return nil, apperrors.NotFound("completed attendance record for event", eventID)
	}

	timesheet := &models.Timesheet{
		VolunteerID:    volunteerID,
		AttendanceID:   &record.ID,
		EventID:        &eventID,
		EventName:      eventName,
		PeriodStart:    dateOnly(record.CheckInTime),
		PeriodEnd:      dateOnly(*record.CheckOutTime),
		TotalHours:     record.HoursWorked,
		ApprovalStatus: models.TimesheetPending,
	}
	if err := s.timesheetRepo.Save(timesheet); err != nil {
		return nil, fmt.Errorf("failed to save timesheet: %w", err)
	}

	metrics.ObserveTimesheetHours(timesheet.TotalHours)
	return timesheet, nil
}

// Approve moves a pending timesheet to approved. Approval is final: the
// timesheet becomes immutable.
func (s *Service) Approve(_ context.Context, timesheetID, approverID uint) (*models.Timesheet, error) {
	if approverID == 0 {
		return nil, apperrors.Validationf("approver id is required")
	}

	unlock := s.locks.Lock(timesheetID)
	defer unlock()

	timesheet, err := s.timesheetRepo.FindByID(timesheetID)
	if err != nil {
		return nil, err
	}
	if timesheet.ApprovalStatus != models.TimesheetPending {
		return nil, apperrors.InvalidTransition("approve timesheet", string(timesheet.ApprovalStatus))
	}

	now := time.Now()
	approved := timesheet.TotalHours
	timesheet.ApprovalStatus = models.TimesheetApproved
	timesheet.ApprovedBy = &approverID
	timesheet.ApprovalDate = &now
	timesheet.ApprovedHours = &approved

	if err := s.timesheetRepo.Update(timesheet); err != nil {
		return nil, fmt.Errorf("failed to update timesheet: %w", err)
	}

	metrics.RecordTimesheetTransition(string(models.TimesheetApproved))
	s.log.Info().
		Uint("timesheet_id", timesheetID).
		Uint("approver_id", approverID).
		Msg("Timesheet approved")

	return timesheet, nil
}

// Reject moves a pending timesheet to rejected. A reason is required. Rejected
// timesheets remain editable and deletable.
func (s *Service) Reject(_ context.Context, timesheetID, approverID uint, reason string) (*models.Timesheet, error) {
	if approverID == 0 {
		return nil, apperrors.Validationf("approver id is required")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.Validationf("rejection reason is required")
	}

	unlock := s.locks.Lock(timesheetID)
	defer unlock()

	timesheet, err := s.timesheetRepo.FindByID(timesheetID)
	if err != nil {
		return nil, err
	}
	if timesheet.ApprovalStatus != models.TimesheetPending {
		return nil, apperrors.InvalidTransition("reject timesheet", string(timesheet.ApprovalStatus))
	}

	now := time.Now()
	timesheet.ApprovalStatus = models.TimesheetRejected
	timesheet.RejectedBy = &approverID
	timesheet.RejectionDate = &now
	timesheet.RejectionReason = reason

	if err := s.timesheetRepo.Update(timesheet); err != nil {
		return nil, fmt.Errorf("failed to update timesheet: %w", err)
	}

	metrics.RecordTimesheetTransition(string(models.TimesheetRejected))
	s.log.Info().
		Uint("timesheet_id", timesheetID).
		Uint("approver_id", approverID).
		Str("reason", reason).
		Msg("Timesheet rejected")

	return timesheet, nil
}

// Update edits a timesheet's hours and descriptive fields. An approved
// timesheet cannot be modified; a rejected one can, which moves it back to
// pending so it re-enters the approval queue.
func (s *Service) Update(_ context.Context, updated *models.Timesheet) (*models.Timesheet, error) {
	unlock := s.locks.Lock(updated.ID)
	defer unlock()

	timesheet, err := s.timesheetRepo.FindByID(updated.ID)
	if err != nil {
		return nil, err
	}
	if timesheet.ApprovalStatus == models.TimesheetApproved {
		return nil, apperrors.InvalidTransition("modify an approved timesheet", string(timesheet.ApprovalStatus))
	}

	timesheet.TotalHours = roundHours(updated.TotalHours)
	timesheet.EventName = updated.EventName
	if !updated.PeriodStart.IsZero() {
		timesheet.PeriodStart = dateOnly(updated.PeriodStart)
	}
	if !updated.PeriodEnd.IsZero() {
		timesheet.PeriodEnd = dateOnly(updated.PeriodEnd)
	}
	if timesheet.PeriodEnd.Before(timesheet.PeriodStart) {
		return nil, apperrors.Validationf("period end is before period start")
	}
	if timesheet.ApprovalStatus == models.TimesheetRejected {
		timesheet.ApprovalStatus = models.TimesheetPending
		timesheet.RejectedBy = nil
		timesheet.RejectionDate = nil
		timesheet.RejectionReason = ""
	}

	if err := s.timesheetRepo.Update(timesheet); err != nil {
		return nil, fmt.Errorf("failed to update timesheet: %w", err)
	}
	return timesheet, nil
}

// Delete removes a timesheet that is not approved.
func (s *Service) Delete(_ context.Context, timesheetID uint) error {
	unlock := s.locks.Lock(timesheetID)
	defer unlock()

	timesheet, err := s.timesheetRepo.FindByID(timesheetID)
	if err != nil {
		return err
	}
	if timesheet.ApprovalStatus == models.TimesheetApproved {
		return apperrors.InvalidTransition("delete an approved timesheet", string(timesheet.ApprovalStatus))
	}

	deleted, err := s.timesheetRepo.Delete(timesheetID)
	if err != nil {
		return fmt.Errorf("failed to delete timesheet: %w", err)
	}
	if !deleted {
		return apperrors.NotFound("timesheet", timesheetID)
	}
	return nil
}

// ByVolunteer retrieves all timesheets for a volunteer.
func (s *Service) ByVolunteer(_ context.Context, volunteerID uint) ([]models.Timesheet, error) {
	return s.timesheetRepo.FindByVolunteer(volunteerID)
}

// PendingApprovals retrieves the approval queue and refreshes the gauge.
func (s *Service) PendingApprovals(_ context.Context) ([]models.Timesheet, error) {
	pending, err := s.timesheetRepo.FindPendingApprovals()
	if err != nil {
		return nil, err
	}
	metrics.SetPendingApprovals(len(pending))
	return pending, nil
}

// SyncEventHours refreshes the hour total of the single-event timesheet bound
// to a volunteer/event pair after its attendance record changes. Approved and
// rejected timesheets are left untouched.
func (s *Service) SyncEventHours(_ context.Context, volunteerID, eventID uint, hoursWorked float64) error {
	timesheet, err := s.timesheetRepo.FindByVolunteerAndEvent(volunteerID, eventID)
	if err != nil {
		return fmt.Errorf("failed to load event timesheet: %w", err)
	}
	if timesheet == nil {
		return nil
	}

	unlock := s.locks.Lock(timesheet.ID)
	defer unlock()

	current, err := s.timesheetRepo.FindByID(timesheet.ID)
	if err != nil {
		return err
	}
	if current.ApprovalStatus != models.TimesheetPending {
		return nil
	}

	current.TotalHours = roundHours(hoursWorked)
	if err := s.timesheetRepo.Update(current); err != nil {
		return fmt.Errorf("failed to sync timesheet hours: %w", err)
	}
	return nil
}

// dateOnly truncates a timestamp to its calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// roundHours rounds to two decimal places, half-up.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
