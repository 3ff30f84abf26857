package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fstgc/vms/internal/apperrors"
	"github.com/fstgc/vms/internal/models"
	"github.com/fstgc/vms/pkg/logger"
)

// Mock repositories for testing

type mockAttendanceRepository struct {
	records map[uint]*models.AttendanceRecord
	nextID  uint
}

func newMockAttendanceRepository() *mockAttendanceRepository {
	return &mockAttendanceRepository{records: make(map[uint]*models.AttendanceRecord), nextID: 1}
}

func (m *mockAttendanceRepository) Create(a *models.AttendanceRecord) error {
	a.ID = m.nextID
	m.nextID++
	copied := *a
	m.records[a.ID] = &copied
	return nil
}

func (m *mockAttendanceRepository) Update(a *models.AttendanceRecord) error {
	copied := *a
	m.records[a.ID] = &copied
	return nil
}

func (m *mockAttendanceRepository) FindByID(id uint) (*models.AttendanceRecord, error) {
	if r, ok := m.records[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, apperrors.NotFound("attendance record", id)
}

func (m *mockAttendanceRepository) FindByVolunteer(volunteerID uint) ([]models.AttendanceRecord, error) {
	var result []models.AttendanceRecord
	for _, r := range m.records {
		if r.VolunteerID == volunteerID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAttendanceRepository) FindByVolunteerAndEvent(volunteerID, eventID uint) (*models.AttendanceRecord, error) {
	for _, r := range m.records {
		if r.VolunteerID == volunteerID && r.EventID == eventID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockAttendanceRepository) Delete(id uint) (bool, error) {
	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

type mockEventRepository struct {
	events map[uint]*models.Event
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{events: make(map[uint]*models.Event)}
}

func (m *mockEventRepository) FindByID(id uint) (*models.Event, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, apperrors.NotFound("event", id)
}

func (m *mockEventRepository) Update(e *models.Event) error {
	m.events[e.ID] = e
	return nil
}

type mockVolunteerRepository struct {
	volunteers map[uint]*models.Volunteer
}

func newMockVolunteerRepository() *mockVolunteerRepository {
	return &mockVolunteerRepository{volunteers: make(map[uint]*models.Volunteer)}
}

func (m *mockVolunteerRepository) FindByID(id uint) (*models.Volunteer, error) {
	if v, ok := m.volunteers[id]; ok {
		return v, nil
	}
	return nil, apperrors.NotFound("volunteer", id)
}

type mockTimesheetSyncer struct {
	calls []float64
}

func (m *mockTimesheetSyncer) SyncEventHours(_ context.Context, _, _ uint, hoursWorked float64) error {
	m.calls = append(m.calls, hoursWorked)
	return nil
}

type mockAwardChecker struct {
	volunteers []uint
}

func (m *mockAwardChecker) CheckAndAssignAutomaticAwards(_ context.Context, volunteerID uint) ([]models.Award, error) {
	m.volunteers = append(m.volunteers, volunteerID)
	return nil, nil
}

// Test setup helper
func setupTestService() (*Service, *mockAttendanceRepository, *mockEventRepository, *mockTimesheetSyncer, *mockAwardChecker) {
	attendanceRepo := newMockAttendanceRepository()
	eventRepo := newMockEventRepository()
	volunteerRepo := newMockVolunteerRepository()
	syncer := &mockTimesheetSyncer{}
	awards := &mockAwardChecker{}
	log := logger.New("debug", "text", "stdout")

	volunteerRepo.volunteers[1] = &models.Volunteer{ID: 1, Name: "Alice", Status: models.VolunteerActive}
	eventRepo.events[5] = &models.Event{ID: 5, Title: "Beach Cleanup", Capacity: 10}

	service := NewServiceWithInterfaces(attendanceRepo, eventRepo, volunteerRepo, syncer, awards, log)

	return service, attendanceRepo, eventRepo, syncer, awards
}

// Tests

func TestCheckIn(t *testing.T) {
	service, _, eventRepo, _, _ := setupTestService()

	record, err := service.CheckIn(context.Background(), 1, 5, nil)
	if err != nil {
		t.Fatalf("CheckIn() failed: %v", err)
	}

	if record.Status != models.AttendancePresent {
		t.Errorf("Expected present status, got %q", record.Status)
	}
	if record.CheckInTime.IsZero() {
		t.Error("Expected check-in time to be set")
	}
	if eventRepo.events[5].CurrentRegistrations != 1 {
		t.Errorf("Expected registration count 1, got %d", eventRepo.events[5].CurrentRegistrations)
	}
}

func TestCheckIn_EventFull(t *testing.T) {
	service, _, eventRepo, _, _ := setupTestService()
	eventRepo.events[5].CurrentRegistrations = 10

	_, err := service.CheckIn(context.Background(), 1, 5, nil)
	var validation *apperrors.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("Expected ValidationError for full event, got %v", err)
	}
}

func TestCheckIn_Duplicate(t *testing.T) {
	service, _, _, _, _ := setupTestService()

	if _, err := service.CheckIn(context.Background(), 1, 5, nil); err != nil {
		t.Fatalf("First CheckIn() failed: %v", err)
	}

	_, err := service.CheckIn(context.Background(), 1, 5, nil)
	var validation *apperrors.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("Expected ValidationError for duplicate check-in, got %v", err)
	}
}

func TestCheckIn_UnknownVolunteer(t *testing.T) {
	service, _, _, _, _ := setupTestService()

	_, err := service.CheckIn(context.Background(), 99, 5, nil)
	var notFound *apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestCheckOut_DerivesHoursAndRunsHooks(t *testing.T) {
	service, attendanceRepo, _, syncer, awards := setupTestService()

	record, err := service.CheckIn(context.Background(), 1, 5, nil)
	if err != nil {
		t.Fatalf("CheckIn() failed: %v", err)
	}

	// Backdate the check-in so the derived duration is meaningful.
	stored := attendanceRepo.records[record.ID]
	stored.CheckInTime = time.Now().Add(-4*time.Hour - 30*time.Minute)

	checkedOut, err := service.CheckOut(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("CheckOut() failed: %v", err)
	}

	if checkedOut.CheckOutTime == nil {
		t.Fatal("Expected check-out time to be set")
	}
	if checkedOut.HoursWorked != 4.5 {
		t.Errorf("Expected 4.5 derived hours, got %v", checkedOut.HoursWorked)
	}
	if len(syncer.calls) != 1 || syncer.calls[0] != 4.5 {
		t.Errorf("Expected timesheet sync with 4.5 hours, got %v", syncer.calls)
	}
	if len(awards.volunteers) != 1 || awards.volunteers[0] != 1 {
		t.Errorf("Expected award evaluation for volunteer 1, got %v", awards.volunteers)
	}
}

func TestCheckOut_OnlyOnce(t *testing.T) {
	service, _, _, _, _ := setupTestService()

	record, _ := service.CheckIn(context.Background(), 1, 5, nil)
	if _, err := service.CheckOut(context.Background(), record.ID); err != nil {
		t.Fatalf("First CheckOut() failed: %v", err)
	}

	_, err := service.CheckOut(context.Background(), record.ID)
	var transition *apperrors.InvalidStateTransitionError
	if !errors.As(err, &transition) {
		t.Errorf("Expected InvalidStateTransitionError, got %v", err)
	}
}

func TestRecordFull_DerivesHours(t *testing.T) {
	service, _, _, syncer, _ := setupTestService()

	checkIn := time.Date(2026, 6, 5, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(4*time.Hour + 30*time.Minute)
	record := &models.AttendanceRecord{
		VolunteerID:  1,
		EventID:      5,
		CheckInTime:  checkIn,
		CheckOutTime: &checkOut,
		HoursWorked:  99, // hand-set value must be ignored
	}

	created, err := service.RecordFull(context.Background(), record)
	if err != nil {
		t.Fatalf("RecordFull() failed: %v", err)
	}

	if created.HoursWorked != 4.5 {
		t.Errorf("Expected derived 4.5 hours, got %v", created.HoursWorked)
	}
	if len(syncer.calls) != 1 {
		t.Errorf("Expected 1 timesheet sync, got %d", len(syncer.calls))
	}
}

func TestRecordFull_CheckOutBeforeCheckIn(t *testing.T) {
	service, _, _, _, _ := setupTestService()

	checkIn := time.Date(2026, 6, 5, 9, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(-1 * time.Hour)
	record := &models.AttendanceRecord{
		VolunteerID:  1,
		EventID:      5,
		CheckInTime:  checkIn,
		CheckOutTime: &checkOut,
	}

	_, err := service.RecordFull(context.Background(), record)
	var validation *apperrors.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}

func TestUpdateStatus_FrozenAfterCheckOut(t *testing.T) {
	service, _, _, _, _ := setupTestService()

	record, _ := service.CheckIn(context.Background(), 1, 5, nil)

	// Status can change while the record is open.
	updated, err := service.UpdateStatus(context.Background(), record.ID, models.AttendanceLate)
	if err != nil {
		t.Fatalf("UpdateStatus() failed: %v", err)
	}
	if updated.Status != models.AttendanceLate {
		t.Errorf("Expected late status, got %q", updated.Status)
	}

	if _, err := service.CheckOut(context.Background(), record.ID); err != nil {
		t.Fatalf("CheckOut() failed: %v", err)
	}

	_, err = service.UpdateStatus(context.Background(), record.ID, models.AttendanceExcused)
	var transition *apperrors.InvalidStateTransitionError
	if !errors.As(err, &transition) {
		t.Errorf("Expected InvalidStateTransitionError after check-out, got %v", err)
	}
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	service, _, _, _, _ := setupTestService()

	record, _ := service.CheckIn(context.Background(), 1, 5, nil)

	_, err := service.UpdateStatus(context.Background(), record.ID, "vacationing")
	var validation *apperrors.ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}

func TestDelete_ReleasesRegistrationSlot(t *testing.T) {
	service, _, eventRepo, _, _ := setupTestService()

	record, _ := service.CheckIn(context.Background(), 1, 5, nil)
	if eventRepo.events[5].CurrentRegistrations != 1 {
		t.Fatalf("Expected 1 registration before delete")
	}

	if err := service.Delete(context.Background(), record.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if eventRepo.events[5].CurrentRegistrations != 0 {
		t.Errorf("Expected registration slot released, got %d", eventRepo.events[5].CurrentRegistrations)
	}
}
