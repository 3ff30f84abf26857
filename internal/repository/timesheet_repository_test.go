package repository

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fstgc/vms/internal/models"
)

// setupTimesheetTestDB creates an in-memory SQLite database for testing.
func setupTimesheetTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Volunteer{},
		&models.AttendanceRecord{},
		&models.Timesheet{},
	)
	if err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return &DB{db}
}

// createTestTimesheet saves a pending timesheet.
func createTestTimesheet(t *testing.T, repo *TimesheetRepository, volunteerID uint, eventID *uint, hours float64) *models.Timesheet {
	t.Helper()

	timesheet := &models.Timesheet{
		VolunteerID:    volunteerID,
		EventID:        eventID,
		PeriodStart:    time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		TotalHours:     hours,
		ApprovalStatus: models.TimesheetPending,
	}
	if err := repo.Save(timesheet); err != nil {
		t.Fatalf("Failed to save test timesheet: %v", err)
	}
	return timesheet
}

func TestTimesheetRepository_SaveAndFindByID(t *testing.T) {
	db := setupTimesheetTestDB(t)
	repo := NewTimesheetRepository(db)

	created := createTestTimesheet(t, repo, 1, nil, 12.5)

	retrieved, err := repo.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID() failed: %v", err)
	}

	if retrieved.TotalHours != 12.5 {
		t.Errorf("Expected 12.5 hours, got %v", retrieved.TotalHours)
	}
	if retrieved.ApprovalStatus != models.TimesheetPending {
		t.Errorf("Expected pending status, got %q", retrieved.ApprovalStatus)
	}
}

func TestTimesheetRepository_FindByVolunteerAndEvent(t *testing.T) {
	db := setupTimesheetTestDB(t)
	repo := NewTimesheetRepository(db)

	eventID := uint(5)
	createTestTimesheet(t, repo, 1, &eventID, 4.5)

	found, err := repo.FindByVolunteerAndEvent(1, eventID)
	if err != nil {
		t.Fatalf("FindByVolunteerAndEvent() failed: %v", err)
	}
	if found == nil {
		t.Fatal("Expected timesheet for the bound event")
	}

	// Absent pair returns nil without error.
	missing, err := repo.FindByVolunteerAndEvent(1, 99)
	if err != nil {
		t.Fatalf("FindByVolunteerAndEvent() for missing pair failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for an unbound volunteer/event pair")
	}
}

func TestTimesheetRepository_FindPendingApprovals_OldestFirst(t *testing.T) {
	db := setupTimesheetTestDB(t)
	repo := NewTimesheetRepository(db)

	first := createTestTimesheet(t, repo, 1, nil, 2)
	time.Sleep(10 * time.Millisecond) // Ensure different timestamps
	second := createTestTimesheet(t, repo, 2, nil, 4)

	// Approved timesheets do not enter the queue.
	approved := createTestTimesheet(t, repo, 3, nil, 6)
	approved.ApprovalStatus = models.TimesheetApproved
	if err := repo.Update(approved); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	pending, err := repo.FindPendingApprovals()
	if err != nil {
		t.Fatalf("FindPendingApprovals() failed: %v", err)
	}

	if len(pending) != 2 {
		t.Fatalf("Expected 2 pending timesheets, got %d", len(pending))
	}
	if pending[0].ID != first.ID {
		t.Errorf("Expected oldest timesheet %d first, got %d", first.ID, pending[0].ID)
	}
	if pending[1].ID != second.ID {
		t.Errorf("Expected timesheet %d second, got %d", second.ID, pending[1].ID)
	}
}

func TestTimesheetRepository_Delete(t *testing.T) {
	db := setupTimesheetTestDB(t)
	repo := NewTimesheetRepository(db)

	timesheet := createTestTimesheet(t, repo, 1, nil, 3)

	deleted, err := repo.Delete(timesheet.ID)
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if !deleted {
		t.Error("Expected delete to report a matched row")
	}

	deleted, err = repo.Delete(timesheet.ID)
	if err != nil {
		t.Fatalf("Second Delete() failed: %v", err)
	}
	if deleted {
		t.Error("Expected second delete to report no matched row")
	}
}
