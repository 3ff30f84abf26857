// Package hours derives aggregated volunteer statistics from attendance records.
package hours

import (
	"context"
	"fmt"

	"github.com/fstgc/vms/internal/models"
	"github.com/fstgc/vms/internal/repository"
)

// AttendanceRepository interface for attendance lookups.
type AttendanceRepository interface {
	FindByVolunteer(volunteerID uint) ([]models.AttendanceRecord, error)
}

// Stats holds the aggregated figures for one volunteer.
type Stats struct {
	TotalHours float64 `json:"total_hours"`
	EventCount int     `json:"event_count"`
}

// Aggregator is a pure read-through over the attendance store.
type Aggregator struct {
	attendanceRepo AttendanceRepository
}

// NewAggregator creates an aggregator backed by the concrete repository.
func NewAggregator(attendanceRepo *repository.AttendanceRepository) *Aggregator {
	return &Aggregator{attendanceRepo: attendanceRepo}
}

// NewAggregatorWithInterfaces creates an aggregator with interface dependencies (useful for testing).
func NewAggregatorWithInterfaces(attendanceRepo AttendanceRepository) *Aggregator {
	return &Aggregator{attendanceRepo: attendanceRepo}
}

// StatsFor returns the volunteer's total worked hours and the number of events
// actually attended. A volunteer with no records yields zero stats, not an error.
//
//nolint:revive // ctx reserved for future context-aware repository calls
func (a *Aggregator) StatsFor(ctx context.Context, volunteerID uint) (Stats, error) {
	records, err := a.attendanceRepo.FindByVolunteer(volunteerID)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load attendance records: %w", err)
	}

	var stats Stats
	for _, rec := range records {
		stats.TotalHours += rec.HoursWorked
		if !rec.CheckInTime.IsZero() {
			stats.EventCount++
		}
	}
	return stats, nil
}
