package models

import (
	"math"
	"time"
)

// AttendanceStatus represents the recorded presence state for an attendance record.
type AttendanceStatus string

// Attendance status values.
const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// ValidAttendanceStatus reports whether s is one of the known status values.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// AttendanceRecord represents a check-in/check-out pair for a volunteer at an event.
// HoursWorked is derived from the timestamps on check-out and never hand-set.
type AttendanceRecord struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	VolunteerID  uint             `gorm:"not null;index" json:"volunteer_id"`
	EventID      uint             `gorm:"not null;index" json:"event_id"`
	CheckInTime  time.Time        `gorm:"not null" json:"check_in_time"`
	CheckOutTime *time.Time       `json:"check_out_time"`
	Status       AttendanceStatus `gorm:"size:20;not null;default:present" json:"status"`
	HoursWorked  float64          `gorm:"type:decimal(8,2);default:0" json:"hours_worked"`
	RecordedBy   *uint            `json:"recorded_by"`
	Notes        string           `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// TableName specifies the table name for AttendanceRecord model.
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// Completed reports whether the record has both check-in and check-out set.
func (a *AttendanceRecord) Completed() bool {
	return !a.CheckInTime.IsZero() && a.CheckOutTime != nil
}

// HoursBetween returns the elapsed hours between check-in and check-out,
// rounded half-up to two decimal places.
func HoursBetween(checkIn, checkOut time.Time) float64 {
	hours := checkOut.Sub(checkIn).Hours()
	if hours < 0 {
		return 0
	}
	return math.Round(hours*100) / 100
}
