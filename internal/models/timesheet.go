package models

import (
	"time"
)

// TimesheetStatus represents the approval state of a timesheet.
type TimesheetStatus string

// Timesheet approval states. Pending is the initial state; Approved and
// Rejected are terminal, but a rejected timesheet may still be edited or
// deleted while an approved one is immutable.
const (
	TimesheetPending  TimesheetStatus = "pending"
	TimesheetApproved TimesheetStatus = "approved"
	TimesheetRejected TimesheetStatus = "rejected"
)

// Timesheet aggregates attendance hours for a volunteer over a period, or for
// a single event when AttendanceID is set.
type Timesheet struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	VolunteerID     uint            `gorm:"not null;index" json:"volunteer_id"`
	AttendanceID    *uint           `gorm:"index" json:"attendance_id"`
	EventID         *uint           `gorm:"index" json:"event_id"`
	EventName       string          `gorm:"size:255" json:"event_name"`
	PeriodStart     time.Time       `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd       time.Time       `gorm:"type:date;not null" json:"period_end"`
	TotalHours      float64         `gorm:"type:decimal(8,2);default:0" json:"total_hours"`
	ApprovedHours   *float64        `gorm:"type:decimal(8,2)" json:"approved_hours"`
	ApprovalStatus  TimesheetStatus `gorm:"size:20;not null;default:pending;index" json:"approval_status"`
	ApprovedBy      *uint           `json:"approved_by"`
	ApprovalDate    *time.Time      `json:"approval_date"`
	RejectedBy      *uint           `json:"rejected_by"`
	RejectionDate   *time.Time      `json:"rejection_date"`
	RejectionReason string          `gorm:"type:text" json:"rejection_reason"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Timesheet model.
func (Timesheet) TableName() string {
	return "timesheets"
}
