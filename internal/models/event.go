package models

import (
	"time"
)

// Event represents a volunteer event with limited capacity.
type Event struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Title                string    `gorm:"not null;size:255" json:"title"`
	Description          string    `gorm:"type:text" json:"description"`
	Location             string    `gorm:"size:255" json:"location"`
	EventDate            time.Time `gorm:"not null;index" json:"event_date"`
	Capacity             int       `gorm:"default:0" json:"capacity"` // 0 means unlimited
	CurrentRegistrations int       `gorm:"default:0" json:"current_registrations"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName specifies the table name for Event model.
func (Event) TableName() string {
	return "events"
}

// IsFull reports whether the event has reached its registration capacity.
func (e *Event) IsFull() bool {
	return e.Capacity > 0 && e.CurrentRegistrations >= e.Capacity
}
