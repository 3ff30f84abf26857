// Package models defines domain models for the volunteer management system.
package models

import (
	"time"
)

// VolunteerStatus represents the lifecycle state of a volunteer account.
type VolunteerStatus string

// Volunteer status values.
const (
	VolunteerActive   VolunteerStatus = "active"
	VolunteerInactive VolunteerStatus = "inactive"
)

// Volunteer represents a registered volunteer.
type Volunteer struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Email       string          `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Phone       string          `gorm:"size:50" json:"phone"`
	Status      VolunteerStatus `gorm:"size:20;not null;default:active" json:"status"`
	CurrentTier *BadgeTier      `gorm:"size:20" json:"current_tier"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Volunteer model.
func (Volunteer) TableName() string {
	return "volunteers"
}

// Achievement tier hour thresholds.
const (
	TierBronzeHours   = 10
	TierSilverHours   = 50
	TierGoldHours     = 100
	TierPlatinumHours = 200
)

// TierForHours returns the achievement tier earned by a total hour count,
// or nil when the total is below the bronze threshold.
func TierForHours(totalHours float64) *BadgeTier {
	var tier BadgeTier
	switch {
	case totalHours >= TierPlatinumHours:
		tier = TierPlatinum
	case totalHours >= TierGoldHours:
		tier = TierGold
	case totalHours >= TierSilverHours:
		tier = TierSilver
	case totalHours >= TierBronzeHours:
		tier = TierBronze
	default:
		return nil
	}
	return &tier
}
