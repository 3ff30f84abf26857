package models

import (
	"time"
)

// BadgeTier is an ordered badge rank.
type BadgeTier string

// Badge tiers, lowest to highest.
const (
	TierBronze   BadgeTier = "bronze"
	TierSilver   BadgeTier = "silver"
	TierGold     BadgeTier = "gold"
	TierPlatinum BadgeTier = "platinum"
)

// ValidBadgeTier reports whether t is one of the known tiers.
func ValidBadgeTier(t BadgeTier) bool {
	switch t {
	case TierBronze, TierSilver, TierGold, TierPlatinum:
		return true
	}
	return false
}

// CriteriaType classifies how a badge criterion is measured.
type CriteriaType string

// Criteria types. TotalHours and EventCount are evaluated automatically from
// attendance data; the remaining types are assigned through the manual path.
const (
	CriteriaTotalHours         CriteriaType = "total_hours"
	CriteriaEventCount         CriteriaType = "event_count"
	CriteriaConsecutiveMonths  CriteriaType = "consecutive_months"
	CriteriaSpecialAchievement CriteriaType = "special_achievement"
)

// BadgeCriteria is a thresholded rule that unlocks a badge. A criteria row is
// treated as immutable once any Award references it; changing a threshold does
// not retroactively revoke awards.
type BadgeCriteria struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	BadgeName      string       `gorm:"uniqueIndex;not null;size:100" json:"badge_name"`
	Description    string       `gorm:"type:text" json:"description"`
	CriteriaType   CriteriaType `gorm:"size:30;not null;index" json:"criteria_type"`
	ThresholdValue int          `gorm:"not null" json:"threshold_value"`
	BadgeTier      BadgeTier    `gorm:"size:20;not null" json:"badge_tier"`
	Active         bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time    `json:"created_at"`
}

// TableName specifies the table name for BadgeCriteria model.
func (BadgeCriteria) TableName() string {
	return "badge_criteria"
}

// Award represents a badge earned by a volunteer. At most one award exists per
// (volunteer, criteria) pair; the only mutable field after creation is Featured.
type Award struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	VolunteerID      uint      `gorm:"not null;index" json:"volunteer_id"`
	BadgeName        string    `gorm:"not null;size:100" json:"badge_name"`
	BadgeDescription string    `gorm:"type:text" json:"badge_description"`
	CriteriaID       *uint     `gorm:"index" json:"criteria_id"`
	BadgeTier        BadgeTier `gorm:"size:20;not null" json:"badge_tier"`
	DateEarned       time.Time `gorm:"not null" json:"date_earned"`
	Featured         bool      `gorm:"not null;default:false" json:"featured"`
}

// TableName specifies the table name for Award model.
func (Award) TableName() string {
	return "awards"
}
