package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fstgc/vms/internal/apperrors"
	"github.com/fstgc/vms/internal/models"
)

// AwardRepository handles award database operations.
type AwardRepository struct {
	db *DB
}

// NewAwardRepository creates a new award repository.
func NewAwardRepository(db *DB) *AwardRepository {
	return &AwardRepository{db: db}
}

// Save inserts a new award.
func (r *AwardRepository) Save(a *models.Award) error {
	return r.db.Create(a).Error
}

// Update persists changes to an existing award.
func (r *AwardRepository) Update(a *models.Award) error {
	return r.db.Save(a).Error
}

// FindByID retrieves an award by id.
func (r *AwardRepository) FindByID(id uint) (*models.Award, error) {
	var a models.Award
	err := r.db.First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("award", id)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByVolunteer retrieves all awards earned by a volunteer, newest first.
func (r *AwardRepository) FindByVolunteer(volunteerID uint) ([]models.Award, error) {
	var awards []models.Award
	err := r.db.
		Where("volunteer_id = ?", volunteerID).
		Order("date_earned DESC").
		Find(&awards).Error
	return awards, err
}

// FindByBadgeTier retrieves all awards of a given tier.
func (r *AwardRepository) FindByBadgeTier(tier models.BadgeTier) ([]models.Award, error) {
	var awards []models.Award
	err := r.db.
		Where("badge_tier = ?", tier).
		Order("date_earned DESC").
		Find(&awards).Error
	return awards, err
}

// FindFeatured retrieves all awards flagged as featured.
func (r *AwardRepository) FindFeatured() ([]models.Award, error) {
	var awards []models.Award
	err := r.db.
		Where("featured = ?", true).
		Order("date_earned DESC").
		Find(&awards).Error
	return awards, err
}

// CheckIfAwarded reports whether an award exists for the (volunteer, criteria) pair.
func (r *AwardRepository) CheckIfAwarded(volunteerID, criteriaID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Award{}).
		Where("volunteer_id = ? AND criteria_id = ?", volunteerID, criteriaID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// VolunteerAwardCount holds an award count per volunteer for leaderboard ranking.
type VolunteerAwardCount struct {
	VolunteerID uint
	AwardCount  int
}

// CountByVolunteer returns award counts grouped by volunteer, ordered by count
// descending with ties broken by ascending volunteer id.
func (r *AwardRepository) CountByVolunteer() ([]VolunteerAwardCount, error) {
	var counts []VolunteerAwardCount
	err := r.db.Model(&models.Award{}).
		Select("volunteer_id, COUNT(*) AS award_count").
		Group("volunteer_id").
		Order("award_count DESC, volunteer_id ASC").
		Scan(&counts).Error
	return counts, err
}
