// Package awards implements the badge eligibility engine: automatic threshold
// evaluation, the manual assignment path, and award queries.
package awards

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fstgc/vms/internal/apperrors"
	"github.com/fstgc/vms/internal/cache"
	"github.com/fstgc/vms/internal/metrics"
	"github.com/fstgc/vms/internal/models"
	"github.com/fstgc/vms/internal/notify"
	"github.com/fstgc/vms/internal/repository"
	"github.com/fstgc/vms/internal/service/hours"
	"github.com/fstgc/vms/pkg/keylock"
	"github.com/fstgc/vms/pkg/logger"
)

// AwardRepository interface for award operations.
type AwardRepository interface {
	Save(a *models.Award) error
	Update(a *models.Award) error
	FindByID(id uint) (*models.Award, error)
	FindByVolunteer(volunteerID uint) ([]models.Award, error)
	FindByBadgeTier(tier models.BadgeTier) ([]models.Award, error)
	FindFeatured() ([]models.Award, error)
	CheckIfAwarded(volunteerID, criteriaID uint) (bool, error)
	CountByVolunteer() ([]repository.VolunteerAwardCount, error)
}

// CriteriaRepository interface for badge criteria operations.
type CriteriaRepository interface {
	FindActive() ([]models.BadgeCriteria, error)
	Count() (int64, error)
	Create(c *models.BadgeCriteria) error
}

// VolunteerRepository interface for volunteer operations.
type VolunteerRepository interface {
	FindByID(id uint) (*models.Volunteer, error)
	Update(v *models.Volunteer) error
}

// StatsProvider supplies aggregated attendance statistics.
type StatsProvider interface {
	StatsFor(ctx context.Context, volunteerID uint) (hours.Stats, error)
}

// Engine evaluates badge criteria and assigns awards. Assignment is serialized
// per volunteer id so concurrent evaluations cannot both pass the duplicate
// check before either writes.
type Engine struct {
	awardRepo     AwardRepository
	criteriaRepo  CriteriaRepository
	volunteerRepo VolunteerRepository
	stats         StatsProvider
	cache         cache.Cache
	notifier      notify.Notifier
	log           *logger.Logger
	locks         *keylock.KeyLock
}

// NewEngine creates an award engine with concrete repository types. Cache and
// notifier may be nil, disabling leaderboard caching and announcements.
func NewEngine(
	awardRepo *repository.AwardRepository,
	criteriaRepo *repository.CriteriaRepository,
	volunteerRepo *repository.VolunteerRepository,
	stats *hours.Aggregator,
	c cache.Cache,
	notifier notify.Notifier,
	log *logger.Logger,
) *Engine {
	return &Engine{
		awardRepo:     awardRepo,
		criteriaRepo:  criteriaRepo,
		volunteerRepo: volunteerRepo,
		stats:         stats,
		cache:         c,
		notifier:      notifier,
		log:           log,
		locks:         keylock.New(),
	}
}

// NewEngineWithInterfaces creates an award engine with interface dependencies (useful for testing).
func NewEngineWithInterfaces(
	awardRepo AwardRepository,
	criteriaRepo CriteriaRepository,
	volunteerRepo VolunteerRepository,
	stats StatsProvider,
	c cache.Cache,
	notifier notify.Notifier,
	log *logger.Logger,
) *Engine {
	return &Engine{
		awardRepo:     awardRepo,
		criteriaRepo:  criteriaRepo,
		volunteerRepo: volunteerRepo,
		stats:         stats,
		cache:         c,
		notifier:      notifier,
		log:           log,
		locks:         keylock.New(),
	}
}

// CheckAndAssignAutomaticAwards aggregates the volunteer's attendance stats and
// grants every active criterion whose threshold is met and not yet awarded.
// Criteria are evaluated independently, so a volunteer whose hours jump past
// several thresholds at once earns all of them in a single call. Calling twice
// with no new attendance grants nothing the second time.
func (e *Engine) CheckAndAssignAutomaticAwards(ctx context.Context, volunteerID uint) ([]models.Award, error) {
	volunteer, err := e.volunteerRepo.FindByID(volunteerID)
	if err != nil {
		return nil, err
	}

	unlock := e.locks.Lock(volunteerID)
	defer unlock()

	stats, err := e.stats.StatsFor(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate volunteer stats: %w", err)
	}

	criteria, err := e.criteriaRepo.FindActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load badge criteria: %w", err)
	}

	var granted []models.Award
	for i := range criteria {
		criterion := criteria[i]
		if !thresholdMet(&criterion, stats) {
			continue
		}

		awarded, err := e.awardRepo.CheckIfAwarded(volunteerID, criterion.ID)
		if err != nil {
			return granted, fmt.Errorf("failed to check existing award: %w", err)
		}
		if awarded {
			continue
		}

		award := models.Award{
			VolunteerID:      volunteerID,
			BadgeName:        criterion.BadgeName,
			BadgeDescription: criterion.Description,
			CriteriaID:       &criterion.ID,
			BadgeTier:        criterion.BadgeTier,
			DateEarned:       time.Now(),
		}
		if err := e.awardRepo.Save(&award); err != nil {
			return granted, fmt.Errorf("failed to save award %q: %w", criterion.BadgeName, err)
		}

		metrics.RecordAwardGranted(string(award.BadgeTier), "auto")
		e.announce(ctx, volunteer, &award)
		granted = append(granted, award)

		e.log.Info().
			Uint("volunteer_id", volunteerID).
			Str("badge", award.BadgeName).
			Str("tier", string(award.BadgeTier)).
			Msg("Award granted")
	}

	e.updateTier(volunteer, stats.TotalHours)

	if len(granted) > 0 {
		e.invalidateLeaderboard(ctx)
	}

	return granted, nil
}

// thresholdMet evaluates a criterion against aggregated stats. Only hour and
// event-count criteria are automatically evaluable; the remaining types go
// through the manual assignment path.
func thresholdMet(c *models.BadgeCriteria, stats hours.Stats) bool {
	switch c.CriteriaType {
	case models.CriteriaTotalHours:
		return stats.TotalHours >= float64(c.ThresholdValue)
	case models.CriteriaEventCount:
		return stats.EventCount >= c.ThresholdValue
	default:
		return false
	}
}

// AssignAward is the manual assignment path. When a criteria id is supplied the
// duplicate check still applies.
func (e *Engine) AssignAward(ctx context.Context, award *models.Award) (*models.Award, error) {
	if award.VolunteerID == 0 {
		return nil, apperrors.Validationf("volunteer id is required")
	}
	if strings.TrimSpace(award.BadgeName) == "" {
		return nil, apperrors.Validationf("badge name is required")
	}
	if !models.ValidBadgeTier(award.BadgeTier) {
		return nil, apperrors.Validationf("badge tier %q is not valid", award.BadgeTier)
	}

	volunteer, err := e.volunteerRepo.FindByID(award.VolunteerID)
	if err != nil {
		return nil, err
	}

	unlock := e.locks.Lock(award.VolunteerID)
	defer unlock()

	if award.CriteriaID != nil {
		awarded, err := e.awardRepo.CheckIfAwarded(award.VolunteerID, *award.CriteriaID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing award: %w", err)
		}
		if awarded {
			return nil, &apperrors.DuplicateAwardError{
				VolunteerID: award.VolunteerID,
				CriteriaID:  *award.CriteriaID,
			}
		}
	}

	award.DateEarned = time.Now()
	if err := e.awardRepo.Save(award); err != nil {
		return nil, fmt.Errorf("failed to save award: %w", err)
	}

	metrics.RecordAwardGranted(string(award.BadgeTier), "manual")
	e.announce(ctx, volunteer, award)
	e.invalidateLeaderboard(ctx)

	return award, nil
}

// AwardsByVolunteer retrieves all awards earned by a volunteer.
func (e *Engine) AwardsByVolunteer(_ context.Context, volunteerID uint) ([]models.Award, error) {
	return e.awardRepo.FindByVolunteer(volunteerID)
}

// AwardsByTier retrieves all awards of the given tier.
func (e *Engine) AwardsByTier(_ context.Context, tier models.BadgeTier) ([]models.Award, error) {
	if !models.ValidBadgeTier(tier) {
		return nil, apperrors.Validationf("badge tier %q is not valid", tier)
	}
	return e.awardRepo.FindByBadgeTier(tier)
}

// FeaturedAwards retrieves all awards flagged as featured.
func (e *Engine) FeaturedAwards(_ context.Context) ([]models.Award, error) {
	return e.awardRepo.FindFeatured()
}

// SetFeatured toggles the featured flag, the only permitted mutation on an award.
func (e *Engine) SetFeatured(_ context.Context, awardID uint, featured bool) (*models.Award, error) {
	award, err := e.awardRepo.FindByID(awardID)
	if err != nil {
		return nil, err
	}
	award.Featured = featured
	if err := e.awardRepo.Update(award); err != nil {
		return nil, fmt.Errorf("failed to update award: %w", err)
	}
	return award, nil
}

// updateTier recomputes the volunteer's achievement tier from total hours.
// Tier maintenance is best-effort; a store failure here is logged, not fatal.
func (e *Engine) updateTier(volunteer *models.Volunteer, totalHours float64) {
	newTier := models.TierForHours(totalHours)
	if tierEqual(volunteer.CurrentTier, newTier) {
		return
	}
	volunteer.CurrentTier = newTier
	if err := e.volunteerRepo.Update(volunteer); err != nil {
		e.log.Warn().
			Err(err).
			Uint("volunteer_id", volunteer.ID).
			Msg("Failed to update volunteer tier")
	}
}

func tierEqual(a, b *models.BadgeTier) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// announce sends a badge notification. Announcement failures never block the
// award itself.
func (e *Engine) announce(ctx context.Context, volunteer *models.Volunteer, award *models.Award) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.BadgeEarned(ctx, volunteer, award); err != nil {
		e.log.Warn().
			Err(err).
			Uint("volunteer_id", volunteer.ID).
			Str("badge", award.BadgeName).
			Msg("Failed to announce badge")
	}
}
