package awards

import (
	"context"
	"fmt"

	"github.com/fstgc/vms/internal/models"
)

// DefaultCriteria returns the built-in badge catalog: an hour ladder and an
// event-count ladder. Thresholds line up with the achievement tiers.
func DefaultCriteria() []models.BadgeCriteria {
	return []models.BadgeCriteria{
		{
			BadgeName:      "First Steps",
			Description:    "Completed 10 hours of volunteer work",
			CriteriaType:   models.CriteriaTotalHours,
			ThresholdValue: 10,
			BadgeTier:      models.TierBronze,
			Active:         true,
		},
		{
			BadgeName:      "Dedicated Helper",
			Description:    "Completed 25 hours of volunteer work",
			CriteriaType:   models.CriteriaTotalHours,
			ThresholdValue: 25,
			BadgeTier:      models.TierBronze,
			Active:         true,
		},
		{
			BadgeName:      "Community Champion",
			Description:    "Completed 50 hours of volunteer work",
			CriteriaType:   models.CriteriaTotalHours,
			ThresholdValue: 50,
			BadgeTier:      models.TierSilver,
			Active:         true,
		},
		{
			BadgeName:      "Elite Volunteer",
			Description:    "Completed 100 hours of volunteer work",
			CriteriaType:   models.CriteriaTotalHours,
			ThresholdValue: 100,
			BadgeTier:      models.TierGold,
			Active:         true,
		},
		{
			BadgeName:      "Lifetime Legend",
			Description:    "Completed 200 hours of volunteer work",
			CriteriaType:   models.CriteriaTotalHours,
			ThresholdValue: 200,
			BadgeTier:      models.TierPlatinum,
			Active:         true,
		},
		{
			BadgeName:      "Event Enthusiast",
			Description:    "Attended 5 events",
			CriteriaType:   models.CriteriaEventCount,
			ThresholdValue: 5,
			BadgeTier:      models.TierBronze,
			Active:         true,
		},
		{
			BadgeName:      "Regular Attendee",
			Description:    "Attended 10 events",
			CriteriaType:   models.CriteriaEventCount,
			ThresholdValue: 10,
			BadgeTier:      models.TierSilver,
			Active:         true,
		},
		{
			BadgeName:      "Event Master",
			Description:    "Attended 20 events",
			CriteriaType:   models.CriteriaEventCount,
			ThresholdValue: 20,
			BadgeTier:      models.TierGold,
			Active:         true,
		},
	}
}

// SeedDefaultCriteria populates the badge catalog when the criteria table is
// empty. Re-running against a populated table is a no-op.
func (e *Engine) SeedDefaultCriteria(_ context.Context) error {
	count, err := e.criteriaRepo.Count()
	if err != nil {
		return fmt.Errorf("failed to count badge criteria: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, c := range DefaultCriteria() {
		criterion := c
		if err := e.criteriaRepo.Create(&criterion); err != nil {
			return fmt.Errorf("failed to seed criterion %q: %w", criterion.BadgeName, err)
		}
	}

	e.log.Info().Int("criteria", len(DefaultCriteria())).Msg("Seeded default badge catalog")
	return nil
}
