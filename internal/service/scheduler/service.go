// Package scheduler provides the nightly award evaluation job.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fstgc/vms/internal/config"
	prommetrics "github.com/fstgc/vms/internal/metrics"
	"github.com/fstgc/vms/internal/models"
	"github.com/fstgc/vms/internal/repository"
	"github.com/fstgc/vms/internal/service/awards"
	"github.com/fstgc/vms/pkg/logger"
)

// VolunteerLister lists the volunteers the evaluation sweep covers.
type VolunteerLister interface {
	FindActive() ([]models.Volunteer, error)
}

// AwardEvaluator runs the automatic award evaluation for a single volunteer.
type AwardEvaluator interface {
	CheckAndAssignAutomaticAwards(ctx context.Context, volunteerID uint) ([]models.Award, error)
}

// Service handles the nightly award evaluation sweep.
type Service struct {
	config        *config.Config
	volunteerRepo VolunteerLister
	awardEngine   AwardEvaluator
	log           *logger.Logger
	cron          *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(
	cfg *config.Config,
	volunteerRepo *repository.VolunteerRepository,
	awardEngine *awards.Engine,
	log *logger.Logger,
) *Service {
	return &Service{
		config:        cfg,
		volunteerRepo: volunteerRepo,
		awardEngine:   awardEngine,
		log:           log,
	}
}

// NewServiceWithInterfaces creates a scheduler service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	cfg *config.Config,
	volunteerRepo VolunteerLister,
	awardEngine AwardEvaluator,
	log *logger.Logger,
) *Service {
	return &Service{
		config:        cfg,
		volunteerRepo: volunteerRepo,
		awardEngine:   awardEngine,
		log:           log,
	}
}

// Start initializes and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.config.Scheduler.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := time.LoadLocation(s.config.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Scheduler.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	_, err = s.cron.AddFunc(s.config.Scheduler.AwardEvaluationTime, func() {
		s.runAwardEvaluation(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register award evaluation job: %w", err)
	}

	s.cron.Start()

	entries := s.cron.Entries()
	nextRun := ""
	if len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}

	s.log.Info().
		Str("schedule", s.config.Scheduler.AwardEvaluationTime).
		Str("timezone", s.config.Scheduler.Timezone).
		Str("next_run", nextRun).
		Msg("Scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Scheduler stopped")
	}
}

// RunAwardEvaluationNow triggers the sweep outside the cron schedule. Used by
// the admin endpoint and tests.
func (s *Service) RunAwardEvaluationNow(ctx context.Context) (int, error) {
	return s.evaluateAllVolunteers(ctx)
}

// runAwardEvaluation executes the nightly award evaluation job.
func (s *Service) runAwardEvaluation(ctx context.Context) {
	start := time.Now()

	defer func() {
		prommetrics.ObserveEvaluationDuration(time.Since(start).Seconds())
	}()

	s.log.Info().Msg("Running award evaluation job")

	granted, err := s.evaluateAllVolunteers(ctx)
	if err != nil {
		s.log.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("Award evaluation job failed")
		prommetrics.RecordEvaluationRun("error")
		return
	}

	prommetrics.RecordEvaluationRun("success")

	s.log.Info().
		Int("awards_granted", granted).
		Dur("duration", time.Since(start)).
		Msg("Award evaluation job completed successfully")
}

// evaluateAllVolunteers runs the award check for every active volunteer and
// returns the total number of awards granted. A failure for one volunteer is
// logged and does not stop the sweep.
func (s *Service) evaluateAllVolunteers(ctx context.Context) (int, error) {
	volunteers, err := s.volunteerRepo.FindActive()
	if err != nil {
		return 0, fmt.Errorf("failed to list active volunteers: %w", err)
	}

	granted := 0
	for _, v := range volunteers {
		newAwards, err := s.awardEngine.CheckAndAssignAutomaticAwards(ctx, v.ID)
		if err != nil {
			s.log.Error().
				Err(err).
				Uint("volunteer_id", v.ID).
				Msg("Award evaluation failed for volunteer")
			continue
		}
		granted += len(newAwards)
	}

	s.log.Debug().
		Int("volunteers", len(volunteers)).
		Int("awards_granted", granted).
		Msg("Evaluated volunteers for awards")

	return granted, nil
}
