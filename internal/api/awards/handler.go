// Package awards provides REST API handlers for badge awards.
// It exposes endpoints for automatic and manual award assignment, award
// listings, featured awards, and the award leaderboard.
package awards

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fstgc/vms/internal/apperrors"
	"github.com/fstgc/vms/internal/models"
	"github.com/fstgc/vms/internal/service/awards"
	"github.com/fstgc/vms/internal/service/hours"
	"github.com/fstgc/vms/pkg/logger"
)

// AwardService interface for award operations.
type AwardService interface {
	CheckAndAssignAutomaticAwards(ctx context.Context, volunteerID uint) ([]models.Award, error)
	AssignAward(ctx context.Context, award *models.Award) (*models.Award, error)
	AwardsByVolunteer(ctx context.Context, volunteerID uint) ([]models.Award, error)
	AwardsByTier(ctx context.Context, tier models.BadgeTier) ([]models.Award, error)
	FeaturedAwards(ctx context.Context) ([]models.Award, error)
	SetFeatured(ctx context.Context, awardID uint, featured bool) (*models.Award, error)
	Leaderboard(ctx context.Context, limit int) ([]awards.LeaderboardEntry, error)
}

// StatsService interface for volunteer hour statistics.
type StatsService interface {
	StatsFor(ctx context.Context, volunteerID uint) (hours.Stats, error)
}

// Handler handles award API requests.
type Handler struct {
	awardService AwardService
	statsService StatsService
	log          *logger.Logger
}

// NewHandler creates a new awards handler.
func NewHandler(awardService *awards.Engine, statsService *hours.Aggregator, log *logger.Logger) *Handler {
	return &Handler{
		awardService: awardService,
		statsService: statsService,
		log:          log,
	}
}

// NewHandlerWithInterfaces creates a new awards handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(awardService AwardService, statsService StatsService, log *logger.Logger) *Handler {
	return &Handler{
		awardService: awardService,
		statsService: statsService,
		log:          log,
	}
}

// assignAwardRequest is the payload for manual award assignment.
type assignAwardRequest struct {
	VolunteerID      uint   `json:"volunteer_id" binding:"required"`
	BadgeName        string `json:"badge_name" binding:"required"`
	BadgeDescription string `json:"badge_description"`
	BadgeTier        string `json:"badge_tier" binding:"required"`
	CriteriaID       *uint  `json:"criteria_id"`
}

// CheckAwards runs the automatic award evaluation for a volunteer.
// POST /api/v1/volunteers/:id/awards/check.
func (h *Handler) CheckAwards(c *gin.Context) {
	volunteerID, err := h.parseVolunteerID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := context.Background()
	granted, err := h.awardService.CheckAndAssignAutomaticAwards(ctx, volunteerID)
	if err != nil {
		h.serviceError(c, err, "Failed to evaluate awards")
		return
	}

	h.log.Info().
		Uint("volunteer_id", volunteerID).
		Int("awards_granted", len(granted)).
		Msg("Evaluated automatic awards")

	c.JSON(http.StatusOK, gin.H{
		"volunteer_id":   volunteerID,
		"awards_granted": granted,
		"total_granted":  len(granted),
		"generated_at":   time.Now().UTC(),
	})
}

// AssignAward manually assigns a badge to a volunteer.
// POST /api/v1/awards.
func (h *Handler) AssignAward(c *gin.Context) {
	var req assignAwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	award := &models.Award{
		VolunteerID:      req.VolunteerID,
		BadgeName:        req.BadgeName,
		BadgeDescription: req.BadgeDescription,
		BadgeTier:        models.BadgeTier(req.BadgeTier),
		CriteriaID:       req.CriteriaID,
	}

	ctx := context.Background()
	created, err := h.awardService.AssignAward(ctx, award)
	if err != nil {
		h.serviceError(c, err, "Failed to assign award")
		return
	}

	h.log.Info().
		Uint("volunteer_id", created.VolunteerID).
		Str("badge_name", created.BadgeName).
		Msg("Assigned award")

	c.JSON(http.StatusCreated, gin.H{
		"award":        created,
		"generated_at": time.Now().UTC(),
	})
}

// GetVolunteerAwards returns all awards earned by a volunteer, with hour totals.
// GET /api/v1/volunteers/:id/awards.
func (h *Handler) GetVolunteerAwards(c *gin.Context) {
	volunteerID, err := h.parseVolunteerID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := context.Background()
	volunteerAwards, err := h.awardService.AwardsByVolunteer(ctx, volunteerID)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve volunteer awards")
		return
	}

	stats, err := h.statsService.StatsFor(ctx, volunteerID)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve volunteer statistics")
		return
	}

	h.log.Info().
		Uint("volunteer_id", volunteerID).
		Int("award_count", len(volunteerAwards)).
		Msg("Retrieved volunteer awards")

	c.JSON(http.StatusOK, gin.H{
		"volunteer_id": volunteerID,
		"awards":       volunteerAwards,
		"total_awards": len(volunteerAwards),
		"total_hours":  stats.TotalHours,
		"event_count":  stats.EventCount,
		"generated_at": time.Now().UTC(),
	})
}

// GetAwardsByTier returns all awards of a given tier.
// GET /api/v1/awards/tier/:tier.
func (h *Handler) GetAwardsByTier(c *gin.Context) {
	tier := models.BadgeTier(c.Param("tier"))

	ctx := context.Background()
	tierAwards, err := h.awardService.AwardsByTier(ctx, tier)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve awards by tier")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tier":         tier,
		"awards":       tierAwards,
		"total_awards": len(tierAwards),
		"generated_at": time.Now().UTC(),
	})
}

// GetFeaturedAwards returns awards flagged for display.
// GET /api/v1/awards/featured.
func (h *Handler) GetFeaturedAwards(c *gin.Context) {
	ctx := context.Background()
	featured, err := h.awardService.FeaturedAwards(ctx)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve featured awards")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"awards":       featured,
		"total_awards": len(featured),
		"generated_at": time.Now().UTC(),
	})
}

// SetFeatured toggles the featured flag on an award.
// PUT /api/v1/awards/:id/featured.
func (h *Handler) SetFeatured(c *gin.Context) {
	awardID, err := h.parseID(c, "award")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Featured bool `json:"featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	ctx := context.Background()
	award, err := h.awardService.SetFeatured(ctx, awardID, req.Featured)
	if err != nil {
		h.serviceError(c, err, "Failed to update featured flag")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"award":        award,
		"generated_at": time.Now().UTC(),
	})
}

// GetLeaderboard returns volunteers ranked by award count.
// GET /api/v1/leaderboard?limit=10.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit, err := h.parseLimit(c, 10)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := context.Background()
	entries, err := h.awardService.Leaderboard(ctx, limit)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve leaderboard")
		return
	}

	h.log.Info().
		Int("limit", limit).
		Int("entries", len(entries)).
		Msg("Retrieved award leaderboard")

	c.JSON(http.StatusOK, gin.H{
		"leaderboard":   entries,
		"total_entries": len(entries),
		"generated_at":  time.Now().UTC(),
	})
}

// Helper functions

// parseVolunteerID extracts and validates the volunteer ID from the URL parameter.
func (h *Handler) parseVolunteerID(c *gin.Context) (uint, error) {
	return h.parseID(c, "volunteer")
}

// parseID extracts and validates a numeric ID from the URL parameter.
func (h *Handler) parseID(c *gin.Context, kind string) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID: %s", kind, idStr)
	}
	return uint(id), nil
}

// parseLimit extracts and validates the limit query parameter.
func (h *Handler) parseLimit(c *gin.Context, defaultLimit int) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, fmt.Errorf("invalid limit parameter: %s", limitStr)
	}

	if limit < 1 {
		return 0, fmt.Errorf("limit must be greater than 0")
	}

	if limit > 1000 {
		return 0, fmt.Errorf("limit cannot exceed 1000")
	}

	return limit, nil
}

// serviceError maps domain errors to HTTP status codes.
func (h *Handler) serviceError(c *gin.Context, err error, logMsg string) {
	var (
		validationErr *apperrors.ValidationError
		notFoundErr   *apperrors.NotFoundError
		duplicateErr  *apperrors.DuplicateAwardError
	)

	switch {
	case errors.As(err, &validationErr):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFoundErr):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.As(err, &duplicateErr):
		h.errorResponse(c, http.StatusConflict, err.Error())
	default:
		h.log.Error().Err(err).Msg(logMsg)
		h.errorResponse(c, http.StatusInternalServerError, logMsg)
	}
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
