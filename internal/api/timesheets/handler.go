// Package timesheets provides REST API handlers for timesheet generation and
// the approval workflow.
package timesheets

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
	"github.com/fstgc/vms/internal/service/timesheets"
	"github.com/fstgc/vms/pkg/logger"
)

// TimesheetService interface for timesheet operations.
type TimesheetService interface {
	Generate(ctx context.Context, volunteerID uint, periodStart, periodEnd time.Time) (*models.Timesheet, error)
	SubmitForEvent(ctx context.Context, volunteerID, eventID uint, eventName string) (*models.Timesheet, error)
	Approve(ctx context.Context, timesheetID, approverID uint) (*models.Timesheet, error)
	Reject(ctx context.Context, timesheetID, approverID uint, reason string) (*models.Timesheet, error)
	Update(ctx context.Context, updated *models.Timesheet) (*models.Timesheet, error)
	Delete(ctx context.Context, timesheetID uint) error
	ByVolunteer(ctx context.Context, volunteerID uint) ([]models.Timesheet, error)
	PendingApprovals(ctx context.Context) ([]models.Timesheet, error)
}

// Handler handles timesheet API requests.
type Handler struct {
	timesheetService TimesheetService
	log              *logger.Logger
}

// NewHandler creates a new timesheets handler.
func NewHandler(timesheetService *timesheets.Service, log *logger.Logger) *Handler {
	return &Handler{
		timesheetService: timesheetService,
		log:              log,
	}
}

// NewHandlerWithInterfaces creates a new timesheets handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(timesheetService TimesheetService, log *logger.Logger) *Handler {
	return &Handler{
		timesheetService: timesheetService,
		log:              log,
	}
}

const dateLayout = "2006-01-02"

// generateRequest is the payload for period timesheet generation.
type generateRequest struct {
	VolunteerID uint   `json:"volunteer_id" binding:"required"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

// submitEventRequest is the payload for single-event timesheet submission.
type submitEventRequest struct {
	VolunteerID uint   `json:"volunteer_id" binding:"required"`
	EventID     uint   `json:"event_id" binding:"required"`
	EventName   string `json:"event_name"`
}

// updateRequest is the payload for timesheet edits.
type updateRequest struct {
	TotalHours  *float64 `json:"total_hours"`
	EventName   *string  `json:"event_name"`
	PeriodStart *string  `json:"period_start"`
	PeriodEnd   *string  `json:"period_end"`
}

// Generate creates a timesheet over a date range.
// POST /api/v1/timesheets/generate.
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	periodStart, err := time.Parse(dateLayout, req.PeriodStart)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid period_start: %s", req.PeriodStart))
		return
	}
	periodEnd, err := time.Parse(dateLayout, req.PeriodEnd)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid period_end: %s", req.PeriodEnd))
		return
	}

	ctx := context.Background()
	timesheet, err := h.timesheetService.Generate(ctx, req.VolunteerID, periodStart, periodEnd)
	if err != nil {
		h.serviceError(c, err, "Failed to generate timesheet")
		return
	}

	h.log.Info().
		Uint("volunteer_id", req.VolunteerID).
		Uint("timesheet_id", timesheet.ID).
		Float64("total_hours", timesheet.TotalHours).
		Msg("Generated timesheet")

	c.JSON(http.StatusCreated, gin.H{
		"timesheet":    timesheet,
		"generated_at": time.Now().UTC(),
	})
}

// SubmitForEvent creates a timesheet bound to a single event's attendance.
// POST /api/v1/timesheets/event.
func (h *Handler) SubmitForEvent(c *gin.Context) {
	var req submitEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	ctx := context.Background()
	timesheet, err := h.timesheetService.SubmitForEvent(ctx, req.VolunteerID, req.EventID, req.EventName)
	if err != nil {
		h.serviceError(c, err, "Failed to submit event timesheet")
		return
	}

	h.log.Info().
		Uint("volunteer_id", req.VolunteerID).
		Uint("event_id", req.EventID).
		Uint("timesheet_id", timesheet.ID).
		Msg("Submitted event timesheet")

	c.JSON(http.StatusCreated, gin.H{
		"timesheet":    timesheet,
		"generated_at": time.Now().UTC(),
	})
}

// Approve transitions a pending timesheet to approved.
// POST /api/v1/timesheets/:id/approve.
func (h *Handler) Approve(c *gin.Context) {
	timesheetID, err := h.parseID(c, "timesheet")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		ApproverID uint `json:"approver_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	ctx := context.Background()
	timesheet, err := h.timesheetService.Approve(ctx, timesheetID, req.ApproverID)
	if err != nil {
		h.serviceError(c, err, "Failed to approve timesheet")
		return
	}

	h.log.Info().
		Uint("timesheet_id", timesheetID).
		Uint("approver_id", req.ApproverID).
		Msg("Approved timesheet")

	c.JSON(http.StatusOK, gin.H{
		"timesheet":    timesheet,
		"generated_at": time.Now().UTC(),
	})
}

// Reject transitions a pending timesheet to rejected.
// POST /api/v1/timesheets/:id/reject.
func (h *Handler) Reject(c *gin.Context) {
	timesheetID, err := h.parseID(c, "timesheet")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		ApproverID uint   `json:"approver_id" binding:"required"`
		Reason     string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	ctx := context.Background()
	timesheet, err := h.timesheetService.Reject(ctx, timesheetID, req.ApproverID, req.Reason)
	if err != nil {
		h.serviceError(c, err, "Failed to reject timesheet")
		return
	}

	h.log.Info().
		Uint("timesheet_id", timesheetID).
		Uint("approver_id", req.ApproverID).
		Msg("Rejected timesheet")

	c.JSON(http.StatusOK, gin.H{
		"timesheet":    timesheet,
		"generated_at": time.Now().UTC(),
	})
}

// Update edits a timesheet that has not been approved.
// PUT /api/v1/timesheets/:id.
func (h *Handler) Update(c *gin.Context) {
	timesheetID, err := h.parseID(c, "timesheet")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	updated := &models.Timesheet{}
	updated.ID = timesheetID
	if req.TotalHours != nil {
		updated.TotalHours = *req.TotalHours
	}
	if req.EventName != nil {
		updated.EventName = *req.EventName
	}
	if req.PeriodStart != nil {
		start, err := time.Parse(dateLayout, *req.PeriodStart)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid period_start: %s", *req.PeriodStart))
			return
		}
		updated.PeriodStart = start
	}
	if req.PeriodEnd != nil {
		end, err := time.Parse(dateLayout, *req.PeriodEnd)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid period_end: %s", *req.PeriodEnd))
			return
		}
		updated.PeriodEnd = end
	}

	ctx := context.Background()
	timesheet, err := h.timesheetService.Update(ctx, updated)
	if err != nil {
		h.serviceError(c, err, "Failed to update timesheet")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"timesheet":    timesheet,
		"generated_at": time.Now().UTC(),
	})
}

// Delete removes a timesheet that has not been approved.
// DELETE /api/v1/timesheets/:id.
func (h *Handler) Delete(c *gin.Context) {
	timesheetID, err := h.parseID(c, "timesheet")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := context.Background()
	if err := h.timesheetService.Delete(ctx, timesheetID); err != nil {
		h.serviceError(c, err, "Failed to delete timesheet")
		return
	}

	h.log.Info().Uint("timesheet_id", timesheetID).Msg("Deleted timesheet")
	c.Status(http.StatusNoContent)
}

// GetVolunteerTimesheets returns all timesheets for a volunteer.
// GET /api/v1/volunteers/:id/timesheets.
func (h *Handler) GetVolunteerTimesheets(c *gin.Context) {
	volunteerID, err := h.parseID(c, "volunteer")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := context.Background()
	sheets, err := h.timesheetService.ByVolunteer(ctx, volunteerID)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve volunteer timesheets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"volunteer_id":     volunteerID,
		"timesheets":       sheets,
		"total_timesheets": len(sheets),
		"generated_at":     time.Now().UTC(),
	})
}

// GetPendingApprovals returns the approval queue, oldest first.
// GET /api/v1/timesheets/pending.
func (h *Handler) GetPendingApprovals(c *gin.Context) {
	ctx := context.Background()
	sheets, err := h.timesheetService.PendingApprovals(ctx)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve pending approvals")
		return
	}

	h.log.Info().
		Int("pending_count", len(sheets)).
		Msg("Retrieved pending approvals")

	c.JSON(http.StatusOK, gin.H{
		"timesheets":       sheets,
		"total_timesheets": len(sheets),
		"generated_at":     time.Now().UTC(),
	})
}

// Helper functions

// parseID extracts and validates a numeric ID from the URL parameter.
func (h *Handler) parseID(c *gin.Context, kind string) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID: %s", kind, idStr)
	}
	return uint(id), nil
}

// serviceError maps domain errors to HTTP status codes.
func (h *Handler) serviceError(c *gin.Context, err error, logMsg string) {
	var (
		validationErr *apperrors.ValidationError
		notFoundErr   *apperrors.NotFoundError
		transitionErr *apperrors.InvalidStateTransitionError
	)

	switch {
	case errors.As(err, &validationErr):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFoundErr):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.As(err, &transitionErr):
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
