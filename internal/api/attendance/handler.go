// Package attendance provides REST API handlers for check-in and check-out.
package attendance

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
	"github.com/fstgc/vms/internal/service/attendance"
	"github.com/fstgc/vms/pkg/logger"
)

// AttendanceService interface for attendance operations.
type AttendanceService interface {
	CheckIn(ctx context.Context, volunteerID, eventID uint, recordedBy *uint) (*models.AttendanceRecord, error)
	CheckOut(ctx context.Context, attendanceID uint) (*models.AttendanceRecord, error)
	RecordFull(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	UpdateStatus(ctx context.Context, attendanceID uint, status models.AttendanceStatus) (*models.AttendanceRecord, error)
	ByVolunteer(ctx context.Context, volunteerID uint) ([]models.AttendanceRecord, error)
	Delete(ctx context.Context, attendanceID uint) error
}

// Handler handles attendance API requests.
type Handler struct {
	attendanceService AttendanceService
	log               *logger.Logger
}

// NewHandler creates a new attendance handler.
func NewHandler(attendanceService *attendance.Service, log *logger.Logger) *Handler {
	return &Handler{
		attendanceService: attendanceService,
		log:               log,
	}
}

// NewHandlerWithInterfaces creates a new attendance handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(attendanceService AttendanceService, log *logger.Logger) *Handler {
	return &Handler{
		attendanceService: attendanceService,
		log:               log,
	}
}

// checkInRequest is the payload for opening an attendance record.
type checkInRequest struct {
	VolunteerID uint  `json:"volunteer_id" binding:"required"`
	EventID     uint  `json:"event_id" binding:"required"`
	RecordedBy  *uint `json:"recorded_by"`
}

// recordFullRequest is the payload for after-the-fact data entry.
type recordFullRequest struct {
	VolunteerID  uint       `json:"volunteer_id" binding:"required"`
	EventID      uint       `json:"event_id" binding:"required"`
	CheckInTime  time.Time  `json:"check_in_time" binding:"required"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Status       string     `json:"status"`
	RecordedBy   *uint      `json:"recorded_by"`
	Notes        string     `json:"notes"`
}

// CheckIn opens an attendance record for a volunteer at an event.
// POST /api/v1/attendance/check-in.
func (h *Handler) CheckIn(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	ctx := context.Background()
	record, err := h.attendanceService.CheckIn(ctx, req.VolunteerID, req.EventID, req.RecordedBy)
	if err != nil {
		h.serviceError(c, err, "Failed to check in volunteer")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"attendance":   record,
		"generated_at": time.Now().UTC(),
	})
}

// CheckOut completes an attendance record and derives the hours worked.
// POST /api/v1/attendance/:id/check-out.
func (h *Handler) CheckOut(c *gin.Context) {
	attendanceID, err := h.parseID(c, "attendance")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := context.Background()
	record, err := h.attendanceService.CheckOut(ctx, attendanceID)
	if err != nil {
		h.serviceError(c, err, "Failed to check out volunteer")
		return
	}

	h.log.Info().
		Uint("attendance_id", attendanceID).
		Float64("hours_worked", record.HoursWorked).
		Msg("Volunteer checked out")

	c.JSON(http.StatusOK, gin.H{
		"attendance":   record,
		"generated_at": time.Now().UTC(),
	})
}

// RecordFull creates a complete attendance record in one call.
// POST /api/v1/attendance.
func (h *Handler) RecordFull(c *gin.Context) {
	var req recordFullRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	record := &models.AttendanceRecord{
		VolunteerID:  req.VolunteerID,
		EventID:      req.EventID,
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
		Status:       models.AttendanceStatus(req.Status),
		RecordedBy:   req.RecordedBy,
		Notes:        req.Notes,
	}

	ctx := context.Background()
	created, err := h.attendanceService.RecordFull(ctx, record)
	if err != nil {
		h.serviceError(c, err, "Failed to record attendance")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"attendance":   created,
		"generated_at": time.Now().UTC(),
	})
}

// UpdateStatus changes the presence status of an open record.
// PUT /api/v1/attendance/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	attendanceID, err := h.parseID(c, "attendance")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	ctx := context.Background()
	record, err := h.attendanceService.UpdateStatus(ctx, attendanceID, models.AttendanceStatus(req.Status))
	if err != nil {
		h.serviceError(c, err, "Failed to update attendance status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attendance":   record,
		"generated_at": time.Now().UTC(),
	})
}

// GetVolunteerAttendance returns all attendance records for a volunteer.
// GET /api/v1/volunteers/:id/attendance.
func (h *Handler) GetVolunteerAttendance(c *gin.Context) {
	volunteerID, err := h.parseID(c, "volunteer")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := context.Background()
	records, err := h.attendanceService.ByVolunteer(ctx, volunteerID)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve attendance records")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"volunteer_id":  volunteerID,
		"attendance":    records,
		"total_records": len(records),
		"generated_at":  time.Now().UTC(),
	})
}

// Delete removes an attendance record and releases the registration slot.
// DELETE /api/v1/attendance/:id.
func (h *Handler) Delete(c *gin.Context) {
	attendanceID, err := h.parseID(c, "attendance")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := context.Background()
	if err := h.attendanceService.Delete(ctx, attendanceID); err != nil {
		h.serviceError(c, err, "Failed to delete attendance record")
		return
	}

	h.log.Info().Uint("attendance_id", attendanceID).Msg("Deleted attendance record")
	c.Status(http.StatusNoContent)
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
