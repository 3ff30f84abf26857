package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fstgc/vms/internal/apperrors"
	"github.com/fstgc/vms/internal/models"
)

// EventRepository handles event database operations.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event.
func (r *EventRepository) Create(e *models.Event) error {
	return r.db.Create(e).Error
}

// FindByID retrieves an event by id.
func (r *EventRepository) FindByID(id uint) (*models.Event, error) {
	var e models.Event
	err := r.db.First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("event", id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindUpcoming retrieves events with a date at or after the given time.
func (r *EventRepository) FindUpcoming(after time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.
		Where("event_date >= ?", after).
		Order("event_date ASC").
		Find(&events).Error
	return events, err
}

// Update persists changes to an existing event.
func (r *EventRepository) Update(e *models.Event) error {
	return r.db.Save(e).Error
}
