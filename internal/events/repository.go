package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced event, occurrence or category
// does not exist or is inactive
var ErrNotFound = errors.New("not found")

type Repository interface {
	// Event operations
	CreateEvent(ctx context.Context, event *Event) error
	GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error)
	ListEvents(ctx context.Context, query EventListQuery) ([]Event, int64, error)
	UpdateEvent(ctx context.Context, event *Event) error
	UpdateEventStatus(ctx context.Context, id uuid.UUID, status EventStatus) error

	// Occurrence operations
	CreateOccurrence(ctx context.Context, occurrence *EventOccurrence) error
	GetOccurrenceByID(ctx context.Context, id uuid.UUID) (*EventOccurrence, error)
	ListOccurrencesByEvent(ctx context.Context, eventID uuid.UUID) ([]EventOccurrence, error)
	UpdateOccurrenceAvailability(ctx context.Context, id uuid.UUID, available int) error

	// Category operations
	CreateCategory(ctx context.Context, category *TicketCategory) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*TicketCategory, error)
	ActiveCategoriesByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketCategory, error)
	ActiveCategoriesByOccurrence(ctx context.Context, occurrenceID uuid.UUID) ([]TicketCategory, error)
	UpdateCategoryAvailability(ctx context.Context, id uuid.UUID, available int) error

	// Seat operations
	CreateSeats(ctx context.Context, seats []Seat) error
	ListSeatsByEvent(ctx context.Context, eventID uuid.UUID) ([]Seat, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateEvent(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) ListEvents(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Event{})

	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	} else {
		baseQuery = baseQuery.Where("status IN ?", []EventStatus{StatusPublished, StatusSoldOut})
	}
	if query.Search != "" {
		baseQuery = baseQuery.Where("name ILIKE ?", "%"+query.Search+"%")
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("display_time ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&events).Error

	return events, totalCount, err
}

func (r *repository) UpdateEvent(ctx context.Context, event *Event) error {
	event.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *repository) UpdateEventStatus(ctx context.Context, id uuid.UUID, status EventStatus) error {
	return r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *repository) CreateOccurrence(ctx context.Context, occurrence *EventOccurrence) error {
	return r.db.WithContext(ctx).Create(occurrence).Error
}

func (r *repository) GetOccurrenceByID(ctx context.Context, id uuid.UUID) (*EventOccurrence, error) {
	var occurrence EventOccurrence
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("is_active = ?", true).
		First(&occurrence).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &occurrence, nil
}

func (r *repository) ListOccurrencesByEvent(ctx context.Context, eventID uuid.UUID) ([]EventOccurrence, error) {
	var occurrences []EventOccurrence
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("is_active = ?", true).
		Order("starts_at ASC").
		Find(&occurrences).Error
	return occurrences, err
}

// UpdateOccurrenceAvailability writes the advisory cached counter. Callers
// treat failures as log-only; the counter is never the source of truth.
func (r *repository) UpdateOccurrenceAvailability(ctx context.Context, id uuid.UUID, available int) error {
	if available < 0 {
		available = 0
	}
	return r.db.WithContext(ctx).
		Model(&EventOccurrence{}).
		Where("id = ?", id).
		Update("available_quantity", available).Error
}

func (r *repository) CreateCategory(ctx context.Context, category *TicketCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*TicketCategory, error) {
	var category TicketCategory
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("is_active = ?", true).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *repository) ActiveCategoriesByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketCategory, error) {
	var categories []TicketCategory
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *repository) ActiveCategoriesByOccurrence(ctx context.Context, occurrenceID uuid.UUID) ([]TicketCategory, error) {
	var categories []TicketCategory
	err := r.db.WithContext(ctx).
		Where("occurrence_id = ?", occurrenceID).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

// UpdateCategoryAvailability writes the advisory cached counter
func (r *repository) UpdateCategoryAvailability(ctx context.Context, id uuid.UUID, available int) error {
	if available < 0 {
		available = 0
	}
	return r.db.WithContext(ctx).
		Model(&TicketCategory{}).
		Where("id = ?", id).
		Update("available_quantity", available).Error
}

func (r *repository) CreateSeats(ctx context.Context, seats []Seat) error {
	if len(seats) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&seats).Error
}

func (r *repository) ListSeatsByEvent(ctx context.Context, eventID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("row ASC, position ASC").
		Find(&seats).Error
	return seats, err
}
