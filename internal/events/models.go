package events

import (
	"time"

	"stagepass/internal/pricing"

	"github.com/google/uuid"
)

// Event identifies a production: a single show or a recurring one with many
// occurrences. For recurring events DisplayTime is the only time ever shown
// to customers, uniformly across occurrences.
type Event struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string      `gorm:"not null;size:255" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Venue       string      `gorm:"not null;size:255" json:"venue"`
	VenueState  string      `gorm:"size:100" json:"venue_state"`
	IsRecurring bool        `gorm:"default:false" json:"is_recurring"`
	SeatMapped  bool        `gorm:"default:false" json:"seat_mapped"`
	DisplayTime time.Time   `gorm:"not null" json:"display_time"`
	Status      EventStatus `gorm:"type:varchar(20);default:'draft'" json:"status"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// EventOccurrence is one concrete dated instance of a recurring event.
// AvailableQuantity is a denormalized cache, not a source of truth: read
// paths recompute availability from confirmed bookings instead.
type EventOccurrence struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID           uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	StartsAt          time.Time `gorm:"not null" json:"starts_at"`
	TotalQuantity     int       `gorm:"not null;check:total_quantity >= 0" json:"total_quantity"`
	AvailableQuantity int       `gorm:"default:0" json:"available_quantity"`
	IsActive          bool      `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TicketCategory is a named tier ("General", "VIP") scoped to an event or to
// one occurrence. Pricing fields are nullable because historical rows may
// predate pricing configuration entirely; such categories are reported
// not-available rather than priced from a default.
type TicketCategory struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"event_id"`
	OccurrenceID *uuid.UUID `gorm:"type:uuid;index" json:"occurrence_id,omitempty"`
	Name         string     `gorm:"not null;size:100" json:"name"`

	BasePrice           *float64 `gorm:"type:numeric" json:"base_price,omitempty"`
	ConvenienceFeeType  string   `gorm:"type:varchar(20);default:'FLAT'" json:"convenience_fee_type"`
	ConvenienceFeeValue *float64 `gorm:"type:numeric" json:"convenience_fee_value,omitempty"`
	CommissionType      string   `gorm:"type:varchar(20);default:'FLAT'" json:"commission_type"`
	CommissionValue     *float64 `gorm:"type:numeric" json:"commission_value,omitempty"`

	TotalQuantity     int  `gorm:"not null;check:total_quantity >= 0" json:"total_quantity"`
	AvailableQuantity int  `gorm:"default:0" json:"available_quantity"`
	IsActive          bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Seat is a fixed grid cell for seat-mapped events. Occupancy is derived by
// cross-referencing confirmed bookings' line items against seat labels, not
// from a per-seat booked flag.
type Seat struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EventID    uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_event_seat" json:"event_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;not null" json:"category_id"`
	Row        string    `gorm:"not null" json:"row"`
	Position   int       `gorm:"not null" json:"position"`
	SeatNumber string    `gorm:"not null;uniqueIndex:idx_event_seat" json:"seat_number"`
	IsBlocked  bool      `gorm:"default:false" json:"is_blocked"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for Event
func (Event) TableName() string {
	return "events"
}

// TableName sets the table name for EventOccurrence
func (EventOccurrence) TableName() string {
	return "event_occurrences"
}

// TableName sets the table name for TicketCategory
func (TicketCategory) TableName() string {
	return "ticket_categories"
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// HasPricing reports whether the category carries any pricing configuration
func (tc *TicketCategory) HasPricing() bool {
	return tc.BasePrice != nil
}

// Price returns the base price, zero when unset
func (tc *TicketCategory) Price() float64 {
	if tc.BasePrice == nil {
		return 0
	}
	return *tc.BasePrice
}

// ConvenienceFeeRule resolves the stored convenience fee fields into a rule.
// Missing values default to zero.
func (tc *TicketCategory) ConvenienceFeeRule() pricing.FeeRule {
	rule := pricing.FeeRule{Type: pricing.ParseFeeType(tc.ConvenienceFeeType)}
	if tc.ConvenienceFeeValue != nil {
		rule.Value = *tc.ConvenienceFeeValue
	}
	return rule
}

// CommissionRule resolves the stored commission fields into a rule
func (tc *TicketCategory) CommissionRule() pricing.FeeRule {
	rule := pricing.FeeRule{Type: pricing.ParseFeeType(tc.CommissionType)}
	if tc.CommissionValue != nil {
		rule.Value = *tc.CommissionValue
	}
	return rule
}

// ShowTime returns the time customers see for an occurrence. Recurring
// events always render the event-level display time, never the occurrence's
// own stored time.
func (e *Event) ShowTime(occ *EventOccurrence) time.Time {
	if e.IsRecurring || occ == nil {
		return e.DisplayTime
	}
	return occ.StartsAt
}

// IsGeneralAdmission reports whether tickets are tracked purely by category
// quantity, without assigned seats
func (e *Event) IsGeneralAdmission() bool {
	return !e.SeatMapped
}

// CreateEventRequest is the admin payload for creating an event
type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required,min=3,max=255"`
	Description string    `json:"description" binding:"max=2000"`
	Venue       string    `json:"venue" binding:"required,min=3,max=255"`
	VenueState  string    `json:"venue_state" binding:"required,min=2,max=100"`
	IsRecurring bool      `json:"is_recurring"`
	SeatMapped  bool      `json:"seat_mapped"`
	DisplayTime time.Time `json:"display_time" binding:"required"`

	Occurrences []CreateOccurrenceRequest `json:"occurrences"`
	Categories  []CreateCategoryRequest   `json:"categories"`
}

// CreateOccurrenceRequest is one dated instance in a create payload
type CreateOccurrenceRequest struct {
	StartsAt      time.Time `json:"starts_at" binding:"required"`
	TotalQuantity int       `json:"total_quantity" binding:"required,min=0,max=100000"`
}

// CreateCategoryRequest is one ticket tier in a create payload
type CreateCategoryRequest struct {
	Name                string   `json:"name" binding:"required,min=1,max=100"`
	BasePrice           *float64 `json:"base_price" binding:"omitempty,min=0"`
	ConvenienceFeeType  string   `json:"convenience_fee_type" binding:"omitempty,oneof=FLAT PERCENTAGE"`
	ConvenienceFeeValue *float64 `json:"convenience_fee_value" binding:"omitempty,min=0"`
	CommissionType      string   `json:"commission_type" binding:"omitempty,oneof=FLAT PERCENTAGE"`
	CommissionValue     *float64 `json:"commission_value" binding:"omitempty,min=0"`
	TotalQuantity       int      `json:"total_quantity" binding:"required,min=0,max=100000"`
}

// UpdateEventRequest is the admin payload for updating an event
type UpdateEventRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=3,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Venue       *string    `json:"venue" binding:"omitempty,min=3,max=255"`
	VenueState  *string    `json:"venue_state" binding:"omitempty,min=2,max=100"`
	DisplayTime *time.Time `json:"display_time"`
	Status      *string    `json:"status" binding:"omitempty,oneof=draft published sold_out cancelled completed"`
}

// EventListQuery carries pagination and filters for event browsing
type EventListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
	Status string `form:"status" binding:"omitempty,oneof=draft published sold_out cancelled completed"`
}

// CategoryAvailabilityResponse is one category with recomputed availability
type CategoryAvailabilityResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	BasePrice      float64 `json:"base_price"`
	ConvenienceFee float64 `json:"convenience_fee"`
	UnitTotal      float64 `json:"unit_total"`
	Total          int     `json:"total"`
	Remaining      int     `json:"remaining"`
	Available      bool    `json:"available"`
}

// OccurrenceResponse is one occurrence with its display time resolved
type OccurrenceResponse struct {
	ID         string                         `json:"id"`
	ShowTime   time.Time                      `json:"show_time"`
	Categories []CategoryAvailabilityResponse `json:"categories"`
	SoldOut    bool                           `json:"sold_out"`
}

// EventResponse is the public detail payload
type EventResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Venue       string               `json:"venue"`
	VenueState  string               `json:"venue_state"`
	IsRecurring bool                 `json:"is_recurring"`
	SeatMapped  bool                 `json:"seat_mapped"`
	DisplayTime time.Time            `json:"display_time"`
	Status      EventStatus          `json:"status"`
	SoldOut     bool                 `json:"sold_out"`
	Categories  []CategoryAvailabilityResponse `json:"categories,omitempty"`
	Occurrences []OccurrenceResponse `json:"occurrences,omitempty"`
}

// SeatResponse is one seat-map cell with derived occupancy
type SeatResponse struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Row        string `json:"row"`
	Position   int    `json:"position"`
	SeatNumber string `json:"seat_number"`
	Status     string `json:"status"` // AVAILABLE / BOOKED / BLOCKED
}

// PaginatedEvents wraps a listing page
type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}
