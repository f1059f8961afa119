package bookings

import (
	"time"

	"stagepass/internal/availability"

	"github.com/google/uuid"
)

// Booking is one confirmed purchase of tickets in a single category. A
// request spanning several categories produces one row per category, all
// inserted in the same transaction.
//
// Quantity and LineItems both describe what was bought; LineItems is the
// authoritative breakdown when present and Quantity the fallback for rows
// that predate it. ConvenienceFee is stored GST-inclusive.
type Booking struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingRef   string     `gorm:"unique;not null" json:"booking_ref"`
	EventID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"event_id"`
	OccurrenceID *uuid.UUID `gorm:"type:uuid;index;column:event_occurrence_id" json:"event_occurrence_id,omitempty"`
	CategoryID   *uuid.UUID `gorm:"type:uuid;index;column:occurrence_ticket_category_id" json:"occurrence_ticket_category_id,omitempty"`
	CategoryName string     `gorm:"size:100" json:"category_name"`

	Quantity  int                    `gorm:"not null" json:"quantity"`
	LineItems availability.LineItems `gorm:"type:jsonb;column:line_items" json:"line_items,omitempty"`

	// Customer snapshot taken at booking time
	CustomerName  string `gorm:"not null;size:255" json:"customer_name"`
	CustomerEmail string `gorm:"index;not null;size:255" json:"customer_email"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`
	CustomerState string `gorm:"size:100" json:"customer_state"`

	// Pricing captured at booking time. Nullable because historical rows
	// predate per-booking pricing; reports fall back to decomposing the total.
	UnitPrice      *float64 `gorm:"type:numeric" json:"unit_price,omitempty"`
	TotalPrice     float64  `gorm:"not null" json:"total_price"`
	ConvenienceFee *float64 `gorm:"type:numeric" json:"convenience_fee,omitempty"`
	Commission     *float64 `gorm:"type:numeric" json:"commission,omitempty"`

	Status      Status     `gorm:"type:varchar(20);default:'CONFIRMED'" json:"status"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// ConvenienceFeeAmount returns the stored fee, zero when unset
func (b *Booking) ConvenienceFeeAmount() float64 {
	if b.ConvenienceFee == nil {
		return 0
	}
	return *b.ConvenienceFee
}

// CommissionAmount returns the stored commission, zero when unset
func (b *Booking) CommissionAmount() float64 {
	if b.Commission == nil {
		return 0
	}
	return *b.Commission
}

// HasPricingFields reports whether this row carries per-booking pricing
func (b *Booking) HasPricingFields() bool {
	return b.UnitPrice != nil
}

// CreateBookingRequest is the customer payload for creating a booking. One
// request may span several categories of the same event or occurrence.
type CreateBookingRequest struct {
	EventID      string  `json:"event_id" validate:"required,uuid"`
	OccurrenceID *string `json:"occurrence_id" validate:"omitempty,uuid"`

	CustomerName  string `json:"customer_name" validate:"required,min=2,max=255"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	CustomerPhone string `json:"customer_phone" validate:"omitempty,min=7,max=20"`
	CustomerState string `json:"customer_state" validate:"required,min=2,max=100"`

	Items []CreateBookingItem `json:"items" validate:"required,min=1,dive"`
}

// CreateBookingItem is one category line in a booking request
type CreateBookingItem struct {
	CategoryID string   `json:"category_id" validate:"required,uuid"`
	Quantity   int      `json:"quantity" validate:"required,min=1,max=10"`
	Seats      []string `json:"seats" validate:"omitempty,max=10"`
}

// BookingListQuery carries pagination for booking listings
type BookingListQuery struct {
	Page  int    `form:"page" binding:"omitempty,min=1"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Email string `form:"email" binding:"omitempty,email"`
}

// BookingResponse is one booking row in API payloads
type BookingResponse struct {
	ID             string                 `json:"id"`
	BookingRef     string                 `json:"booking_ref"`
	EventID        string                 `json:"event_id"`
	EventName      string                 `json:"event_name,omitempty"`
	OccurrenceID   string                 `json:"occurrence_id,omitempty"`
	CategoryName   string                 `json:"category_name"`
	Quantity       int                    `json:"quantity"`
	LineItems      availability.LineItems `json:"line_items,omitempty"`
	CustomerName   string                 `json:"customer_name"`
	CustomerEmail  string                 `json:"customer_email"`
	UnitPrice      float64                `json:"unit_price"`
	TotalPrice     float64                `json:"total_price"`
	ConvenienceFee float64                `json:"convenience_fee"`
	Status         Status                 `json:"status"`
	ShowTime       time.Time              `json:"show_time"`
	CreatedAt      time.Time              `json:"created_at"`
}

// CreateBookingResponse wraps the rows created for one request
type CreateBookingResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    float64           `json:"total"`
	SoldOut  bool              `json:"event_sold_out"`
}

// PaginatedBookings wraps a booking listing page
type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}
