package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"stagepass/internal/availability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CapacityCheck tells the transactional writer which category to lock and
// how much headroom the request needs in it
type CapacityCheck struct {
	Scope     availability.Scope
	Total     int
	Requested int
}

type Repository interface {
	// CreateConfirmed inserts every row of a booking request in one
	// transaction, revalidating each category's remaining inventory under a
	// row lock first. Either all rows commit or none do.
	CreateConfirmed(ctx context.Context, rows []*Booking, checks []CapacityCheck) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByRef(ctx context.Context, bookingRef string) (*Booking, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error)
	ListBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateConfirmed(ctx context.Context, rows []*Booking, checks []CapacityCheck) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock categories in a fixed order so concurrent multi-category
		// requests cannot deadlock each other
		ordered := make([]CapacityCheck, len(checks))
		copy(ordered, checks)
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].Scope.CategoryID.String() < ordered[j].Scope.CategoryID.String()
		})

		txAvail := availability.WithTx(tx)

		for _, check := range ordered {
			var category struct {
				ID       uuid.UUID `gorm:"column:id"`
				IsActive bool      `gorm:"column:is_active"`
			}
			err := tx.Table("ticket_categories").
				Select("id, is_active").
				Where("id = ?", *check.Scope.CategoryID).
				Set("gorm:query_option", "FOR UPDATE").
				First(&category).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCategoryNotFound
				}
				return fmt.Errorf("failed to lock category: %w", err)
			}
			if !category.IsActive {
				return ErrCategoryNotFound
			}

			// Recompute under the lock. The cached available_quantity column
			// is never consulted; confirmed rows are the source of truth.
			confirmed, err := txAvail.ConfirmedBookings(ctx, check.Scope)
			if err != nil {
				return fmt.Errorf("failed to recompute availability: %w", err)
			}
			booked := availability.BookedCount(confirmed, check.Scope.CategoryName)
			remaining := availability.Remaining(check.Total, booked)
			if remaining < check.Requested {
				return &CapacityError{
					CategoryName: check.Scope.CategoryName,
					Requested:    check.Requested,
					Remaining:    remaining,
				}
			}
		}

		for _, row := range rows {
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("failed to create booking: %w", err)
			}
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByRef(ctx context.Context, bookingRef string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("booking_ref = ?", bookingRef).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("status = ?", StatusConfirmed).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ListBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Booking{})
	if query.Email != "" {
		baseQuery = baseQuery.Where("customer_email = ?", query.Email)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		Where("status = ?", StatusConfirmed).
		Updates(map[string]interface{}{
			"status":       StatusCancelled,
			"cancelled_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyCancelled
	}
	return nil
}
