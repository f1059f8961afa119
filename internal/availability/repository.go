package availability

import (
	"context"

	"gorm.io/gorm"
)

// Repository fetches the confirmed booking rows a remaining-inventory
// computation needs. It reads the bookings table directly so the calculator
// can be reused from any package without import cycles.
type Repository interface {
	ConfirmedBookings(ctx context.Context, scope Scope) ([]ConfirmedBooking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// bookingRow mirrors just the columns the calculator consumes
type bookingRow struct {
	Quantity  int       `gorm:"column:quantity"`
	LineItems LineItems `gorm:"column:line_items"`
}

func (r *repository) ConfirmedBookings(ctx context.Context, scope Scope) ([]ConfirmedBooking, error) {
	return confirmedBookings(r.db.WithContext(ctx), scope)
}

// WithTx returns a repository bound to an open transaction, so the write
// path can recompute remaining under the same row locks it inserts with.
func WithTx(tx *gorm.DB) Repository {
	return &txRepository{tx: tx}
}

type txRepository struct {
	tx *gorm.DB
}

func (r *txRepository) ConfirmedBookings(_ context.Context, scope Scope) ([]ConfirmedBooking, error) {
	return confirmedBookings(r.tx, scope)
}

func confirmedBookings(db *gorm.DB, scope Scope) ([]ConfirmedBooking, error) {
	query := db.
		Table("bookings").
		Select("quantity, line_items").
		Where("status = ?", "CONFIRMED").
		Where("event_id = ?", scope.EventID)

	if scope.OccurrenceID != nil {
		query = query.Where("event_occurrence_id = ?", *scope.OccurrenceID)
	}
	if scope.CategoryID != nil {
		query = query.Where("occurrence_ticket_category_id = ?", *scope.CategoryID)
	}

	var rows []bookingRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	bookings := make([]ConfirmedBooking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, ConfirmedBooking{
			Quantity: row.Quantity,
			Items:    row.LineItems,
		})
	}
	return bookings, nil
}
