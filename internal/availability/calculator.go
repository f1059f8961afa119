package availability

import "github.com/google/uuid"

// Scope identifies what a remaining-inventory question is about: an event,
// one occurrence of it, or one ticket category of an occurrence. CategoryName
// is required whenever line-item breakdowns must be filtered per category.
type Scope struct {
	EventID      uuid.UUID
	OccurrenceID *uuid.UUID
	CategoryID   *uuid.UUID
	CategoryName string
}

// ConfirmedBooking is the subset of a booking row the calculator needs
type ConfirmedBooking struct {
	Quantity int
	Items    LineItems
}

// Contribution returns how many units this booking counts against the given
// category. A booking with a line-item breakdown contributes only the entries
// matching the category; a booking without one contributes its own quantity.
func (b *ConfirmedBooking) Contribution(category string) int {
	if len(b.Items) == 0 {
		return b.Quantity
	}

	total := 0
	for _, item := range b.Items {
		if category == "" || item.MatchesCategory(category) {
			qty := item.Quantity
			if qty <= 0 {
				qty = 1
			}
			total += qty
		}
	}
	return total
}

// BookedCount sums the quantity contributions of confirmed bookings for the
// named category. An empty category counts every line.
func BookedCount(bookings []ConfirmedBooking, category string) int {
	total := 0
	for i := range bookings {
		total += bookings[i].Contribution(category)
	}
	return total
}

// Remaining computes true remaining inventory, floored at zero. The stored
// available counter is a stale cache and never consulted here.
func Remaining(totalCapacity, bookedCount int) int {
	remaining := totalCapacity - bookedCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CategoryInventory pairs a category's capacity with its recomputed remaining
type CategoryInventory struct {
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Total        int       `json:"total"`
	Booked       int       `json:"booked"`
	Remaining    int       `json:"remaining"`
}

// SoldOut reports whether every category independently computes to zero
// remaining. An empty slice is not sold out: it means nothing is on sale,
// which callers report as not-available instead.
func SoldOut(inventories []CategoryInventory) bool {
	if len(inventories) == 0 {
		return false
	}
	for _, inv := range inventories {
		if inv.Remaining > 0 {
			return false
		}
	}
	return true
}
