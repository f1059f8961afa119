package bookings

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is returned when a category's recomputed remaining
	// inventory cannot cover the requested quantity
	ErrCapacityExceeded = errors.New("insufficient availability")

	// ErrCategoryNotFound is returned when a requested category does not
	// exist, is inactive or belongs to a different event
	ErrCategoryNotFound = errors.New("ticket category not found")

	// ErrCategoryNotOnSale is returned for categories with no pricing
	// configuration; they are never priced from a default
	ErrCategoryNotOnSale = errors.New("ticket category is not on sale")

	// ErrEventNotBookable is returned when the event's status does not
	// accept bookings
	ErrEventNotBookable = errors.New("event is not open for booking")

	// ErrBookingNotFound is returned when a booking lookup misses
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAlreadyCancelled is returned when cancelling a cancelled booking
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)

// CapacityError names the category that ran out so the message can tell the
// customer exactly what to change
type CapacityError struct {
	CategoryName string
	Requested    int
	Remaining    int
}

func (e *CapacityError) Error() string {
	if e.Remaining <= 0 {
		return fmt.Sprintf("%s is sold out, please refresh and pick another category", e.CategoryName)
	}
	return fmt.Sprintf("only %d tickets remain in %s but %d were requested, please refresh and try again",
		e.Remaining, e.CategoryName, e.Requested)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
