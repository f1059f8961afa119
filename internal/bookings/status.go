package bookings

// Status is the lifecycle state of a booking row. Only CONFIRMED rows count
// toward availability; PENDING and CANCELLED are invisible to the
// remaining-inventory computation.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusPending   Status = "PENDING"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CountsTowardAvailability reports whether rows in this status reduce
// remaining inventory
func (s Status) CountsTowardAvailability() bool {
	return s == StatusConfirmed
}
