package events

type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusSoldOut   EventStatus = "sold_out"
	StatusCancelled EventStatus = "cancelled"
	StatusCompleted EventStatus = "completed"
)

// IsValid checks if the event status is valid
func (s EventStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusSoldOut, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of EventStatus
func (s EventStatus) String() string {
	return string(s)
}

// IsBookable checks if bookings can be accepted in this status. A sold_out
// event stays bookable on purpose: the flag is derived from cached data and
// the write path re-verifies real availability anyway.
func (s EventStatus) IsBookable() bool {
	return s == StatusPublished || s == StatusSoldOut
}
