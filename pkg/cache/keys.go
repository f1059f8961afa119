package cache

import "fmt"

// Cache keys for denormalized read models. Availability numbers are never
// cached; every availability read recomputes from confirmed bookings.
const (
	keyPrefix = "stagepass"
)

// EventListKey is the cache key for the public event listing
func EventListKey(page, limit int) string {
	return fmt.Sprintf("%s:events:list:%d:%d", keyPrefix, page, limit)
}

// EventDetailKey is the cache key for one event's detail payload
func EventDetailKey(eventID string) string {
	return fmt.Sprintf("%s:events:detail:%s", keyPrefix, eventID)
}

// EventPattern matches every cached payload for one event
func EventPattern(eventID string) string {
	return fmt.Sprintf("%s:events:*%s*", keyPrefix, eventID)
}

// ListingPattern matches every cached listing page
func ListingPattern() string {
	return fmt.Sprintf("%s:events:list:*", keyPrefix)
}

// ReportKey is the cache key for an event's financial report
func ReportKey(eventID string) string {
	return fmt.Sprintf("%s:reports:event:%s", keyPrefix, eventID)
}
