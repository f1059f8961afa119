package database

import (
	"stagepass/internal/bookings"
	"stagepass/internal/events"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&events.Event{},
		&events.EventOccurrence{},
		&events.TicketCategory{},
		&events.Seat{},
		&bookings.Booking{},
	)
}
