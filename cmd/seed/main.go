package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"stagepass/internal/bookings"
	"stagepass/internal/events"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting StagePass database seeder...")

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db.GetPostgreSQL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	tables := []string{"bookings", "seats", "ticket_categories", "event_occurrences", "events"}
	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) SeedAll() error {
	ctx := context.Background()
	eventsRepo := events.NewRepository(s.db.GetPostgreSQL())

	if err := s.seedSingleEvent(ctx, eventsRepo); err != nil {
		return err
	}
	if err := s.seedRecurringEvent(ctx, eventsRepo); err != nil {
		return err
	}
	return nil
}

// seedSingleEvent creates a seat-mapped one-off concert with two priced
// categories, a small seat grid and one legacy confirmed booking so
// availability math has something to chew on
func (s *Seeder) seedSingleEvent(ctx context.Context, repo events.Repository) error {
	flat := func(v float64) *float64 { return &v }

	event := &events.Event{
		Name:        "Indie Night Live",
		Description: "A one-night indie rock showcase.",
		Venue:       "Aurora Hall, Kolkata",
		VenueState:  "West Bengal",
		SeatMapped:  true,
		DisplayTime: time.Now().AddDate(0, 1, 0).Truncate(time.Hour),
		Status:      events.StatusPublished,
	}
	if err := repo.CreateEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to create single event: %w", err)
	}

	general := &events.TicketCategory{
		EventID:             event.ID,
		Name:                "General",
		BasePrice:           flat(500),
		ConvenienceFeeType:  "FLAT",
		ConvenienceFeeValue: flat(59),
		CommissionType:      "PERCENTAGE",
		CommissionValue:     flat(10),
		TotalQuantity:       40,
		AvailableQuantity:   40,
		IsActive:            true,
	}
	vip := &events.TicketCategory{
		EventID:             event.ID,
		Name:                "VIP",
		BasePrice:           flat(1500),
		ConvenienceFeeType:  "PERCENTAGE",
		ConvenienceFeeValue: flat(5),
		CommissionType:      "PERCENTAGE",
		CommissionValue:     flat(12),
		TotalQuantity:       10,
		AvailableQuantity:   10,
		IsActive:            true,
	}
	for _, category := range []*events.TicketCategory{general, vip} {
		if err := repo.CreateCategory(ctx, category); err != nil {
			return fmt.Errorf("failed to create category %s: %w", category.Name, err)
		}
	}

	var seats []events.Seat
	for _, row := range []string{"A", "B"} {
		categoryID := general.ID
		if row == "A" {
			categoryID = vip.ID
		}
		for position := 1; position <= 5; position++ {
			seats = append(seats, events.Seat{
				EventID:    event.ID,
				CategoryID: categoryID,
				Row:        row,
				Position:   position,
				SeatNumber: fmt.Sprintf("%s%d", row, position),
			})
		}
	}
	if err := repo.CreateSeats(ctx, seats); err != nil {
		return fmt.Errorf("failed to create seats: %w", err)
	}

	// One historical booking in the legacy shape: categoryName key, quantity
	// stored as a string and no per-booking pricing fields
	legacy := &bookings.Booking{
		BookingRef:    "SP-20250101-LEGACY",
		EventID:       event.ID,
		CategoryID:    &general.ID,
		CategoryName:  general.Name,
		Quantity:      2,
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		CustomerState: "Karnataka",
		TotalPrice:    1118,
		Status:        bookings.StatusConfirmed,
	}
	if err := s.db.GetPostgreSQL().Create(legacy).Error; err != nil {
		return fmt.Errorf("failed to create legacy booking: %w", err)
	}
	rawItems := `[{"categoryName": "General", "quantity": "2", "seats": ["B1", "B2"]}]`
	if err := s.db.GetPostgreSQL().Exec(
		"UPDATE bookings SET line_items = ?::jsonb WHERE id = ?", rawItems, legacy.ID,
	).Error; err != nil {
		return fmt.Errorf("failed to backfill legacy line items: %w", err)
	}

	fmt.Printf("Seeded event %q (%s)\n", event.Name, event.ID)
	return nil
}

// seedRecurringEvent creates a general-admission recurring show with three
// occurrences sharing one display time
func (s *Seeder) seedRecurringEvent(ctx context.Context, repo events.Repository) error {
	flat := func(v float64) *float64 { return &v }

	event := &events.Event{
		Name:        "Weekend Comedy Club",
		Description: "Stand-up comedy, every weekend.",
		Venue:       "The Basement, Kolkata",
		VenueState:  "West Bengal",
		IsRecurring: true,
		DisplayTime: time.Date(2026, 10, 3, 20, 0, 0, 0, time.Local),
		Status:      events.StatusPublished,
	}
	if err := repo.CreateEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to create recurring event: %w", err)
	}

	var occurrenceIDs []uuid.UUID
	for week := 0; week < 3; week++ {
		occurrence := &events.EventOccurrence{
			EventID:           event.ID,
			StartsAt:          event.DisplayTime.AddDate(0, 0, 7*week),
			TotalQuantity:     60,
			AvailableQuantity: 60,
			IsActive:          true,
		}
		if err := repo.CreateOccurrence(ctx, occurrence); err != nil {
			return fmt.Errorf("failed to create occurrence: %w", err)
		}
		occurrenceIDs = append(occurrenceIDs, occurrence.ID)
	}

	for _, occurrenceID := range occurrenceIDs {
		id := occurrenceID
		category := &events.TicketCategory{
			EventID:             event.ID,
			OccurrenceID:        &id,
			Name:                "Entry",
			BasePrice:           flat(300),
			ConvenienceFeeType:  "FLAT",
			ConvenienceFeeValue: flat(35), // forced to zero at quote time for recurring GA
			CommissionType:      "PERCENTAGE",
			CommissionValue:     flat(8),
			TotalQuantity:       60,
			AvailableQuantity:   60,
			IsActive:            true,
		}
		if err := repo.CreateCategory(ctx, category); err != nil {
			return fmt.Errorf("failed to create occurrence category: %w", err)
		}
	}

	fmt.Printf("Seeded recurring event %q (%s) with %d occurrences\n", event.Name, event.ID, len(occurrenceIDs))
	return nil
}
