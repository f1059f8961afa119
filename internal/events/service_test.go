package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/availability"
)

// fakeAvailRepo serves canned confirmed bookings, keyed by category id when
// the scope carries one
type fakeAvailRepo struct {
	byCategory map[uuid.UUID][]availability.ConfirmedBooking
	all        []availability.ConfirmedBooking
}

func (f *fakeAvailRepo) ConfirmedBookings(_ context.Context, scope availability.Scope) ([]availability.ConfirmedBooking, error) {
	if scope.CategoryID != nil {
		return f.byCategory[*scope.CategoryID], nil
	}
	return f.all, nil
}

type fakeEventsStore struct {
	event      *Event
	categories []TicketCategory
	seats      []Seat
	statusSets []EventStatus
}

func (f *fakeEventsStore) CreateEvent(_ context.Context, _ *Event) error { return nil }

func (f *fakeEventsStore) GetEventByID(_ context.Context, id uuid.UUID) (*Event, error) {
	if f.event != nil && f.event.ID == id {
		return f.event, nil
	}
	return nil, ErrNotFound
}

func (f *fakeEventsStore) ListEvents(_ context.Context, _ EventListQuery) ([]Event, int64, error) {
	if f.event == nil {
		return nil, 0, nil
	}
	return []Event{*f.event}, 1, nil
}

func (f *fakeEventsStore) UpdateEvent(_ context.Context, _ *Event) error { return nil }

func (f *fakeEventsStore) UpdateEventStatus(_ context.Context, _ uuid.UUID, status EventStatus) error {
	f.statusSets = append(f.statusSets, status)
	f.event.Status = status
	return nil
}

func (f *fakeEventsStore) CreateOccurrence(_ context.Context, _ *EventOccurrence) error { return nil }

func (f *fakeEventsStore) GetOccurrenceByID(_ context.Context, _ uuid.UUID) (*EventOccurrence, error) {
	return nil, ErrNotFound
}

func (f *fakeEventsStore) ListOccurrencesByEvent(_ context.Context, _ uuid.UUID) ([]EventOccurrence, error) {
	return nil, nil
}

func (f *fakeEventsStore) UpdateOccurrenceAvailability(_ context.Context, _ uuid.UUID, _ int) error {
	return nil
}

func (f *fakeEventsStore) CreateCategory(_ context.Context, _ *TicketCategory) error { return nil }

func (f *fakeEventsStore) GetCategoryByID(_ context.Context, id uuid.UUID) (*TicketCategory, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			return &f.categories[i], nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeEventsStore) ActiveCategoriesByEvent(_ context.Context, _ uuid.UUID) ([]TicketCategory, error) {
	return f.categories, nil
}

func (f *fakeEventsStore) ActiveCategoriesByOccurrence(_ context.Context, _ uuid.UUID) ([]TicketCategory, error) {
	return nil, nil
}

func (f *fakeEventsStore) UpdateCategoryAvailability(_ context.Context, _ uuid.UUID, _ int) error {
	return nil
}

func (f *fakeEventsStore) CreateSeats(_ context.Context, _ []Seat) error { return nil }

func (f *fakeEventsStore) ListSeatsByEvent(_ context.Context, _ uuid.UUID) ([]Seat, error) {
	return f.seats, nil
}

func flat(v float64) *float64 { return &v }

func newTestService(store *fakeEventsStore, availRepo *fakeAvailRepo) Service {
	availSvc := availability.NewService(availRepo)
	return NewService(store, availSvc, availRepo, nil, time.Minute)
}

func TestCategoryAvailability(t *testing.T) {
	ctx := context.Background()
	event := &Event{ID: uuid.New(), Name: "Indie Night Live", Status: StatusPublished}

	t.Run("remaining recomputed from confirmed bookings", func(t *testing.T) {
		category := TicketCategory{
			ID:                  uuid.New(),
			EventID:             event.ID,
			Name:                "General",
			BasePrice:           flat(500),
			ConvenienceFeeType:  "FLAT",
			ConvenienceFeeValue: flat(59),
			TotalQuantity:       10,
			// stale counter, must be ignored
			AvailableQuantity: 9,
		}
		availRepo := &fakeAvailRepo{byCategory: map[uuid.UUID][]availability.ConfirmedBooking{
			category.ID: {
				{Quantity: 2},
				{Items: availability.LineItems{{Category: "General", Quantity: 3}}},
			},
		}}
		store := &fakeEventsStore{event: event, categories: []TicketCategory{category}}
		svc := newTestService(store, availRepo)

		resp, err := svc.CategoryAvailability(ctx, event, &category)
		require.NoError(t, err)
		assert.Equal(t, 5, resp.Remaining)
		assert.True(t, resp.Available)
		assert.InDelta(t, 559.0, resp.UnitTotal, 1e-9)
	})

	t.Run("category with zero total is not available", func(t *testing.T) {
		category := TicketCategory{
			ID: uuid.New(), EventID: event.ID, Name: "Balcony",
			BasePrice: flat(300), TotalQuantity: 0,
		}
		store := &fakeEventsStore{event: event, categories: []TicketCategory{category}}
		svc := newTestService(store, &fakeAvailRepo{})

		resp, err := svc.CategoryAvailability(ctx, event, &category)
		require.NoError(t, err)
		assert.False(t, resp.Available)
		assert.Equal(t, 0, resp.Remaining)
	})

	t.Run("category without pricing is not available", func(t *testing.T) {
		category := TicketCategory{ID: uuid.New(), EventID: event.ID, Name: "Legacy", TotalQuantity: 10}
		store := &fakeEventsStore{event: event, categories: []TicketCategory{category}}
		svc := newTestService(store, &fakeAvailRepo{})

		resp, err := svc.CategoryAvailability(ctx, event, &category)
		require.NoError(t, err)
		assert.False(t, resp.Available)
		assert.Equal(t, 0, resp.Remaining)
		assert.InDelta(t, 0.0, resp.UnitTotal, 1e-9)
	})
}

func TestGetEventSoldOut(t *testing.T) {
	ctx := context.Background()
	event := &Event{ID: uuid.New(), Name: "Indie Night Live", Status: StatusPublished}

	general := TicketCategory{
		ID: uuid.New(), EventID: event.ID, Name: "General",
		BasePrice: flat(500), TotalQuantity: 2,
	}
	vip := TicketCategory{
		ID: uuid.New(), EventID: event.ID, Name: "VIP",
		BasePrice: flat(1500), TotalQuantity: 1,
	}

	availRepo := &fakeAvailRepo{byCategory: map[uuid.UUID][]availability.ConfirmedBooking{
		general.ID: {{Items: availability.LineItems{{Category: "General", Quantity: 2}}}},
		vip.ID:     {{Items: availability.LineItems{{Category: "VIP", Quantity: 1}}}},
	}}
	store := &fakeEventsStore{event: event, categories: []TicketCategory{general, vip}}
	svc := newTestService(store, availRepo)

	resp, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, resp.SoldOut)
	require.Len(t, resp.Categories, 2)
	assert.Equal(t, 0, resp.Categories[0].Remaining)
	assert.Equal(t, 0, resp.Categories[1].Remaining)
}

func TestRecheckSoldOut(t *testing.T) {
	ctx := context.Background()

	t.Run("flips published event to sold_out", func(t *testing.T) {
		event := &Event{ID: uuid.New(), Status: StatusPublished}
		category := TicketCategory{ID: uuid.New(), EventID: event.ID, Name: "General", BasePrice: flat(500), TotalQuantity: 1}
		availRepo := &fakeAvailRepo{byCategory: map[uuid.UUID][]availability.ConfirmedBooking{
			category.ID: {{Quantity: 1}},
		}}
		store := &fakeEventsStore{event: event, categories: []TicketCategory{category}}
		svc := newTestService(store, availRepo)

		soldOut, err := svc.RecheckSoldOut(ctx, event.ID)
		require.NoError(t, err)
		assert.True(t, soldOut)
		assert.Equal(t, []EventStatus{StatusSoldOut}, store.statusSets)
	})

	t.Run("reopens sold_out event after cancellation frees stock", func(t *testing.T) {
		event := &Event{ID: uuid.New(), Status: StatusSoldOut}
		category := TicketCategory{ID: uuid.New(), EventID: event.ID, Name: "General", BasePrice: flat(500), TotalQuantity: 5}
		store := &fakeEventsStore{event: event, categories: []TicketCategory{category}}
		svc := newTestService(store, &fakeAvailRepo{})

		soldOut, err := svc.RecheckSoldOut(ctx, event.ID)
		require.NoError(t, err)
		assert.False(t, soldOut)
		assert.Equal(t, []EventStatus{StatusPublished}, store.statusSets)
	})

	t.Run("event with no categories is not sold out", func(t *testing.T) {
		event := &Event{ID: uuid.New(), Status: StatusPublished}
		store := &fakeEventsStore{event: event}
		svc := newTestService(store, &fakeAvailRepo{})

		soldOut, err := svc.RecheckSoldOut(ctx, event.ID)
		require.NoError(t, err)
		assert.False(t, soldOut)
		assert.Empty(t, store.statusSets)
	})
}

func TestGetSeatMap(t *testing.T) {
	ctx := context.Background()
	event := &Event{ID: uuid.New(), Name: "Indie Night Live", SeatMapped: true, Status: StatusPublished}
	categoryID := uuid.New()

	store := &fakeEventsStore{
		event: event,
		seats: []Seat{
			{ID: uuid.New(), EventID: event.ID, CategoryID: categoryID, Row: "A", Position: 1, SeatNumber: "A1"},
			{ID: uuid.New(), EventID: event.ID, CategoryID: categoryID, Row: "A", Position: 2, SeatNumber: "A2"},
			{ID: uuid.New(), EventID: event.ID, CategoryID: categoryID, Row: "A", Position: 3, SeatNumber: "A3", IsBlocked: true},
		},
	}
	availRepo := &fakeAvailRepo{all: []availability.ConfirmedBooking{
		{Items: availability.LineItems{{Category: "VIP", Quantity: 1, Seats: []string{"a2"}}}},
	}}
	svc := newTestService(store, availRepo)

	seats, err := svc.GetSeatMap(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, seats, 3)
	assert.Equal(t, "AVAILABLE", seats[0].Status)
	assert.Equal(t, "BOOKED", seats[1].Status)
	assert.Equal(t, "BLOCKED", seats[2].Status)

	t.Run("general admission event has no seat map", func(t *testing.T) {
		gaEvent := &Event{ID: uuid.New(), SeatMapped: false}
		gaSvc := newTestService(&fakeEventsStore{event: gaEvent}, &fakeAvailRepo{})
		_, err := gaSvc.GetSeatMap(ctx, gaEvent.ID)
		assert.Error(t, err)
	})
}
