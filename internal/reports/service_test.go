package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/bookings"
	"stagepass/internal/events"
)

type fakeBookingRepo struct {
	bookings.Repository
	rows []bookings.Booking
}

func (f *fakeBookingRepo) ListByEvent(_ context.Context, _ uuid.UUID) ([]bookings.Booking, error) {
	return f.rows, nil
}

type fakeEventsRepo struct {
	events.Repository
	event *events.Event
}

func (f *fakeEventsRepo) GetEventByID(_ context.Context, id uuid.UUID) (*events.Event, error) {
	if f.event != nil && f.event.ID == id {
		return f.event, nil
	}
	return nil, events.ErrNotFound
}

func flat(v float64) *float64 { return &v }

func TestEventReport(t *testing.T) {
	ctx := context.Background()
	event := &events.Event{
		ID:         uuid.New(),
		Name:       "Indie Night Live",
		VenueState: "West Bengal",
	}

	rows := []bookings.Booking{
		{
			// modern row, customer in the home state
			ID: uuid.New(), EventID: event.ID, Quantity: 2,
			TotalPrice: 1118, ConvenienceFee: flat(118), Commission: flat(1000),
			UnitPrice: flat(559), CustomerState: "West Bengal",
		},
		{
			// modern row, customer elsewhere
			ID: uuid.New(), EventID: event.ID, Quantity: 1,
			TotalPrice: 559, ConvenienceFee: flat(59), Commission: flat(50),
			UnitPrice: flat(559), CustomerState: "Karnataka",
		},
		{
			// legacy row without pricing fields
			ID: uuid.New(), EventID: event.ID, Quantity: 2, TotalPrice: 1000,
			CustomerState: "Karnataka",
		},
	}

	svc := NewService(
		&fakeBookingRepo{rows: rows},
		&fakeEventsRepo{event: event},
		nil,
		"West Bengal",
		time.Minute,
	)

	report, err := svc.EventReport(ctx, event.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalBookings)
	assert.Equal(t, 5, report.TotalTickets)
	assert.Equal(t, 1, report.LegacyBookings)
	assert.InDelta(t, 2677.0, report.GrossRevenue, 1e-9)

	// convenience fee GST is bucketed by the customer's state
	assert.InDelta(t, 118.0/1.18*0.18, report.ConvenienceFeeGST.HomeState, 0.01)
	assert.InDelta(t, 59.0/1.18*0.18, report.ConvenienceFeeGST.OtherState, 0.01)

	// commission GST all lands in the venue's bucket
	assert.InDelta(t, 1050.0*(1-0.84745), report.CommissionGST.HomeState, 0.01)
	assert.InDelta(t, 0.0, report.CommissionGST.OtherState, 1e-9)
	assert.InDelta(t, 1050.0*0.84745, report.CommissionBase, 0.01)

	// legacy rows contribute only base revenue
	assert.InDelta(t, 1000.0+559.0-59.0+1118.0-118.0, report.BaseRevenue, 0.01)
}

func TestEventReportUnknownEvent(t *testing.T) {
	svc := NewService(&fakeBookingRepo{}, &fakeEventsRepo{}, nil, "West Bengal", time.Minute)

	_, err := svc.EventReport(context.Background(), uuid.New())
	assert.ErrorIs(t, err, events.ErrNotFound)
}
