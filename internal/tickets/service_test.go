package tickets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/availability"
	"stagepass/internal/bookings"
	"stagepass/internal/shared/config"
)

type fakeBookingService struct {
	bookings.Service
	booking *bookings.BookingResponse
}

func (f *fakeBookingService) GetBookingByRef(_ context.Context, ref string) (*bookings.BookingResponse, error) {
	if f.booking != nil && f.booking.BookingRef == ref {
		return f.booking, nil
	}
	return nil, bookings.ErrBookingNotFound
}

func testBooking() *bookings.BookingResponse {
	return &bookings.BookingResponse{
		BookingRef:   "SP-20260901-KDQWRT",
		EventName:    "Indie Night Live",
		CategoryName: "VIP",
		Quantity:     2,
		CustomerName: "Asha Rao",
		TotalPrice:   3118,
		LineItems: availability.LineItems{
			{Category: "VIP", Quantity: 2, Seats: []string{"A1", "A2"}},
		},
		Status:   bookings.StatusConfirmed,
		ShowTime: time.Date(2026, 10, 3, 20, 0, 0, 0, time.UTC),
	}
}

func TestVerificationURL(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		expected string
	}{
		{"plain origin", "https://tickets.stagepass.in", "https://tickets.stagepass.in/verify-ticket/SP-1"},
		{"trailing slash stripped", "https://tickets.stagepass.in/", "https://tickets.stagepass.in/verify-ticket/SP-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(nil, config.TicketingConfig{VerifyOrigin: tt.origin})
			assert.Equal(t, tt.expected, svc.VerificationURL("SP-1"))
		})
	}
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	booking := testBooking()
	svc := NewService(&fakeBookingService{booking: booking}, config.TicketingConfig{VerifyOrigin: "http://localhost:8080"})

	t.Run("confirmed booking is valid", func(t *testing.T) {
		result, err := svc.Verify(ctx, booking.BookingRef)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, "CONFIRMED", result.Status)
		assert.Equal(t, "Indie Night Live", result.EventName)
	})

	t.Run("cancelled booking is invalid", func(t *testing.T) {
		booking.Status = bookings.StatusCancelled
		defer func() { booking.Status = bookings.StatusConfirmed }()

		result, err := svc.Verify(ctx, booking.BookingRef)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, "CANCELLED", result.Status)
	})

	t.Run("unknown reference", func(t *testing.T) {
		_, err := svc.Verify(ctx, "SP-00000000-NOPE")
		assert.ErrorIs(t, err, bookings.ErrBookingNotFound)
	})
}

func TestGeneratePDF(t *testing.T) {
	ctx := context.Background()
	booking := testBooking()
	svc := NewService(&fakeBookingService{booking: booking}, config.TicketingConfig{VerifyOrigin: "http://localhost:8080"})

	pdfBytes, err := svc.GeneratePDF(ctx, booking.BookingRef)
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))

	_, err = svc.GeneratePDF(ctx, "SP-00000000-NOPE")
	assert.ErrorIs(t, err, bookings.ErrBookingNotFound)
}
