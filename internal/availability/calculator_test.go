package availability

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestContribution(t *testing.T) {
	tests := []struct {
		name     string
		booking  ConfirmedBooking
		category string
		expected int
	}{
		{
			name:     "no line items falls back to top-level quantity",
			booking:  ConfirmedBooking{Quantity: 3},
			category: "General",
			expected: 3,
		},
		{
			name: "line items override top-level quantity",
			booking: ConfirmedBooking{
				Quantity: 99,
				Items: LineItems{
					{Category: "General", Quantity: 2},
					{Category: "VIP", Quantity: 5},
				},
			},
			category: "General",
			expected: 2,
		},
		{
			name: "category match is case-insensitive",
			booking: ConfirmedBooking{
				Items: LineItems{{Category: "general", Quantity: 4}},
			},
			category: "General",
			expected: 4,
		},
		{
			name: "zero quantity line counts as one",
			booking: ConfirmedBooking{
				Items: LineItems{{Category: "General", Quantity: 0}},
			},
			category: "General",
			expected: 1,
		},
		{
			name: "empty category counts every line",
			booking: ConfirmedBooking{
				Items: LineItems{
					{Category: "General", Quantity: 2},
					{Category: "VIP", Quantity: 1},
				},
			},
			category: "",
			expected: 3,
		},
		{
			name: "non-matching lines do not count",
			booking: ConfirmedBooking{
				Items: LineItems{{Category: "VIP", Quantity: 2}},
			},
			category: "General",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.booking.Contribution(tt.category))
		})
	}
}

func TestBookedCount(t *testing.T) {
	bookings := []ConfirmedBooking{
		{Quantity: 2},
		{Items: LineItems{{Category: "General", Quantity: 3}, {Category: "VIP", Quantity: 1}}},
		{Items: LineItems{{Category: " general ", Quantity: 1}}},
	}

	assert.Equal(t, 6, BookedCount(bookings, "General"))
	assert.Equal(t, 0, BookedCount(nil, "General"))
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		booked   int
		expected int
	}{
		{"simple subtraction", 100, 40, 60},
		{"exactly sold out", 50, 50, 0},
		{"overbooked floors at zero", 50, 60, 0},
		{"nothing booked", 10, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Remaining(tt.total, tt.booked))
		})
	}
}

func TestSoldOut(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name        string
		inventories []CategoryInventory
		expected    bool
	}{
		{
			name:        "no categories is not sold out",
			inventories: nil,
			expected:    false,
		},
		{
			name: "one category with stock",
			inventories: []CategoryInventory{
				{CategoryID: id, CategoryName: "General", Total: 10, Remaining: 0},
				{CategoryID: id, CategoryName: "VIP", Total: 5, Remaining: 2},
			},
			expected: false,
		},
		{
			name: "every category at zero",
			inventories: []CategoryInventory{
				{CategoryID: id, CategoryName: "General", Total: 10, Remaining: 0},
				{CategoryID: id, CategoryName: "VIP", Total: 5, Remaining: 0},
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SoldOut(tt.inventories))
		})
	}
}
