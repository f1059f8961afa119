package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stagepass/internal/pricing"
)

func TestShowTime(t *testing.T) {
	displayTime := time.Date(2026, 10, 3, 20, 0, 0, 0, time.UTC)
	occurrenceTime := time.Date(2026, 10, 10, 21, 30, 0, 0, time.UTC)
	occ := &EventOccurrence{StartsAt: occurrenceTime}

	t.Run("recurring events always show the display time", func(t *testing.T) {
		event := &Event{IsRecurring: true, DisplayTime: displayTime}
		assert.Equal(t, displayTime, event.ShowTime(occ))
	})

	t.Run("single events show the occurrence time", func(t *testing.T) {
		event := &Event{IsRecurring: false, DisplayTime: displayTime}
		assert.Equal(t, occurrenceTime, event.ShowTime(occ))
	})

	t.Run("missing occurrence falls back to display time", func(t *testing.T) {
		event := &Event{IsRecurring: false, DisplayTime: displayTime}
		assert.Equal(t, displayTime, event.ShowTime(nil))
	})
}

func TestEventStatus(t *testing.T) {
	assert.True(t, StatusPublished.IsBookable())
	// sold_out is derived from cached data, the write path re-verifies anyway
	assert.True(t, StatusSoldOut.IsBookable())
	assert.False(t, StatusDraft.IsBookable())
	assert.False(t, StatusCancelled.IsBookable())
	assert.False(t, StatusCompleted.IsBookable())

	assert.True(t, StatusPublished.IsValid())
	assert.False(t, EventStatus("bogus").IsValid())
}

func TestTicketCategoryPricing(t *testing.T) {
	flat := func(v float64) *float64 { return &v }

	t.Run("category without base price has no pricing", func(t *testing.T) {
		category := &TicketCategory{Name: "Legacy"}
		assert.False(t, category.HasPricing())
		assert.InDelta(t, 0.0, category.Price(), 1e-9)
	})

	t.Run("missing fee values default to zero", func(t *testing.T) {
		category := &TicketCategory{
			Name:               "General",
			BasePrice:          flat(500),
			ConvenienceFeeType: "PERCENTAGE",
			CommissionType:     "FLAT",
		}

		feeRule := category.ConvenienceFeeRule()
		assert.Equal(t, pricing.FeeTypePercentage, feeRule.Type)
		assert.InDelta(t, 0.0, feeRule.Value, 1e-9)
		assert.InDelta(t, 0.0, feeRule.PerUnit(500), 1e-9)

		commissionRule := category.CommissionRule()
		assert.Equal(t, pricing.FeeTypeFlat, commissionRule.Type)
		assert.InDelta(t, 0.0, commissionRule.PerUnit(500), 1e-9)
	})

	t.Run("configured rules carry through", func(t *testing.T) {
		category := &TicketCategory{
			Name:                "VIP",
			BasePrice:           flat(1500),
			ConvenienceFeeType:  "FLAT",
			ConvenienceFeeValue: flat(59),
			CommissionType:      "PERCENTAGE",
			CommissionValue:     flat(10),
		}

		assert.InDelta(t, 59.0, category.ConvenienceFeeRule().PerUnit(1500), 1e-9)
		assert.InDelta(t, 150.0, category.CommissionRule().PerUnit(1500), 1e-9)
	})
}

func TestIsGeneralAdmission(t *testing.T) {
	assert.True(t, (&Event{SeatMapped: false}).IsGeneralAdmission())
	assert.False(t, (&Event{SeatMapped: true}).IsGeneralAdmission())
}
