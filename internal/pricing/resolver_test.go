package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFeeType(t *testing.T) {
	tests := []struct {
		input    string
		expected FeeType
	}{
		{"FLAT", FeeTypeFlat},
		{"flat", FeeTypeFlat},
		{"PERCENTAGE", FeeTypePercentage},
		{" percentage ", FeeTypePercentage},
		{"PERCENT", FeeTypePercentage},
		{"", FeeTypeFlat},
		{"bogus", FeeTypeFlat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFeeType(tt.input))
		})
	}
}

func TestFeeRulePerUnit(t *testing.T) {
	tests := []struct {
		name      string
		rule      FeeRule
		basePrice float64
		expected  float64
	}{
		{"flat fee", FeeRule{Type: FeeTypeFlat, Value: 59}, 500, 59},
		{"percentage fee", FeeRule{Type: FeeTypePercentage, Value: 10}, 500, 50},
		{"zero value charges nothing", FeeRule{Type: FeeTypeFlat, Value: 0}, 500, 0},
		{"negative value charges nothing", FeeRule{Type: FeeTypePercentage, Value: -5}, 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.rule.PerUnit(tt.basePrice), 1e-9)
		})
	}
}

func TestResolve(t *testing.T) {
	convenience := FeeRule{Type: FeeTypeFlat, Value: 59}
	commission := FeeRule{Type: FeeTypePercentage, Value: 10}

	t.Run("standard quote", func(t *testing.T) {
		quote := Resolve(500, convenience, commission, 2, false)

		assert.InDelta(t, 500.0, quote.BasePrice, 1e-9)
		assert.InDelta(t, 59.0, quote.ConvenienceFee, 1e-9)
		assert.InDelta(t, 50.0, quote.CommissionPerUnit, 1e-9)
		assert.InDelta(t, 559.0, quote.UnitTotal, 1e-9)
		assert.Equal(t, 2, quote.Quantity)
		assert.InDelta(t, 1118.0, quote.LineTotal, 1e-9)
	})

	t.Run("recurring general admission zeroes the fee", func(t *testing.T) {
		quote := Resolve(500, convenience, commission, 2, true)

		assert.InDelta(t, 0.0, quote.ConvenienceFee, 1e-9)
		assert.InDelta(t, 500.0, quote.UnitTotal, 1e-9)
		assert.InDelta(t, 1000.0, quote.LineTotal, 1e-9)
		// commission is unaffected, the customer just never pays the fee
		assert.InDelta(t, 50.0, quote.CommissionPerUnit, 1e-9)
	})

	t.Run("negative inputs clamp to zero", func(t *testing.T) {
		quote := Resolve(-10, convenience, commission, -1, false)

		assert.InDelta(t, 0.0, quote.BasePrice, 1e-9)
		assert.Equal(t, 0, quote.Quantity)
		assert.InDelta(t, 0.0, quote.LineTotal, 1e-9)
	})
}
