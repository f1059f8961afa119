package availability

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItemUnmarshalLegacyShapes(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected LineItem
	}{
		{
			name:     "current shape",
			raw:      `{"category": "General", "quantity": 2, "price": 559}`,
			expected: LineItem{Category: "General", Quantity: 2, Price: 559},
		},
		{
			name:     "categoryName key",
			raw:      `{"categoryName": "VIP", "quantity": 1}`,
			expected: LineItem{Category: "VIP", Quantity: 1},
		},
		{
			name:     "seat_category key",
			raw:      `{"seat_category": "Balcony", "quantity": 3}`,
			expected: LineItem{Category: "Balcony", Quantity: 3},
		},
		{
			name:     "quantity as string",
			raw:      `{"category": "General", "quantity": "4"}`,
			expected: LineItem{Category: "General", Quantity: 4},
		},
		{
			name:     "quantity as float",
			raw:      `{"category": "General", "quantity": 2.0}`,
			expected: LineItem{Category: "General", Quantity: 2},
		},
		{
			name:     "missing quantity defaults to one",
			raw:      `{"category": "General"}`,
			expected: LineItem{Category: "General", Quantity: 1},
		},
		{
			name:     "garbage quantity defaults to one",
			raw:      `{"category": "General", "quantity": "two"}`,
			expected: LineItem{Category: "General", Quantity: 1},
		},
		{
			name:     "seats carried through",
			raw:      `{"category": "VIP", "quantity": 2, "seats": ["A1", "A2"]}`,
			expected: LineItem{Category: "VIP", Quantity: 2, Seats: []string{"A1", "A2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var item LineItem
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &item))
			assert.Equal(t, tt.expected, item)
		})
	}
}

func TestLineItemsScan(t *testing.T) {
	raw := `[{"categoryName": "General", "quantity": "2"}, {"category": "VIP"}]`

	var fromBytes LineItems
	require.NoError(t, fromBytes.Scan([]byte(raw)))
	require.Len(t, fromBytes, 2)
	assert.Equal(t, "General", fromBytes[0].Category)
	assert.Equal(t, 2, fromBytes[0].Quantity)
	assert.Equal(t, "VIP", fromBytes[1].Category)
	assert.Equal(t, 1, fromBytes[1].Quantity)

	var fromString LineItems
	require.NoError(t, fromString.Scan(raw))
	assert.Equal(t, fromBytes, fromString)

	var fromNil LineItems
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)

	var fromBad LineItems
	assert.Error(t, fromBad.Scan(42))
}

func TestMatchesCategory(t *testing.T) {
	item := LineItem{Category: "  General  "}
	assert.True(t, item.MatchesCategory("general"))
	assert.True(t, item.MatchesCategory("GENERAL "))
	assert.False(t, item.MatchesCategory("VIP"))
}
