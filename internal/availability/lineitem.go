package availability

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LineItem is one purchased unit group inside a booking's breakdown, either
// a per-category entry (general admission) or a per-seat entry (seat maps).
//
// Historical rows spell the category label three different ways, and store
// quantity as a number, a numeric string, or not at all. Parsing is lenient
// so every generation of rows still counts toward availability.
type LineItem struct {
	Category string   `json:"category"`
	Quantity int      `json:"quantity"`
	Seats    []string `json:"seats,omitempty"`
	Price    float64  `json:"price,omitempty"`
}

// legacy alternate keys for the category label
var categoryKeys = []string{"category", "categoryName", "seat_category"}

// UnmarshalJSON accepts all historical breakdown shapes
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for _, key := range categoryKeys {
		if v, ok := raw[key]; ok {
			var label string
			if err := json.Unmarshal(v, &label); err == nil && label != "" {
				li.Category = label
				break
			}
		}
	}

	li.Quantity = parseQuantity(raw["quantity"])

	if v, ok := raw["seats"]; ok {
		var seats []string
		if err := json.Unmarshal(v, &seats); err == nil {
			li.Seats = seats
		}
	}
	if v, ok := raw["price"]; ok {
		var price float64
		if err := json.Unmarshal(v, &price); err == nil {
			li.Price = price
		}
	}

	return nil
}

// parseQuantity reads a quantity field as an integer, defaulting to 1 when
// the field is absent or non-numeric
func parseQuantity(raw json.RawMessage) int {
	if raw == nil {
		return 1
	}

	var asInt int
	if err := json.Unmarshal(raw, &asInt); err == nil {
		return asInt
	}

	var asFloat float64
	if err := json.Unmarshal(raw, &asFloat); err == nil {
		return int(asFloat)
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(asString)); err == nil {
			return n
		}
	}

	return 1
}

// MatchesCategory reports whether the line belongs to the named category.
// Comparison is case-insensitive because labels were entered by hand in the
// oldest rows.
func (li *LineItem) MatchesCategory(category string) bool {
	return strings.EqualFold(strings.TrimSpace(li.Category), strings.TrimSpace(category))
}

// LineItems is stored as a JSONB column on bookings
type LineItems []LineItem

// Value implements driver.Valuer for GORM
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for GORM
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported line items column type %T", value)
	}

	return json.Unmarshal(data, l)
}

// GormDataType tells GORM to create a jsonb column
func (LineItems) GormDataType() string {
	return "jsonb"
}
