package pricing

import "strings"

// FeeType selects how a convenience fee or commission rule is applied
type FeeType string

const (
	FeeTypeFlat       FeeType = "FLAT"
	FeeTypePercentage FeeType = "PERCENTAGE"
)

// ParseFeeType normalizes stored fee type strings; anything unrecognized is
// treated as flat, which combined with a zero value charges nothing.
func ParseFeeType(s string) FeeType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PERCENTAGE", "PERCENT":
		return FeeTypePercentage
	default:
		return FeeTypeFlat
	}
}

// FeeRule is a configured surcharge: a flat amount per unit, or a
// percentage of the base price
type FeeRule struct {
	Type  FeeType `json:"type"`
	Value float64 `json:"value"`
}

// PerUnit resolves the rule against a base price
func (r FeeRule) PerUnit(basePrice float64) float64 {
	if r.Value <= 0 {
		return 0
	}
	if r.Type == FeeTypePercentage {
		return basePrice * r.Value / 100
	}
	return r.Value
}

// Quote is the resolved forward pricing for one category line
type Quote struct {
	BasePrice         float64 `json:"base_price"`
	ConvenienceFee    float64 `json:"convenience_fee"`     // per unit
	CommissionPerUnit float64 `json:"commission_per_unit"` // back office only, never charged
	UnitTotal         float64 `json:"unit_total"`
	Quantity          int     `json:"quantity"`
	LineTotal         float64 `json:"line_total"`
}

// Resolve computes the forward quote for a category.
//
// recurringGeneralAdmission forces the convenience fee to zero regardless of
// the configured rule. This is a deliberate product rule for general
// admission tickets on recurring events, not a fallback.
func Resolve(basePrice float64, convenienceFee, commission FeeRule, quantity int, recurringGeneralAdmission bool) Quote {
	if basePrice < 0 {
		basePrice = 0
	}
	if quantity < 0 {
		quantity = 0
	}

	feePerUnit := convenienceFee.PerUnit(basePrice)
	if recurringGeneralAdmission {
		feePerUnit = 0
	}

	unitTotal := basePrice + feePerUnit

	return Quote{
		BasePrice:         basePrice,
		ConvenienceFee:    feePerUnit,
		CommissionPerUnit: commission.PerUnit(basePrice),
		UnitTotal:         unitTotal,
		Quantity:          quantity,
		LineTotal:         unitTotal * float64(quantity),
	}
}
