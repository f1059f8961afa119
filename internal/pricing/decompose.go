package pricing

import "strings"

// The two decompositions below use different constants on purpose. The
// convenience fee is stored GST-inclusive and divided by 1.18; the commission
// split uses a fixed 84.745% base share handed down from the finance team.
// They are kept as separate named constants and must not be unified.
const (
	// convenienceFeeGSTDivisor strips 18% GST from a GST-inclusive fee
	convenienceFeeGSTDivisor = 1.18

	// commissionBaseShare is the fixed base portion of a commission amount
	commissionBaseShare = 0.84745
)

// Breakdown is the reverse decomposition of a booking's stored totals into
// the components financial reports and printed tickets need
type Breakdown struct {
	BasePrice          float64 `json:"base_price"`
	ConvenienceFeeBase float64 `json:"convenience_fee_base"`
	ConvenienceFeeGST  float64 `json:"convenience_fee_gst"`
	CommissionBase     float64 `json:"commission_base"`
	CommissionGST      float64 `json:"commission_gst"`
}

// Decompose splits a booking's stored total price, GST-inclusive convenience
// fee and commission back into base and GST components
func Decompose(totalPrice, convenienceFee, commission float64) Breakdown {
	feeBase := convenienceFee / convenienceFeeGSTDivisor
	feeGST := convenienceFee - feeBase

	commissionBase := commission * commissionBaseShare
	commissionGST := commission - commissionBase

	return Breakdown{
		BasePrice:          totalPrice - (feeBase + feeGST),
		ConvenienceFeeBase: feeBase,
		ConvenienceFeeGST:  feeGST,
		CommissionBase:     commissionBase,
		CommissionGST:      commissionGST,
	}
}

// DecomposeFallback handles bookings that predate per-booking pricing
// fields: base price is derived from the total and the fee and commission
// components are zeroed.
func DecomposeFallback(totalAmount float64, quantity int) Breakdown {
	if quantity <= 0 {
		quantity = 1
	}
	return Breakdown{
		BasePrice: totalAmount / float64(quantity),
	}
}

// GSTBucket routes a GST amount to the home-state bucket or the other-state
// bucket for reporting
type GSTBucket string

const (
	GSTBucketHomeState  GSTBucket = "HOME_STATE"
	GSTBucketOtherState GSTBucket = "OTHER_STATE"
)

// BucketForState picks the GST bucket for a state name. Commission GST is
// bucketed by the event venue's state and convenience-fee GST by the
// customer's state; callers must pass the right one.
func BucketForState(state, homeState string) GSTBucket {
	if strings.EqualFold(strings.TrimSpace(state), homeState) {
		return GSTBucketHomeState
	}
	return GSTBucketOtherState
}
