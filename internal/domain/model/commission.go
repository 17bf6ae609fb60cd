package model

import "vendor-booking-platform/internal/domain"

// CommissionBreakdown is derived at confirmation time and never persisted on
// its own; the booking row snapshots the figures.
type CommissionBreakdown struct {
	Subtotal   int64 // package base price + selected add-ons
	Commission int64 // platform cut, deducted from vendor proceeds
	Total      int64 // amount charged to the customer (= Subtotal)
	Percent    float64
}

// CalculateCommission prices a package with its selected add-ons. The
// commission is percent of the subtotal, rounded half-up on integer minor
// units so repeated calls are bit-for-bit stable. Percent supports two
// decimal places (basis points).
func CalculateCommission(basePrice int64, addOns []AddOn, percent float64) (CommissionBreakdown, error) {
	if basePrice < 0 || percent < 0 || percent > 100 {
		return CommissionBreakdown{}, domain.ErrInvalidArgument
	}
	subtotal := basePrice
	for _, a := range addOns {
		if a.Price < 0 {
			return CommissionBreakdown{}, domain.ErrInvalidArgument
		}
		subtotal += a.Price
	}
	return CommissionBreakdown{
		Subtotal:   subtotal,
		Commission: roundHalfUpBasisPoints(subtotal, percent),
		Total:      subtotal,
		Percent:    percent,
	}, nil
}

// roundHalfUpBasisPoints computes amount*percent/100 in integer arithmetic.
// The percent is first clamped to whole basis points, then the division by
// 10000 rounds half away from zero.
func roundHalfUpBasisPoints(amount int64, percent float64) int64 {
	bp := int64(percent*100 + 0.5)
	return (amount*bp + 5000) / 10000
}
