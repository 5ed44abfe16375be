package pricing

import (
	"sort"

	"github.com/tablescape/tablescape-orders-service/internal/money"
)

// DeliveryFeeResolver looks up the delivery fee for a distance against a
// vendor's ordered fee-range table. Pure function of its inputs; distance is
// caller-supplied, geocoding lives outside this package.
type DeliveryFeeResolver struct{}

// Resolve finds the first range whose upper bound covers the distance.
// A distance beyond every range means out of service area; a subtotal below
// the vendor's delivery minimum means ineligible even when the distance
// matches, with DistanceEligible still reported for diagnostics.
// orderSubtotal is the delivering service's own line total, not the whole
// order's subtotal: a vendor's minimum gates its share of the order only.
func (DeliveryFeeResolver) Resolve(
	distanceMiles float64,
	ranges []DeliveryRangeFee,
	orderSubtotal money.Money,
	deliveryMinimum money.Money,
) DeliveryResolution {
	sorted := make([]DeliveryRangeFee, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MaxDistanceMiles < sorted[j].MaxDistanceMiles
	})

	var matched *DeliveryRangeFee
	for i := range sorted {
		if sorted[i].MaxDistanceMiles >= distanceMiles {
			matched = &sorted[i]
			break
		}
	}

	if matched == nil {
		return DeliveryResolution{
			Eligible:         false,
			DistanceEligible: false,
			Fee:              money.Zero(orderSubtotal.Currency),
			Reason:           ReasonOutOfServiceArea,
		}
	}

	if !deliveryMinimum.IsZero() && orderSubtotal.LessThan(deliveryMinimum) {
		return DeliveryResolution{
			Eligible:         false,
			DistanceEligible: true,
			Fee:              matched.Fee,
			MatchedRange:     matched,
			Reason:           ReasonBelowMinimum,
		}
	}

	return DeliveryResolution{
		Eligible:         true,
		DistanceEligible: true,
		Fee:              matched.Fee,
		MatchedRange:     matched,
	}
}
