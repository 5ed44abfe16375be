package pricing

import "github.com/tablescape/tablescape-orders-service/internal/money"

// OrderTotalsCalculator combines every service total, custom adjustments,
// the platform service fee, delivery fees, and tax into one reconciled
// breakdown. Safe for concurrent use; every call operates on its own input
// snapshot.
type OrderTotalsCalculator struct {
	aggregator ServiceTotalAggregator
	delivery   DeliveryFeeResolver
}

// NewOrderTotalsCalculator creates a totals calculator.
func NewOrderTotalsCalculator() *OrderTotalsCalculator {
	return &OrderTotalsCalculator{}
}

// Compute derives an order's totals from a normalized input. Computation is
// all-or-nothing: any per-service error aborts the call with no partial
// totals.
func (c *OrderTotalsCalculator) Compute(input OrderInput) (*OrderTotals, error) {
	currency := input.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}

	totals := &OrderTotals{
		Currency:          currency,
		ServicesSubtotal:  money.Zero(currency),
		AdjustmentsTotal:  money.Zero(currency),
		ServiceFee:        money.Zero(currency),
		Tax:               money.Zero(currency),
		DeliveryFeesTotal: money.Zero(currency),
		Adjustments:       []AdjustmentLine{},
	}

	// 1. Service totals and per-service delivery resolution.
	for _, svc := range input.Services {
		line, err := c.aggregator.ComputeServiceTotal(svc, input.Quantities, input.GuestCount, currency)
		if err != nil {
			return nil, err
		}

		if len(svc.DeliveryRanges) > 0 && svc.DistanceMiles != nil {
			resolution := c.delivery.Resolve(*svc.DistanceMiles, svc.DeliveryRanges, line.LineTotal, svc.DeliveryMinimum)
			line.Delivery = &resolution
			if resolution.Eligible {
				if totals.DeliveryFeesTotal, err = totals.DeliveryFeesTotal.Add(resolution.Fee); err != nil {
					return nil, wrapMoney(err)
				}
			}
		}

		if totals.ServicesSubtotal, err = totals.ServicesSubtotal.Add(line.LineTotal); err != nil {
			return nil, wrapMoney(err)
		}
		totals.ServiceLines = append(totals.ServiceLines, line)
	}

	// 2. Custom adjustments: all computed in parallel off the pre-adjustment
	// services subtotal, each rounded once, then summed. Discounts contribute
	// negatively.
	taxableAdjustments := money.Zero(currency)
	for _, adj := range input.Adjustments {
		amount, err := c.adjustmentAmount(adj, totals.ServicesSubtotal, currency)
		if err != nil {
			return nil, err
		}

		if totals.AdjustmentsTotal, err = totals.AdjustmentsTotal.Add(amount); err != nil {
			return nil, wrapMoney(err)
		}
		if adj.Taxable {
			if taxableAdjustments, err = taxableAdjustments.Add(amount); err != nil {
				return nil, wrapMoney(err)
			}
		}
		totals.Adjustments = append(totals.Adjustments, AdjustmentLine{Label: adj.Label, Amount: amount})
	}

	// 3. Service fee.
	if !input.ServiceFeeWaived {
		fee, err := c.serviceFee(input.ServiceFee, totals.ServicesSubtotal, currency)
		if err != nil {
			return nil, err
		}
		totals.ServiceFee = fee
	}

	// 4. Tax on the subtotal plus taxable adjustments.
	if !input.TaxExempt && input.TaxRateBP != 0 {
		taxBase, err := totals.ServicesSubtotal.Add(taxableAdjustments)
		if err != nil {
			return nil, wrapMoney(err)
		}
		tax, err := taxBase.PercentBP(input.TaxRateBP)
		if err != nil {
			return nil, wrapMoney(err)
		}
		totals.Tax = tax
	}

	// 5. Grand total.
	grand := totals.ServicesSubtotal
	var err error
	for _, term := range []money.Money{totals.AdjustmentsTotal, totals.ServiceFee, totals.DeliveryFeesTotal, totals.Tax} {
		if grand, err = grand.Add(term); err != nil {
			return nil, wrapMoney(err)
		}
	}
	totals.GrandTotal = grand

	return totals, nil
}

func (c *OrderTotalsCalculator) adjustmentAmount(adj CustomAdjustment, subtotal money.Money, currency string) (money.Money, error) {
	var amount money.Money
	var err error

	switch adj.Kind {
	case AdjustmentPercentage:
		amount, err = subtotal.PercentBP(adj.Value)
		if err != nil {
			return money.Money{}, wrapMoney(err)
		}
	case AdjustmentFixed:
		amount = money.New(adj.Value, currency)
	default:
		return money.Money{}, newError(ErrCodeInvalidAdjustment, "unrecognized adjustment kind %q", adj.Kind)
	}

	switch adj.Mode {
	case ModeSurcharge:
	case ModeDiscount:
		amount = amount.Negate()
	default:
		return money.Money{}, newError(ErrCodeInvalidAdjustment, "unrecognized adjustment mode %q", adj.Mode)
	}

	return amount, nil
}

func (c *OrderTotalsCalculator) serviceFee(cfg ServiceFeeConfig, subtotal money.Money, currency string) (money.Money, error) {
	switch cfg.Kind {
	case AdjustmentPercentage:
		fee, err := subtotal.PercentBP(cfg.BasisPoints)
		if err != nil {
			return money.Money{}, wrapMoney(err)
		}
		return fee, nil
	case AdjustmentFixed:
		return money.New(cfg.Fixed.Amount, currency), nil
	case "":
		// No fee configured for the order.
		return money.Zero(currency), nil
	default:
		return money.Money{}, newError(ErrCodeInvalidAdjustment, "unrecognized service fee kind %q", cfg.Kind)
	}
}
