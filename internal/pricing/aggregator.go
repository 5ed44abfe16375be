package pricing

import "github.com/tablescape/tablescape-orders-service/internal/money"

// ServiceTotalAggregator normalizes any service type plus its selected item
// quantities into a single line total with breakdown lines.
type ServiceTotalAggregator struct {
	catering CateringPriceCalculator
}

// ComputeServiceTotal prices one service. Guest count comes from order-level
// context, not the service. Each branch is a pure function of its inputs.
func (a ServiceTotalAggregator) ComputeServiceTotal(
	svc SelectedService,
	quantities Quantities,
	guestCount int,
	currency string,
) (ServiceLineResult, error) {
	result := ServiceLineResult{ServiceID: svc.ID, Type: svc.Type}

	switch svc.Type {
	case ServiceCatering:
		total, lines, err := a.catering.ComputeCateringSubtotal(svc.ID, svc.Details.Catering, quantities, guestCount, currency)
		if err != nil {
			return ServiceLineResult{}, err
		}
		result.LineTotal = total
		result.Lines = lines

	case ServiceVenue:
		total, err := venueTotal(svc, currency)
		if err != nil {
			return ServiceLineResult{}, err
		}
		result.LineTotal = total

	case ServicePartyRental:
		total, lines, err := rentalTotal(svc, quantities, currency)
		if err != nil {
			return ServiceLineResult{}, err
		}
		result.LineTotal = total
		result.Lines = lines

	case ServiceStaff:
		total, lines, err := staffTotal(svc, quantities, currency)
		if err != nil {
			return ServiceLineResult{}, err
		}
		result.LineTotal = total
		result.Lines = lines

	default:
		return ServiceLineResult{}, newError(ErrCodeInvalidService, "unrecognized service type %q", svc.Type)
	}

	return result, nil
}

// venueTotal prices a venue booking: flat bookings ignore quantity, per-unit
// bookings (hours or booked units) multiply by it. An engaged per-unit venue
// with quantity 0 charges one unit: selecting the venue books it, and vendor
// payloads routinely omit the unit count.
func venueTotal(svc SelectedService, currency string) (money.Money, error) {
	if svc.Quantity < 0 {
		return money.Money{}, newError(ErrCodeInvalidQuantity, "negative quantity %d for venue %s", svc.Quantity, svc.ID)
	}
	if svc.PriceType == PriceFlat {
		return svc.BasePrice, nil
	}
	qty := svc.Quantity
	if qty == 0 {
		qty = 1
	}
	total, err := svc.BasePrice.MulInt(int64(qty))
	if err != nil {
		return money.Money{}, wrapMoney(err)
	}
	return total, nil
}

// rentalTotal sums selected rental items. Unknown ids price as zero lines;
// rentals tolerate missing catalog entries, unlike catering.
func rentalTotal(svc SelectedService, quantities Quantities, currency string) (money.Money, []BreakdownLine, error) {
	selections, err := serviceSelections(svc.ID, quantities)
	if err != nil {
		return money.Money{}, nil, err
	}

	var catalog map[string]RentalItem
	if svc.Details.Rental != nil {
		catalog = make(map[string]RentalItem, len(svc.Details.Rental.Items))
		for _, item := range svc.Details.Rental.Items {
			catalog[item.ID] = item
		}
	}

	total := money.Zero(currency)
	var lines []BreakdownLine
	for _, sel := range selections {
		if sel.qty == 0 || sel.key.ComboID != "" {
			continue
		}

		item, known := catalog[sel.key.ItemID]
		line := BreakdownLine{Label: sel.key.ItemID, Quantity: sel.qty, Amount: money.Zero(currency)}
		if known {
			amount, err := item.Price.MulInt(int64(sel.qty))
			if err != nil {
				return money.Money{}, nil, wrapMoney(err)
			}
			line.Label = item.Name
			line.Amount = amount
			if total, err = total.Add(amount); err != nil {
				return money.Money{}, nil, wrapMoney(err)
			}
		}
		lines = append(lines, line)
	}
	return total, lines, nil
}

// staffTotal sums selected staff roles; hourly roles multiply by the
// selected hour count, flat roles charge once.
func staffTotal(svc SelectedService, quantities Quantities, currency string) (money.Money, []BreakdownLine, error) {
	if svc.Details.Staff == nil {
		return money.Money{}, nil, newError(ErrCodeInvalidService, "staff service %s has no catalog", svc.ID)
	}

	selections, err := serviceSelections(svc.ID, quantities)
	if err != nil {
		return money.Money{}, nil, err
	}

	rolesByID := make(map[string]StaffRole, len(svc.Details.Staff.Roles))
	for _, role := range svc.Details.Staff.Roles {
		rolesByID[role.ID] = role
	}

	total := money.Zero(currency)
	var lines []BreakdownLine
	for _, sel := range selections {
		if sel.qty == 0 || sel.key.ComboID != "" {
			continue
		}
		role, ok := rolesByID[sel.key.ItemID]
		if !ok {
			return money.Money{}, nil, newError(ErrCodeUnknownMenuItem, "staff role %q not in catalog of service %s", sel.key.ItemID, svc.ID)
		}

		units := int64(1)
		if role.Hourly {
			units = int64(sel.qty)
		}
		amount, err := role.Rate.MulInt(units)
		if err != nil {
			return money.Money{}, nil, wrapMoney(err)
		}
		lines = append(lines, BreakdownLine{Label: role.Name, Quantity: sel.qty, Amount: amount})
		if total, err = total.Add(amount); err != nil {
			return money.Money{}, nil, wrapMoney(err)
		}
	}
	return total, lines, nil
}
