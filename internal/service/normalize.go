package service

import (
	"math"
	"strings"

	"github.com/tablescape/tablescape-orders-service/internal/apperrors"
	"github.com/tablescape/tablescape-orders-service/internal/config"
	"github.com/tablescape/tablescape-orders-service/internal/models"
	"github.com/tablescape/tablescape-orders-service/internal/money"
	"github.com/tablescape/tablescape-orders-service/internal/pricing"
)

// NormalizeQuoteRequest converts a raw caller payload into the closed,
// validated input the pricing core computes over. Unrecognized service
// types, price types, or selection keys are rejected here rather than
// coerced.
func NormalizeQuoteRequest(req *models.QuoteRequest, defaults config.PricingConfig) (pricing.OrderInput, error) {
	currency := req.Currency
	if currency == "" {
		currency = defaults.Currency
	}

	input := pricing.OrderInput{
		Currency:         currency,
		GuestCount:       req.GuestCount,
		Quantities:       pricing.Quantities{},
		TaxExempt:        req.TaxExempt,
		ServiceFeeWaived: req.ServiceFeeWaived,
	}

	for _, payload := range req.Services {
		svc, err := normalizeService(payload, currency)
		if err != nil {
			return pricing.OrderInput{}, err
		}
		input.Services = append(input.Services, svc)
	}

	for _, sel := range req.Selections {
		key, err := selectionKey(sel)
		if err != nil {
			return pricing.OrderInput{}, err
		}
		input.Quantities[key] = sel.Quantity
	}

	for _, adj := range req.Adjustments {
		normalized, err := normalizeAdjustment(adj)
		if err != nil {
			return pricing.OrderInput{}, err
		}
		input.Adjustments = append(input.Adjustments, normalized)
	}

	if req.TaxRatePercent != nil {
		input.TaxRateBP = percentToBP(*req.TaxRatePercent)
	} else {
		input.TaxRateBP = defaults.DefaultTaxRateBP
	}

	if defaults.ServiceFeeIsPercent {
		input.ServiceFee = pricing.ServiceFeeConfig{Kind: pricing.AdjustmentPercentage, BasisPoints: defaults.ServiceFeeBP}
	} else {
		input.ServiceFee = pricing.ServiceFeeConfig{Kind: pricing.AdjustmentFixed, Fixed: money.New(defaults.ServiceFeeFixed, currency)}
	}

	return input, nil
}

func normalizeService(payload models.ServicePayload, currency string) (pricing.SelectedService, error) {
	serviceType, err := serviceTypeOf(payload.Type)
	if err != nil {
		return pricing.SelectedService{}, err
	}
	priceType, err := priceTypeOf(payload.PriceType)
	if err != nil {
		return pricing.SelectedService{}, err
	}

	svc := pricing.SelectedService{
		ID:              payload.ID,
		Type:            serviceType,
		BasePrice:       money.New(payload.BasePriceCents, currency),
		PriceType:       priceType,
		Quantity:        payload.Quantity,
		DeliveryMinimum: money.New(payload.DeliveryMinimumCents, currency),
		DistanceMiles:   payload.DistanceMiles,
	}

	for _, r := range payload.DeliveryRanges {
		svc.DeliveryRanges = append(svc.DeliveryRanges, pricing.DeliveryRangeFee{
			Label:            r.Label,
			MaxDistanceMiles: r.MaxDistanceMiles,
			Fee:              money.New(r.FeeCents, currency),
		})
	}

	switch serviceType {
	case pricing.ServiceCatering:
		svc.Details.Catering = normalizeCateringDetails(payload, currency)
	case pricing.ServiceVenue:
		svc.Details.Venue = &pricing.VenueDetails{RoomName: payload.RoomName}
	case pricing.ServicePartyRental:
		details := &pricing.RentalDetails{}
		for _, item := range payload.RentalItems {
			details.Items = append(details.Items, pricing.RentalItem{
				ID:    item.ID,
				Name:  item.Name,
				Price: money.New(item.PriceCents, currency),
			})
		}
		svc.Details.Rental = details
	case pricing.ServiceStaff:
		details := &pricing.StaffDetails{}
		for _, role := range payload.StaffRoles {
			details.Roles = append(details.Roles, pricing.StaffRole{
				ID:     role.ID,
				Name:   role.Name,
				Rate:   money.New(role.RateCents, currency),
				Hourly: role.Hourly,
			})
		}
		svc.Details.Staff = details
	}

	return svc, nil
}

func normalizeCateringDetails(payload models.ServicePayload, currency string) *pricing.CateringDetails {
	details := &pricing.CateringDetails{}
	for _, item := range payload.MenuItems {
		priceType := pricing.PriceFlat
		if item.PriceType == "per_person" {
			priceType = pricing.PricePerPerson
		}
		details.MenuItems = append(details.MenuItems, pricing.MenuItem{
			ID:        item.ID,
			Name:      item.Name,
			Price:     money.New(item.PriceCents, currency),
			PriceType: priceType,
		})
	}

	for _, combo := range payload.Combos {
		normalized := pricing.Combo{
			ID:                 combo.ID,
			Name:               combo.Name,
			BasePricePerPerson: money.New(combo.BasePricePerPersonCents, currency),
		}
		for _, cat := range combo.Categories {
			category := pricing.ComboCategory{
				ID:            cat.ID,
				Name:          cat.Name,
				MaxSelections: cat.MaxSelections,
			}
			if cat.IsPrimary != nil {
				category.IsPrimary = *cat.IsPrimary
			} else {
				// Legacy vendor payloads carry no explicit flag; the historic
				// behavior keyed off the category name.
				category.IsPrimary = legacyPrimaryCategory(cat.Name)
			}
			for _, item := range cat.Items {
				category.Items = append(category.Items, pricing.ComboCategoryItem{
					ID:               item.ID,
					Name:             item.Name,
					Price:            money.New(item.PriceCents, currency),
					AdditionalCharge: money.New(item.AdditionalChargeCents, currency),
				})
			}
			normalized.Categories = append(normalized.Categories, category)
		}
		details.Combos = append(details.Combos, normalized)
	}
	return details
}

func legacyPrimaryCategory(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "protein") ||
		strings.Contains(lower, "meat") ||
		strings.Contains(lower, "main")
}

func selectionKey(sel models.SelectionPayload) (pricing.SelectionKey, error) {
	if sel.ServiceID == "" {
		return pricing.SelectionKey{}, apperrors.NewValidationError("selections", "service_id is required")
	}

	if sel.Key != "" {
		// Legacy underscore-delimited composite key. Only unambiguous keys
		// are accepted; ids containing underscores must use the structured
		// fields.
		parts := strings.Split(sel.Key, "_")
		switch len(parts) {
		case 1:
			return pricing.ItemKey(sel.ServiceID, parts[0]), nil
		case 3:
			return pricing.ComboItemKey(sel.ServiceID, parts[0], parts[1], parts[2]), nil
		default:
			return pricing.SelectionKey{}, apperrors.NewValidationError("selections", "ambiguous legacy key "+sel.Key)
		}
	}

	switch {
	case sel.ComboID != "" && sel.CategoryID != "" && sel.ItemID != "":
		return pricing.ComboItemKey(sel.ServiceID, sel.ComboID, sel.CategoryID, sel.ItemID), nil
	case sel.ComboID != "" && sel.CategoryID == "" && sel.ItemID == "":
		return pricing.ComboKey(sel.ServiceID, sel.ComboID), nil
	case sel.ComboID == "" && sel.CategoryID == "" && sel.ItemID != "":
		return pricing.ItemKey(sel.ServiceID, sel.ItemID), nil
	default:
		return pricing.SelectionKey{}, apperrors.NewValidationError("selections", "selection must name an item, a combo, or a combo category item")
	}
}

func normalizeAdjustment(adj models.AdjustmentPayload) (pricing.CustomAdjustment, error) {
	normalized := pricing.CustomAdjustment{
		Label:   adj.Label,
		Kind:    pricing.AdjustmentKind(adj.Kind),
		Mode:    pricing.AdjustmentMode(adj.Mode),
		Taxable: adj.Taxable,
	}

	switch normalized.Kind {
	case pricing.AdjustmentPercentage:
		normalized.Value = percentToBP(adj.Percent)
	case pricing.AdjustmentFixed:
		normalized.Value = adj.AmountCents
	default:
		return pricing.CustomAdjustment{}, apperrors.NewValidationError("adjustments", "unrecognized kind "+adj.Kind)
	}

	switch normalized.Mode {
	case pricing.ModeSurcharge, pricing.ModeDiscount:
	default:
		return pricing.CustomAdjustment{}, apperrors.NewValidationError("adjustments", "unrecognized mode "+adj.Mode)
	}

	return normalized, nil
}

func serviceTypeOf(raw string) (pricing.ServiceType, error) {
	switch raw {
	case "catering":
		return pricing.ServiceCatering, nil
	case "venue":
		return pricing.ServiceVenue, nil
	case "party_rental", "rental":
		return pricing.ServicePartyRental, nil
	case "staff", "staffing":
		return pricing.ServiceStaff, nil
	default:
		return "", apperrors.NewValidationError("services", "unrecognized service type "+raw)
	}
}

func priceTypeOf(raw string) (pricing.PriceType, error) {
	switch raw {
	case "", "flat":
		return pricing.PriceFlat, nil
	case "per_person":
		return pricing.PricePerPerson, nil
	case "per_hour":
		return pricing.PricePerHour, nil
	default:
		return "", apperrors.NewValidationError("services", "unrecognized price type "+raw)
	}
}

// percentToBP converts a decimal percent (7.5) to basis points (750),
// rounding to the nearest basis point.
func percentToBP(percent float64) int64 {
	return int64(math.Round(percent * 100))
}
