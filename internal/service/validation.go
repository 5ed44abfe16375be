package service

import (
	"github.com/tablescape/tablescape-orders-service/internal/apperrors"
	"github.com/tablescape/tablescape-orders-service/internal/models"
)

// ValidateQuoteRequest checks the structural shape of a raw quote payload
// before normalization. Pricing-level invariants (guest count, catalog
// membership) are enforced by the computation core.
func ValidateQuoteRequest(req *models.QuoteRequest) error {
	if len(req.Services) == 0 {
		return apperrors.NewValidationError("services", "at least one service is required")
	}

	seen := make(map[string]bool, len(req.Services))
	for _, svc := range req.Services {
		if svc.ID == "" {
			return apperrors.NewValidationError("services", "service id is required")
		}
		if seen[svc.ID] {
			return apperrors.NewValidationError("services", "duplicate service id "+svc.ID)
		}
		seen[svc.ID] = true

		if svc.Type == "" {
			return apperrors.NewValidationError("services", "service type is required for "+svc.ID)
		}
		if svc.BasePriceCents < 0 {
			return apperrors.NewValidationError("services", "base price cannot be negative for "+svc.ID)
		}
		if svc.DeliveryMinimumCents < 0 {
			return apperrors.NewValidationError("services", "delivery minimum cannot be negative for "+svc.ID)
		}
		for _, r := range svc.DeliveryRanges {
			if r.MaxDistanceMiles < 0 || r.FeeCents < 0 {
				return apperrors.NewValidationError("services", "delivery range values cannot be negative for "+svc.ID)
			}
		}
	}

	for _, sel := range req.Selections {
		if sel.Quantity < 0 {
			return apperrors.NewValidationError("selections", "quantity cannot be negative")
		}
		if !seen[sel.ServiceID] {
			return apperrors.NewValidationError("selections", "selection references unknown service "+sel.ServiceID)
		}
	}

	for _, adj := range req.Adjustments {
		if adj.Label == "" {
			return apperrors.NewValidationError("adjustments", "label is required")
		}
	}

	if req.TaxRatePercent != nil && *req.TaxRatePercent < 0 {
		return apperrors.NewValidationError("tax_rate_percent", "tax rate cannot be negative")
	}

	return nil
}

// ValidateOrderListFilter clamps and validates listing filters.
func ValidateOrderListFilter(filter *models.OrderListFilter) error {
	if filter.Limit < 0 {
		return apperrors.NewValidationError("limit", "limit cannot be negative")
	}
	if filter.Offset < 0 {
		return apperrors.NewValidationError("offset", "offset cannot be negative")
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return nil
}

// ValidateCancellationReason validates an order cancellation reason.
func ValidateCancellationReason(reason string) error {
	if reason == "" {
		return apperrors.NewValidationError("reason", "cancellation reason is required")
	}
	if len(reason) > 500 {
		return apperrors.NewValidationError("reason", "cancellation reason too long (max 500 characters)")
	}
	return nil
}
