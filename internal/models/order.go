package models

import (
	"time"

	"github.com/tablescape/tablescape-orders-service/internal/pricing"
)

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a priced order persisted with both its normalized input snapshot
// and the totals computed from it. The snapshot makes repricing idempotent:
// recomputing from identical input yields identical totals.
type Order struct {
	ID        string              `json:"id"`
	HostID    string              `json:"host_id"`
	Status    OrderStatus         `json:"status"`
	Input     pricing.OrderInput  `json:"input"`
	Totals    pricing.OrderTotals `json:"totals"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CanCancel reports whether the order may still be cancelled.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// Quote is a computed breakdown returned to callers and optionally cached.
type Quote struct {
	ID         string              `json:"id"`
	HostID     string              `json:"host_id,omitempty"`
	Totals     pricing.OrderTotals `json:"totals"`
	ComputedAt time.Time           `json:"computed_at"`
}

// QuoteRequest is the raw caller payload before normalization. Amounts are
// integer minor units; percentage values are decimal percents (7.5 = 7.5%).
type QuoteRequest struct {
	HostID           string              `json:"host_id"`
	Currency         string              `json:"currency"`
	GuestCount       int                 `json:"guest_count"`
	EventAddress     string              `json:"event_address,omitempty"`
	Services         []ServicePayload    `json:"services"`
	Selections       []SelectionPayload  `json:"selections"`
	Adjustments      []AdjustmentPayload `json:"adjustments,omitempty"`
	TaxRatePercent   *float64            `json:"tax_rate_percent,omitempty"`
	TaxExempt        bool                `json:"tax_exempt"`
	ServiceFeeWaived bool                `json:"service_fee_waived"`
}

// ServicePayload is one selected service as callers send it.
type ServicePayload struct {
	ID                   string                 `json:"id"`
	Type                 string                 `json:"type"`
	BasePriceCents       int64                  `json:"base_price_cents"`
	PriceType            string                 `json:"price_type"`
	Quantity             int                    `json:"quantity"`
	VendorAddress        string                 `json:"vendor_address,omitempty"`
	DistanceMiles        *float64               `json:"distance_miles,omitempty"`
	DeliveryRanges       []DeliveryRangePayload `json:"delivery_ranges,omitempty"`
	DeliveryMinimumCents int64                  `json:"delivery_minimum_cents,omitempty"`
	MenuItems            []MenuItemPayload      `json:"menu_items,omitempty"`
	Combos               []ComboPayload         `json:"combos,omitempty"`
	RentalItems          []RentalItemPayload    `json:"rental_items,omitempty"`
	StaffRoles           []StaffRolePayload     `json:"staff_roles,omitempty"`
	RoomName             string                 `json:"room_name,omitempty"`
}

type DeliveryRangePayload struct {
	Label            string  `json:"label"`
	MaxDistanceMiles float64 `json:"max_distance_miles"`
	FeeCents         int64   `json:"fee_cents"`
}

type MenuItemPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	PriceType  string `json:"price_type"`
}

type ComboPayload struct {
	ID                      string                 `json:"id"`
	Name                    string                 `json:"name"`
	BasePricePerPersonCents int64                  `json:"base_price_per_person_cents"`
	Categories              []ComboCategoryPayload `json:"categories"`
}

// ComboCategoryPayload carries an optional explicit primary flag. Legacy
// vendor payloads omit it and rely on category-name matching instead.
type ComboCategoryPayload struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	MaxSelections int                        `json:"max_selections"`
	IsPrimary     *bool                      `json:"is_primary,omitempty"`
	Items         []ComboCategoryItemPayload `json:"items"`
}

type ComboCategoryItemPayload struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	PriceCents            int64  `json:"price_cents"`
	AdditionalChargeCents int64  `json:"additional_charge_cents"`
}

type RentalItemPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

type StaffRolePayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	RateCents int64  `json:"rate_cents"`
	Hourly    bool   `json:"hourly"`
}

// SelectionPayload addresses one selected item. Either the structured id
// fields or the legacy underscore-delimited Key may be supplied.
type SelectionPayload struct {
	ServiceID  string `json:"service_id"`
	ComboID    string `json:"combo_id,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	ItemID     string `json:"item_id,omitempty"`
	Key        string `json:"key,omitempty"`
	Quantity   int    `json:"quantity"`
}

type AdjustmentPayload struct {
	Label        string  `json:"label"`
	Kind         string  `json:"kind"`
	Mode         string  `json:"mode"`
	Percent      float64 `json:"percent,omitempty"`
	AmountCents  int64   `json:"amount_cents,omitempty"`
	Taxable      bool    `json:"taxable"`
}

// OrderListFilter narrows order listings.
type OrderListFilter struct {
	HostID string
	Status *OrderStatus
	Limit  int
	Offset int
}
