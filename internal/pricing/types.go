package pricing

import (
	"fmt"
	"strings"

	"github.com/tablescape/tablescape-orders-service/internal/money"
)

// ServiceType identifies the pricing shape of a bookable service.
type ServiceType string

const (
	ServiceCatering    ServiceType = "catering"
	ServiceVenue       ServiceType = "venue"
	ServicePartyRental ServiceType = "party_rental"
	ServiceStaff       ServiceType = "staff"
)

// Valid reports whether the service type is one of the known variants.
func (t ServiceType) Valid() bool {
	switch t {
	case ServiceCatering, ServiceVenue, ServicePartyRental, ServiceStaff:
		return true
	}
	return false
}

// PriceType controls how a base price scales.
type PriceType string

const (
	PriceFlat      PriceType = "flat"
	PricePerPerson PriceType = "per_person"
	PricePerHour   PriceType = "per_hour"
)

// MenuItem is a standalone catering menu entry.
type MenuItem struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Price     money.Money `json:"price"`
	PriceType PriceType   `json:"price_type"`
}

// ComboCategoryItem is one choice inside a combo category. AdditionalCharge
// is a per-guest upcharge applied when the item is selected; Price is the
// item's standalone price used for informational breakdown lines.
type ComboCategoryItem struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Price            money.Money `json:"price"`
	AdditionalCharge money.Money `json:"additional_charge"`
}

// ComboCategory is a named group of choices within a combo. The category
// marked primary drives the combo's effective serving count.
type ComboCategory struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	MaxSelections int                 `json:"max_selections"`
	IsPrimary     bool                `json:"is_primary"`
	Items         []ComboCategoryItem `json:"items"`
}

// Combo is a per-guest priced menu entry with nested category choices.
type Combo struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	BasePricePerPerson money.Money     `json:"base_price_per_person"`
	Categories         []ComboCategory `json:"categories"`
}

// CateringDetails is the catalog for a catering service.
type CateringDetails struct {
	MenuItems []MenuItem `json:"menu_items"`
	Combos    []Combo    `json:"combos"`
}

// VenueDetails holds venue-specific catalog data. Venue line totals derive
// entirely from the service's base price and quantity.
type VenueDetails struct {
	RoomName string `json:"room_name,omitempty"`
}

// RentalItem is a bookable party-rental catalog entry.
type RentalItem struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Price money.Money `json:"price"`
}

// RentalDetails is the catalog for a party-rental service.
type RentalDetails struct {
	Items []RentalItem `json:"items"`
}

// StaffRole is a bookable staffing role. Hourly roles multiply by the
// selected hour count, flat roles do not.
type StaffRole struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Rate   money.Money `json:"rate"`
	Hourly bool        `json:"hourly"`
}

// StaffDetails is the catalog for a staffing service.
type StaffDetails struct {
	Roles []StaffRole `json:"roles"`
}

// ServiceDetails is a closed tagged union keyed by ServiceType. Exactly the
// variant matching the service's type must be set.
type ServiceDetails struct {
	Catering *CateringDetails `json:"catering,omitempty"`
	Venue    *VenueDetails    `json:"venue,omitempty"`
	Rental   *RentalDetails   `json:"rental,omitempty"`
	Staff    *StaffDetails    `json:"staff,omitempty"`
}

// DeliveryRangeFee is one distance tier with its flat delivery fee.
type DeliveryRangeFee struct {
	Label            string      `json:"label"`
	MaxDistanceMiles float64     `json:"max_distance_miles"`
	Fee              money.Money `json:"fee"`
}

// SelectedService is one bookable offering within an order, together with
// the catalog needed to resolve its selected-item pricing. Inputs are never
// mutated; computation returns fresh totals.
type SelectedService struct {
	ID              string             `json:"id"`
	Type            ServiceType        `json:"type"`
	BasePrice       money.Money        `json:"base_price"`
	PriceType       PriceType          `json:"price_type"`
	Quantity        int                `json:"quantity"`
	DeliveryRanges  []DeliveryRangeFee `json:"delivery_ranges,omitempty"`
	DeliveryMinimum money.Money        `json:"delivery_minimum,omitempty"`
	DistanceMiles   *float64           `json:"distance_miles,omitempty"`
	Details         ServiceDetails     `json:"details"`
}

// SelectionKey addresses one selectable item within an order. Plain items
// set ServiceID+ItemID; combo sub-selections additionally set ComboID and
// CategoryID; a combo selected as a whole sets ServiceID+ComboID only.
type SelectionKey struct {
	ServiceID  string `json:"service_id"`
	ComboID    string `json:"combo_id,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	ItemID     string `json:"item_id,omitempty"`
}

// MarshalText encodes the key for use as a JSON map key. The pipe separator
// avoids the ambiguity of the legacy underscore-delimited encoding.
func (k SelectionKey) MarshalText() ([]byte, error) {
	return []byte(k.ServiceID + "|" + k.ComboID + "|" + k.CategoryID + "|" + k.ItemID), nil
}

// UnmarshalText decodes a pipe-delimited key.
func (k *SelectionKey) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), "|")
	if len(parts) != 4 {
		return fmt.Errorf("pricing: malformed selection key %q", text)
	}
	k.ServiceID, k.ComboID, k.CategoryID, k.ItemID = parts[0], parts[1], parts[2], parts[3]
	return nil
}

// ItemKey builds a key for a plain catalog item.
func ItemKey(serviceID, itemID string) SelectionKey {
	return SelectionKey{ServiceID: serviceID, ItemID: itemID}
}

// ComboKey builds a key for a combo selected as a whole.
func ComboKey(serviceID, comboID string) SelectionKey {
	return SelectionKey{ServiceID: serviceID, ComboID: comboID}
}

// ComboItemKey builds a key for a selection inside a combo category.
func ComboItemKey(serviceID, comboID, categoryID, itemID string) SelectionKey {
	return SelectionKey{ServiceID: serviceID, ComboID: comboID, CategoryID: categoryID, ItemID: itemID}
}

// Quantities maps selection keys to chosen quantities. Zero or absent means
// not selected; negative quantities are invalid input.
type Quantities map[SelectionKey]int

// AdjustmentKind distinguishes percentage from fixed-amount adjustments.
type AdjustmentKind string

const (
	AdjustmentPercentage AdjustmentKind = "percentage"
	AdjustmentFixed      AdjustmentKind = "fixed"
)

// AdjustmentMode distinguishes surcharges from discounts.
type AdjustmentMode string

const (
	ModeSurcharge AdjustmentMode = "surcharge"
	ModeDiscount  AdjustmentMode = "discount"
)

// CustomAdjustment is an admin/vendor-entered surcharge or discount line.
// For percentage adjustments Value is in basis points (100bp = 1%); for
// fixed adjustments Value is in minor units.
type CustomAdjustment struct {
	Label   string         `json:"label"`
	Kind    AdjustmentKind `json:"kind"`
	Mode    AdjustmentMode `json:"mode"`
	Value   int64          `json:"value"`
	Taxable bool           `json:"taxable"`
}

// ServiceFeeConfig describes the platform service fee for an order.
type ServiceFeeConfig struct {
	Kind        AdjustmentKind `json:"kind"`
	BasisPoints int64          `json:"basis_points,omitempty"`
	Fixed       money.Money    `json:"fixed,omitempty"`
}

// OrderInput is the normalized snapshot a totals computation runs over.
type OrderInput struct {
	Currency         string             `json:"currency"`
	GuestCount       int                `json:"guest_count"`
	Services         []SelectedService  `json:"services"`
	Quantities       Quantities         `json:"quantities"`
	Adjustments      []CustomAdjustment `json:"adjustments,omitempty"`
	ServiceFee       ServiceFeeConfig   `json:"service_fee"`
	TaxRateBP        int64              `json:"tax_rate_bp"`
	TaxExempt        bool               `json:"tax_exempt"`
	ServiceFeeWaived bool               `json:"service_fee_waived"`
}

// BreakdownLine is one priced line within a service total. Informational
// lines exist for display/audit only and are not included in line totals.
type BreakdownLine struct {
	Label         string      `json:"label"`
	Quantity      int         `json:"quantity"`
	Amount        money.Money `json:"amount"`
	Informational bool        `json:"informational,omitempty"`
}

// DeliveryReason explains why delivery is ineligible.
type DeliveryReason string

const (
	ReasonOutOfServiceArea DeliveryReason = "out_of_service_area"
	ReasonBelowMinimum     DeliveryReason = "below_minimum"
)

// DeliveryResolution is the outcome of a delivery-fee lookup. Ineligibility
// is a valid business outcome, never an error.
type DeliveryResolution struct {
	Eligible         bool              `json:"eligible"`
	DistanceEligible bool              `json:"distance_eligible"`
	Fee              money.Money       `json:"fee"`
	MatchedRange     *DeliveryRangeFee `json:"matched_range,omitempty"`
	Reason           DeliveryReason    `json:"reason,omitempty"`
}

// ServiceLineResult is one service's contribution to an order.
type ServiceLineResult struct {
	ServiceID string              `json:"service_id"`
	Type      ServiceType         `json:"type"`
	LineTotal money.Money         `json:"line_total"`
	Lines     []BreakdownLine     `json:"lines,omitempty"`
	Delivery  *DeliveryResolution `json:"delivery,omitempty"`
}

// AdjustmentLine is one applied adjustment in an order breakdown. Discount
// amounts are negative.
type AdjustmentLine struct {
	Label  string      `json:"label"`
	Amount money.Money `json:"amount"`
}

// OrderTotals is the reconciled breakdown for an order. GrandTotal always
// equals ServicesSubtotal + AdjustmentsTotal + ServiceFee +
// DeliveryFeesTotal + Tax exactly.
type OrderTotals struct {
	Currency          string              `json:"currency"`
	ServicesSubtotal  money.Money         `json:"services_subtotal"`
	ServiceLines      []ServiceLineResult `json:"service_lines"`
	Adjustments       []AdjustmentLine    `json:"adjustments"`
	AdjustmentsTotal  money.Money         `json:"adjustments_total"`
	ServiceFee        money.Money         `json:"service_fee"`
	Tax               money.Money         `json:"tax"`
	DeliveryFeesTotal money.Money         `json:"delivery_fees_total"`
	GrandTotal        money.Money         `json:"grand_total"`
}
