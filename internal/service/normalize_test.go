package service

import (
	"errors"
	"testing"

	"github.com/tablescape/tablescape-orders-service/internal/apperrors"
	"github.com/tablescape/tablescape-orders-service/internal/config"
	"github.com/tablescape/tablescape-orders-service/internal/models"
	"github.com/tablescape/tablescape-orders-service/internal/pricing"
)

func testPricingDefaults() config.PricingConfig {
	return config.PricingConfig{
		Currency:            "USD",
		DefaultTaxRateBP:    825,
		ServiceFeeBP:        500,
		ServiceFeeIsPercent: true,
	}
}

func TestNormalizeQuoteRequest_Defaults(t *testing.T) {
	req := &models.QuoteRequest{
		GuestCount: 40,
		Services: []models.ServicePayload{
			{ID: "svc_venue", Type: "venue", BasePriceCents: 50000, PriceType: "flat"},
		},
	}

	input, err := NormalizeQuoteRequest(req, testPricingDefaults())
	if err != nil {
		t.Fatalf("NormalizeQuoteRequest() error = %v", err)
	}

	if input.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", input.Currency)
	}
	if input.TaxRateBP != 825 {
		t.Errorf("TaxRateBP = %d, want default 825", input.TaxRateBP)
	}
	if input.ServiceFee.Kind != pricing.AdjustmentPercentage || input.ServiceFee.BasisPoints != 500 {
		t.Errorf("ServiceFee = %+v, want 500bp percentage", input.ServiceFee)
	}
	if len(input.Services) != 1 {
		t.Fatalf("Services count = %d, want 1", len(input.Services))
	}
	if input.Services[0].Type != pricing.ServiceVenue {
		t.Errorf("service type = %q, want venue", input.Services[0].Type)
	}
	if input.Services[0].BasePrice.Amount != 50000 {
		t.Errorf("base price = %d, want 50000", input.Services[0].BasePrice.Amount)
	}
}

func TestNormalizeQuoteRequest_ExplicitTaxRate(t *testing.T) {
	rate := 7.25
	req := &models.QuoteRequest{
		GuestCount:     10,
		TaxRatePercent: &rate,
		Services: []models.ServicePayload{
			{ID: "svc_venue", Type: "venue", BasePriceCents: 10000},
		},
	}

	input, err := NormalizeQuoteRequest(req, testPricingDefaults())
	if err != nil {
		t.Fatalf("NormalizeQuoteRequest() error = %v", err)
	}
	if input.TaxRateBP != 725 {
		t.Errorf("TaxRateBP = %d, want 725", input.TaxRateBP)
	}
}

func TestNormalizeQuoteRequest_StructuredSelections(t *testing.T) {
	req := &models.QuoteRequest{
		GuestCount: 25,
		Services: []models.ServicePayload{
			{
				ID:             "svc_cater",
				Type:           "catering",
				BasePriceCents: 0,
				MenuItems: []models.MenuItemPayload{
					{ID: "item_brisket", Name: "Brisket", PriceCents: 1200, PriceType: "per_person"},
				},
			},
		},
		Selections: []models.SelectionPayload{
			{ServiceID: "svc_cater", ItemID: "item_brisket", Quantity: 25},
		},
	}

	input, err := NormalizeQuoteRequest(req, testPricingDefaults())
	if err != nil {
		t.Fatalf("NormalizeQuoteRequest() error = %v", err)
	}

	key := pricing.ItemKey("svc_cater", "item_brisket")
	if input.Quantities[key] != 25 {
		t.Errorf("quantity for %v = %d, want 25", key, input.Quantities[key])
	}
}

func TestNormalizeQuoteRequest_LegacyKeys(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    pricing.SelectionKey
		wantErr bool
	}{
		{
			name: "single part is an item key",
			key:  "brisket",
			want: pricing.ItemKey("svc_cater", "brisket"),
		},
		{
			name: "three parts form a combo item key",
			key:  "bbq-combo_protein_ribs",
			want: pricing.ComboItemKey("svc_cater", "bbq-combo", "protein", "ribs"),
		},
		{
			name:    "two parts is ambiguous",
			key:     "combo_ribs",
			wantErr: true,
		},
		{
			name:    "four parts is ambiguous",
			key:     "a_b_c_d",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectionKey(models.SelectionPayload{ServiceID: "svc_cater", Key: tt.key})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("selectionKey(%q) error = nil, want validation error", tt.key)
				}
				var vErr *apperrors.ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("error type = %T, want *apperrors.ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("selectionKey(%q) error = %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("selectionKey(%q) = %+v, want %+v", tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizeQuoteRequest_LegacyPrimaryHeuristic(t *testing.T) {
	explicit := false
	req := &models.QuoteRequest{
		GuestCount: 30,
		Services: []models.ServicePayload{
			{
				ID:   "svc_cater",
				Type: "catering",
				Combos: []models.ComboPayload{
					{
						ID:                      "combo_bbq",
						Name:                    "BBQ Feast",
						BasePricePerPersonCents: 2500,
						Categories: []models.ComboCategoryPayload{
							{ID: "cat_1", Name: "Choose Your Protein"},
							{ID: "cat_2", Name: "Sides"},
							{ID: "cat_3", Name: "Main Course", IsPrimary: &explicit},
						},
					},
				},
			},
		},
	}

	input, err := NormalizeQuoteRequest(req, testPricingDefaults())
	if err != nil {
		t.Fatalf("NormalizeQuoteRequest() error = %v", err)
	}

	cats := input.Services[0].Details.Catering.Combos[0].Categories
	if !cats[0].IsPrimary {
		t.Errorf("category %q should be primary via name heuristic", cats[0].Name)
	}
	if cats[1].IsPrimary {
		t.Errorf("category %q should not be primary", cats[1].Name)
	}
	if cats[2].IsPrimary {
		t.Errorf("explicit is_primary=false must override the name heuristic for %q", cats[2].Name)
	}
}

func TestNormalizeQuoteRequest_Adjustments(t *testing.T) {
	req := &models.QuoteRequest{
		GuestCount: 10,
		Services: []models.ServicePayload{
			{ID: "svc_venue", Type: "venue", BasePriceCents: 20000},
		},
		Adjustments: []models.AdjustmentPayload{
			{Label: "Holiday surcharge", Kind: "percentage", Mode: "surcharge", Percent: 10, Taxable: true},
			{Label: "Promo", Kind: "fixed", Mode: "discount", AmountCents: 1500},
		},
	}

	input, err := NormalizeQuoteRequest(req, testPricingDefaults())
	if err != nil {
		t.Fatalf("NormalizeQuoteRequest() error = %v", err)
	}

	if len(input.Adjustments) != 2 {
		t.Fatalf("Adjustments count = %d, want 2", len(input.Adjustments))
	}
	if input.Adjustments[0].Value != 1000 {
		t.Errorf("percentage value = %d bp, want 1000", input.Adjustments[0].Value)
	}
	if input.Adjustments[1].Value != 1500 {
		t.Errorf("fixed value = %d, want 1500", input.Adjustments[1].Value)
	}
}

func TestNormalizeQuoteRequest_RejectsUnknownKinds(t *testing.T) {
	tests := []struct {
		name string
		req  *models.QuoteRequest
	}{
		{
			name: "unknown service type",
			req: &models.QuoteRequest{
				GuestCount: 10,
				Services:   []models.ServicePayload{{ID: "s1", Type: "photography"}},
			},
		},
		{
			name: "unknown price type",
			req: &models.QuoteRequest{
				GuestCount: 10,
				Services:   []models.ServicePayload{{ID: "s1", Type: "venue", PriceType: "per_mile"}},
			},
		},
		{
			name: "unknown adjustment kind",
			req: &models.QuoteRequest{
				GuestCount:  10,
				Services:    []models.ServicePayload{{ID: "s1", Type: "venue"}},
				Adjustments: []models.AdjustmentPayload{{Label: "x", Kind: "tiered", Mode: "surcharge"}},
			},
		},
		{
			name: "unknown adjustment mode",
			req: &models.QuoteRequest{
				GuestCount:  10,
				Services:    []models.ServicePayload{{ID: "s1", Type: "venue"}},
				Adjustments: []models.AdjustmentPayload{{Label: "x", Kind: "fixed", Mode: "rebate"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NormalizeQuoteRequest(tt.req, testPricingDefaults()); err == nil {
				t.Error("NormalizeQuoteRequest() error = nil, want validation error")
			}
		})
	}
}

func TestServiceTypeAliases(t *testing.T) {
	for raw, want := range map[string]pricing.ServiceType{
		"party_rental": pricing.ServicePartyRental,
		"rental":       pricing.ServicePartyRental,
		"staff":        pricing.ServiceStaff,
		"staffing":     pricing.ServiceStaff,
	} {
		got, err := serviceTypeOf(raw)
		if err != nil {
			t.Errorf("serviceTypeOf(%q) error = %v", raw, err)
			continue
		}
		if got != want {
			t.Errorf("serviceTypeOf(%q) = %q, want %q", raw, got, want)
		}
	}
}
