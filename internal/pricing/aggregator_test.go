package pricing

import (
	"testing"

	"github.com/tablescape/tablescape-orders-service/internal/money"
)

func TestComputeServiceTotal_Venue(t *testing.T) {
	var agg ServiceTotalAggregator

	tests := []struct {
		name      string
		priceType PriceType
		quantity  int
		expected  int64
	}{
		{"per hour multiplies", PricePerHour, 4, 80000},
		{"flat ignores quantity", PriceFlat, 4, 20000},
		{"zero quantity defaults to one", PricePerHour, 0, 20000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := SelectedService{
				ID:        "svc_venue",
				Type:      ServiceVenue,
				BasePrice: money.New(20000, "USD"),
				PriceType: tt.priceType,
				Quantity:  tt.quantity,
				Details:   ServiceDetails{Venue: &VenueDetails{RoomName: "Grand Hall"}},
			}

			result, err := agg.ComputeServiceTotal(svc, Quantities{}, 50, "USD")
			if err != nil {
				t.Fatalf("ComputeServiceTotal() error = %v", err)
			}
			if result.LineTotal.Amount != tt.expected {
				t.Errorf("LineTotal = %d, want %d", result.LineTotal.Amount, tt.expected)
			}
		})
	}
}

func TestComputeServiceTotal_PartyRental(t *testing.T) {
	var agg ServiceTotalAggregator

	svc := SelectedService{
		ID:   "svc_rental",
		Type: ServicePartyRental,
		Details: ServiceDetails{Rental: &RentalDetails{Items: []RentalItem{
			{ID: "rent_chair", Name: "Folding Chair", Price: money.New(300, "USD")},
			{ID: "rent_tent", Name: "20x20 Tent", Price: money.New(25000, "USD")},
		}}},
	}
	qty := Quantities{
		ItemKey("svc_rental", "rent_chair"): 50,
		ItemKey("svc_rental", "rent_tent"):  1,
	}

	result, err := agg.ComputeServiceTotal(svc, qty, 50, "USD")
	if err != nil {
		t.Fatalf("ComputeServiceTotal() error = %v", err)
	}
	if result.LineTotal.Amount != 40000 {
		t.Errorf("LineTotal = %d, want 40000", result.LineTotal.Amount)
	}
	if len(result.Lines) != 2 {
		t.Errorf("Expected 2 lines, got %d", len(result.Lines))
	}
}

func TestComputeServiceTotal_RentalUnknownItemPricesZero(t *testing.T) {
	var agg ServiceTotalAggregator

	// Rentals tolerate missing catalog entries with zero-price lines, unlike
	// catering's strict rejection.
	svc := SelectedService{
		ID:      "svc_rental",
		Type:    ServicePartyRental,
		Details: ServiceDetails{Rental: &RentalDetails{}},
	}
	qty := Quantities{ItemKey("svc_rental", "rent_mystery"): 3}

	result, err := agg.ComputeServiceTotal(svc, qty, 50, "USD")
	if err != nil {
		t.Fatalf("ComputeServiceTotal() error = %v", err)
	}
	if result.LineTotal.Amount != 0 {
		t.Errorf("LineTotal = %d, want 0", result.LineTotal.Amount)
	}
	if len(result.Lines) != 1 || result.Lines[0].Amount.Amount != 0 {
		t.Errorf("Expected one zero-price line, got %+v", result.Lines)
	}
}

func TestComputeServiceTotal_Staff(t *testing.T) {
	var agg ServiceTotalAggregator

	svc := SelectedService{
		ID:   "svc_staff",
		Type: ServiceStaff,
		Details: ServiceDetails{Staff: &StaffDetails{Roles: []StaffRole{
			{ID: "role_server", Name: "Server", Rate: money.New(3500, "USD"), Hourly: true},
			{ID: "role_coordinator", Name: "Event Coordinator", Rate: money.New(40000, "USD"), Hourly: false},
		}}},
	}
	qty := Quantities{
		ItemKey("svc_staff", "role_server"):      6, // six hours
		ItemKey("svc_staff", "role_coordinator"): 1,
	}

	result, err := agg.ComputeServiceTotal(svc, qty, 50, "USD")
	if err != nil {
		t.Fatalf("ComputeServiceTotal() error = %v", err)
	}
	// 6 x $35.00 + flat $400.00 = $610.00.
	if result.LineTotal.Amount != 61000 {
		t.Errorf("LineTotal = %d, want 61000", result.LineTotal.Amount)
	}
}

func TestComputeServiceTotal_UnknownServiceType(t *testing.T) {
	var agg ServiceTotalAggregator

	svc := SelectedService{ID: "svc_x", Type: ServiceType("massage")}
	_, err := agg.ComputeServiceTotal(svc, Quantities{}, 50, "USD")
	if CodeOf(err) != ErrCodeInvalidService {
		t.Errorf("Expected invalid_service, got %v", err)
	}
}

func TestComputeServiceTotal_NegativeVenueQuantity(t *testing.T) {
	var agg ServiceTotalAggregator

	svc := SelectedService{
		ID:        "svc_venue",
		Type:      ServiceVenue,
		BasePrice: money.New(20000, "USD"),
		PriceType: PricePerHour,
		Quantity:  -2,
	}
	_, err := agg.ComputeServiceTotal(svc, Quantities{}, 50, "USD")
	if CodeOf(err) != ErrCodeInvalidQuantity {
		t.Errorf("Expected invalid_quantity, got %v", err)
	}
}
