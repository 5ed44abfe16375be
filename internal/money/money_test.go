package money

import (
	"math"
	"testing"
)

func TestAdd(t *testing.T) {
	a := New(1050, "USD")
	b := New(2500, "USD")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if sum.Amount != 3550 {
		t.Errorf("Expected 3550, got %d", sum.Amount)
	}
	if sum.Currency != "USD" {
		t.Errorf("Expected USD, got %s", sum.Currency)
	}
}

func TestAdd_CurrencyMismatch(t *testing.T) {
	a := New(100, "USD")
	b := New(100, "EUR")

	if _, err := a.Add(b); err != ErrCurrencyMismatch {
		t.Errorf("Expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestAdd_ZeroAdoptsCurrency(t *testing.T) {
	sum, err := Zero("USD").Add(New(500, "EUR"))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if sum.Currency != "EUR" {
		t.Errorf("Expected EUR, got %s", sum.Currency)
	}
}

func TestAdd_Overflow(t *testing.T) {
	a := New(math.MaxInt64, "USD")
	b := New(1, "USD")

	if _, err := a.Add(b); err != ErrOverflow {
		t.Errorf("Expected ErrOverflow, got %v", err)
	}
}

func TestSub(t *testing.T) {
	a := New(20000, "USD")
	b := New(1500, "USD")

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub() error = %v", err)
	}
	if diff.Amount != 18500 {
		t.Errorf("Expected 18500, got %d", diff.Amount)
	}
}

func TestMulInt(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		factor   int64
		expected int64
	}{
		{"simple", 1200, 50, 60000},
		{"zero factor", 1200, 0, 0},
		{"zero amount", 0, 50, 0},
		{"negative factor", 1200, -2, -2400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.amount, "USD").MulInt(tt.factor)
			if err != nil {
				t.Fatalf("MulInt() error = %v", err)
			}
			if got.Amount != tt.expected {
				t.Errorf("MulInt() = %d, want %d", got.Amount, tt.expected)
			}
		})
	}
}

func TestMulInt_Overflow(t *testing.T) {
	if _, err := New(math.MaxInt64/2, "USD").MulInt(3); err != ErrOverflow {
		t.Errorf("Expected ErrOverflow, got %v", err)
	}
}

func TestPercentBP(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		bp       int64
		expected int64
	}{
		{"five percent of 200.00", 20000, 500, 1000},
		{"ten percent of 100.00", 10000, 1000, 1000},
		{"rounds half up", 101, 5000, 51},      // 50.5 -> 51
		{"exact half rounds up", 102, 2500, 26}, // 25.5 -> 26
		{"rounds down below half", 1, 100, 0},   // 0.01 -> 0
		{"tax rate 8.25%", 20000, 825, 1650},
		{"negative rounds away from zero", -101, 5000, -51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.amount, "USD").PercentBP(tt.bp)
			if err != nil {
				t.Fatalf("PercentBP() error = %v", err)
			}
			if got.Amount != tt.expected {
				t.Errorf("PercentBP(%d) of %d = %d, want %d", tt.bp, tt.amount, got.Amount, tt.expected)
			}
		})
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		shares int
	}{
		{"even", 1000, 4},
		{"uneven", 1001, 3},
		{"single", 999, 1},
		{"negative uneven", -1001, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := New(tt.amount, "USD").Split(tt.shares)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			if len(shares) != tt.shares {
				t.Fatalf("Expected %d shares, got %d", tt.shares, len(shares))
			}

			var sum int64
			for _, s := range shares {
				sum += s.Amount
			}
			if sum != tt.amount {
				t.Errorf("Shares sum to %d, want %d", sum, tt.amount)
			}

			// No share may differ from another by more than one minor unit.
			for _, s := range shares {
				if d := s.Amount - shares[len(shares)-1].Amount; d < -1 || d > 1 {
					t.Errorf("Share spread exceeds one minor unit: %v", shares)
				}
			}
		})
	}
}

func TestSplit_InvalidCount(t *testing.T) {
	if _, err := New(100, "USD").Split(0); err == nil {
		t.Error("Expected error for zero shares")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		amount   int64
		expected string
	}{
		{12345, "123.45 USD"},
		{5, "0.05 USD"},
		{-1500, "-15.00 USD"},
		{0, "0.00 USD"},
	}

	for _, tt := range tests {
		if got := New(tt.amount, "USD").String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestIsNegative(t *testing.T) {
	if New(-1, "USD").IsNegative() != true {
		t.Error("Expected -1 to be negative")
	}
	if New(0, "USD").IsNegative() != false {
		t.Error("Expected 0 to not be negative")
	}
}

func BenchmarkPercentBP(b *testing.B) {
	m := New(123456789, "USD")
	for i := 0; i < b.N; i++ {
		m.PercentBP(825)
	}
}
