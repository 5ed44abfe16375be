package money

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow indicates an arithmetic result does not fit in int64 minor units.
var ErrOverflow = errors.New("money: amount overflow")

// ErrCurrencyMismatch indicates an operation across different currencies.
var ErrCurrencyMismatch = errors.New("money: currency mismatch")

// DefaultCurrency is used when callers omit a currency code.
const DefaultCurrency = "USD"

// Money is a monetary value in integer minor units (cents).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// New creates a Money value from minor units.
func New(amount int64, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: amount, Currency: currency}
}

// Zero returns a zero value in the given currency.
func Zero(currency string) Money {
	return New(0, currency)
}

// Add returns m + o.
func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	sum := m.Amount + o.Amount
	if (o.Amount > 0 && sum < m.Amount) || (o.Amount < 0 && sum > m.Amount) {
		return Money{}, ErrOverflow
	}
	currency := m.Currency
	if m.Amount == 0 && o.Amount != 0 {
		currency = o.Currency
	}
	return New(sum, currency), nil
}

// Sub returns m - o.
func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return m.Add(New(-o.Amount, m.Currency))
}

// MulInt returns m scaled by an integer quantity.
func (m Money) MulInt(n int64) (Money, error) {
	if m.Amount == 0 || n == 0 {
		return Zero(m.Currency), nil
	}
	product := m.Amount * n
	if product/n != m.Amount {
		return Money{}, ErrOverflow
	}
	return New(product, m.Currency), nil
}

// PercentBP returns the given basis-point fraction of m (100bp = 1%),
// rounded half away from zero in a single step.
func (m Money) PercentBP(bp int64) (Money, error) {
	if m.Amount == 0 || bp == 0 {
		return Zero(m.Currency), nil
	}
	product := m.Amount * bp
	if product/bp != m.Amount {
		return Money{}, ErrOverflow
	}
	return New(roundDiv(product, 10000), m.Currency), nil
}

// Split divides m into n shares. Division truncates toward zero and the
// leftover minor units are assigned one each to the earliest shares, so the
// shares always sum back to m.
func (m Money) Split(n int) ([]Money, error) {
	if n <= 0 {
		return nil, fmt.Errorf("money: invalid share count %d", n)
	}
	base := m.Amount / int64(n)
	remainder := m.Amount % int64(n)

	shares := make([]Money, n)
	for i := range shares {
		amount := base
		if int64(i) < abs(remainder) {
			if remainder > 0 {
				amount++
			} else {
				amount--
			}
		}
		shares[i] = New(amount, m.Currency)
	}
	return shares, nil
}

// Negate returns m with the sign flipped.
func (m Money) Negate() Money {
	return New(-m.Amount, m.Currency)
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.Amount < 0 }

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// LessThan reports whether m is strictly less than o, ignoring currency.
func (m Money) LessThan(o Money) bool { return m.Amount < o.Amount }

// ToFloat returns the major-unit value for display and event payloads only.
func (m Money) ToFloat() float64 {
	return float64(m.Amount) / 100
}

// String formats the value in major units, e.g. "125.00 USD".
func (m Money) String() string {
	sign := ""
	amount := m.Amount
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, amount/100, amount%100, m.Currency)
}

func (m Money) sameCurrency(o Money) error {
	if m.Currency != o.Currency && m.Amount != 0 && o.Amount != 0 {
		return ErrCurrencyMismatch
	}
	return nil
}

// roundDiv divides and rounds half away from zero.
func roundDiv(numerator, denominator int64) int64 {
	if numerator == math.MinInt64 {
		// abs would overflow; cannot occur for in-range order amounts.
		return numerator / denominator
	}
	half := denominator / 2
	if numerator >= 0 {
		return (numerator + half) / denominator
	}
	return (numerator - half) / denominator
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
