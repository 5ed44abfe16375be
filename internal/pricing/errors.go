package pricing

import (
	"errors"
	"fmt"

	"github.com/tablescape/tablescape-orders-service/internal/money"
)

// ErrorCode tags a pricing failure. Structural input problems are rejected
// at the smallest responsible component and abort the whole computation.
type ErrorCode string

const (
	ErrCodeInvalidGuestCount ErrorCode = "invalid_guest_count"
	ErrCodeInvalidQuantity   ErrorCode = "invalid_quantity"
	ErrCodeUnknownMenuItem   ErrorCode = "unknown_menu_item"
	ErrCodeInvalidAdjustment ErrorCode = "invalid_adjustment"
	ErrCodeInvalidService    ErrorCode = "invalid_service"
	ErrCodeRoundingOverflow  ErrorCode = "rounding_overflow"
)

// Error is a tagged pricing error.
type Error struct {
	Code   ErrorCode
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("pricing: %s: %s", e.Code, e.Detail)
}

// Is matches any *Error carrying the same code, so callers can test with
// errors.Is(err, &pricing.Error{Code: pricing.ErrCodeUnknownMenuItem}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func newError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// wrapMoney converts money arithmetic failures into tagged pricing errors.
func wrapMoney(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, money.ErrOverflow) {
		return newError(ErrCodeRoundingOverflow, "amount exceeds representable range")
	}
	return newError(ErrCodeRoundingOverflow, "%v", err)
}

// CodeOf extracts the error code from a pricing error, or empty string.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
