/*
errors.go - Centralized error types for the valuation engine

PURPOSE:
  All error types in one place. The proration calculators themselves
  never fail: degenerate periods and inverted windows yield ratio 0.
  Errors exist only at the configuration edge (rate sets, windows,
  anchor days) so callers can validate inputs before computing.

ERROR CATEGORIES:
  1. Rate errors - Non-positive or missing exchange rates
  2. Currency errors - Codes outside the supported set
  3. Input errors - Inverted windows, out-of-range anchor days

USAGE:
  if errors.Is(err, billing.ErrInvalidRate) {
      // fall back to compiled-in defaults
  }
*/
package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRate is returned when an exchange rate is zero or negative.
	ErrInvalidRate = errors.New("invalid exchange rate")

	// ErrUnknownCurrency is returned by strict lookups for codes outside
	// the supported set. Convert itself preserves the legacy behavior of
	// treating unknown codes as EUR.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrInvalidWindow is returned when a window ends before it starts.
	ErrInvalidWindow = errors.New("invalid window: end before start")

	// ErrInvalidAnchorDay is returned when an anchor day is outside 1-31.
	ErrInvalidAnchorDay = errors.New("invalid anchor day")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRateError identifies which rate of a set is unusable.
type InvalidRateError struct {
	Pair string
	Rate decimal.Decimal
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid exchange rate %s=%s: must be positive", e.Pair, e.Rate)
}

func (e *InvalidRateError) Unwrap() error { return ErrInvalidRate }

// UnknownCurrencyError carries the rejected code.
type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency %q", e.Code)
}

func (e *UnknownCurrencyError) Unwrap() error { return ErrUnknownCurrency }

// InvalidWindowError carries the inverted boundaries.
type InvalidWindowError struct {
	Start Day
	End   Day
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid window: end %s before start %s", e.End, e.Start)
}

func (e *InvalidWindowError) Unwrap() error { return ErrInvalidWindow }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRate) ||
		errors.Is(err, ErrUnknownCurrency) ||
		errors.Is(err, ErrInvalidWindow) ||
		errors.Is(err, ErrInvalidAnchorDay)
}
