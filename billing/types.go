/*
Package billing provides the proration and multi-currency valuation engine.

PURPOSE:
  This package contains the pure computation core shared by the revenue,
  billing-rate, and payroll screens: determining what fraction of the
  current billing period a contract or employment span was active, and
  converting monetary amounts between the supported currencies through
  the DZD pivot.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A decimal amount tagged with a currency
  - Window: An activity span with a start date and optional end date
  - Day: A day-granular point in time (defined in time.go)

DESIGN PRINCIPLES:
  1. Purity: no I/O, no wall-clock reads; "now" is always a parameter
  2. Precision: decimal.Decimal for money and ratios, never float64
  3. Safety: degenerate inputs yield zero ratios, never panics
  4. Explicitness: period boundaries are derived fresh on every call

USAGE:
  ratio := billing.Prorate(assignment.Start, client.AnchorDay, assignment.End, now)
  amount := assignment.MonthlyRate.Value.Mul(ratio)
  table, _ := billing.NewTable(billing.DefaultRates())
  display := table.Convert(amount, "eur", "dzd")

SEE ALSO:
  - period.go: Billing period derivation and proration
  - payroll.go: Payroll period regimes and proration
  - currency.go: Conversion table and rate set
*/
package billing

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Decimal amount with currency
// =============================================================================

type Money struct {
	Value    decimal.Decimal
	Currency Currency
}

func NewMoney(value float64, currency Currency) Money {
	return Money{Value: decimal.NewFromFloat(value), Currency: currency}
}

func NewMoneyFromString(value string, currency Currency) Money {
	d, err := decimal.NewFromString(value)
	if err != nil {
		d = decimal.Zero
	}
	return Money{Value: d, Currency: currency}
}

func (m Money) Zero() Money               { return Money{Value: decimal.Zero, Currency: m.Currency} }
func (m Money) Add(b Money) Money         { return Money{Value: m.Value.Add(b.Value), Currency: m.Currency} }
func (m Money) Mul(s decimal.Decimal) Money { return Money{Value: m.Value.Mul(s), Currency: m.Currency} }
func (m Money) IsZero() bool              { return m.Value.IsZero() }
func (m Money) IsNegative() bool          { return m.Value.IsNegative() }

// Round rounds to the given number of decimal places, half away from
// zero. Line amounts are rounded to cents before entering a total.
func (m Money) Round(places int32) Money {
	return Money{Value: m.Value.Round(places), Currency: m.Currency}
}

// =============================================================================
// WINDOW - Activity span (rate assignment, employment)
// =============================================================================

// Window represents the span during which an assignment or employment
// is active. End == nil means still active.
type Window struct {
	Start Day
	End   *Day // inclusive last active day, nil = open-ended
}

// Validate reports a window whose end precedes its start.
// Prorate itself clamps such windows to a zero ratio; callers that
// persist windows should validate at the edge instead.
func (w Window) Validate() error {
	if w.End != nil && w.End.Before(w.Start) {
		return &InvalidWindowError{Start: w.Start, End: *w.End}
	}
	return nil
}

// IsActive returns true if the window covers the given day.
func (w Window) IsActive(at Day) bool {
	if at.Before(w.Start) {
		return false
	}
	if w.End != nil && at.After(*w.End) {
		return false
	}
	return true
}
