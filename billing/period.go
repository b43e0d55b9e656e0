package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PERIOD - The rolling billing window
// =============================================================================

// Period is a half-open interval [Start, End) of calendar days.
// A billing period always straddles "now" and is recomputed fresh on
// every call; it is never persisted.
type Period struct {
	Start Day
	End   Day
}

// Contains returns true if the day falls inside [Start, End).
func (p Period) Contains(d Day) bool {
	return d.AfterOrEqual(p.Start) && d.Before(p.End)
}

// Days returns the period length in whole days.
func (p Period) Days() int { return DaysBetween(p.Start, p.End) }

func (p Period) String() string {
	return fmt.Sprintf("[%s, %s)", p.Start, p.End)
}

// =============================================================================
// BILLING PERIOD DERIVATION
// =============================================================================

// BillingPeriodAt derives the billing period straddling now for a
// client whose recurring charge falls due on anchorDay (1-31).
//
// End is the nearest anchor-day date in the future. The tie-break is
// closed, roll-forward: an anchor date equal to now counts as already
// passed and rolls to next month's occurrence. Start is End shifted
// back one calendar month.
func BillingPeriodAt(anchorDay int, now Day) Period {
	anchorDay = clampAnchorDay(anchorDay)

	end := NewDay(now.Year(), now.Month(), anchorDay)
	if end.BeforeOrEqual(now) {
		end = NewDay(now.Year(), now.Month()+1, anchorDay)
	}
	return Period{Start: end.AddMonths(-1), End: end}
}

// clampAnchorDay keeps the anchor inside 1-31. Anchor days beyond the
// length of a month spill into the next month via date normalization,
// same as the source's date constructor.
func clampAnchorDay(day int) int {
	if day < 1 {
		return 1
	}
	if day > 31 {
		return 31
	}
	return day
}

// ValidateAnchorDay rejects anchor days outside 1-31. The calculators
// clamp instead of failing; storage and API layers validate here.
func ValidateAnchorDay(day int) error {
	if day < 1 || day > 31 {
		return fmt.Errorf("%w: %d", ErrInvalidAnchorDay, day)
	}
	return nil
}

// =============================================================================
// PRORATION
// =============================================================================

var one = decimal.NewFromInt(1)

// Prorate computes the fraction of the current billing period during
// which an activity window was active.
//
// Rules:
//   - start after the period closes: 0 (not yet active this period)
//   - end before the period opens: 0 (already terminated)
//   - window covering the whole period: exactly 1, no division
//   - otherwise overlap days / period days, clamped to [0, 1]
//
// The end day is inclusive: an assignment ending on a given date is
// billed through the end of that day.
func Prorate(start Day, anchorDay int, end *Day, now Day) decimal.Decimal {
	period := BillingPeriodAt(anchorDay, now)
	return ProrateInPeriod(Window{Start: start, End: end}, period)
}

// ProrateInPeriod is the same computation against an already-derived
// period. Aggregation loops derive the period once per client and
// reuse it across assignments so every ratio shares the same "now".
func ProrateInPeriod(w Window, period Period) decimal.Decimal {
	if w.Start.After(period.End) {
		return decimal.Zero
	}

	actualStart := MaxDay(w.Start, period.Start)
	actualEnd := period.End
	if w.End != nil {
		endExclusive := w.End.AddDays(1) // end day is billed in full
		if endExclusive.BeforeOrEqual(period.Start) {
			return decimal.Zero
		}
		actualEnd = MinDay(period.End, endExclusive)
	}

	if actualEnd.BeforeOrEqual(actualStart) {
		return decimal.Zero
	}

	// Full-period shortcut: avoids rounding on the common whole-month case.
	if w.Start.BeforeOrEqual(period.Start) &&
		(w.End == nil || w.End.AddDays(1).AfterOrEqual(period.End)) {
		return one
	}

	totalDays := period.Days()
	if totalDays <= 0 {
		return decimal.Zero
	}

	ratio := decimal.NewFromInt(int64(DaysBetween(actualStart, actualEnd))).
		Div(decimal.NewFromInt(int64(totalDays)))
	return clampRatio(ratio)
}

func clampRatio(r decimal.Decimal) decimal.Decimal {
	if r.IsNegative() {
		return decimal.Zero
	}
	if r.GreaterThan(one) {
		return one
	}
	return r
}
