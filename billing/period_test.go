package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/assemned1000/teamgestion-sub000/billing"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) billing.Day {
	return billing.NewDay(year, month, day)
}

func datePtr(year int, month time.Month, day int) *billing.Day {
	d := date(year, month, day)
	return &d
}

func ratioFloat(r decimal.Decimal) float64 {
	f, _ := r.Float64()
	return f
}

func assertRatio(t *testing.T, got decimal.Decimal, want float64) {
	t.Helper()
	g := ratioFloat(got)
	if diff := g - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("ratio = %v, want %v", g, want)
	}
}

// =============================================================================
// BILLING PERIOD DERIVATION
// =============================================================================

func TestBillingPeriod_AnchorAhead(t *testing.T) {
	// GIVEN: today is June 10, client bills on the 25th
	// THEN: the current period is [May 25, Jun 25)
	p := billing.BillingPeriodAt(25, date(2025, time.June, 10))

	if !p.Start.Equal(date(2025, time.May, 25)) {
		t.Errorf("period start = %s, want 2025-05-25", p.Start)
	}
	if !p.End.Equal(date(2025, time.June, 25)) {
		t.Errorf("period end = %s, want 2025-06-25", p.End)
	}
	if p.Days() != 31 {
		t.Errorf("period length = %d days, want 31", p.Days())
	}
}

func TestBillingPeriod_AnchorPassed_RollsForward(t *testing.T) {
	// GIVEN: today is June 26, one day past the anchor
	// THEN: the period rolls to [Jun 25, Jul 25)
	p := billing.BillingPeriodAt(25, date(2025, time.June, 26))

	if !p.Start.Equal(date(2025, time.June, 25)) {
		t.Errorf("period start = %s, want 2025-06-25", p.Start)
	}
	if !p.End.Equal(date(2025, time.July, 25)) {
		t.Errorf("period end = %s, want 2025-07-25", p.End)
	}
}

func TestBillingPeriod_AnchorToday_CountsAsPassed(t *testing.T) {
	// Closed boundary, roll-forward tie-break: the anchor falling
	// exactly today already belongs to the next occurrence.
	p := billing.BillingPeriodAt(25, date(2025, time.June, 25))

	if !p.End.Equal(date(2025, time.July, 25)) {
		t.Errorf("period end = %s, want 2025-07-25", p.End)
	}
	if !p.Contains(date(2025, time.June, 25)) {
		t.Error("period should contain today")
	}
}

func TestBillingPeriod_YearBoundary(t *testing.T) {
	p := billing.BillingPeriodAt(25, date(2025, time.December, 30))

	if !p.Start.Equal(date(2025, time.December, 25)) {
		t.Errorf("period start = %s, want 2025-12-25", p.Start)
	}
	if !p.End.Equal(date(2026, time.January, 25)) {
		t.Errorf("period end = %s, want 2026-01-25", p.End)
	}
}

func TestValidateAnchorDay(t *testing.T) {
	if err := billing.ValidateAnchorDay(0); err == nil {
		t.Error("anchor day 0 should be rejected")
	}
	if err := billing.ValidateAnchorDay(32); err == nil {
		t.Error("anchor day 32 should be rejected")
	}
	if err := billing.ValidateAnchorDay(15); err != nil {
		t.Errorf("anchor day 15 rejected: %v", err)
	}
}

// =============================================================================
// PRORATION
// =============================================================================

func TestProrate_FullPeriod_ExactlyOne(t *testing.T) {
	// GIVEN: anchor 25, now = 2025-06-10, assignment start 2025-05-01, no end
	// THEN: start precedes the period start and the window is open,
	//       so the ratio is exactly 1 with no division involved
	ratio := billing.Prorate(date(2025, time.May, 1), 25, nil, date(2025, time.June, 10))

	if !ratio.Equal(decimal.NewFromInt(1)) {
		t.Errorf("ratio = %s, want exactly 1", ratio)
	}
}

func TestProrate_MidPeriodStart(t *testing.T) {
	// GIVEN: anchor 25, now = 2025-06-10, assignment starts 2025-06-05
	// THEN: active [Jun 5, Jun 25) of [May 25, Jun 25) = 20/31
	ratio := billing.Prorate(date(2025, time.June, 5), 25, nil, date(2025, time.June, 10))

	assertRatio(t, ratio, 20.0/31.0)
}

func TestProrate_EndedBeforePeriod(t *testing.T) {
	// GIVEN: assignment ran 2025-01-01 to 2025-05-01, period starts May 25
	// THEN: already terminated, ratio 0
	ratio := billing.Prorate(
		date(2025, time.January, 1), 25,
		datePtr(2025, time.May, 1),
		date(2025, time.June, 10),
	)

	if !ratio.IsZero() {
		t.Errorf("ratio = %s, want 0", ratio)
	}
}

func TestProrate_StartsAfterPeriodEnd(t *testing.T) {
	// Not yet active this period.
	ratio := billing.Prorate(date(2025, time.July, 10), 25, nil, date(2025, time.June, 10))

	if !ratio.IsZero() {
		t.Errorf("ratio = %s, want 0", ratio)
	}
}

func TestProrate_EndMidPeriod_EndDayBilledInFull(t *testing.T) {
	// GIVEN: long-running assignment ends June 10, period [May 25, Jun 25)
	// THEN: billed [May 25 .. Jun 10] inclusive = 17 of 31 days
	ratio := billing.Prorate(
		date(2025, time.May, 1), 25,
		datePtr(2025, time.June, 10),
		date(2025, time.June, 10),
	)

	assertRatio(t, ratio, 17.0/31.0)
}

func TestProrate_EndOnLastPeriodDay_IsFullPeriod(t *testing.T) {
	// Ending on June 24 covers the whole of [May 25, Jun 25).
	ratio := billing.Prorate(
		date(2025, time.May, 1), 25,
		datePtr(2025, time.June, 24),
		date(2025, time.June, 10),
	)

	if !ratio.Equal(decimal.NewFromInt(1)) {
		t.Errorf("ratio = %s, want exactly 1", ratio)
	}
}

func TestProrate_SingleDayWindow(t *testing.T) {
	// Start and end on the same mid-period day: one billed day.
	ratio := billing.Prorate(
		date(2025, time.June, 5), 25,
		datePtr(2025, time.June, 5),
		date(2025, time.June, 10),
	)

	assertRatio(t, ratio, 1.0/31.0)
}

func TestProrate_InvertedWindow_YieldsZero(t *testing.T) {
	// The engine clamps rather than failing; Validate is for the edges.
	w := billing.Window{Start: date(2025, time.June, 10), End: datePtr(2025, time.June, 1)}
	if err := w.Validate(); err == nil {
		t.Error("inverted window should fail validation")
	}

	ratio := billing.Prorate(w.Start, 25, w.End, date(2025, time.June, 10))
	if !ratio.IsZero() {
		t.Errorf("ratio = %s, want 0", ratio)
	}
}

func TestProrate_Monotonicity(t *testing.T) {
	// Earlier starts never shrink the ratio; earlier ends never grow it.
	now := date(2025, time.June, 10)

	prev := decimal.NewFromInt(2)
	for day := 1; day <= 28; day++ {
		ratio := billing.Prorate(date(2025, time.June, day), 25, nil, now)
		if ratio.GreaterThan(prev) {
			t.Fatalf("ratio increased as start moved later: day %d", day)
		}
		prev = ratio
	}

	prev = decimal.NewFromInt(-1)
	for day := 1; day <= 28; day++ {
		ratio := billing.Prorate(date(2025, time.May, 1), 25, datePtr(2025, time.June, day), now)
		if ratio.LessThan(prev) {
			t.Fatalf("ratio decreased as end moved later: day %d", day)
		}
		prev = ratio
	}
}
