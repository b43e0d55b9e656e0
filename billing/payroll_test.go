package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/assemned1000/teamgestion-sub000/billing"
)

// =============================================================================
// REGIME A - Standard day-25 pay period
// =============================================================================

func TestPayroll_StandardTenant_HiredBeforePeriod_FullRatio(t *testing.T) {
	// GIVEN: a tenant outside the migrated categories, employee hired
	//        long before the current period
	// THEN: worked days equal the full period, ratio is exactly 1
	ratio := billing.PayrollProrate(
		billing.CategoryStandard,
		date(2023, time.March, 1),
		date(2025, time.June, 10),
	)

	if !ratio.Equal(decimal.NewFromInt(1)) {
		t.Errorf("ratio = %s, want exactly 1", ratio)
	}
}

func TestPayroll_RegimeA_MidPeriodHire(t *testing.T) {
	// GIVEN: hired June 5, pay period [May 25, Jun 25)
	// THEN: worked [Jun 5, Jun 25) = 20 of 31 days
	ratio := billing.PayrollProrate(
		billing.CategoryStandard,
		date(2025, time.June, 5),
		date(2025, time.June, 10),
	)

	assertRatio(t, ratio, 20.0/31.0)
}

func TestPayroll_RegimeA_HoldsThroughPayDay(t *testing.T) {
	// Unlike billing, the day-25 pay period does NOT roll over on the
	// 25th itself - only the day after.
	p, _ := billing.PayrollPeriodAt(billing.CategoryStandard, date(2025, time.June, 25))
	if !p.End.Equal(date(2025, time.June, 25)) {
		t.Errorf("period end on pay day = %s, want 2025-06-25", p.End)
	}

	p, _ = billing.PayrollPeriodAt(billing.CategoryStandard, date(2025, time.June, 26))
	if !p.End.Equal(date(2025, time.July, 25)) {
		t.Errorf("period end after pay day = %s, want 2025-07-25", p.End)
	}
}

func TestPayroll_HiredAfterPeriodEnd_ZeroRatio(t *testing.T) {
	ratio := billing.PayrollProrate(
		billing.CategoryStandard,
		date(2025, time.July, 1),
		date(2025, time.June, 10),
	)

	if !ratio.IsZero() {
		t.Errorf("ratio = %s, want 0", ratio)
	}
}

// =============================================================================
// REGIME B - December 2024 transition window (pinned dates, 30-day base)
// =============================================================================

func TestPayroll_Transition_PinnedPeriod(t *testing.T) {
	// GIVEN: a guarding tenant during December 2024
	// THEN: the period is pinned to [2024-11-25, 2025-01-01) with a
	//       flat 30-day base, regardless of the actual 37-day span
	p, base := billing.PayrollPeriodAt(billing.CategoryGuarding, date(2024, time.December, 10))

	if !p.Start.Equal(date(2024, time.November, 25)) {
		t.Errorf("period start = %s, want 2024-11-25", p.Start)
	}
	if !p.End.Equal(date(2025, time.January, 1)) {
		t.Errorf("period end = %s, want 2025-01-01", p.End)
	}
	if base != 30 {
		t.Errorf("base days = %d, want the fixed 30", base)
	}
}

func TestPayroll_Transition_LongTenureClampsToOne(t *testing.T) {
	// 37 worked days over the 30-day base clamps to 1.
	ratio := billing.PayrollProrate(
		billing.CategoryGuarding,
		date(2022, time.January, 10),
		date(2024, time.December, 10),
	)

	if !ratio.Equal(decimal.NewFromInt(1)) {
		t.Errorf("ratio = %s, want 1", ratio)
	}
}

func TestPayroll_Transition_MidWindowHire(t *testing.T) {
	// Hired Dec 15: worked [Dec 15, Jan 1) = 17 days over the 30-day base.
	ratio := billing.PayrollProrate(
		billing.CategoryCleaning,
		date(2024, time.December, 15),
		date(2024, time.December, 10),
	)

	assertRatio(t, ratio, 17.0/30.0)
}

func TestPayroll_Transition_DoesNotApplyToOtherTenants(t *testing.T) {
	// Standard tenants keep the day-25 period through December 2024.
	p, base := billing.PayrollPeriodAt(billing.CategoryStandard, date(2024, time.December, 10))

	if !p.End.Equal(date(2024, time.December, 25)) {
		t.Errorf("period end = %s, want 2024-12-25", p.End)
	}
	if base != p.Days() {
		t.Errorf("base days = %d, want actual period length %d", base, p.Days())
	}
}

// =============================================================================
// REGIME C - Post-transition day-5 pay period
// =============================================================================

func TestPayroll_PostTransition_Day5Anchor(t *testing.T) {
	// GIVEN: a migrated tenant after the transition window
	// THEN: the pay day is the 5th, rolling over ON the 5th
	p, _ := billing.PayrollPeriodAt(billing.CategoryGuarding, date(2025, time.February, 3))
	if !p.End.Equal(date(2025, time.February, 5)) {
		t.Errorf("period end before the 5th = %s, want 2025-02-05", p.End)
	}

	p, _ = billing.PayrollPeriodAt(billing.CategoryGuarding, date(2025, time.February, 5))
	if !p.End.Equal(date(2025, time.March, 5)) {
		t.Errorf("period end on the 5th = %s, want 2025-03-05", p.End)
	}

	p, _ = billing.PayrollPeriodAt(billing.CategoryGuarding, date(2025, time.February, 10))
	if !p.Start.Equal(date(2025, time.February, 5)) {
		t.Errorf("period start = %s, want 2025-02-05", p.Start)
	}
}

func TestPayroll_PostTransition_MidPeriodHire(t *testing.T) {
	// Period [Feb 5, Mar 5) = 28 days; hired Feb 19: worked 14 days.
	ratio := billing.PayrollProrate(
		billing.CategoryGuarding,
		date(2025, time.February, 19),
		date(2025, time.February, 10),
	)

	assertRatio(t, ratio, 14.0/28.0)
}
