/*
payroll.go - Payroll period regimes and entry proration

PURPOSE:
  Payroll answers a different question than billing: what fraction of
  the current pay period has an employee worked, given only a hire
  date. Exit is never prorated; terminated employees simply drop out
  of the payroll run.

REGIMES:
  The pay-day convention migrated from the 25th to the 5th for two
  tenant categories (guarding and cleaning). This is a one-off, dated
  organizational change, encoded as a literal rule table:

  Regime A (standard):        pay day 25; rolls over the day after
  Regime B (transition):      pinned window with a fixed 30-day base
  Regime C (post-transition): pay day 5; rolls over on the 5th

  All other tenant categories always use Regime A, which means any
  employee hired before the period start gets ratio 1.

  The transition entries stay in the table after their window closes
  so historical pay runs recompute identically.

SEE ALSO:
  - period.go: The billing-side proration (configurable anchor,
    prorates both entry and exit)
*/
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TENANT CATEGORIES
// =============================================================================

type TenantCategory string

const (
	CategoryGuarding TenantCategory = "gardiennage"
	CategoryCleaning TenantCategory = "nettoyage"
	CategoryStandard TenantCategory = "standard"
)

const (
	standardPayDay = 25
	migratedPayDay = 5
)

// =============================================================================
// TRANSITION RULES - Literal, dated business rules. Do not generalize.
// =============================================================================

// payDayTransition pins the pay period to fixed calendar dates while a
// tenant category moves from one pay-day convention to another.
type payDayTransition struct {
	Category      TenantCategory
	EffectiveFrom Day // first day the pinned period applies
	EffectiveTo   Day // last day the pinned period applies
	PeriodStart   Day
	PeriodEnd     Day
	BaseDays      int // fixed denominator, NOT the actual period length
}

// The December 2024 move of guarding and cleaning payrolls from the
// 25th to the 5th. One stretched period bridges the gap (Nov 25 to
// Jan 1), paid on a flat 30-day base by agreement with the tenants.
var payDayTransitions = []payDayTransition{
	{
		Category:      CategoryGuarding,
		EffectiveFrom: NewDay(2024, time.December, 1),
		EffectiveTo:   NewDay(2024, time.December, 31),
		PeriodStart:   NewDay(2024, time.November, 25),
		PeriodEnd:     NewDay(2025, time.January, 1),
		BaseDays:      30,
	},
	{
		Category:      CategoryCleaning,
		EffectiveFrom: NewDay(2024, time.December, 1),
		EffectiveTo:   NewDay(2024, time.December, 31),
		PeriodStart:   NewDay(2024, time.November, 25),
		PeriodEnd:     NewDay(2025, time.January, 1),
		BaseDays:      30,
	},
}

// migratedAfter is the day after which the migrated categories switch
// to the day-5 convention (Regime C).
var migratedAfter = NewDay(2024, time.December, 31)

func transitionFor(category TenantCategory, now Day) *payDayTransition {
	for i := range payDayTransitions {
		t := &payDayTransitions[i]
		if t.Category != category {
			continue
		}
		if now.AfterOrEqual(t.EffectiveFrom) && now.BeforeOrEqual(t.EffectiveTo) {
			return t
		}
	}
	return nil
}

func isMigrated(category TenantCategory) bool {
	for i := range payDayTransitions {
		if payDayTransitions[i].Category == category {
			return true
		}
	}
	return false
}

// =============================================================================
// PAYROLL PERIOD DERIVATION
// =============================================================================

// PayrollPeriodAt derives the pay period straddling now for a tenant
// category, plus the day base used as the proration denominator. The
// base equals the period length except inside a transition window,
// where it is pinned.
//
// Rollover differs between regimes: the standard day-25 period holds
// through the 25th itself and rolls over the day after (strict), while
// the migrated day-5 period already rolls over on the 5th.
func PayrollPeriodAt(category TenantCategory, now Day) (Period, int) {
	if t := transitionFor(category, now); t != nil {
		return Period{Start: t.PeriodStart, End: t.PeriodEnd}, t.BaseDays
	}

	if isMigrated(category) && now.After(migratedAfter) {
		end := NewDay(now.Year(), now.Month(), migratedPayDay)
		if now.Day() >= migratedPayDay {
			end = NewDay(now.Year(), now.Month()+1, migratedPayDay)
		}
		p := Period{Start: end.AddMonths(-1), End: end}
		return p, p.Days()
	}

	end := NewDay(now.Year(), now.Month(), standardPayDay)
	if now.Day() > standardPayDay {
		end = NewDay(now.Year(), now.Month()+1, standardPayDay)
	}
	p := Period{Start: end.AddMonths(-1), End: end}
	return p, p.Days()
}

// =============================================================================
// PAYROLL PRORATION
// =============================================================================

// PayrollProrate computes the fraction of the current pay period an
// employee has worked. Only entry is prorated: the worked span runs
// from the later of the period start and the hire date through the
// period end. Employees hired at or after the period end get 0.
func PayrollProrate(category TenantCategory, hire Day, now Day) decimal.Decimal {
	period, baseDays := PayrollPeriodAt(category, now)

	if hire.AfterOrEqual(period.End) {
		return decimal.Zero
	}
	if baseDays <= 0 {
		return decimal.Zero
	}

	workedFrom := MaxDay(hire, period.Start)
	workedDays := DaysBetween(workedFrom, period.End)
	if workedDays <= 0 {
		return decimal.Zero
	}
	if workedDays >= baseDays {
		return one
	}

	return clampRatio(decimal.NewFromInt(int64(workedDays)).
		Div(decimal.NewFromInt(int64(baseDays))))
}
