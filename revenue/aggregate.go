/*
Package revenue composes proration and currency conversion into the
period-actual totals the dashboard screens display.

PURPOSE:
  The heavy lifting lives in the billing package; this layer only
  multiplies nominal monthly rates by proration ratios and sums them.
  Its one independent responsibility is consistent currency selection:
  every amount is normalized to the same display currency BEFORE it is
  added to a total. Summing heterogeneous currencies is the bug class
  this package exists to prevent.

NOW HANDLING:
  "Now" is captured once per aggregation call and threaded through
  every ratio, so a computation spanning midnight cannot mix two
  different billing periods.

SEE ALSO:
  - billing/period.go: Prorate, BillingPeriodAt
  - billing/payroll.go: PayrollProrate
*/
package revenue

import (
	"github.com/assemned1000/teamgestion-sub000/billing"
)

// =============================================================================
// INPUT TYPES
// =============================================================================

// RateAssignment is one employee-to-client rate line: a nominal
// monthly rate active over a window.
type RateAssignment struct {
	ID          string
	MonthlyRate billing.Money
	Window      billing.Window
}

// EmployeePay is one payroll line: the tenant category selects the pay
// period regime, the hire date drives entry proration.
type EmployeePay struct {
	ID            string
	Category      billing.TenantCategory
	Hire          billing.Day
	MonthlySalary billing.Money
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// AssignmentRevenue is the period-actual value of a single assignment.
type AssignmentRevenue struct {
	AssignmentID string
	Ratio        string        // decimal ratio, stringified for display
	PeriodAmount billing.Money // prorated amount in the source currency
	Converted    billing.Money // same amount in the display currency
}

// ClientRevenue is the period-actual revenue of one client.
type ClientRevenue struct {
	Period billing.Period
	Total  billing.Money
	Lines  []AssignmentRevenue
}

// PayrollLine is the period-actual cost of one employee.
type PayrollLine struct {
	EmployeeID   string
	Ratio        string
	PeriodAmount billing.Money
	Converted    billing.Money
}

// PayrollSummary is the company payroll liability for the current
// period of each employee's tenant category.
type PayrollSummary struct {
	Total billing.Money
	Lines []PayrollLine
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Line amounts are rounded to cents before they enter a total, so the
// reported lines always sum to the reported total.
const centPlaces = 2

// Aggregator sums prorated amounts in a single display currency.
type Aggregator struct {
	Table *billing.Table
}

func NewAggregator(table *billing.Table) *Aggregator {
	return &Aggregator{Table: table}
}

// ClientRevenue computes a client's revenue for the billing period
// straddling now. The period is derived once from the client's anchor
// day and reused for every assignment.
func (a *Aggregator) ClientRevenue(
	anchorDay int,
	assignments []RateAssignment,
	display billing.Currency,
	now billing.Day,
) ClientRevenue {
	period := billing.BillingPeriodAt(anchorDay, now)

	total := billing.Money{Currency: display}
	lines := make([]AssignmentRevenue, 0, len(assignments))

	for _, as := range assignments {
		ratio := billing.ProrateInPeriod(as.Window, period)
		periodAmount := as.MonthlyRate.Mul(ratio).Round(centPlaces)
		converted := a.Table.ConvertMoney(periodAmount, display).Round(centPlaces)

		total = total.Add(converted)
		lines = append(lines, AssignmentRevenue{
			AssignmentID: as.ID,
			Ratio:        ratio.String(),
			PeriodAmount: periodAmount,
			Converted:    converted,
		})
	}

	return ClientRevenue{Period: period, Total: total, Lines: lines}
}

// Payroll computes the company-wide payroll total for the current pay
// periods. Each employee is prorated against the period of their own
// tenant category, then normalized to the display currency.
func (a *Aggregator) Payroll(
	employees []EmployeePay,
	display billing.Currency,
	now billing.Day,
) PayrollSummary {
	total := billing.Money{Currency: display}
	lines := make([]PayrollLine, 0, len(employees))

	for _, e := range employees {
		ratio := billing.PayrollProrate(e.Category, e.Hire, now)
		periodAmount := e.MonthlySalary.Mul(ratio).Round(centPlaces)
		converted := a.Table.ConvertMoney(periodAmount, display).Round(centPlaces)

		total = total.Add(converted)
		lines = append(lines, PayrollLine{
			EmployeeID:   e.ID,
			Ratio:        ratio.String(),
			PeriodAmount: periodAmount,
			Converted:    converted,
		})
	}

	return PayrollSummary{Total: total, Lines: lines}
}
