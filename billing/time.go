package billing

import (
	"time"
)

// =============================================================================
// DAY - Day-granular point in time
// =============================================================================

// Day is a calendar day in UTC. All period boundaries are day-granular:
// the source screens normalized starts to midnight and ends to the last
// millisecond of the day, which collapses to half-open day intervals.
type Day struct {
	Time time.Time
}

// Constructors
func NewDay(year int, month time.Month, day int) Day {
	return Day{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates an instant to its calendar day.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

func Today() Day {
	return DayOf(time.Now().UTC())
}

// Comparison
func (d Day) Before(other Day) bool        { return d.Time.Before(other.Time) }
func (d Day) After(other Day) bool         { return d.Time.After(other.Time) }
func (d Day) Equal(other Day) bool         { return d.Time.Equal(other.Time) }
func (d Day) BeforeOrEqual(other Day) bool { return !d.After(other) }
func (d Day) AfterOrEqual(other Day) bool  { return !d.Before(other) }

// Arithmetic. AddMonths follows time.AddDate normalization: shifting
// Jan 31 by one month yields Mar 2/3. Anchor days near month end
// inherit this behavior, matching the source's date constructor.
func (d Day) AddDays(n int) Day   { return Day{Time: d.Time.AddDate(0, 0, n)} }
func (d Day) AddMonths(n int) Day { return Day{Time: d.Time.AddDate(0, n, 0)} }

// Properties
func (d Day) Year() int         { return d.Time.Year() }
func (d Day) Month() time.Month { return d.Time.Month() }
func (d Day) Day() int          { return d.Time.Day() }
func (d Day) IsZero() bool      { return d.Time.IsZero() }

func (d Day) String() string { return d.Time.Format("2006-01-02") }

// =============================================================================
// DAY UTILITIES
// =============================================================================

// DaysBetween returns the whole days from one day to another.
// Negative when to precedes from.
func DaysBetween(from, to Day) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

func MinDay(a, b Day) Day {
	if a.Before(b) {
		return a
	}
	return b
}

func MaxDay(a, b Day) Day {
	if a.After(b) {
		return a
	}
	return b
}
