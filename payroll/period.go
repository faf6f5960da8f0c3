package payroll

import (
	"fmt"
	"time"
)

// =============================================================================
// QUINCENA - Fixed biweekly pay period (1st-15th or 16th-end of month)
// =============================================================================

// Period is one quincena. Start is always the 1st or the 16th of a month;
// End is Start plus 14 days. Periods have no stored identity - they are
// derived from any date they contain and used as grouping keys.
type Period struct {
	Start Date
	End   Date
}

// PeriodFor returns the quincena containing the given date.
func PeriodFor(d Date) Period {
	start := NewDate(d.Year(), d.Month(), 1)
	if d.Day() > 15 {
		start = NewDate(d.Year(), d.Month(), 16)
	}
	return Period{Start: start, End: start.AddDays(14)}
}

// Contains reports whether the date falls inside [Start, End].
func (p Period) Contains(d Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// FirstHalf reports whether this is the 1st-15th quincena.
func (p Period) FirstHalf() bool { return p.Start.Day() == 1 }

// PayDate is the 15th for a first-half period and the last calendar day of
// the month for a second-half period.
func (p Period) PayDate() Date {
	if p.FirstHalf() {
		return NewDate(p.Start.Year(), p.Start.Month(), 15)
	}
	// Day 0 of the next month is the last day of this one.
	t := time.Date(p.Start.Year(), p.Start.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return DateOf(t)
}

func (p Period) String() string {
	return fmt.Sprintf("%s to %s", p.Start, p.End)
}
