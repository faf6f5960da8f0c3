package payroll

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DATE - Day-granular calendar date (the engine never cares about wall clocks)
// =============================================================================

// Date is a calendar date normalized to midnight UTC. Attendance punches,
// periods, pay dates and the holiday table all key on whole days.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// dateLayouts are the formats seen in real biometric exports: the scanner's
// own ISO form, the DD/MM/YYYY the office uses, and the short forms Excel
// substitutes when a cell loses its original format. Day-first only: a
// month-first layout would silently swap ambiguous dates like 03/04/26.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2/1/06",
	"02-01-06",
}

// ParseDate parses a date cell. Returns an error if no known layout matches.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("unrecognized date %q", s)
}

func (d Date) Year() int           { return d.t.Year() }
func (d Date) Month() time.Month   { return d.t.Month() }
func (d Date) Day() int            { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) Time() time.Time     { return d.t }
func (d Date) IsZero() bool        { return d.t.IsZero() }

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

func (d Date) AddDays(n int) Date { return DateOf(d.t.AddDate(0, 0, n)) }

func (d Date) IsSunday() bool   { return d.Weekday() == time.Sunday }
func (d Date) IsSaturday() bool { return d.Weekday() == time.Saturday }

// MonthDay returns the "MM-DD" key used by the holiday table.
func (d Date) MonthDay() string { return d.t.Format("01-02") }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// =============================================================================
// TIME OF DAY - A clock reading without a date (HH:MM, 24-hour)
// =============================================================================

// TimeOfDay is a wall-clock reading from the biometric scanner. The export
// carries no AM/PM marker, so the classifier owns meridiem disambiguation.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts "H:MM" and "HH:MM:SS" forms, discarding seconds.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return TimeOfDay{}, fmt.Errorf("unrecognized time %q", s)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("unrecognized time %q", s)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("unrecognized time %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time %q out of range", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Minutes returns the reading as minutes since midnight.
func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }
