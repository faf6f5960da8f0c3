/*
classify.go - Daily hours classifier

PURPOSE:
  Pairs the two daily punches into entry/exit, computes the worked duration,
  and splits it into regular vs. overtime, tagging premium days. This file
  encodes the real shift conventions of the workforce and must not be
  "simplified":

  1. The export has no AM/PM marker. Two morning-looking readings at least
     two hours apart mean the smaller one is actually the afternoon exit
     ("clocked 7 and 3" is 7:00-15:00), so 12 hours are added to it.
  2. Arriving early, or up to five minutes late against the 07:00 shift
     start, costs nothing: the entry snaps to exactly 07:00. Arriving later
     than 07:05 keeps the real timestamp - lateness is not absorbed.
  3. Overtime starts at 15:00 on weekdays and 12:00 on Saturdays. An exit
     within ten minutes past the threshold is treated as exiting exactly at
     the threshold; beyond that, the excess is overtime.
  4. An exit earlier than its entry rolled over midnight (night shift).
  5. Premium days (Sundays/holidays) never accrue overtime: every hour is
     premium instead.

SEE ALSO:
  - calendar.go: IsPremiumDay
  - compensation.go: Consumes the regular/overtime/premium split
*/
package payroll

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// Shift start and the late-arrival grace, in minutes since midnight.
	shiftStartMinutes = 7 * 60
	entryGraceMinutes = 5

	// Daily overtime thresholds, in minutes since midnight.
	weekdayThresholdMinutes  = 15 * 60
	saturdayThresholdMinutes = 12 * 60

	// Exits within this many minutes past the threshold accrue no overtime.
	exitToleranceMinutes = 10

	minutesPerDay = 24 * 60
)

// Plausible bounds for one day's worked hours; outside them a warning is
// emitted and the record kept.
const (
	minPlausibleHours = 1
	maxPlausibleHours = 16
)

var sixty = decimal.NewFromInt(60)

// Classify turns validated punches into one DailyHours per (employee, date).
// Callers must run ValidateAttendance first; a group without exactly two
// punches is rejected here as a defense, not reported nicely.
func Classify(punches []Punch) ([]DailyHours, []Warning, error) {
	type dayKey struct {
		id   EmployeeID
		date Date
	}

	groups := make(map[dayKey][]Punch)
	for _, p := range punches {
		k := dayKey{id: p.EmployeeID, date: p.Date}
		groups[k] = append(groups[k], p)
	}

	var days []DailyHours
	var warnings []Warning
	for k, group := range groups {
		if len(group) != 2 {
			return nil, nil, fmt.Errorf("%w: employee %s on %s has %d punches",
				ErrInvalidAttendance, k.id, k.date, len(group))
		}

		record, warn := classifyDay(group[0], group[1])
		days = append(days, record)
		if warn != nil {
			warnings = append(warnings, *warn)
		}
	}

	sort.Slice(days, func(i, j int) bool {
		if days[i].EmployeeID != days[j].EmployeeID {
			return days[i].EmployeeID < days[j].EmployeeID
		}
		return days[i].Date.Before(days[j].Date)
	})

	return days, warnings, nil
}

// classifyDay applies the full entry/exit algorithm to one day's two punches.
func classifyDay(a, b Punch) (DailyHours, *Warning) {
	date := a.Date
	entry, exit := pairPunches(a.Time, b.Time)

	// Early arrival and the 5-minute grace window both snap to shift start.
	entryMin := entry.Minutes()
	if entryMin <= shiftStartMinutes+entryGraceMinutes {
		entryMin = shiftStartMinutes
	}

	threshold := weekdayThresholdMinutes
	if date.IsSaturday() {
		threshold = saturdayThresholdMinutes
	}

	// Exit tolerance: up to 10 minutes past the threshold counts as exiting
	// exactly at the threshold. The adjusted exit is used for worked hours
	// too, not only for overtime.
	exitMin := exit.Minutes()
	if exitMin >= threshold && exitMin <= threshold+exitToleranceMinutes {
		exitMin = threshold
	}

	// Night shift: exit rolls over to the next calendar day.
	if exitMin < entryMin {
		exitMin += minutesPerDay
	}

	workedMin := exitMin - entryMin

	overtimeMin := 0
	premium := IsPremiumDay(date)
	if !premium && exitMin > threshold {
		if entryMin > threshold+exitToleranceMinutes {
			// Entered after the threshold's own grace: the whole shift is
			// overtime.
			overtimeMin = workedMin
		} else {
			overtimeMin = exitMin - threshold
		}
	}

	record := DailyHours{
		EmployeeID:    a.EmployeeID,
		Name:          a.Name,
		Date:          date,
		HoursWorked:   decimal.NewFromInt(int64(workedMin)).Div(sixty),
		OvertimeHours: decimal.NewFromInt(int64(overtimeMin)).Div(sixty),
		PremiumDay:    premium,
	}

	hours := float64(workedMin) / 60
	if hours < minPlausibleHours || hours > maxPlausibleHours {
		return record, &Warning{
			EmployeeID: a.EmployeeID,
			Date:       date,
			Message:    fmt.Sprintf("implausible daily hours for %s on %s: %.2f", a.Name, date, hours),
		}
	}
	return record, nil
}

// pairPunches resolves which punch is the entry and which the exit, including
// the missing-meridiem recovery.
func pairPunches(t1, t2 TimeOfDay) (entry, exit TimeOfDay) {
	if t1.Minutes() > t2.Minutes() {
		t1, t2 = t2, t1
	}

	// Both readings look like mornings but are far apart: the later one is
	// the AM entry and the earlier one is a PM exit missing its 12 hours.
	// "Clocked 3 and 7" means 07:00 in, 15:00 out.
	if t1.Hour < 12 && t2.Hour < 12 && t2.Hour-t1.Hour >= 2 {
		return t2, TimeOfDay{Hour: t1.Hour + 12, Minute: t1.Minute}
	}

	// Either already-resolved 24-hour form (one AM, one PM), or both
	// afternoon readings, or too close to disambiguate: sorted order stands.
	return t1, t2
}
