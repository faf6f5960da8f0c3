/*
compensation.go - Period hour aggregation

PURPOSE:
  Folds the classifier's per-day records into the PeriodHours a pay policy
  prices. The split rule lives here: on a premium day every worked hour is
  premium, on a normal day worked hours minus overtime are regular.

SEE ALSO:
  - classify.go: Produces the DailyHours consumed here
  - policy.go: Prices the resulting PeriodHours
*/
package payroll

// SplitHours aggregates one employee's days into the period totals.
func SplitHours(days []DailyHours) PeriodHours {
	var h PeriodHours
	for _, d := range days {
		if d.PremiumDay {
			h.Premium = h.Premium.Add(d.HoursWorked)
			continue
		}
		h.Regular = h.Regular.Add(d.HoursWorked.Sub(d.OvertimeHours))
		h.Overtime = h.Overtime.Add(d.OvertimeHours)
	}
	return h
}
