package payroll

import (
	"fmt"
	"sort"
)

// =============================================================================
// ATTENDANCE VALIDATOR - Exactly two punches per employee per day
// =============================================================================

// ValidateAttendance groups punches by (employee, date) and reports every
// group whose size is not exactly two. An empty result means "proceed"; a
// non-empty result is a hard stop for the whole run - a day with 1 or 3+
// punches has no defined entry/exit pairing and cannot be corrected here.
func ValidateAttendance(punches []Punch) []Violation {
	type dayKey struct {
		id   EmployeeID
		date Date
	}

	counts := make(map[dayKey]int)
	names := make(map[dayKey]string)
	for _, p := range punches {
		k := dayKey{id: p.EmployeeID, date: p.Date}
		counts[k]++
		names[k] = p.Name
	}

	var violations []Violation
	for k, n := range counts {
		if n == 2 {
			continue
		}
		violations = append(violations, Violation{
			EmployeeID:  k.id,
			Name:        names[k],
			Date:        k.date,
			RecordCount: n,
			Message: fmt.Sprintf("employee %s (ID %s) has %d punch(es) on %s; exactly 2 (entry and exit) are required",
				names[k], k.id, n, k.date),
		})
	}

	// Deterministic report order for display and tests.
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].EmployeeID != violations[j].EmployeeID {
			return violations[i].EmployeeID < violations[j].EmployeeID
		}
		return violations[i].Date.Before(violations[j].Date)
	})

	return violations
}
