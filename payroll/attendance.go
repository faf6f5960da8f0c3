/*
attendance.go - Biometric export normalizer

PURPOSE:
  Turns the raw rows of a biometric attendance export into a canonical
  stream of Punch records. The scanner's export is messy on purpose:
  metadata rows precede the header, IDs arrive as float artifacts
  (170660927.0), times arrive as HH:MM:SS or HH:MM, and some rows are
  simply garbled.

TOLERANCE CONTRACT:
  - The header row is located by scanning for the known first-column
    marker, so leading metadata rows are fine.
  - A missing required column is a fatal MissingColumnsError naming every
    absent column.
  - A row whose date, time, id, or name fails to parse is dropped, not
    errored. Sparse garbage is normal for these exports; structural
    problems are not.

Output order is not significant - downstream grouping re-sorts by (id, date).
*/
package payroll

import (
	"strconv"
	"strings"
)

// headerMarker identifies the export's header row by its first column.
const headerMarker = "First Name"

// Required column headers of the biometric export.
const (
	colFirstName = "First Name"
	colLastName  = "Last Name"
	colID        = "ID"
	colDate      = "Date"
	colTime      = "Time"
)

// NormalizeAttendance parses raw export rows into punches.
func NormalizeAttendance(rows [][]string) ([]Punch, error) {
	headerIdx := -1
	for i, row := range rows {
		if len(row) > 0 && strings.TrimSpace(row[0]) == headerMarker {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrHeaderNotFound
	}

	cols := make(map[string]int)
	for i, name := range rows[headerIdx] {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, required := range []string{colFirstName, colLastName, colID, colDate, colTime} {
		if _, ok := cols[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	var punches []Punch
	for _, row := range rows[headerIdx+1:] {
		name := strings.TrimSpace(strings.TrimSpace(cell(row, cols[colFirstName])) + " " + strings.TrimSpace(cell(row, cols[colLastName])))
		id := NormalizeID(cell(row, cols[colID]))
		if name == "" || id == "" {
			continue
		}

		date, err := ParseDate(cell(row, cols[colDate]))
		if err != nil {
			continue
		}
		tod, err := ParseTimeOfDay(cell(row, cols[colTime]))
		if err != nil {
			continue
		}

		punches = append(punches, Punch{
			EmployeeID: EmployeeID(id),
			Name:       name,
			Date:       date,
			Time:       tod,
		})
	}

	return punches, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// NormalizeID coerces numeric-looking identifiers to canonical integer-string
// form. Spreadsheet round-trips turn cédula numbers into float artifacts like
// "170660927.0"; alphanumeric passports pass through untouched.
func NormalizeID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, ".") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return s
	}
	return strconv.FormatInt(int64(f), 10)
}
