/*
errors.go - Centralized error types for the payroll core

ERROR CATEGORIES:
  1. Input errors - unreadable exports, missing required columns (fatal,
     reported before any computation)
  2. Validation errors - punch-count violations (fatal but batched: every
     violating employee/date is reported together)
  3. Business-rule errors - conflicting roster flags (raised at construction)
  4. Period errors - no attendance data for the requested quincena

Data-quality anomalies (implausible daily hours) are NOT errors; they are
Warning values the caller logs while the run continues.

USAGE:
  Callers match with errors.Is/errors.As:

    var vErr *payroll.ValidationError
    if errors.As(err, &vErr) {
        for _, v := range vErr.Violations { ... }
    }
*/
package payroll

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrHeaderNotFound is returned when the attendance export contains no
	// recognizable header row.
	ErrHeaderNotFound = errors.New("attendance header row not found")

	// ErrMissingColumns is returned when a required column is absent.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrInvalidAttendance is returned when any (employee, date) group does
	// not hold exactly two punches. The run must halt.
	ErrInvalidAttendance = errors.New("attendance validation failed")

	// ErrNoPeriodData is returned when filtering to the target quincena
	// leaves no classified days.
	ErrNoPeriodData = errors.New("no attendance data for the requested period")

	// ErrConflictingPayFlags is returned when a roster row marks an employee
	// both fixed-salary and guaranteed-minimum.
	ErrConflictingPayFlags = errors.New("fixed-salary and guaranteed-minimum are mutually exclusive")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MissingColumnsError names the absent columns of a tabular input.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return ErrMissingColumns }

// Violation is one attendance group with a punch count other than two.
type Violation struct {
	EmployeeID  EmployeeID
	Name        string
	Date        Date
	RecordCount int
	Message     string
}

// ValidationError aggregates every violation found in one pass. Entry/exit
// pairing is undefined for 1 or 3+ punches, so the whole run stops.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("attendance validation failed: %d violation(s)", len(e.Violations))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidAttendance }

// NoPeriodDataError reports which quincena came up empty.
type NoPeriodDataError struct {
	Period Period
}

func (e *NoPeriodDataError) Error() string {
	return fmt.Sprintf("no attendance data for period %s", e.Period)
}

func (e *NoPeriodDataError) Unwrap() error { return ErrNoPeriodData }

// ConflictingPayFlagsError names the employee with an impossible flag pair.
type ConflictingPayFlagsError struct {
	EmployeeID EmployeeID
	Name       string
}

func (e *ConflictingPayFlagsError) Error() string {
	return fmt.Sprintf("employee %s (ID %s) cannot be both fixed-salary and guaranteed-minimum",
		e.Name, e.EmployeeID)
}

func (e *ConflictingPayFlagsError) Unwrap() error { return ErrConflictingPayFlags }
