/*
Package payroll computes biweekly (quincenal) payroll from biometric
attendance punches and an employee roster.

PURPOSE:
  This package is the pure core of the engine: no file IO, no database.
  It turns raw attendance rows into classified daily hours, groups them into
  quincena periods, applies each employee's pay policy, and nets statutory
  and loan deductions into a payroll table.

PIPELINE:
  NormalizeAttendance -> ValidateAttendance -> Classify -> PeriodFor ->
  SplitHours -> PayPolicy.GrossPay -> deductions -> PayrollTable

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for all money; every monetary subtotal is
     rounded to 2 places at the point of computation, not only at output.
  2. Closed policies: the three pay policies are a sum type selected once
     per employee at roster load, so the mutual-exclusivity invariant is
     checked at construction.
  3. Hard stops: attendance validation failures abort the whole run with
     every violation reported; data-quality anomalies are warnings only.

SEE ALSO:
  - classify.go: Entry/exit pairing and overtime rules
  - policy.go: The pay-policy sum type
  - engine.go: Run orchestration
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// EmployeeID is the roster/biometric identifier: a cédula number in canonical
// integer-string form, or an alphanumeric passport number left untouched.
type EmployeeID string

// =============================================================================
// ATTENDANCE RECORDS
// =============================================================================

// Punch is one normalized biometric clock event. Punches are immutable and
// discarded after classification.
type Punch struct {
	EmployeeID EmployeeID
	Name       string
	Date       Date
	Time       TimeOfDay
}

// DailyHours is the classified result for one (employee, date) pair of
// punches. Created once per valid day, never mutated.
type DailyHours struct {
	EmployeeID    EmployeeID
	Name          string
	Date          Date
	HoursWorked   decimal.Decimal
	OvertimeHours decimal.Decimal
	PremiumDay    bool
}

// Warning is a non-fatal data-quality note surfaced to the caller, who is
// responsible for logging it. The run continues.
type Warning struct {
	EmployeeID EmployeeID
	Date       Date
	Message    string
}

// =============================================================================
// PAYROLL RESULT
// =============================================================================

// PayrollLine is one computed row per (employee, period). Immutable once
// produced; the xlsx writer and the API serialize it downstream.
type PayrollLine struct {
	EmployeeID EmployeeID
	Name       string
	Title      string
	PolicyName string
	HourlyRate decimal.Decimal

	Period  Period
	PayDate Date

	TotalHours    decimal.Decimal
	OvertimeHours decimal.Decimal
	PremiumHours  decimal.Decimal

	RegularPay      decimal.Decimal
	OvertimePay     decimal.Decimal
	PremiumPay      decimal.Decimal
	MinimumBonus    decimal.Decimal
	GrossPay        decimal.Decimal

	SocialInsurance      decimal.Decimal
	EducationalInsurance decimal.Decimal
	IncomeTax            decimal.Decimal
	LoanInstallment      decimal.Decimal
	TotalDeductions      decimal.Decimal

	NetPay decimal.Decimal

	BankName      string
	AccountNumber string
	AccountType   string
}

// PayrollTable is the core's output artifact for one period.
type PayrollTable struct {
	Period  Period
	PayDate Date
	Lines   []PayrollLine
}

// =============================================================================
// MONEY HELPERS
// =============================================================================

// round2 rounds a monetary subtotal to minor-currency precision. Applied at
// every subtotal boundary to match the legacy rounding cadence.
func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

var two = decimal.NewFromInt(2)
