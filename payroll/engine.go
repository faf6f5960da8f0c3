/*
engine.go - Payroll run pipeline

PURPOSE:
  Drives one payroll run end to end: normalize the attendance export,
  validate punch pairs (a single malformed day stops the whole run),
  restrict to the target quincena, classify daily hours, aggregate per
  employee, price under each employee's policy, withhold deductions, and
  emit the final table sorted by employee name.

  The run is all-or-nothing on validation: paying anyone from a file with a
  known-bad day risks paying everyone wrong, so violations abort before any
  amounts are computed.

SEE ALSO:
  - attendance.go, validate.go, classify.go: The pipeline stages
  - loans: Optional LoanDeductor wired in by the caller
*/
package payroll

import (
	"context"
	"fmt"
	"sort"
)

// Engine runs payroll for a fixed roster. Loans is optional; nil disables
// loan withholding.
type Engine struct {
	Roster map[EmployeeID]*EmployeeProfile
	Loans  LoanDeductor
}

// RunResult carries the payroll table plus every non-fatal warning raised
// along the way.
type RunResult struct {
	Table    *PayrollTable
	Warnings []Warning
}

// ComputePayroll executes one run over raw spreadsheet rows. refDate selects
// the quincena; nil means the latest punch date in the file.
func (e *Engine) ComputePayroll(ctx context.Context, rows [][]string, refDate *Date) (*RunResult, error) {
	punches, err := NormalizeAttendance(rows)
	if err != nil {
		return nil, err
	}

	if violations := ValidateAttendance(punches); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	ref, err := resolveReference(punches, refDate)
	if err != nil {
		return nil, err
	}
	period := PeriodFor(ref)

	var inPeriod []Punch
	for _, p := range punches {
		if period.Contains(p.Date) {
			inPeriod = append(inPeriod, p)
		}
	}
	if len(inPeriod) == 0 {
		return nil, &NoPeriodDataError{Period: period}
	}

	days, warnings, err := Classify(inPeriod)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[EmployeeID][]DailyHours)
	for _, d := range days {
		byEmployee[d.EmployeeID] = append(byEmployee[d.EmployeeID], d)
	}

	payDate := period.PayDate()
	table := &PayrollTable{Period: period, PayDate: payDate}
	for id, empDays := range byEmployee {
		profile, ok := e.Roster[id]
		if !ok {
			warnings = append(warnings, Warning{
				EmployeeID: id,
				Date:       payDate,
				Message:    fmt.Sprintf("employee %s (%s) has attendance but no roster entry; skipped", empDays[0].Name, id),
			})
			continue
		}

		line, err := e.buildLine(ctx, profile, empDays, period, payDate)
		if err != nil {
			return nil, err
		}
		table.Lines = append(table.Lines, line)
	}

	sort.Slice(table.Lines, func(i, j int) bool {
		return table.Lines[i].Name < table.Lines[j].Name
	})

	return &RunResult{Table: table, Warnings: warnings}, nil
}

// buildLine prices one employee's period and applies withholdings.
func (e *Engine) buildLine(ctx context.Context, profile *EmployeeProfile, days []DailyHours, period Period, payDate Date) (PayrollLine, error) {
	hours := SplitHours(days)
	gross := profile.Policy.GrossPay(hours, profile.Rate)

	deductions := StatutoryDeductions(gross.Total, profile)

	if e.Loans != nil {
		budget := LoanBudget(gross.Total, deductions)
		installment, err := e.Loans.DeductForPayroll(ctx, profile.ID, period, payDate, budget)
		if err != nil {
			return PayrollLine{}, fmt.Errorf("loan deduction for employee %s: %w", profile.ID, err)
		}
		deductions.LoanInstallment = installment
	}
	deductions.Total = round2(deductions.SocialInsurance.
		Add(deductions.EducationalInsurance).
		Add(deductions.IncomeTax).
		Add(deductions.LoanInstallment))

	return PayrollLine{
		EmployeeID: profile.ID,
		Name:       profile.Name,
		Title:      profile.Title,
		PolicyName: profile.Policy.Name(),
		HourlyRate: profile.HourlyRate,

		Period:  period,
		PayDate: payDate,

		TotalHours:    hours.Total(),
		OvertimeHours: hours.Overtime,
		PremiumHours:  hours.Premium,

		RegularPay:   gross.Regular,
		OvertimePay:  gross.Overtime,
		PremiumPay:   gross.Premium,
		MinimumBonus: gross.MinimumBonus,
		GrossPay:     gross.Total,

		SocialInsurance:      deductions.SocialInsurance,
		EducationalInsurance: deductions.EducationalInsurance,
		IncomeTax:            deductions.IncomeTax,
		LoanInstallment:      deductions.LoanInstallment,
		TotalDeductions:      deductions.Total,

		NetPay: round2(gross.Total.Sub(deductions.Total)),

		BankName:      profile.BankName,
		AccountNumber: profile.AccountNumber,
		AccountType:   profile.AccountType,
	}, nil
}

// resolveReference picks the quincena anchor: the explicit date if given,
// otherwise the latest punch date in the file.
func resolveReference(punches []Punch, refDate *Date) (Date, error) {
	if refDate != nil {
		return *refDate, nil
	}
	var latest Date
	for _, p := range punches {
		if latest.IsZero() || p.Date.After(latest) {
			latest = p.Date
		}
	}
	if latest.IsZero() {
		return Date{}, &NoPeriodDataError{}
	}
	return latest, nil
}
