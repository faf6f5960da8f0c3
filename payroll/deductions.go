/*
deductions.go - Statutory and loan deductions

PURPOSE:
  Applies the withholdings that stand between gross and net pay. Statutory
  deductions hit contract workers only: social insurance at 9.75% of gross,
  educational insurance at 1.25% of gross, and the flat income tax from the
  roster. Loan installments come last and are capped so net pay never goes
  negative: the ledger may deduct at most gross minus statutory.

SEE ALSO:
  - engine.go: Builds payroll lines from GrossPay plus Deductions
  - loans: Implements LoanDeductor against the persistent ledger
*/
package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// Statutory withholding rates for contract workers.
var (
	socialInsuranceRate      = decimal.RequireFromString("0.0975")
	educationalInsuranceRate = decimal.RequireFromString("0.0125")
)

// LoanDeductor withholds loan installments for one employee on one pay date.
// budget is the most that may be deducted; implementations return the amount
// actually withheld, never exceeding budget. A nil deductor means no loan
// program.
type LoanDeductor interface {
	DeductForPayroll(ctx context.Context, employee EmployeeID, period Period, payDate Date, budget decimal.Decimal) (decimal.Decimal, error)
}

// Deductions is the itemized withholding side of one payroll line.
type Deductions struct {
	SocialInsurance      decimal.Decimal
	EducationalInsurance decimal.Decimal
	IncomeTax            decimal.Decimal
	LoanInstallment      decimal.Decimal
	Total                decimal.Decimal
}

// StatutoryDeductions computes the mandatory withholdings on a gross amount.
// Non-contract workers owe nothing here.
func StatutoryDeductions(gross decimal.Decimal, profile *EmployeeProfile) Deductions {
	if !profile.ContractWorker {
		return Deductions{}
	}
	d := Deductions{
		SocialInsurance:      round2(gross.Mul(socialInsuranceRate)),
		EducationalInsurance: round2(gross.Mul(educationalInsuranceRate)),
		IncomeTax:            round2(profile.IncomeTax),
	}
	d.Total = d.SocialInsurance.Add(d.EducationalInsurance).Add(d.IncomeTax)
	return d
}

// LoanBudget is the ceiling on loan withholdings: whatever gross pay remains
// after statutory deductions, floored at zero.
func LoanBudget(gross decimal.Decimal, statutory Deductions) decimal.Decimal {
	budget := gross.Sub(statutory.Total)
	if budget.IsNegative() {
		return decimal.Zero
	}
	return budget
}
