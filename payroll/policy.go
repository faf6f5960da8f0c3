/*
policy.go - Pay policies and employee profiles

PURPOSE:
  Closed set of compensation schemes. Every employee is paid under exactly
  one of three policies, picked from the roster flags:

  - FixedSalary: half the monthly salary per quincena, regardless of hours.
  - GuaranteedMinimum: half the guaranteed monthly minimum, plus a bonus for
    hours worked beyond the hours covered by that minimum, plus overtime at
    1.25x and premium-day hours at 1.50x.
  - Hourly: straight rate for regular hours, 1.25x overtime, 1.50x premium.

  The bonus under GuaranteedMinimum counts regular and premium hours only;
  overtime never double-dips into the bonus base.

SEE ALSO:
  - compensation.go: Builds the PeriodHours a policy consumes
  - roster: Maps spreadsheet flags to NewEmployeeProfile
*/
package payroll

import "github.com/shopspring/decimal"

// Pay multipliers.
var (
	overtimeFactor = decimal.RequireFromString("1.25")
	premiumFactor  = decimal.RequireFromString("1.50")
)

// PeriodHours is one employee's hour totals over a pay period, already split
// by the classifier.
type PeriodHours struct {
	Regular  decimal.Decimal
	Overtime decimal.Decimal
	Premium  decimal.Decimal
}

// Total returns all hours worked in the period.
func (h PeriodHours) Total() decimal.Decimal {
	return h.Regular.Add(h.Overtime).Add(h.Premium)
}

// GrossPay is the itemized result of applying a policy to the period hours.
type GrossPay struct {
	Regular      decimal.Decimal
	Overtime     decimal.Decimal
	Premium      decimal.Decimal
	MinimumBonus decimal.Decimal
	Total        decimal.Decimal
}

// PayPolicy computes gross pay for one quincena. Implementations are pure;
// the same inputs always produce the same result.
type PayPolicy interface {
	// Name identifies the policy in output tables and logs.
	Name() string

	// GrossPay applies the scheme to the period's hours at the given rate.
	// The rate's meaning depends on the policy: monthly salary for
	// FixedSalary, monthly minimum for GuaranteedMinimum, hourly rate for
	// Hourly.
	GrossPay(hours PeriodHours, rate decimal.Decimal) GrossPay
}

// ============================================================
// Fixed salary
// ============================================================

// FixedSalary pays half the monthly salary per quincena. Hours are recorded
// for the table but never priced.
type FixedSalary struct{}

func (FixedSalary) Name() string { return "fixed" }

func (FixedSalary) GrossPay(_ PeriodHours, monthly decimal.Decimal) GrossPay {
	half := round2(monthly.Div(two))
	return GrossPay{Regular: half, Total: half}
}

// ============================================================
// Guaranteed minimum
// ============================================================

// GuaranteedMinimum pays half the guaranteed monthly minimum, then a bonus
// for hours beyond what the minimum covers, plus overtime and premium
// surcharges on top.
type GuaranteedMinimum struct {
	// HourlyRate prices the bonus, overtime, and premium hours. The
	// guaranteed minimum itself is the policy rate passed to GrossPay.
	HourlyRate decimal.Decimal
}

func (GuaranteedMinimum) Name() string { return "guaranteed-minimum" }

func (p GuaranteedMinimum) GrossPay(hours PeriodHours, monthlyMinimum decimal.Decimal) GrossPay {
	base := round2(monthlyMinimum.Div(two))

	// A zero hourly rate prices nothing: the employee gets the base
	// half-minimum and no bonus or surcharges.
	if p.HourlyRate.IsZero() {
		return GrossPay{Regular: base, Total: base}
	}

	// Hours already covered by the guaranteed minimum, per quincena.
	coveredHours := monthlyMinimum.Div(p.HourlyRate).Div(two)

	// Bonus base: regular plus premium hours. Overtime is priced separately
	// and never feeds the bonus.
	bonusHours := hours.Regular.Add(hours.Premium).Sub(coveredHours)
	bonus := decimal.Zero
	if bonusHours.IsPositive() {
		bonus = round2(bonusHours.Mul(p.HourlyRate))
	}

	overtime := round2(hours.Overtime.Mul(p.HourlyRate).Mul(overtimeFactor))
	premium := round2(hours.Premium.Mul(p.HourlyRate).Mul(premiumFactor))

	return GrossPay{
		Regular:      base,
		Overtime:     overtime,
		Premium:      premium,
		MinimumBonus: bonus,
		Total:        round2(base.Add(bonus).Add(overtime).Add(premium)),
	}
}

// ============================================================
// Hourly
// ============================================================

// Hourly pays every classified hour at the roster rate with overtime and
// premium surcharges.
type Hourly struct{}

func (Hourly) Name() string { return "hourly" }

func (Hourly) GrossPay(hours PeriodHours, rate decimal.Decimal) GrossPay {
	regular := round2(hours.Regular.Mul(rate))
	overtime := round2(hours.Overtime.Mul(rate).Mul(overtimeFactor))
	premium := round2(hours.Premium.Mul(rate).Mul(premiumFactor))
	return GrossPay{
		Regular:  regular,
		Overtime: overtime,
		Premium:  premium,
		Total:    round2(regular.Add(overtime).Add(premium)),
	}
}

// ============================================================
// Employee profiles
// ============================================================

// EmployeeProfile is one roster row resolved into a payable configuration.
type EmployeeProfile struct {
	ID    EmployeeID
	Name  string
	Title string

	Policy PayPolicy
	// Rate is the policy's pricing input: monthly salary, guaranteed
	// monthly minimum, or hourly rate.
	Rate decimal.Decimal
	// HourlyRate is always the per-hour rate, used by deduction-free
	// reporting even under FixedSalary.
	HourlyRate decimal.Decimal

	// ContractWorker employees are subject to statutory withholdings.
	ContractWorker bool
	// IncomeTax is a flat per-quincena withholding for contract workers.
	IncomeTax decimal.Decimal

	BankName      string
	AccountNumber string
	AccountType   string
}

// NewEmployeeProfile resolves the roster's pay flags into a policy. The two
// flags are mutually exclusive; both set is a roster error. hourlyRate prices
// surcharge hours and, when neither flag is set, the regular hours too.
func NewEmployeeProfile(id EmployeeID, name string, fixedSalary, guaranteedMinimum bool, rate, hourlyRate decimal.Decimal) (*EmployeeProfile, error) {
	if fixedSalary && guaranteedMinimum {
		return nil, &ConflictingPayFlagsError{EmployeeID: id, Name: name}
	}

	p := &EmployeeProfile{ID: id, Name: name, Rate: rate, HourlyRate: hourlyRate}
	switch {
	case fixedSalary:
		p.Policy = FixedSalary{}
	case guaranteedMinimum:
		p.Policy = GuaranteedMinimum{HourlyRate: hourlyRate}
	default:
		p.Policy = Hourly{}
		p.Rate = hourlyRate
	}
	return p, nil
}
