package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// =============================================================================
// FIXED SALARY
// =============================================================================

func TestFixedSalary_HalfMonthlyRegardlessOfHours(t *testing.T) {
	policy := FixedSalary{}
	monthly := dec("1200.00")

	few := policy.GrossPay(PeriodHours{Regular: dec("10")}, monthly)
	many := policy.GrossPay(PeriodHours{Regular: dec("120"), Overtime: dec("30")}, monthly)

	assert.True(t, few.Total.Equal(dec("600.00")), "got %s", few.Total)
	assert.True(t, many.Total.Equal(few.Total), "hours must not change fixed pay")
	assert.True(t, many.Overtime.IsZero())
}

// =============================================================================
// GUARANTEED MINIMUM
// =============================================================================

func TestGuaranteedMinimum_BelowCoveredHours_NoBonus(t *testing.T) {
	// Minimum 624/month at 3.25/hour covers 96 hours per quincena.
	policy := GuaranteedMinimum{HourlyRate: dec("3.25")}

	gross := policy.GrossPay(PeriodHours{Regular: dec("80")}, dec("624.00"))

	assert.True(t, gross.Regular.Equal(dec("312.00")), "base half minimum, got %s", gross.Regular)
	assert.True(t, gross.MinimumBonus.IsZero(), "no bonus below covered hours")
	assert.True(t, gross.Total.Equal(dec("312.00")))
}

func TestGuaranteedMinimum_ZeroHourlyRate_BaseOnly(t *testing.T) {
	// A roster row can carry the guaranteed-minimum flag with a blank
	// salary cell. The employee still gets the base half-minimum; nothing
	// else can be priced at a zero rate.
	policy := GuaranteedMinimum{HourlyRate: decimal.Zero}

	gross := policy.GrossPay(PeriodHours{Regular: dec("80"), Overtime: dec("5"), Premium: dec("8")}, dec("624.00"))

	assert.True(t, gross.Regular.Equal(dec("312.00")), "got %s", gross.Regular)
	assert.True(t, gross.MinimumBonus.IsZero())
	assert.True(t, gross.Overtime.IsZero())
	assert.True(t, gross.Premium.IsZero())
	assert.True(t, gross.Total.Equal(dec("312.00")))
}

func TestGuaranteedMinimum_BonusForExcessHours(t *testing.T) {
	policy := GuaranteedMinimum{HourlyRate: dec("3.25")}

	// 100 regular hours against 96 covered: 4 bonus hours.
	gross := policy.GrossPay(PeriodHours{Regular: dec("100")}, dec("624.00"))

	assert.True(t, gross.MinimumBonus.Equal(dec("13.00")), "4h * 3.25, got %s", gross.MinimumBonus)
	assert.True(t, gross.Total.Equal(dec("325.00")))
}

func TestGuaranteedMinimum_OvertimeExcludedFromBonusBase(t *testing.T) {
	policy := GuaranteedMinimum{HourlyRate: dec("3.25")}

	// 96 regular + 10 overtime: overtime is paid at 1.25x but contributes
	// nothing to the bonus base.
	gross := policy.GrossPay(PeriodHours{Regular: dec("96"), Overtime: dec("10")}, dec("624.00"))

	assert.True(t, gross.MinimumBonus.IsZero(), "overtime must not feed the bonus")
	assert.True(t, gross.Overtime.Equal(dec("40.63")), "10 * 3.25 * 1.25 rounded, got %s", gross.Overtime)
	assert.True(t, gross.Total.Equal(dec("352.63")))
}

func TestGuaranteedMinimum_PremiumHoursCountTowardBonus(t *testing.T) {
	policy := GuaranteedMinimum{HourlyRate: dec("3.25")}

	// 90 regular + 10 premium = 100 bonus-base hours; 4 above covered.
	gross := policy.GrossPay(PeriodHours{Regular: dec("90"), Premium: dec("10")}, dec("624.00"))

	assert.True(t, gross.MinimumBonus.Equal(dec("13.00")), "got %s", gross.MinimumBonus)
	assert.True(t, gross.Premium.Equal(dec("48.75")), "10 * 3.25 * 1.50, got %s", gross.Premium)
}

// =============================================================================
// HOURLY
// =============================================================================

func TestHourly_Surcharges(t *testing.T) {
	policy := Hourly{}

	gross := policy.GrossPay(PeriodHours{
		Regular:  dec("88"),
		Overtime: dec("6"),
		Premium:  dec("8"),
	}, dec("4.00"))

	assert.True(t, gross.Regular.Equal(dec("352.00")))
	assert.True(t, gross.Overtime.Equal(dec("30.00")), "6 * 4 * 1.25")
	assert.True(t, gross.Premium.Equal(dec("48.00")), "8 * 4 * 1.50")
	assert.True(t, gross.Total.Equal(dec("430.00")))
}

func TestHourly_ZeroHours(t *testing.T) {
	gross := Hourly{}.GrossPay(PeriodHours{}, dec("4.00"))
	assert.True(t, gross.Total.IsZero())
}

// =============================================================================
// PROFILES
// =============================================================================

func TestNewEmployeeProfile_PolicySelection(t *testing.T) {
	fixed, err := NewEmployeeProfile("e1", "Ana", true, false, dec("1200"), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "fixed", fixed.Policy.Name())

	guaranteed, err := NewEmployeeProfile("e2", "Luis", false, true, dec("624"), dec("3.25"))
	require.NoError(t, err)
	assert.Equal(t, "guaranteed-minimum", guaranteed.Policy.Name())

	hourly, err := NewEmployeeProfile("e3", "Marta", false, false, decimal.Zero, dec("4.00"))
	require.NoError(t, err)
	assert.Equal(t, "hourly", hourly.Policy.Name())
	assert.True(t, hourly.Rate.Equal(dec("4.00")), "hourly policy rate is the hourly rate")
}

func TestNewEmployeeProfile_ConflictingFlags(t *testing.T) {
	_, err := NewEmployeeProfile("e1", "Ana", true, true, dec("1200"), dec("3.25"))

	assert.ErrorIs(t, err, ErrConflictingPayFlags)
	var cErr *ConflictingPayFlagsError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, EmployeeID("e1"), cErr.EmployeeID)
}

// =============================================================================
// HOUR SPLITTING
// =============================================================================

func TestSplitHours(t *testing.T) {
	days := []DailyHours{
		{HoursWorked: dec("8"), OvertimeHours: dec("0")},
		{HoursWorked: dec("10"), OvertimeHours: dec("2")},
		{HoursWorked: dec("6"), PremiumDay: true, OvertimeHours: dec("0")},
	}

	h := SplitHours(days)

	assert.True(t, h.Regular.Equal(dec("16")), "got %s", h.Regular)
	assert.True(t, h.Overtime.Equal(dec("2")))
	assert.True(t, h.Premium.Equal(dec("6")))
	assert.True(t, h.Total().Equal(dec("24")))
}
