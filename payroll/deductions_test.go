package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatutoryDeductions_ContractWorker(t *testing.T) {
	profile := &EmployeeProfile{
		ID:             "e1",
		ContractWorker: true,
		IncomeTax:      dec("10.00"),
	}

	d := StatutoryDeductions(dec("400.00"), profile)

	assert.True(t, d.SocialInsurance.Equal(dec("39.00")), "9.75%% of 400, got %s", d.SocialInsurance)
	assert.True(t, d.EducationalInsurance.Equal(dec("5.00")), "1.25%% of 400, got %s", d.EducationalInsurance)
	assert.True(t, d.IncomeTax.Equal(dec("10.00")))
	assert.True(t, d.Total.Equal(dec("54.00")))
}

func TestStatutoryDeductions_NonContractWorker_Nothing(t *testing.T) {
	profile := &EmployeeProfile{ID: "e1", IncomeTax: dec("10.00")}

	d := StatutoryDeductions(dec("400.00"), profile)

	assert.True(t, d.Total.IsZero())
	assert.True(t, d.IncomeTax.IsZero(), "flat tax applies to contract workers only")
}

func TestStatutoryDeductions_Rounding(t *testing.T) {
	profile := &EmployeeProfile{ID: "e1", ContractWorker: true}

	// 333.33 * 0.0975 = 32.499675 -> 32.50
	d := StatutoryDeductions(dec("333.33"), profile)
	assert.True(t, d.SocialInsurance.Equal(dec("32.50")), "got %s", d.SocialInsurance)
	assert.True(t, d.EducationalInsurance.Equal(dec("4.17")), "got %s", d.EducationalInsurance)
}

func TestLoanBudget(t *testing.T) {
	statutory := Deductions{Total: dec("54.00")}

	assert.True(t, LoanBudget(dec("400.00"), statutory).Equal(dec("346.00")))
	assert.True(t, LoanBudget(dec("54.00"), statutory).IsZero())
	assert.True(t, LoanBudget(dec("40.00"), statutory).IsZero(), "budget never goes negative")
}

func TestLoanBudget_NoStatutory(t *testing.T) {
	assert.True(t, LoanBudget(dec("400.00"), Deductions{}).Equal(dec("400.00")))
}
