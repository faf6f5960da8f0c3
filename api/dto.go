/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model from
  the external contract. Money crosses the wire as fixed 2-decimal strings
  so no client ever rounds a float.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/abcopa/payroll-engine/loans"
	"github.com/abcopa/payroll-engine/payroll"
)

// =============================================================================
// PAYROLL
// =============================================================================

// RunPayrollRequest triggers one quincena computation.
type RunPayrollRequest struct {
	// AttendancePath is the biometric export on the server's filesystem.
	AttendancePath string `json:"attendance_path"`
	// RosterPath is the employee master workbook.
	RosterPath string `json:"roster_path"`
	// ReferenceDate (YYYY-MM-DD) selects the quincena; empty means the
	// latest punch date in the file.
	ReferenceDate string `json:"reference_date,omitempty"`
	// OutputPath is where the payroll workbook is written; empty uses the
	// default pay-date name in the working directory.
	OutputPath string `json:"output_path,omitempty"`
}

// PayrollLineDTO is one employee row of the computed table.
type PayrollLineDTO struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Title      string `json:"title,omitempty"`
	Policy     string `json:"policy"`

	TotalHours    string `json:"total_hours"`
	OvertimeHours string `json:"overtime_hours"`
	PremiumHours  string `json:"premium_hours"`

	GrossPay             string `json:"gross_pay"`
	MinimumBonus         string `json:"minimum_bonus,omitempty"`
	SocialInsurance      string `json:"social_insurance"`
	EducationalInsurance string `json:"educational_insurance"`
	IncomeTax            string `json:"income_tax"`
	LoanInstallment      string `json:"loan_installment"`
	TotalDeductions      string `json:"total_deductions"`
	NetPay               string `json:"net_pay"`
}

// RunPayrollResponse is the computed table plus run diagnostics.
type RunPayrollResponse struct {
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	PayDate     string           `json:"pay_date"`
	OutputFile  string           `json:"output_file,omitempty"`
	Lines       []PayrollLineDTO `json:"lines"`
	Warnings    []WarningDTO     `json:"warnings"`
}

// WarningDTO is one non-fatal data-quality note from a run.
type WarningDTO struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Date       string `json:"date,omitempty"`
	Message    string `json:"message"`
}

// ViolationDTO is one attendance validation failure. Returned with 422 when
// a run is rejected.
type ViolationDTO struct {
	EmployeeID  string `json:"employee_id"`
	Name        string `json:"name,omitempty"`
	Date        string `json:"date"`
	RecordCount int    `json:"record_count"`
	Message     string `json:"message"`
}

// =============================================================================
// LOANS
// =============================================================================

// LoanDTO represents a loan in API responses.
type LoanDTO struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	StartDate    string `json:"start_date"`
	Principal    string `json:"principal"`
	Balance      string `json:"balance"`
	Installment  string `json:"installment"`
	Status       string `json:"status"`
	Note         string `json:"note,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// CreateLoanRequest opens a new loan. Amounts are 2-decimal strings.
type CreateLoanRequest struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	Principal    string `json:"principal"`
	Installment  string `json:"installment"`
	// StartDate (YYYY-MM-DD) is when repayment begins; empty means today.
	StartDate string `json:"start_date,omitempty"`
	Note      string `json:"note,omitempty"`
}

// SetLoanStatusRequest moves a loan between active and paused.
type SetLoanStatusRequest struct {
	Status string `json:"status"`
}

// CloseLoanRequest closes a loan. Forgive defaults to true: the remaining
// balance is written off.
type CloseLoanRequest struct {
	Forgive *bool `json:"forgive,omitempty"`
}

// RecordPaymentRequest posts a manual payment against a loan.
type RecordPaymentRequest struct {
	Amount string `json:"amount"`
	// Date (YYYY-MM-DD) is the posting date; empty means today.
	Date string `json:"date,omitempty"`
	Note string `json:"note,omitempty"`
}

// PaymentDTO is one ledger entry in API responses.
type PaymentDTO struct {
	ID            string `json:"id"`
	LoanID        string `json:"loan_id"`
	EmployeeID    string `json:"employee_id"`
	Amount        string `json:"amount"`
	Kind          string `json:"kind"`
	PaymentDate   string `json:"payment_date"`
	PeriodStart   string `json:"period_start,omitempty"`
	PeriodEnd     string `json:"period_end,omitempty"`
	BalanceBefore string `json:"balance_before"`
	BalanceAfter  string `json:"balance_after"`
	Note          string `json:"note,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// =============================================================================
// SHARED
// =============================================================================

// HolidayDTO is one premium-day calendar entry.
type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error      string         `json:"error"`
	Details    string         `json:"details,omitempty"`
	Violations []ViolationDTO `json:"violations,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toLoanDTO(l *loans.Loan) LoanDTO {
	return LoanDTO{
		ID:           l.ID,
		EmployeeID:   string(l.EmployeeID),
		EmployeeName: l.EmployeeName,
		StartDate:    l.StartDate.String(),
		Principal:    l.Principal.String(),
		Balance:      l.Balance.String(),
		Installment:  l.Installment.String(),
		Status:       string(l.Status),
		Note:         l.Note,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    l.UpdatedAt.Format(time.RFC3339),
	}
}

func toPaymentDTO(p *loans.Payment) PaymentDTO {
	dto := PaymentDTO{
		ID:            p.ID,
		LoanID:        p.LoanID,
		EmployeeID:    string(p.EmployeeID),
		Amount:        p.Amount.String(),
		Kind:          string(p.Kind),
		PaymentDate:   p.PaymentDate.String(),
		BalanceBefore: p.BalanceBefore.String(),
		BalanceAfter:  p.BalanceAfter.String(),
		Note:          p.Note,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
	if p.PeriodStart != nil {
		dto.PeriodStart = p.PeriodStart.String()
	}
	if p.PeriodEnd != nil {
		dto.PeriodEnd = p.PeriodEnd.String()
	}
	return dto
}

func toLineDTO(line payroll.PayrollLine) PayrollLineDTO {
	return PayrollLineDTO{
		EmployeeID: string(line.EmployeeID),
		Name:       line.Name,
		Title:      line.Title,
		Policy:     line.PolicyName,

		TotalHours:    line.TotalHours.StringFixed(2),
		OvertimeHours: line.OvertimeHours.StringFixed(2),
		PremiumHours:  line.PremiumHours.StringFixed(2),

		GrossPay:             line.GrossPay.StringFixed(2),
		MinimumBonus:         line.MinimumBonus.StringFixed(2),
		SocialInsurance:      line.SocialInsurance.StringFixed(2),
		EducationalInsurance: line.EducationalInsurance.StringFixed(2),
		IncomeTax:            line.IncomeTax.StringFixed(2),
		LoanInstallment:      line.LoanInstallment.StringFixed(2),
		TotalDeductions:      line.TotalDeductions.StringFixed(2),
		NetPay:               line.NetPay.StringFixed(2),
	}
}

func toViolationDTOs(violations []payroll.Violation) []ViolationDTO {
	dtos := make([]ViolationDTO, 0, len(violations))
	for _, v := range violations {
		dtos = append(dtos, ViolationDTO{
			EmployeeID:  string(v.EmployeeID),
			Name:        v.Name,
			Date:        v.Date.String(),
			RecordCount: v.RecordCount,
			Message:     v.Message,
		})
	}
	return dtos
}

func toWarningDTOs(warnings []payroll.Warning) []WarningDTO {
	dtos := make([]WarningDTO, 0, len(warnings))
	for _, w := range warnings {
		dtos = append(dtos, WarningDTO{
			EmployeeID: string(w.EmployeeID),
			Date:       w.Date.String(),
			Message:    w.Message,
		})
	}
	return dtos
}
