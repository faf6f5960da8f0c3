/*
errors.go - Loan ledger error types

PURPOSE:
  Sentinels for errors.Is dispatch plus structured types carrying the
  offending identifiers. The duplicate-payment sentinel doubles as the
  unwrap target for the store's unique-constraint translation.
*/
package loans

import (
	"errors"
	"fmt"

	"github.com/abcopa/payroll-engine/payroll"
)

var (
	// ErrLoanNotFound is returned when a loan ID resolves to nothing.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrInvalidLoan is returned when a loan's amounts fail validation.
	ErrInvalidLoan = errors.New("invalid loan")

	// ErrLoanClosed is returned on any mutation of a closed loan. Closed
	// is terminal.
	ErrLoanClosed = errors.New("loan is closed")

	// ErrPaymentExceedsBalance is returned when a manual payment is larger
	// than the remaining balance.
	ErrPaymentExceedsBalance = errors.New("payment exceeds remaining balance")

	// ErrDuplicatePayrollPayment is returned when a payroll payment already
	// exists for the (loan, pay date) pair.
	ErrDuplicatePayrollPayment = errors.New("payroll payment already recorded for this pay date")
)

// LoanNotFoundError carries the missing ID.
type LoanNotFoundError struct {
	LoanID string
}

func (e *LoanNotFoundError) Error() string {
	return fmt.Sprintf("loan %q not found", e.LoanID)
}

func (e *LoanNotFoundError) Unwrap() error { return ErrLoanNotFound }

// InvalidLoanError explains which amount rule a new loan broke.
type InvalidLoanError struct {
	EmployeeID payroll.EmployeeID
	Reason     string
}

func (e *InvalidLoanError) Error() string {
	return fmt.Sprintf("invalid loan for employee %s: %s", e.EmployeeID, e.Reason)
}

func (e *InvalidLoanError) Unwrap() error { return ErrInvalidLoan }

// DuplicatePayrollPaymentError identifies the pay date that was already
// charged.
type DuplicatePayrollPaymentError struct {
	LoanID  string
	PayDate payroll.Date
}

func (e *DuplicatePayrollPaymentError) Error() string {
	return fmt.Sprintf("loan %s already has a payroll payment on %s", e.LoanID, e.PayDate)
}

func (e *DuplicatePayrollPaymentError) Unwrap() error { return ErrDuplicatePayrollPayment }
