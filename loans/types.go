/*
Package loans maintains the persistent employee loan ledger and feeds
payroll its installment withholdings.

PURPOSE:
  Loans out-live any single payroll run, so they live in their own store
  rather than in the run pipeline. The ledger is append-only on payments:
  a loan's balance is adjusted only by recording a payment, and payroll
  payments are idempotent per (loan, pay date) so re-running a period can
  never double-charge an employee.

SEE ALSO:
  - ledger.go: The operations and their invariants
  - store/sqlite: The persistence backend
*/
package loans

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abcopa/payroll-engine/payroll"
)

// =============================================================================
// MONEY
// =============================================================================

// Cents is a money amount in integer minor units. Loan arithmetic is pure
// addition and subtraction, so integers keep the store exact without
// decimal columns.
type Cents int64

// CentsFromDecimal converts a 2-decimal amount to minor units, rounding to
// the nearest cent.
func CentsFromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Round(2).Shift(2).IntPart())
}

// Decimal converts back to a 2-decimal amount.
func (c Cents) Decimal() decimal.Decimal { return decimal.New(int64(c), -2) }

func (c Cents) String() string { return c.Decimal().StringFixed(2) }

// =============================================================================
// LOAN
// =============================================================================

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	// StatusActive loans are deducted from payroll.
	StatusActive LoanStatus = "active"
	// StatusPaused loans keep their balance but skip payroll deduction.
	StatusPaused LoanStatus = "paused"
	// StatusClosed is terminal: balance reached zero or the remainder was
	// forgiven. Closed loans never reopen.
	StatusClosed LoanStatus = "closed"
)

// Loan is one employee debt tracked by the ledger.
type Loan struct {
	ID           string
	EmployeeID   payroll.EmployeeID
	EmployeeName string

	// StartDate is when repayment begins. Payroll runs with an earlier pay
	// date leave the loan untouched, so a loan granted mid-quincena waits
	// for the next one.
	StartDate payroll.Date

	// Principal is the original amount lent; it never changes.
	Principal Cents
	// Balance is what remains owed. Only payments move it, and it never
	// goes negative.
	Balance Cents
	// Installment is the per-quincena deduction target. The actual
	// deduction may be smaller when the balance or the pay budget is.
	Installment Cents

	Status    LoanStatus
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// PAYMENT
// =============================================================================

// PaymentKind distinguishes automatic payroll withholdings from manual
// counter payments.
type PaymentKind string

const (
	KindPayroll PaymentKind = "payroll"
	KindManual  PaymentKind = "manual"
)

// Payment is one append-only ledger entry against a loan.
type Payment struct {
	ID         string
	LoanID     string
	EmployeeID payroll.EmployeeID

	Amount Cents
	Kind   PaymentKind

	// PaymentDate is the pay date for payroll payments and the posting
	// date for manual ones. At most one payroll payment may exist per
	// (loan, payment date).
	PaymentDate payroll.Date

	// PeriodStart and PeriodEnd record the quincena a payroll payment
	// settled. Both are nil on manual payments.
	PeriodStart *payroll.Date
	PeriodEnd   *payroll.Date

	// BalanceBefore and BalanceAfter snapshot the loan balance around this
	// payment, so the history reads without replaying.
	BalanceBefore Cents
	BalanceAfter  Cents

	Note      string
	CreatedAt time.Time
}
