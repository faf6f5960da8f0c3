/*
ledger.go - Loan ledger operations

PURPOSE:
  The business rules over the loan store. The critical invariant: a payroll
  run deducts each active loan AT MOST ONCE per pay date, no matter how many
  times the run is repeated.

INVARIANTS:
  1. Balance never goes negative; a deduction is min(installment, balance,
     remaining budget).
  2. At most one payroll payment per (loan, pay date). Enforced twice: a
     read-before-write check here and a unique partial index in the store.
     The index wins races; the check gives the nicer error.
  3. Closed is terminal. No payment, deduction, or status change touches a
     closed loan.
  4. Payments are append-only. Corrections are new entries, never edits.

IDEMPOTENT PAYROLL RUNS:
  DeductInstallments silently skips loans already charged on the pay date
  and reports them as already-applied, so re-running a payroll period
  converges instead of erroring.

SEE ALSO:
  - store/sqlite: Schema and the unique partial index
  - payroll/deductions.go: The LoanDeductor consumed by the engine
*/
package loans

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abcopa/payroll-engine/payroll"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is the persistence contract for the ledger. Implementations must
// make WithTx atomic: either every operation inside fn commits or none do.
type Store interface {
	CreateLoan(ctx context.Context, loan *Loan) error
	GetLoan(ctx context.Context, id string) (*Loan, error)
	ListLoans(ctx context.Context, employee payroll.EmployeeID) ([]*Loan, error)
	ListAllLoans(ctx context.Context) ([]*Loan, error)
	// ActiveLoans returns an employee's active loans ordered by start
	// date, oldest first. Deduction order follows this.
	ActiveLoans(ctx context.Context, employee payroll.EmployeeID) ([]*Loan, error)
	UpdateLoan(ctx context.Context, loan *Loan) error

	AppendPayment(ctx context.Context, p *Payment) error
	ListPayments(ctx context.Context, loanID string) ([]*Payment, error)
	// HasPayrollPayment reports whether a payroll payment already exists
	// for the (loan, pay date) pair.
	HasPayrollPayment(ctx context.Context, loanID string, payDate payroll.Date) (bool, error)

	WithTx(ctx context.Context, fn func(Store) error) error
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger applies loan business rules on top of a Store.
type Ledger struct {
	store Store
	now   func() time.Time
}

// NewLedger creates a ledger over the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// CreateLoan opens a new active loan. Amounts must satisfy:
// principal > 0, 0 < installment <= principal. A zero start date means
// repayment starts immediately.
func (l *Ledger) CreateLoan(ctx context.Context, employee payroll.EmployeeID, name string, principal, installment Cents, startDate payroll.Date, note string) (*Loan, error) {
	if employee == "" {
		return nil, &InvalidLoanError{EmployeeID: employee, Reason: "employee ID is required"}
	}
	if principal <= 0 {
		return nil, &InvalidLoanError{EmployeeID: employee, Reason: "principal must be positive"}
	}
	if installment <= 0 {
		return nil, &InvalidLoanError{EmployeeID: employee, Reason: "installment must be positive"}
	}
	if installment > principal {
		return nil, &InvalidLoanError{EmployeeID: employee, Reason: "installment cannot exceed principal"}
	}

	now := l.now().UTC()
	if startDate.IsZero() {
		startDate = payroll.DateOf(now)
	}
	loan := &Loan{
		ID:           uuid.NewString(),
		EmployeeID:   employee,
		EmployeeName: name,
		StartDate:    startDate,
		Principal:    principal,
		Balance:      principal,
		Installment:  installment,
		Status:       StatusActive,
		Note:         note,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := l.store.CreateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}
	return loan, nil
}

// GetLoan returns one loan by ID.
func (l *Ledger) GetLoan(ctx context.Context, id string) (*Loan, error) {
	return l.store.GetLoan(ctx, id)
}

// ListLoans returns an employee's loans, or every loan when employee is
// empty.
func (l *Ledger) ListLoans(ctx context.Context, employee payroll.EmployeeID) ([]*Loan, error) {
	if employee == "" {
		return l.store.ListAllLoans(ctx)
	}
	return l.store.ListLoans(ctx, employee)
}

// ListPayments returns a loan's payment history, oldest first.
func (l *Ledger) ListPayments(ctx context.Context, loanID string) ([]*Payment, error) {
	if _, err := l.store.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}
	return l.store.ListPayments(ctx, loanID)
}

// SetStatus moves a loan between active and paused. Closed loans reject
// every transition, and closing goes through Close, not here.
func (l *Ledger) SetStatus(ctx context.Context, loanID string, status LoanStatus) (*Loan, error) {
	if status != StatusActive && status != StatusPaused {
		return nil, &InvalidLoanError{Reason: fmt.Sprintf("cannot set status %q directly", status)}
	}

	var updated *Loan
	err := l.store.WithTx(ctx, func(s Store) error {
		loan, err := s.GetLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status == StatusClosed {
			return fmt.Errorf("loan %s: %w", loanID, ErrLoanClosed)
		}
		loan.Status = status
		loan.UpdatedAt = l.now().UTC()
		if err := s.UpdateLoan(ctx, loan); err != nil {
			return err
		}
		updated = loan
		return nil
	})
	return updated, err
}

// Close closes a loan regardless of balance. With forgive, the remaining
// balance is zeroed without a payment entry so the payment history stays a
// record of money actually received; without it, the balance is kept on
// the closed loan for the books.
func (l *Ledger) Close(ctx context.Context, loanID string, forgive bool) (*Loan, error) {
	var updated *Loan
	err := l.store.WithTx(ctx, func(s Store) error {
		loan, err := s.GetLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status == StatusClosed {
			return fmt.Errorf("loan %s: %w", loanID, ErrLoanClosed)
		}
		if forgive {
			loan.Balance = 0
		}
		loan.Status = StatusClosed
		loan.UpdatedAt = l.now().UTC()
		if err := s.UpdateLoan(ctx, loan); err != nil {
			return err
		}
		updated = loan
		return nil
	})
	return updated, err
}

// RecordManualPayment posts an out-of-band payment (cash at the counter,
// transfer) against a loan. The amount must be positive and at most the
// remaining balance. A payment that zeroes the balance closes the loan.
func (l *Ledger) RecordManualPayment(ctx context.Context, loanID string, amount Cents, date payroll.Date, note string) (*Payment, error) {
	if amount <= 0 {
		return nil, &InvalidLoanError{Reason: "payment amount must be positive"}
	}

	var payment *Payment
	err := l.store.WithTx(ctx, func(s Store) error {
		loan, err := s.GetLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status == StatusClosed {
			return fmt.Errorf("loan %s: %w", loanID, ErrLoanClosed)
		}
		if amount > loan.Balance {
			return fmt.Errorf("loan %s: payment %s against balance %s: %w",
				loanID, amount, loan.Balance, ErrPaymentExceedsBalance)
		}

		before := loan.Balance
		loan.Balance -= amount
		if loan.Balance == 0 {
			loan.Status = StatusClosed
		}
		loan.UpdatedAt = l.now().UTC()

		payment = &Payment{
			ID:            uuid.NewString(),
			LoanID:        loan.ID,
			EmployeeID:    loan.EmployeeID,
			Amount:        amount,
			Kind:          KindManual,
			PaymentDate:   date,
			BalanceBefore: before,
			BalanceAfter:  loan.Balance,
			Note:          note,
			CreatedAt:     l.now().UTC(),
		}
		if err := s.AppendPayment(ctx, payment); err != nil {
			return err
		}
		return s.UpdateLoan(ctx, loan)
	})
	return payment, err
}

// =============================================================================
// PAYROLL DEDUCTION
// =============================================================================

// DeductionResult summarizes what one payroll run withheld for one employee.
type DeductionResult struct {
	// Deducted is the total withheld across the employee's loans.
	Deducted Cents
	// Remaining is the employee's total outstanding balance after the run.
	Remaining Cents
	// Payments are the new entries recorded, oldest loan first.
	Payments []*Payment
	// AlreadyApplied lists loan IDs skipped because this pay date was
	// charged by an earlier run.
	AlreadyApplied []string
}

// DeductInstallments withholds installments from an employee's active loans
// for one pay date, oldest loan first, within the given budget. Loans whose
// start date is after the pay date are not yet due and are left alone.
// Loans already charged on this pay date are skipped, making repeated runs
// of the same period no-ops. The whole deduction is one transaction.
func (l *Ledger) DeductInstallments(ctx context.Context, employee payroll.EmployeeID, period payroll.Period, payDate payroll.Date, budget Cents) (*DeductionResult, error) {
	result := &DeductionResult{}

	err := l.store.WithTx(ctx, func(s Store) error {
		active, err := s.ActiveLoans(ctx, employee)
		if err != nil {
			return err
		}

		remaining := budget
		for _, loan := range active {
			if loan.StartDate.After(payDate) {
				result.Remaining += loan.Balance
				continue
			}
			if remaining <= 0 {
				result.Remaining += loan.Balance
				continue
			}

			charged, err := s.HasPayrollPayment(ctx, loan.ID, payDate)
			if err != nil {
				return err
			}
			if charged {
				result.AlreadyApplied = append(result.AlreadyApplied, loan.ID)
				result.Remaining += loan.Balance
				continue
			}

			amount := loan.Installment
			if amount > loan.Balance {
				amount = loan.Balance
			}
			if amount > remaining {
				amount = remaining
			}
			if amount <= 0 {
				result.Remaining += loan.Balance
				continue
			}

			before := loan.Balance
			loan.Balance -= amount
			if loan.Balance == 0 {
				loan.Status = StatusClosed
			}
			loan.UpdatedAt = l.now().UTC()

			start, end := period.Start, period.End
			payment := &Payment{
				ID:            uuid.NewString(),
				LoanID:        loan.ID,
				EmployeeID:    loan.EmployeeID,
				Amount:        amount,
				Kind:          KindPayroll,
				PaymentDate:   payDate,
				PeriodStart:   &start,
				PeriodEnd:     &end,
				BalanceBefore: before,
				BalanceAfter:  loan.Balance,
				CreatedAt:     l.now().UTC(),
			}
			if err := s.AppendPayment(ctx, payment); err != nil {
				return err
			}
			if err := s.UpdateLoan(ctx, loan); err != nil {
				return err
			}

			result.Payments = append(result.Payments, payment)
			result.Deducted += amount
			result.Remaining += loan.Balance
			remaining -= amount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeductForPayroll adapts DeductInstallments to the decimal budget the
// payroll engine speaks. It implements payroll.LoanDeductor.
func (l *Ledger) DeductForPayroll(ctx context.Context, employee payroll.EmployeeID, period payroll.Period, payDate payroll.Date, budget decimal.Decimal) (decimal.Decimal, error) {
	result, err := l.DeductInstallments(ctx, employee, period, payDate, CentsFromDecimal(budget))
	if err != nil {
		return decimal.Zero, err
	}
	return result.Deducted.Decimal(), nil
}
