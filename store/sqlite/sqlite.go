/*
Package sqlite provides the SQLite-backed implementation of the loan store.

PURPOSE:
  Persists loans and their payment history. Payments are append-only: no
  UPDATE or DELETE ever touches the loan_payments table, corrections are
  new entries.

KEY TABLES:
  loans:         One row per loan; balance and status are mutable.
  loan_payments: Immutable ledger of installments and manual payments.

IDEMPOTENCY:
  The critical index:

    CREATE UNIQUE INDEX idx_payments_payroll_once
      ON loan_payments(loan_id, payment_date) WHERE kind = 'payroll'

  guarantees at most one payroll deduction per loan per pay date even if
  the ledger-level check is raced. Manual payments are exempt; several on
  one day are legal.

CONCURRENCY:
  sync.Mutex serializes writers; SQLite is opened in WAL mode so readers
  don't block. A server-grade database would rely on its own concurrency
  control instead.

USAGE:
  store, err := sqlite.New("./data/loans.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := loans.NewLedger(store)

SEE ALSO:
  - loans/ledger.go: Business rules over this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abcopa/payroll-engine/loans"
	"github.com/abcopa/payroll-engine/payroll"
)

// Store implements loans.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

var _ loans.Store = (*Store)(nil)

// New opens (creating if needed) the database at dbPath and migrates the
// schema. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		employee_name TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		principal_cents INTEGER NOT NULL CHECK (principal_cents > 0),
		balance_cents INTEGER NOT NULL CHECK (balance_cents >= 0),
		installment_cents INTEGER NOT NULL CHECK (installment_cents > 0),
		status TEXT NOT NULL CHECK (status IN ('active', 'paused', 'closed')),
		note TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_loans_employee
		ON loans(employee_id);
	CREATE INDEX IF NOT EXISTS idx_loans_employee_status
		ON loans(employee_id, status);

	-- Append-only payment ledger
	CREATE TABLE IF NOT EXISTS loan_payments (
		id TEXT PRIMARY KEY,
		loan_id TEXT NOT NULL REFERENCES loans(id),
		employee_id TEXT NOT NULL DEFAULT '',
		amount_cents INTEGER NOT NULL CHECK (amount_cents > 0),
		kind TEXT NOT NULL CHECK (kind IN ('payroll', 'manual')),
		payment_date TEXT NOT NULL,
		period_start TEXT,
		period_end TEXT,
		balance_before_cents INTEGER NOT NULL CHECK (balance_before_cents >= 0),
		balance_after_cents INTEGER NOT NULL CHECK (balance_after_cents >= 0),
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_loan
		ON loan_payments(loan_id, created_at);

	-- CRITICAL: a payroll run may charge a loan at most once per pay date,
	-- no matter how many times the period is re-run. Manual payments are
	-- exempt.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_payroll_once
		ON loan_payments(loan_id, payment_date)
		WHERE kind = 'payroll';
	`

	_, err := s.db.Exec(schema)
	return err
}

// dbtx abstracts *sql.DB and *sql.Tx so every query can run either
// standalone or inside WithTx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// LOANS
// =============================================================================

const loanColumns = `id, employee_id, employee_name, start_date,
	principal_cents, balance_cents, installment_cents,
	status, note, created_at, updated_at`

func (s *Store) CreateLoan(ctx context.Context, loan *loans.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return createLoan(ctx, s.db, loan)
}

func createLoan(ctx context.Context, db dbtx, loan *loans.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		loan.ID,
		string(loan.EmployeeID),
		loan.EmployeeName,
		loan.StartDate.String(),
		int64(loan.Principal),
		int64(loan.Balance),
		int64(loan.Installment),
		string(loan.Status),
		loan.Note,
		loan.CreatedAt.UTC().Format(time.RFC3339),
		loan.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert loan: %w", err)
	}
	return nil
}

func (s *Store) GetLoan(ctx context.Context, id string) (*loans.Loan, error) {
	return getLoan(ctx, s.db, id)
}

func getLoan(ctx context.Context, db dbtx, id string) (*loans.Loan, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+loanColumns+` FROM loans WHERE id = ?
	`, id)

	loan, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, &loans.LoanNotFoundError{LoanID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load loan: %w", err)
	}
	return loan, nil
}

func (s *Store) ListLoans(ctx context.Context, employee payroll.EmployeeID) ([]*loans.Loan, error) {
	return queryLoans(ctx, s.db, `
		SELECT `+loanColumns+`
		FROM loans WHERE employee_id = ? ORDER BY start_date, created_at, id
	`, string(employee))
}

func (s *Store) ListAllLoans(ctx context.Context) ([]*loans.Loan, error) {
	return queryLoans(ctx, s.db, `
		SELECT `+loanColumns+`
		FROM loans ORDER BY employee_id, start_date, created_at, id
	`)
}

func (s *Store) ActiveLoans(ctx context.Context, employee payroll.EmployeeID) ([]*loans.Loan, error) {
	return activeLoans(ctx, s.db, employee)
}

func activeLoans(ctx context.Context, db dbtx, employee payroll.EmployeeID) ([]*loans.Loan, error) {
	// Oldest first: the deduction budget drains the longest-standing loan
	// before newer ones.
	return queryLoans(ctx, db, `
		SELECT `+loanColumns+`
		FROM loans WHERE employee_id = ? AND status = 'active'
		ORDER BY start_date, created_at, id
	`, string(employee))
}

func (s *Store) UpdateLoan(ctx context.Context, loan *loans.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateLoan(ctx, s.db, loan)
}

func updateLoan(ctx context.Context, db dbtx, loan *loans.Loan) error {
	res, err := db.ExecContext(ctx, `
		UPDATE loans
		SET balance_cents = ?, installment_cents = ?, status = ?, note = ?, updated_at = ?
		WHERE id = ?
	`,
		int64(loan.Balance),
		int64(loan.Installment),
		string(loan.Status),
		loan.Note,
		loan.UpdatedAt.UTC().Format(time.RFC3339),
		loan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &loans.LoanNotFoundError{LoanID: loan.ID}
	}
	return nil
}

func queryLoans(ctx context.Context, db dbtx, query string, args ...any) ([]*loans.Loan, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	var result []*loans.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		result = append(result, loan)
	}
	return result, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLoan(row scanner) (*loans.Loan, error) {
	var (
		loan                            loans.Loan
		employee, status                string
		startDate                       string
		principal, balance, installment int64
		note                            sql.NullString
		createdAt, updatedAt            string
	)
	err := row.Scan(&loan.ID, &employee, &loan.EmployeeName, &startDate,
		&principal, &balance, &installment,
		&status, &note, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	loan.EmployeeID = payroll.EmployeeID(employee)
	loan.StartDate, err = payroll.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse loan start date %q: %w", startDate, err)
	}
	loan.Principal = loans.Cents(principal)
	loan.Balance = loans.Cents(balance)
	loan.Installment = loans.Cents(installment)
	loan.Status = loans.LoanStatus(status)
	loan.Note = note.String
	loan.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	loan.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &loan, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (s *Store) AppendPayment(ctx context.Context, p *loans.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendPayment(ctx, s.db, p)
}

func appendPayment(ctx context.Context, db dbtx, p *loans.Payment) error {
	query := `
		INSERT INTO loan_payments
		(id, loan_id, employee_id, amount_cents, kind, payment_date,
		 period_start, period_end, balance_before_cents, balance_after_cents,
		 note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var periodStart, periodEnd any
	if p.PeriodStart != nil {
		periodStart = p.PeriodStart.String()
	}
	if p.PeriodEnd != nil {
		periodEnd = p.PeriodEnd.String()
	}
	_, err := db.ExecContext(ctx, query,
		p.ID,
		p.LoanID,
		string(p.EmployeeID),
		int64(p.Amount),
		string(p.Kind),
		p.PaymentDate.String(),
		periodStart,
		periodEnd,
		int64(p.BalanceBefore),
		int64(p.BalanceAfter),
		p.Note,
		p.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return &loans.DuplicatePayrollPaymentError{LoanID: p.LoanID, PayDate: p.PaymentDate}
		}
		return fmt.Errorf("failed to append payment: %w", err)
	}
	return nil
}

func (s *Store) ListPayments(ctx context.Context, loanID string) ([]*loans.Payment, error) {
	return listPayments(ctx, s.db, loanID)
}

func listPayments(ctx context.Context, db dbtx, loanID string) ([]*loans.Payment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, loan_id, employee_id, amount_cents, kind, payment_date,
		       period_start, period_end, balance_before_cents, balance_after_cents,
		       note, created_at
		FROM loan_payments WHERE loan_id = ?
		ORDER BY created_at, id
	`, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var result []*loans.Payment
	for rows.Next() {
		var (
			p                      loans.Payment
			employee               string
			amount, before, after  int64
			kind, date             string
			periodStart, periodEnd sql.NullString
			note                   sql.NullString
			createdAt              string
		)
		if err := rows.Scan(&p.ID, &p.LoanID, &employee, &amount, &kind, &date,
			&periodStart, &periodEnd, &before, &after, &note, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.EmployeeID = payroll.EmployeeID(employee)
		p.Amount = loans.Cents(amount)
		p.Kind = loans.PaymentKind(kind)
		p.BalanceBefore = loans.Cents(before)
		p.BalanceAfter = loans.Cents(after)
		p.Note = note.String
		p.PaymentDate, err = payroll.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse payment date %q: %w", date, err)
		}
		if p.PeriodStart, err = parseDatePtr(periodStart); err != nil {
			return nil, err
		}
		if p.PeriodEnd, err = parseDatePtr(periodEnd); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		result = append(result, &p)
	}
	return result, rows.Err()
}

func parseDatePtr(s sql.NullString) (*payroll.Date, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	d, err := payroll.ParseDate(s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payment period date %q: %w", s.String, err)
	}
	return &d, nil
}

func (s *Store) HasPayrollPayment(ctx context.Context, loanID string, payDate payroll.Date) (bool, error) {
	return hasPayrollPayment(ctx, s.db, loanID, payDate)
}

func hasPayrollPayment(ctx context.Context, db dbtx, loanID string, payDate payroll.Date) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM loan_payments
		WHERE loan_id = ? AND payment_date = ? AND kind = 'payroll'
	`, loanID, payDate.String()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll payment: %w", err)
	}
	return n > 0, nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn inside one database transaction. Every store call made
// through the passed Store runs on the same transaction.
func (s *Store) WithTx(ctx context.Context, fn func(loans.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// txStore routes every operation through one *sql.Tx. Nested WithTx reuses
// the same transaction.
type txStore struct {
	tx *sql.Tx
}

var _ loans.Store = (*txStore)(nil)

func (ts *txStore) CreateLoan(ctx context.Context, loan *loans.Loan) error {
	return createLoan(ctx, ts.tx, loan)
}

func (ts *txStore) GetLoan(ctx context.Context, id string) (*loans.Loan, error) {
	return getLoan(ctx, ts.tx, id)
}

func (ts *txStore) ListLoans(ctx context.Context, employee payroll.EmployeeID) ([]*loans.Loan, error) {
	return queryLoans(ctx, ts.tx, `
		SELECT `+loanColumns+`
		FROM loans WHERE employee_id = ? ORDER BY start_date, created_at, id
	`, string(employee))
}

func (ts *txStore) ListAllLoans(ctx context.Context) ([]*loans.Loan, error) {
	return queryLoans(ctx, ts.tx, `
		SELECT `+loanColumns+`
		FROM loans ORDER BY employee_id, start_date, created_at, id
	`)
}

func (ts *txStore) ActiveLoans(ctx context.Context, employee payroll.EmployeeID) ([]*loans.Loan, error) {
	return activeLoans(ctx, ts.tx, employee)
}

func (ts *txStore) UpdateLoan(ctx context.Context, loan *loans.Loan) error {
	return updateLoan(ctx, ts.tx, loan)
}

func (ts *txStore) AppendPayment(ctx context.Context, p *loans.Payment) error {
	return appendPayment(ctx, ts.tx, p)
}

func (ts *txStore) ListPayments(ctx context.Context, loanID string) ([]*loans.Payment, error) {
	return listPayments(ctx, ts.tx, loanID)
}

func (ts *txStore) HasPayrollPayment(ctx context.Context, loanID string, payDate payroll.Date) (bool, error) {
	return hasPayrollPayment(ctx, ts.tx, loanID, payDate)
}

func (ts *txStore) WithTx(ctx context.Context, fn func(loans.Store) error) error {
	return fn(ts)
}

// =============================================================================
// HELPERS
// =============================================================================

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
