// Package memory provides an in-memory loans.Store for tests and dev runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/abcopa/payroll-engine/loans"
	"github.com/abcopa/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Store keeps loans and payments in maps. WithTx restores a snapshot on
// error, so rollback semantics match the SQLite store.
type Store struct {
	mu       sync.RWMutex
	loans    map[string]*loans.Loan
	payments map[string][]*loans.Payment // keyed by loan ID
}

var _ loans.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		loans:    make(map[string]*loans.Loan),
		payments: make(map[string][]*loans.Payment),
	}
}

func (m *Store) CreateLoan(_ context.Context, loan *loans.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(loan)
}

func (m *Store) createLocked(loan *loans.Loan) error {
	cp := *loan
	m.loans[loan.ID] = &cp
	return nil
}

func (m *Store) GetLoan(_ context.Context, id string) (*loans.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLocked(id)
}

func (m *Store) getLocked(id string) (*loans.Loan, error) {
	loan, ok := m.loans[id]
	if !ok {
		return nil, &loans.LoanNotFoundError{LoanID: id}
	}
	cp := *loan
	return &cp, nil
}

func (m *Store) ListLoans(_ context.Context, employee payroll.EmployeeID) ([]*loans.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selectLocked(func(l *loans.Loan) bool {
		return l.EmployeeID == employee
	}), nil
}

func (m *Store) ListAllLoans(_ context.Context) ([]*loans.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selectLocked(func(*loans.Loan) bool { return true }), nil
}

func (m *Store) ActiveLoans(_ context.Context, employee payroll.EmployeeID) ([]*loans.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selectLocked(func(l *loans.Loan) bool {
		return l.EmployeeID == employee && l.Status == loans.StatusActive
	}), nil
}

// selectLocked copies matching loans ordered by (StartDate, CreatedAt, ID),
// the same order the SQLite store returns.
func (m *Store) selectLocked(match func(*loans.Loan) bool) []*loans.Loan {
	var result []*loans.Loan
	for _, loan := range m.loans {
		if match(loan) {
			cp := *loan
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (m *Store) UpdateLoan(_ context.Context, loan *loans.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked(loan)
}

func (m *Store) updateLocked(loan *loans.Loan) error {
	if _, ok := m.loans[loan.ID]; !ok {
		return &loans.LoanNotFoundError{LoanID: loan.ID}
	}
	cp := *loan
	m.loans[loan.ID] = &cp
	return nil
}

func (m *Store) AppendPayment(_ context.Context, p *loans.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendLocked(p)
}

func (m *Store) appendLocked(p *loans.Payment) error {
	// Same uniqueness rule the SQLite partial index enforces.
	if p.Kind == loans.KindPayroll {
		for _, existing := range m.payments[p.LoanID] {
			if existing.Kind == loans.KindPayroll && existing.PaymentDate.Equal(p.PaymentDate) {
				return &loans.DuplicatePayrollPaymentError{LoanID: p.LoanID, PayDate: p.PaymentDate}
			}
		}
	}
	cp := *p
	m.payments[p.LoanID] = append(m.payments[p.LoanID], &cp)
	return nil
}

func (m *Store) ListPayments(_ context.Context, loanID string) ([]*loans.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*loans.Payment, 0, len(m.payments[loanID]))
	for _, p := range m.payments[loanID] {
		cp := *p
		result = append(result, &cp)
	}
	return result, nil
}

func (m *Store) HasPayrollPayment(_ context.Context, loanID string, payDate payroll.Date) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.payments[loanID] {
		if p.Kind == loans.KindPayroll && p.PaymentDate.Equal(payDate) {
			return true, nil
		}
	}
	return false, nil
}

// WithTx executes fn against a snapshot-guarded view. On error the snapshot
// is restored, so partial writes never survive.
func (m *Store) WithTx(_ context.Context, fn func(loans.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	if err := fn(&txView{parent: m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	loans    map[string]*loans.Loan
	payments map[string][]*loans.Payment
}

func (m *Store) snapshot() snapshot {
	s := snapshot{
		loans:    make(map[string]*loans.Loan, len(m.loans)),
		payments: make(map[string][]*loans.Payment, len(m.payments)),
	}
	for id, loan := range m.loans {
		cp := *loan
		s.loans[id] = &cp
	}
	for id, ps := range m.payments {
		cps := make([]*loans.Payment, len(ps))
		for i, p := range ps {
			cp := *p
			cps[i] = &cp
		}
		s.payments[id] = cps
	}
	return s
}

func (m *Store) restore(s snapshot) {
	m.loans = s.loans
	m.payments = s.payments
}

// txView runs operations against the already-locked parent.
type txView struct {
	parent *Store
}

var _ loans.Store = (*txView)(nil)

func (tv *txView) CreateLoan(_ context.Context, loan *loans.Loan) error {
	return tv.parent.createLocked(loan)
}

func (tv *txView) GetLoan(_ context.Context, id string) (*loans.Loan, error) {
	return tv.parent.getLocked(id)
}

func (tv *txView) ListLoans(_ context.Context, employee payroll.EmployeeID) ([]*loans.Loan, error) {
	return tv.parent.selectLocked(func(l *loans.Loan) bool {
		return l.EmployeeID == employee
	}), nil
}

func (tv *txView) ListAllLoans(_ context.Context) ([]*loans.Loan, error) {
	return tv.parent.selectLocked(func(*loans.Loan) bool { return true }), nil
}

func (tv *txView) ActiveLoans(_ context.Context, employee payroll.EmployeeID) ([]*loans.Loan, error) {
	return tv.parent.selectLocked(func(l *loans.Loan) bool {
		return l.EmployeeID == employee && l.Status == loans.StatusActive
	}), nil
}

func (tv *txView) UpdateLoan(_ context.Context, loan *loans.Loan) error {
	return tv.parent.updateLocked(loan)
}

func (tv *txView) AppendPayment(_ context.Context, p *loans.Payment) error {
	return tv.parent.appendLocked(p)
}

func (tv *txView) ListPayments(_ context.Context, loanID string) ([]*loans.Payment, error) {
	result := make([]*loans.Payment, 0, len(tv.parent.payments[loanID]))
	for _, p := range tv.parent.payments[loanID] {
		cp := *p
		result = append(result, &cp)
	}
	return result, nil
}

func (tv *txView) HasPayrollPayment(_ context.Context, loanID string, payDate payroll.Date) (bool, error) {
	for _, p := range tv.parent.payments[loanID] {
		if p.Kind == loans.KindPayroll && p.PaymentDate.Equal(payDate) {
			return true, nil
		}
	}
	return false, nil
}

func (tv *txView) WithTx(_ context.Context, fn func(loans.Store) error) error {
	return fn(tv)
}
