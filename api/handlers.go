/*
handlers.go - HTTP handler implementations

PURPOSE:
  Implements the API endpoints: triggering payroll runs and managing the
  loan ledger. Handlers translate HTTP to domain calls and domain errors
  back to status codes.

ERROR MAPPING:
  400  malformed body, bad amounts or dates
  404  loan not found
  409  closed-loan mutation, payment exceeds balance, duplicate payroll
       payment
  422  attendance validation failure (violations itemized in the body)
  500  everything else

SEE ALSO:
  - server.go: Route configuration
  - dto.go: Request/response types
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/abcopa/payroll-engine/loans"
	"github.com/abcopa/payroll-engine/payroll"
	"github.com/abcopa/payroll-engine/reports"
	"github.com/abcopa/payroll-engine/roster"
)

// Handler holds the dependencies for all endpoints.
type Handler struct {
	Ledger *loans.Ledger
}

// NewHandler creates a handler backed by the loan ledger.
func NewHandler(ledger *loans.Ledger) *Handler {
	return &Handler{Ledger: ledger}
}

// =============================================================================
// PAYROLL
// =============================================================================

// RunPayroll executes one quincena over the uploaded file paths.
// POST /api/payroll/run
func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req RunPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.AttendancePath == "" || req.RosterPath == "" {
		writeError(w, http.StatusBadRequest, "attendance_path and roster_path are required", nil)
		return
	}

	var refDate *payroll.Date
	if req.ReferenceDate != "" {
		d, err := payroll.ParseDate(req.ReferenceDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid reference_date (use YYYY-MM-DD)", err)
			return
		}
		refDate = &d
	}

	profiles, err := roster.Load(req.RosterPath)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to load roster", err)
		return
	}

	rows, err := reports.ReadAttendanceRows(req.AttendancePath)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read attendance file", err)
		return
	}

	engine := &payroll.Engine{Roster: profiles, Loans: h.Ledger}
	result, err := engine.ComputePayroll(r.Context(), rows, refDate)
	if err != nil {
		var vErr *payroll.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:      "Attendance validation failed; no payroll was computed",
				Violations: toViolationDTOs(vErr.Violations),
			})
			return
		}
		if errors.Is(err, payroll.ErrNoPeriodData) {
			writeError(w, http.StatusUnprocessableEntity, "No attendance data in the requested period", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Payroll run failed", err)
		return
	}

	outputFile := req.OutputPath
	if outputFile == "" {
		outputFile = reports.DefaultOutputName(result.Table.PayDate)
	}
	if err := reports.WritePayroll(result.Table, outputFile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to write payroll workbook", err)
		return
	}

	resp := RunPayrollResponse{
		PeriodStart: result.Table.Period.Start.String(),
		PeriodEnd:   result.Table.Period.End.String(),
		PayDate:     result.Table.PayDate.String(),
		OutputFile:  outputFile,
		Lines:       make([]PayrollLineDTO, 0, len(result.Table.Lines)),
		Warnings:    toWarningDTOs(result.Warnings),
	}
	for _, line := range result.Table.Lines {
		resp.Lines = append(resp.Lines, toLineDTO(line))
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// LOANS
// =============================================================================

// ListLoans returns loans, optionally filtered by employee.
// GET /api/loans?employee_id=...
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	employee := payroll.EmployeeID(r.URL.Query().Get("employee_id"))

	list, err := h.Ledger.ListLoans(r.Context(), employee)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list loans", err)
		return
	}

	dtos := make([]LoanDTO, 0, len(list))
	for _, l := range list {
		dtos = append(dtos, toLoanDTO(l))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLoan opens a new loan.
// POST /api/loans
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	principal, err := parseMoney(req.Principal)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid principal", err)
		return
	}
	installment, err := parseMoney(req.Installment)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid installment", err)
		return
	}

	var startDate payroll.Date
	if req.StartDate != "" {
		startDate, err = payroll.ParseDate(req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
			return
		}
	}

	loan, err := h.Ledger.CreateLoan(r.Context(),
		payroll.EmployeeID(req.EmployeeID), req.EmployeeName, principal, installment, startDate, req.Note)
	if err != nil {
		writeLoanError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLoanDTO(loan))
}

// GetLoan returns one loan.
// GET /api/loans/{id}
func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.Ledger.GetLoan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeLoanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLoanDTO(loan))
}

// SetLoanStatus pauses or resumes a loan.
// PUT /api/loans/{id}/status
func (h *Handler) SetLoanStatus(w http.ResponseWriter, r *http.Request) {
	var req SetLoanStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	loan, err := h.Ledger.SetStatus(r.Context(), chi.URLParam(r, "id"), loans.LoanStatus(req.Status))
	if err != nil {
		writeLoanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLoanDTO(loan))
}

// CloseLoan closes a loan, by default forgiving any remaining balance.
// POST /api/loans/{id}/close
func (h *Handler) CloseLoan(w http.ResponseWriter, r *http.Request) {
	forgive := true
	var req CloseLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Forgive != nil {
		forgive = *req.Forgive
	}

	loan, err := h.Ledger.Close(r.Context(), chi.URLParam(r, "id"), forgive)
	if err != nil {
		writeLoanError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLoanDTO(loan))
}

// ListPayments returns a loan's payment history.
// GET /api/loans/{id}/payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Ledger.ListPayments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeLoanError(w, err)
		return
	}

	dtos := make([]PaymentDTO, 0, len(payments))
	for _, p := range payments {
		dtos = append(dtos, toPaymentDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RecordPayment posts a manual payment against a loan.
// POST /api/loans/{id}/payments
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := parseMoney(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	date := payroll.DateOf(time.Now())
	if req.Date != "" {
		date, err = payroll.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
			return
		}
	}

	payment, err := h.Ledger.RecordManualPayment(r.Context(), chi.URLParam(r, "id"), amount, date, req.Note)
	if err != nil {
		writeLoanError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentDTO(payment))
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// ListHolidays returns the premium-day calendar for one year.
// GET /api/holidays?year=2026
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if q := r.URL.Query().Get("year"); q != "" {
		parsed, err := time.Parse("2006", q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = parsed.Year()
	}

	holidays := payroll.HolidaysForYear(year)
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, HolidayDTO{Date: hol.Date.String(), Name: hol.Name})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeLoanError maps ledger errors to status codes.
func writeLoanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, loans.ErrLoanNotFound):
		writeError(w, http.StatusNotFound, "Loan not found", err)
	case errors.Is(err, loans.ErrLoanClosed),
		errors.Is(err, loans.ErrPaymentExceedsBalance),
		errors.Is(err, loans.ErrDuplicatePayrollPayment):
		writeError(w, http.StatusConflict, "Loan operation rejected", err)
	case errors.Is(err, loans.ErrInvalidLoan):
		writeError(w, http.StatusBadRequest, "Invalid loan", err)
	default:
		writeError(w, http.StatusInternalServerError, "Loan operation failed", err)
	}
}

// parseMoney reads a positive 2-decimal amount into cents.
func parseMoney(s string) (loans.Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return loans.CentsFromDecimal(d), nil
}
