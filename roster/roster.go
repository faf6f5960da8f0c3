/*
Package roster loads the employee master spreadsheet.

PURPOSE:
  Reads the planilla workbook (one row per employee, Spanish headers) and
  resolves each row into a payroll.EmployeeProfile: pay policy from the
  fixed-salary / guaranteed-minimum flags, rates, contract status, flat
  income tax, and bank routing details.

HEADERS:
  ID, nombre, cargo, salario, salario_fijo, empleado_fijo, salario_minimo,
  contrato, impuesto_retenido, n_de_cuenta, banco, tipo_de_cuenta

  Header matching is case-insensitive and whitespace-tolerant. Flag cells
  accept si/sí/yes/x/1/true (any case).

SEE ALSO:
  - payroll/policy.go: NewEmployeeProfile and the policy sum type
  - reports: The attendance reader sharing the xlsx stack
*/
package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/abcopa/payroll-engine/payroll"
)

// Column headers of the roster workbook (normalized form).
const (
	colID          = "id"
	colName        = "nombre"
	colTitle       = "cargo"
	colSalary      = "salario"
	colFixedSalary = "salario_fijo"
	colGuaranteed  = "empleado_fijo"
	colMinimum     = "salario_minimo"
	colContract    = "contrato"
	colIncomeTax   = "impuesto_retenido"
	colAccount     = "n_de_cuenta"
	colBank        = "banco"
	colAccountType = "tipo_de_cuenta"
)

// ErrEmptyRoster is returned when the workbook has no employee rows.
var ErrEmptyRoster = errors.New("roster contains no employees")

// RowError pinpoints the roster row that failed to load. Rows are 1-based
// as shown in the spreadsheet.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("roster row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Load reads the roster workbook and returns profiles keyed by employee ID.
func Load(path string) (map[payroll.EmployeeID]*payroll.EmployeeProfile, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read roster sheet: %w", err)
	}
	return FromRows(rows)
}

// FromRows builds profiles from already-extracted sheet rows. The first row
// is the header.
func FromRows(rows [][]string) (map[payroll.EmployeeID]*payroll.EmployeeProfile, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyRoster
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[normalizeHeader(h)] = i
	}
	for _, required := range []string{colID, colName} {
		if _, ok := cols[required]; !ok {
			return nil, &payroll.MissingColumnsError{Columns: []string{required}}
		}
	}

	profiles := make(map[payroll.EmployeeID]*payroll.EmployeeProfile)
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header

		id := payroll.EmployeeID(payroll.NormalizeID(cell(row, cols, colID)))
		name := strings.TrimSpace(cell(row, cols, colName))
		if id == "" && name == "" {
			continue // blank filler row
		}
		if id == "" {
			return nil, &RowError{Row: rowNum, Err: fmt.Errorf("employee %q has no ID", name)}
		}

		fixedSalary := truthy(cell(row, cols, colFixedSalary))
		guaranteed := truthy(cell(row, cols, colGuaranteed))

		rate, err := parseAmount(cell(row, cols, colSalary))
		if err != nil {
			return nil, &RowError{Row: rowNum, Err: fmt.Errorf("salario: %w", err)}
		}
		if guaranteed {
			// Under the guaranteed minimum the policy rate is the monthly
			// minimum; salario stays the hourly rate.
			minimum, err := parseAmount(cell(row, cols, colMinimum))
			if err != nil {
				return nil, &RowError{Row: rowNum, Err: fmt.Errorf("salario_minimo: %w", err)}
			}
			profile, err := payroll.NewEmployeeProfile(id, name, fixedSalary, guaranteed, minimum, rate)
			if err != nil {
				return nil, &RowError{Row: rowNum, Err: err}
			}
			fillDetails(profile, row, cols)
			profiles[id] = profile
			continue
		}

		var hourly decimal.Decimal
		if fixedSalary {
			// Keep an informational hourly rate for the output table:
			// monthly salary over two quincenas of ~96 hours each is not
			// meaningful, so leave it zero unless the sheet carries one.
			hourly = decimal.Zero
		} else {
			hourly = rate
		}

		profile, err := payroll.NewEmployeeProfile(id, name, fixedSalary, guaranteed, rate, hourly)
		if err != nil {
			return nil, &RowError{Row: rowNum, Err: err}
		}
		fillDetails(profile, row, cols)
		profiles[id] = profile
	}

	if len(profiles) == 0 {
		return nil, ErrEmptyRoster
	}
	return profiles, nil
}

// fillDetails copies the non-policy columns onto the profile.
func fillDetails(p *payroll.EmployeeProfile, row []string, cols map[string]int) {
	p.Title = strings.TrimSpace(cell(row, cols, colTitle))
	p.ContractWorker = truthy(cell(row, cols, colContract))
	if p.ContractWorker {
		if tax, err := parseAmount(cell(row, cols, colIncomeTax)); err == nil {
			p.IncomeTax = tax
		}
	}
	p.AccountNumber = strings.TrimSpace(cell(row, cols, colAccount))
	p.BankName = strings.TrimSpace(cell(row, cols, colBank))
	p.AccountType = strings.TrimSpace(cell(row, cols, colAccountType))
}

// normalizeHeader folds case, trims, and joins spaces with underscores so
// "Salario Fijo" matches salario_fijo.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

// cell returns the named column's value or empty when the row is short.
func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// truthy interprets the spreadsheet's flag spellings.
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "si", "sí", "yes", "x", "1", "true", "verdadero":
		return true
	}
	return false
}

// parseAmount reads a money cell; blank is zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
