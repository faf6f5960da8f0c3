/*
Package reports handles the xlsx surfaces of the engine: reading the
biometric attendance export and writing the payroll workbook.

PURPOSE:
  The attendance export and the output workbook both keep their legacy
  shapes so the rest of the office tooling (receipt generator, bank
  uploads) keeps working. In particular the output headers are the exact
  Spanish strings downstream consumers look up, deduction columns included.

SEE ALSO:
  - payroll/attendance.go: Consumes the rows read here
  - roster: The employee master reader sharing the xlsx stack
*/
package reports

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/abcopa/payroll-engine/payroll"
)

// outputDateLayout matches the legacy workbook's date cells.
const outputDateLayout = "02/01/2006"

// ReadAttendanceRows extracts the first sheet of the biometric export as raw
// string rows, header included.
func ReadAttendanceRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open attendance %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read attendance sheet: %w", err)
	}
	return rows, nil
}

// DefaultOutputName is the legacy naming scheme keyed to the pay date.
func DefaultOutputName(payDate payroll.Date) string {
	return fmt.Sprintf("nomina_quincenal_pago_%s.xlsx", payDate.Time().Format("20060102"))
}

// Output column headers. Downstream tools match these strings verbatim;
// do not retranslate or reformat them.
var outputHeaders = []string{
	"ID",
	"Nombre",
	"Cargo",
	"Tipo",
	"Quincena Inicio",
	"Quincena Fin",
	"Fecha de Pago",
	"Total Horas Trabajadas",
	"Horas Extra (después 3 PM)",
	"Horas Feriado/Domingo",
	"Pago Extra (25% adicional)",
	"Pago Feriado/Domingo (50% adicional)",
	"Bono Horas Extra",
	"Pago Quincenal",
	"Seguro Social (9.75%)",
	"Seguro Educativo (1.25%)",
	"Impuesto Retenido",
	"Descuento Préstamo",
	"Total Descuentos",
	"Pago Neto",
	"Número de Cuenta",
	"Banco",
	"Tipo de Cuenta",
}

// policyLabels are the legacy "Tipo" spellings.
var policyLabels = map[string]string{
	"fixed":              "Salario Fijo",
	"guaranteed-minimum": "Empleado Fijo",
	"hourly":             "Por Hora",
}

// WritePayroll writes the payroll table as an xlsx workbook at path.
func WritePayroll(table *payroll.PayrollTable, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, h := range outputHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for r, line := range table.Lines {
		values := []any{
			string(line.EmployeeID),
			line.Name,
			line.Title,
			policyLabel(line.PolicyName),
			line.Period.Start.Time().Format(outputDateLayout),
			line.Period.End.Time().Format(outputDateLayout),
			line.PayDate.Time().Format(outputDateLayout),
			cellNumber(line.TotalHours),
			cellNumber(line.OvertimeHours),
			cellNumber(line.PremiumHours),
			cellNumber(line.OvertimePay),
			cellNumber(line.PremiumPay),
			cellNumber(line.MinimumBonus),
			cellNumber(line.GrossPay),
			cellNumber(line.SocialInsurance),
			cellNumber(line.EducationalInsurance),
			cellNumber(line.IncomeTax),
			cellNumber(line.LoanInstallment),
			cellNumber(line.TotalDeductions),
			cellNumber(line.NetPay),
			line.AccountNumber,
			line.BankName,
			line.AccountType,
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", r+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save payroll workbook %s: %w", path, err)
	}
	return nil
}

func policyLabel(name string) string {
	if label, ok := policyLabels[name]; ok {
		return label
	}
	return name
}

// cellNumber writes a decimal as a float cell so the workbook sums natively.
// Amounts are already rounded to 2 places upstream.
func cellNumber(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
