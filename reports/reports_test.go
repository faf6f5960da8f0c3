package reports

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abcopa/payroll-engine/payroll"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDefaultOutputName(t *testing.T) {
	name := DefaultOutputName(payroll.NewDate(2026, time.October, 15))
	assert.Equal(t, "nomina_quincenal_pago_20261015.xlsx", name)
}

func TestReadAttendanceRows_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "First Name"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Last Name"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "Ana"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "Pérez"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := ReadAttendanceRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "First Name", rows[0][0])
	assert.Equal(t, "Pérez", rows[1][1])
}

func TestReadAttendanceRows_MissingFile(t *testing.T) {
	_, err := ReadAttendanceRows(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestWritePayroll_LegacyColumns(t *testing.T) {
	period := payroll.PeriodFor(payroll.NewDate(2026, time.October, 5))
	table := &payroll.PayrollTable{
		Period:  period,
		PayDate: period.PayDate(),
		Lines: []payroll.PayrollLine{{
			EmployeeID: "8-123-456",
			Name:       "Ana Pérez",
			Title:      "Operaria",
			PolicyName: "hourly",
			Period:     period,
			PayDate:    period.PayDate(),

			TotalHours:    dec("88.00"),
			OvertimeHours: dec("6.00"),
			PremiumHours:  dec("8.00"),

			OvertimePay: dec("30.00"),
			PremiumPay:  dec("48.00"),
			GrossPay:    dec("430.00"),

			SocialInsurance:      dec("41.93"),
			EducationalInsurance: dec("5.38"),
			IncomeTax:            dec("5.00"),
			LoanInstallment:      dec("25.00"),
			TotalDeductions:      dec("77.31"),
			NetPay:               dec("352.69"),

			BankName:      "Banco General",
			AccountNumber: "0411223344",
			AccountType:   "Ahorro",
		}},
	}

	path := filepath.Join(t.TempDir(), "nomina.xlsx")
	require.NoError(t, WritePayroll(table, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	header := rows[0]
	// Downstream consumers (receipt generator, bank upload) match these
	// strings verbatim.
	assert.Contains(t, header, "Seguro Social (9.75%)")
	assert.Contains(t, header, "Seguro Educativo (1.25%)")
	assert.Contains(t, header, "Descuento Préstamo")
	assert.Contains(t, header, "Total Descuentos")
	assert.Contains(t, header, "Fecha de Pago")
	assert.Contains(t, header, "Pago Quincenal")

	byCol := make(map[string]string)
	for i, h := range header {
		if i < len(rows[1]) {
			byCol[h] = rows[1][i]
		}
	}
	assert.Equal(t, "8-123-456", byCol["ID"])
	assert.Equal(t, "Ana Pérez", byCol["Nombre"])
	assert.Equal(t, "Por Hora", byCol["Tipo"])
	assert.Equal(t, "15/10/2026", byCol["Fecha de Pago"])
	assert.Equal(t, "01/10/2026", byCol["Quincena Inicio"])
	assert.Equal(t, "430", byCol["Pago Quincenal"])
	assert.Equal(t, "25", byCol["Descuento Préstamo"])
	assert.Equal(t, "352.69", byCol["Pago Neto"])
}

func TestWritePayroll_EmptyTableStillWritesHeader(t *testing.T) {
	period := payroll.PeriodFor(payroll.NewDate(2026, time.October, 5))
	table := &payroll.PayrollTable{Period: period, PayDate: period.PayDate()}

	path := filepath.Join(t.TempDir(), "nomina.xlsx")
	require.NoError(t, WritePayroll(table, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ID", rows[0][0])
}
