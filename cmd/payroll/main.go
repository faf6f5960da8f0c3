/*
main.go - Command-line payroll runner

PURPOSE:
  Runs one quincena end to end from the terminal: load roster, read the
  biometric export, compute the table, withhold loans through the shared
  SQLite ledger, and write the output workbook.

COMMAND-LINE FLAGS:
  -roster      Employee master workbook (required)
  -attendance  Biometric attendance export (required)
  -out         Output workbook path (default: nomina_quincenal_pago_<paydate>.xlsx)
  -date        Reference date YYYY-MM-DD selecting the quincena
               (default: latest punch in the file)
  -db          SQLite loan database; empty disables loan deductions

EXIT STATUS:
  0 on success; 1 on any error, including attendance validation failures
  (each violation is printed before exiting).

EXAMPLES:
  ./payroll -roster=empleados.xlsx -attendance=oct_1-15.xlsx
  ./payroll -roster=empleados.xlsx -attendance=oct.xlsx -date=2026-10-20 -db=loans.db

SEE ALSO:
  - payroll/engine.go: The run pipeline
  - reports: Workbook IO
*/
package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/shopspring/decimal"

	"github.com/abcopa/payroll-engine/loans"
	"github.com/abcopa/payroll-engine/payroll"
	"github.com/abcopa/payroll-engine/reports"
	"github.com/abcopa/payroll-engine/roster"
	"github.com/abcopa/payroll-engine/store/sqlite"
)

func main() {
	rosterPath := flag.String("roster", "", "employee master workbook (required)")
	attendancePath := flag.String("attendance", "", "biometric attendance export (required)")
	outPath := flag.String("out", "", "output workbook path (default: pay-date name)")
	dateStr := flag.String("date", "", "reference date YYYY-MM-DD (default: latest punch)")
	dbPath := flag.String("db", "", "SQLite loan database; empty disables loan deductions")
	flag.Parse()

	if *rosterPath == "" || *attendancePath == "" {
		flag.Usage()
		log.Fatal("both -roster and -attendance are required")
	}

	var refDate *payroll.Date
	if *dateStr != "" {
		d, err := payroll.ParseDate(*dateStr)
		if err != nil {
			log.Fatalf("invalid -date %q: %v", *dateStr, err)
		}
		refDate = &d
	}

	profiles, err := roster.Load(*rosterPath)
	if err != nil {
		log.Fatalf("load roster: %v", err)
	}
	log.Printf("Loaded %d employees from %s", len(profiles), *rosterPath)

	rows, err := reports.ReadAttendanceRows(*attendancePath)
	if err != nil {
		log.Fatalf("read attendance: %v", err)
	}

	engine := &payroll.Engine{Roster: profiles}
	if *dbPath != "" {
		store, err := sqlite.New(*dbPath)
		if err != nil {
			log.Fatalf("open loan database: %v", err)
		}
		defer store.Close()
		engine.Loans = loans.NewLedger(store)
	}

	result, err := engine.ComputePayroll(context.Background(), rows, refDate)
	if err != nil {
		var vErr *payroll.ValidationError
		if errors.As(err, &vErr) {
			log.Printf("Attendance validation failed; no payroll was computed:")
			for _, v := range vErr.Violations {
				log.Printf("  - %s", v.Message)
			}
			log.Fatal("fix the attendance file and re-run")
		}
		log.Fatalf("payroll run failed: %v", err)
	}

	for _, w := range result.Warnings {
		log.Printf("[warning] %s", w.Message)
	}

	out := *outPath
	if out == "" {
		out = reports.DefaultOutputName(result.Table.PayDate)
	}
	if err := reports.WritePayroll(result.Table, out); err != nil {
		log.Fatalf("write payroll workbook: %v", err)
	}

	table := result.Table
	var overtime, premiumPay, total decimal.Decimal
	for _, line := range table.Lines {
		overtime = overtime.Add(line.OvertimeHours)
		premiumPay = premiumPay.Add(line.PremiumPay)
		total = total.Add(line.NetPay)
	}
	log.Printf("Quincena %s", table.Period)
	log.Printf("Pay date: %s", table.PayDate)
	log.Printf("Employees paid: %d", len(table.Lines))
	log.Printf("Overtime hours: %s", overtime)
	log.Printf("Premium-day pay: %s", premiumPay.StringFixed(2))
	log.Printf("Total net payroll: %s", total.StringFixed(2))
	log.Printf("Payroll written to %s", out)
}
