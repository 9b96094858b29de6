// Package csvexport writes amortization schedules as CSV.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/SscSPs/debt_ledger/internal/core/amortization"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/gocarina/gocsv"
)

// ScheduleRow is one CSV line. The trailing TOTAL line leaves DueDate empty.
type ScheduleRow struct {
	Number   string `csv:"number"`
	DueDate  string `csv:"due_date"`
	Capital  string `csv:"capital"`
	Interest string `csv:"interest"`
	Total    string `csv:"total"`
	Paid     bool   `csv:"paid"`
}

// ScheduleRows flattens a schedule, fixing money to two decimals and
// appending a TOTAL row when withTotals is set.
func ScheduleRows(schedule []domain.Installment, withTotals bool) []ScheduleRow {
	rows := make([]ScheduleRow, 0, len(schedule)+1)
	for _, inst := range schedule {
		rows = append(rows, ScheduleRow{
			Number:   fmt.Sprintf("%d", inst.Number),
			DueDate:  inst.DueDate.Format("2006-01-02"),
			Capital:  inst.Capital.StringFixed(2),
			Interest: inst.Interest.StringFixed(2),
			Total:    inst.Total.StringFixed(2),
			Paid:     inst.Paid,
		})
	}
	if withTotals {
		capital, interest, total := amortization.Totals(schedule)
		rows = append(rows, ScheduleRow{
			Number:   "TOTAL",
			Capital:  capital.StringFixed(2),
			Interest: interest.StringFixed(2),
			Total:    total.StringFixed(2),
		})
	}
	return rows
}

// WriteSchedule marshals the schedule to w using delim as the field separator.
func WriteSchedule(w io.Writer, schedule []domain.Installment, withTotals bool, delim rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delim

	rows := ScheduleRows(schedule, withTotals)
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing schedule CSV: %w", err)
	}
	return nil
}
