package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/amortization"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/SscSPs/debt_ledger/internal/utils/csvexport"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type scheduleFlags struct {
	principal   string
	rate        string
	count       int
	frequency   string
	system      string
	origination string
	firstDue    string
	csv         bool
	delimiter   string
}

func newScheduleCmd() *cobra.Command {
	f := &scheduleFlags{}
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Preview an amortization schedule",
		Long: `Computes an amortization schedule without touching the database.

Example:
  debtctl schedule --principal 10000 --rate 0.12 --count 12 --first-due 2025-02-01
  debtctl schedule --principal 5000 --system GERMAN --count 6 --first-due 2025-02-01 --csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			terms, err := f.terms()
			if err != nil {
				return err
			}
			schedule, err := amortization.Generate(terms)
			if err != nil {
				return err
			}
			if f.csv {
				delim := []rune(f.delimiter)
				if len(delim) != 1 {
					return fmt.Errorf("delimiter must be a single character, got %q", f.delimiter)
				}
				return csvexport.WriteSchedule(cmd.OutOrStdout(), schedule, true, delim[0])
			}
			return printSchedule(cmd.OutOrStdout(), schedule)
		},
	}

	cmd.Flags().StringVar(&f.principal, "principal", "", "Amount borrowed")
	cmd.Flags().StringVar(&f.rate, "rate", "0", "Annual nominal rate as a fraction, 0.12 = 12%")
	cmd.Flags().IntVar(&f.count, "count", 12, "Number of installments")
	cmd.Flags().StringVar(&f.frequency, "frequency", string(domain.Monthly), "MONTHLY, BIMONTHLY, QUARTERLY, SEMIANNUAL, ANNUAL or SINGLE")
	cmd.Flags().StringVar(&f.system, "system", string(domain.French), "FRENCH, GERMAN, AMERICAN or BULLET")
	cmd.Flags().StringVar(&f.origination, "origination", "", "Origination date, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&f.firstDue, "first-due", "", "First due date, YYYY-MM-DD")
	cmd.Flags().BoolVar(&f.csv, "csv", false, "Write CSV instead of a table")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", ",", "CSV field delimiter")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("first-due")
	return cmd
}

func (f *scheduleFlags) terms() (amortization.Terms, error) {
	principal, err := decimal.NewFromString(f.principal)
	if err != nil {
		return amortization.Terms{}, fmt.Errorf("invalid principal %q: %w", f.principal, err)
	}
	rate, err := decimal.NewFromString(f.rate)
	if err != nil {
		return amortization.Terms{}, fmt.Errorf("invalid rate %q: %w", f.rate, err)
	}
	firstDue, err := time.Parse("2006-01-02", f.firstDue)
	if err != nil {
		return amortization.Terms{}, fmt.Errorf("invalid first due date %q: %w", f.firstDue, err)
	}
	origination := time.Now().UTC().Truncate(24 * time.Hour)
	if f.origination != "" {
		if origination, err = time.Parse("2006-01-02", f.origination); err != nil {
			return amortization.Terms{}, fmt.Errorf("invalid origination date %q: %w", f.origination, err)
		}
	}
	return amortization.Terms{
		Principal:        principal,
		AnnualRate:       rate,
		InstallmentCount: f.count,
		Frequency:        domain.Frequency(strings.ToUpper(f.frequency)),
		System:           domain.AmortizationSystem(strings.ToUpper(f.system)),
		OriginationDate:  origination,
		FirstDueDate:     firstDue,
	}, nil
}

func printSchedule(w io.Writer, schedule []domain.Installment) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tDue date\tCapital\tInterest\tTotal\t")
	for _, row := range csvexport.ScheduleRows(schedule, true) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", row.Number, row.DueDate, row.Capital, row.Interest, row.Total)
	}
	return tw.Flush()
}
