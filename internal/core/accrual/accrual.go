// Package accrual computes the monthly interest slices a debt still needs posted.
package accrual

import (
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DaysInYear is the fixed denominator of the actual/365 convention. Leap years
// do not change it.
const DaysInYear = 365

var daysInYear = decimal.NewFromInt(DaysInYear)

// Slice is one calendar month, or the part of it inside the accrual window.
type Slice struct {
	PeriodKey string
	Start     time.Time
	End       time.Time
	Days      int // Inclusive of both ends
}

// Horizon returns the last day accrual may cover: the end of the last fully
// elapsed calendar month before now, capped at maturity.
func Horizon(now, maturity time.Time) time.Time {
	now = truncateDay(now)
	lastClosed := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	if !maturity.IsZero() {
		if m := truncateDay(maturity); m.Before(lastClosed) {
			return m
		}
	}
	return lastClosed
}

// Slices walks month by month from the month containing origination up to the
// horizon and returns every non-empty slice.
func Slices(origination, horizon time.Time) []Slice {
	origination = truncateDay(origination)
	horizon = truncateDay(horizon)

	var slices []Slice
	for monthStart := time.Date(origination.Year(), origination.Month(), 1, 0, 0, 0, 0, time.UTC); !monthStart.After(horizon); monthStart = monthStart.AddDate(0, 1, 0) {
		start := monthStart
		if origination.After(start) {
			start = origination
		}
		end := monthStart.AddDate(0, 1, -1)
		if horizon.Before(end) {
			end = horizon
		}
		if start.After(end) {
			continue
		}
		slices = append(slices, Slice{
			PeriodKey: domain.PeriodKeyFor(monthStart),
			Start:     start,
			End:       end,
			Days:      int(end.Sub(start).Hours()/24) + 1,
		})
	}
	return slices
}

// Pending drops the slices whose period key is already posted.
func Pending(slices []Slice, posted map[string]struct{}) []Slice {
	out := make([]Slice, 0, len(slices))
	for _, s := range slices {
		if _, done := posted[s.PeriodKey]; done {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Interest returns outstanding × annualRate × days/365 in the debt currency, unrounded.
func Interest(outstanding, annualRate decimal.Decimal, days int) decimal.Decimal {
	return outstanding.Mul(annualRate).Mul(decimal.NewFromInt(int64(days))).Div(daysInYear)
}

// Amounts carries a slice's interest in both currencies.
type Amounts struct {
	Debt       decimal.Decimal
	Functional decimal.Decimal
}

// Compute prices a slice. ok is false when the functional amount rounds to zero
// or below, in which case the slice must be skipped without consuming its key.
func Compute(s Slice, outstanding, annualRate, rate decimal.Decimal, kind domain.CurrencyKind) (Amounts, bool) {
	debtAmount := Interest(outstanding, annualRate, s.Days)
	functional := debtAmount
	if !kind.IsFunctionalCurrency() {
		functional = debtAmount.Mul(rate)
	}
	amounts := Amounts{Debt: debtAmount.Round(2), Functional: functional.Round(2)}
	return amounts, amounts.Functional.IsPositive()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
