// Package amortization generates installment schedules for the four supported
// amortization systems.
package amortization

import (
	"time"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// minorUnit is the number of decimals emitted amounts are rounded to.
const minorUnit = 2

var twelve = decimal.NewFromInt(12)

// Terms are the inputs needed to build a schedule.
type Terms struct {
	Principal        decimal.Decimal
	AnnualRate       decimal.Decimal // Fraction, 0.12 = 12%
	InstallmentCount int
	Frequency        domain.Frequency
	System           domain.AmortizationSystem
	OriginationDate  time.Time // Only used to size a SINGLE period
	FirstDueDate     time.Time
}

// Validate rejects terms that cannot produce a schedule.
func (t Terms) Validate() error {
	if !t.Principal.IsPositive() {
		return apperrors.Invalid("principal", "must be greater than zero")
	}
	if t.AnnualRate.IsNegative() {
		return apperrors.Invalid("annualRate", "must not be negative")
	}
	if t.InstallmentCount < 1 {
		return apperrors.Invalid("installmentCount", "must be at least 1")
	}
	if !t.Frequency.Valid() {
		return &apperrors.UnsupportedConfigurationError{Setting: "frequency", Value: string(t.Frequency)}
	}
	if !t.System.Valid() {
		return &apperrors.UnsupportedConfigurationError{Setting: "amortization system", Value: string(t.System)}
	}
	if t.Frequency == domain.Single && t.InstallmentCount != 1 {
		return apperrors.Invalid("installmentCount", "a SINGLE frequency debt has exactly one installment")
	}
	if t.FirstDueDate.IsZero() {
		return apperrors.Invalid("firstDueDate", "is required")
	}
	return nil
}

// MonthsPerPeriod resolves f for the terms' frequency. A SINGLE period spans the
// whole months between origination and the first due date.
func (t Terms) MonthsPerPeriod() int {
	if months, ok := t.Frequency.MonthsPerPeriod(); ok {
		return months
	}
	return domain.MonthsBetween(t.OriginationDate, t.FirstDueDate)
}

// PeriodicRate returns i = r/12 × f.
func PeriodicRate(annualRate decimal.Decimal, monthsPerPeriod int) decimal.Decimal {
	return annualRate.Div(twelve).Mul(decimal.NewFromInt(int64(monthsPerPeriod)))
}

// FrenchPayment returns A = P × i / (1 − (1+i)^−n), or P/n when i is zero.
func FrenchPayment(principal, periodicRate decimal.Decimal, n int) decimal.Decimal {
	count := decimal.NewFromInt(int64(n))
	if periodicRate.IsZero() {
		return principal.Div(count)
	}
	growth := decimal.NewFromInt(1).Add(periodicRate).Pow(count)
	// P·i/(1−(1+i)^−n) == P·i·(1+i)^n/((1+i)^n−1)
	return principal.Mul(periodicRate).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1)))
}

type splitFunc func(outstanding decimal.Decimal) (capital, interest decimal.Decimal)

// Generate builds the installment schedule for the terms.
func Generate(t Terms) ([]domain.Installment, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	f := t.MonthsPerPeriod()
	n := t.InstallmentCount
	i := PeriodicRate(t.AnnualRate, f)

	var split splitFunc
	switch t.System {
	case domain.French:
		payment := FrenchPayment(t.Principal, i, n)
		split = func(outstanding decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
			interest := outstanding.Mul(i)
			return payment.Sub(interest), interest
		}
	case domain.German:
		constant := t.Principal.Div(decimal.NewFromInt(int64(n)))
		split = func(outstanding decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
			return constant, outstanding.Mul(i)
		}
	case domain.American:
		split = func(outstanding decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
			return decimal.Zero, outstanding.Mul(i)
		}
	case domain.Bullet:
		split = func(decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
			return decimal.Zero, decimal.Zero
		}
	}

	schedule := make([]domain.Installment, 0, n)
	outstanding := t.Principal
	emittedCapital := decimal.Zero
	roundedPrincipal := t.Principal.Round(minorUnit)

	for k := 1; k <= n; k++ {
		capital, interest := split(outstanding)

		var capitalOut decimal.Decimal
		if k == n {
			// The final row repays whatever is left so emitted capital sums to P.
			capital = outstanding
			capitalOut = roundedPrincipal.Sub(emittedCapital)
		} else {
			capitalOut = capital.Round(minorUnit)
		}
		capitalOut = floorZero(capitalOut)
		interestOut := floorZero(interest.Round(minorUnit))

		outstanding = outstanding.Sub(capital)
		emittedCapital = emittedCapital.Add(capitalOut)

		schedule = append(schedule, domain.Installment{
			Number:   k,
			DueDate:  domain.AddMonths(t.FirstDueDate, f*(k-1)),
			Capital:  capitalOut,
			Interest: interestOut,
			Total:    capitalOut.Add(interestOut),
		})
	}

	return schedule, nil
}

// Totals sums a schedule's capital, interest and total columns.
func Totals(schedule []domain.Installment) (capital, interest, total decimal.Decimal) {
	capital, interest, total = decimal.Zero, decimal.Zero, decimal.Zero
	for _, inst := range schedule {
		capital = capital.Add(inst.Capital)
		interest = interest.Add(inst.Interest)
		total = total.Add(inst.Total)
	}
	return capital, interest, total
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
