package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"plain", date(2025, 1, 15), 1, date(2025, 2, 15)},
		{"clamps to february", date(2025, 1, 31), 1, date(2025, 2, 28)},
		{"leap february", date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"crosses year", date(2025, 11, 30), 3, date(2026, 2, 28)},
		{"zero", date(2025, 5, 5), 0, date(2025, 5, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.AddMonths(tt.in, tt.n))
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	assert.Equal(t, 6, domain.MonthsBetween(date(2025, 1, 10), date(2025, 7, 10)))
	assert.Equal(t, 5, domain.MonthsBetween(date(2025, 1, 10), date(2025, 7, 9)))
	assert.Equal(t, 1, domain.MonthsBetween(date(2025, 1, 10), date(2025, 1, 20)))
	assert.Equal(t, 12, domain.MonthsBetween(date(2024, 3, 1), date(2025, 3, 1)))
}

func TestDebt_Maturity(t *testing.T) {
	t.Run("from schedule", func(t *testing.T) {
		d := domain.Debt{Schedule: []domain.Installment{
			{Number: 1, DueDate: date(2025, 2, 1)},
			{Number: 2, DueDate: date(2025, 3, 1)},
		}}
		assert.Equal(t, date(2025, 3, 1), d.Maturity())
	})

	t.Run("computed without schedule", func(t *testing.T) {
		d := domain.Debt{
			FirstDueDate:     date(2025, 2, 1),
			InstallmentCount: 4,
			Frequency:        domain.Quarterly,
		}
		assert.Equal(t, date(2026, 2, 1), d.Maturity())
	})

	t.Run("single frequency uses origination gap", func(t *testing.T) {
		d := domain.Debt{
			OriginationDate:  date(2025, 1, 1),
			FirstDueDate:     date(2025, 7, 1),
			InstallmentCount: 1,
			Frequency:        domain.Single,
		}
		assert.Equal(t, date(2026, 1, 1), d.Maturity())
	})
}

func TestDebt_IsInterestBearing(t *testing.T) {
	d := domain.Debt{AnnualRate: decimal.RequireFromString("0.12"), System: domain.French}
	assert.True(t, d.IsInterestBearing())

	d.System = domain.Bullet
	assert.False(t, d.IsInterestBearing())

	d = domain.Debt{AnnualRate: decimal.Zero, System: domain.German}
	assert.False(t, d.IsInterestBearing())
}

func TestDebt_NextUnpaidInstallment(t *testing.T) {
	d := domain.Debt{Schedule: []domain.Installment{{Number: 1, Paid: true}, {Number: 2}, {Number: 3}}}
	idx, ok := d.NextUnpaidInstallment()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	d.Schedule[1].Paid, d.Schedule[2].Paid = true, true
	_, ok = d.NextUnpaidInstallment()
	assert.False(t, ok)
}

func TestFrequency(t *testing.T) {
	m, ok := domain.Semiannual.MonthsPerPeriod()
	assert.True(t, ok)
	assert.Equal(t, 6, m)

	_, ok = domain.Single.MonthsPerPeriod()
	assert.False(t, ok)
	assert.True(t, domain.Single.Valid())
	assert.False(t, domain.Frequency("WEEKLY").Valid())
}

func TestMovementKind(t *testing.T) {
	m := domain.Movement{Details: domain.AccrualDetails{PeriodKey: "2025-03"}}
	assert.Equal(t, domain.MovementAccrual, m.Kind())
	assert.Equal(t, "2025-03", domain.PeriodKeyFor(date(2025, 3, 31)))
	assert.Equal(t, domain.MovementKind(""), domain.Movement{}.Kind())
}
