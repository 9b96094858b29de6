package accrual_test

import (
	"testing"
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/accrual"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHorizon(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		maturity time.Time
		want     time.Time
	}{
		{"end of previous month", day(2025, 4, 10), day(2030, 1, 1), day(2025, 3, 31)},
		{"first of month excludes it", day(2025, 4, 1), day(2030, 1, 1), day(2025, 3, 31)},
		{"capped at maturity", day(2025, 4, 10), day(2025, 2, 15), day(2025, 2, 15)},
		{"no maturity", time.Date(2025, 1, 20, 15, 4, 5, 0, time.UTC), time.Time{}, day(2024, 12, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accrual.Horizon(tt.now, tt.maturity))
		})
	}
}

func TestSlices(t *testing.T) {
	slices := accrual.Slices(day(2025, 1, 20), day(2025, 4, 15))
	require.Len(t, slices, 4)

	assert.Equal(t, accrual.Slice{PeriodKey: "2025-01", Start: day(2025, 1, 20), End: day(2025, 1, 31), Days: 12}, slices[0])
	assert.Equal(t, "2025-02", slices[1].PeriodKey)
	assert.Equal(t, 28, slices[1].Days)
	assert.Equal(t, 31, slices[2].Days)
	assert.Equal(t, accrual.Slice{PeriodKey: "2025-04", Start: day(2025, 4, 1), End: day(2025, 4, 15), Days: 15}, slices[3])
}

func TestSlices_LeapFebruary(t *testing.T) {
	slices := accrual.Slices(day(2024, 2, 1), day(2024, 2, 29))
	require.Len(t, slices, 1)
	assert.Equal(t, 29, slices[0].Days)
}

func TestSlices_HorizonBeforeOrigination(t *testing.T) {
	assert.Empty(t, accrual.Slices(day(2025, 5, 3), day(2025, 4, 30)))
}

func TestPending(t *testing.T) {
	slices := accrual.Slices(day(2025, 1, 1), day(2025, 3, 31))
	posted := map[string]struct{}{"2025-01": {}, "2025-03": {}}

	pending := accrual.Pending(slices, posted)
	require.Len(t, pending, 1)
	assert.Equal(t, "2025-02", pending[0].PeriodKey)

	all := map[string]struct{}{"2025-01": {}, "2025-02": {}, "2025-03": {}}
	assert.Empty(t, accrual.Pending(slices, all))
}

func TestCompute_ThirtyDayMonth(t *testing.T) {
	kind := domain.NewCurrencyKind("ARS", "ARS")
	slice := accrual.Slice{PeriodKey: "2025-04", Start: day(2025, 4, 1), End: day(2025, 4, 30), Days: 30}

	amounts, ok := accrual.Compute(slice, decimal.NewFromInt(100000), decimal.RequireFromString("0.24"), decimal.NewFromInt(1), kind)
	require.True(t, ok)
	assert.Equal(t, "1972.60", amounts.Functional.StringFixed(2))
	assert.True(t, amounts.Debt.Equal(amounts.Functional))
}

func TestCompute_ForeignConvertsAtRate(t *testing.T) {
	kind := domain.NewCurrencyKind("USD", "ARS")
	slice := accrual.Slice{Days: 365}

	amounts, ok := accrual.Compute(slice, decimal.NewFromInt(1000), decimal.RequireFromString("0.10"), decimal.NewFromInt(1050), kind)
	require.True(t, ok)
	assert.Equal(t, "100.00", amounts.Debt.StringFixed(2))
	assert.Equal(t, "105000.00", amounts.Functional.StringFixed(2))
}

func TestCompute_ZeroOutstandingIsSkipped(t *testing.T) {
	kind := domain.NewCurrencyKind("ARS", "ARS")
	_, ok := accrual.Compute(accrual.Slice{Days: 31}, decimal.Zero, decimal.RequireFromString("0.24"), decimal.NewFromInt(1), kind)
	assert.False(t, ok)
}
