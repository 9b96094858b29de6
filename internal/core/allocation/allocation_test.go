package allocation_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/allocation"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var local = domain.NewCurrencyKind("ARS", "ARS")

func localPosition(outstanding, pending string) allocation.Position {
	return allocation.Position{
		Outstanding:     dec(outstanding),
		InterestPending: dec(pending),
		CurrentRate:     decimal.NewFromInt(1),
		RecordedRate:    decimal.NewFromInt(1),
		Kind:            local,
	}
}

func TestAllocate_TotalCancellation(t *testing.T) {
	pos := localPosition("50000", "3000")

	res, err := allocation.Allocate(domain.PayTotalCancellation, dec("53000"), pos)
	require.NoError(t, err)
	assert.Equal(t, "3000.00", res.InterestApplied.StringFixed(2))
	assert.Equal(t, "50000.00", res.CapitalApplied.StringFixed(2))
	assert.True(t, res.SettlesDebt)

	_, err = allocation.Allocate(domain.PayTotalCancellation, dec("52999.99"), pos)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAllocate_InterestFirst(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		wantInterest string
		wantCapital  string
	}{
		{"less than interest", "1000", "1000.00", "0.00"},
		{"exactly interest", "3000", "3000.00", "0.00"},
		{"interest and capital", "10000", "3000.00", "7000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := allocation.Allocate(domain.PayExtraordinary, dec(tt.amount), localPosition("50000", "3000"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantInterest, res.InterestApplied.StringFixed(2))
			assert.Equal(t, tt.wantCapital, res.CapitalApplied.StringFixed(2))
			assert.True(t, res.InterestApplied.Add(res.CapitalApplied).Equal(res.Amount))
			assert.True(t, res.FXDifference.IsZero())
			assert.False(t, res.SettlesDebt)
		})
	}
}

func TestAllocate_Rejections(t *testing.T) {
	pos := localPosition("50000", "3000")

	_, err := allocation.Allocate(domain.PayExtraordinary, decimal.Zero, pos)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = allocation.Allocate(domain.PayExtraordinary, dec("53000.01"), pos)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = allocation.Allocate(domain.PayPartial, dec("53000"), pos)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = allocation.Allocate("BARTER", dec("10"), pos)
	var cfgErr *apperrors.UnsupportedConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestAllocate_ForeignRealisedDifference(t *testing.T) {
	pos := allocation.Position{
		Outstanding:     dec("1000"),
		InterestPending: decimal.Zero,
		CurrentRate:     dec("1100"),
		RecordedRate:    dec("1000"),
		Kind:            domain.NewCurrencyKind("USD", "ARS"),
	}

	res, err := allocation.Allocate(domain.PayPartial, dec("110000"), pos)
	require.NoError(t, err)
	assert.Equal(t, "100.00", res.CapitalAppliedDebt.StringFixed(2))
	assert.Equal(t, "100000.00", res.LiabilityRelief.StringFixed(2))
	assert.Equal(t, "10000.00", res.FXDifference.StringFixed(2))
	assert.True(t, res.CapitalApplied.LessThanOrEqual(pos.OutstandingFunctional()))
}

func TestValidateSettlements(t *testing.T) {
	amount := dec("1000")

	assert.NoError(t, allocation.ValidateSettlements(amount, []domain.SettlementSplit{
		{AccountID: "cash", Amount: dec("600")},
		{AccountID: "wallet", Amount: dec("400.01"), WalletCurrency: "USD"},
	}))
	assert.ErrorIs(t, allocation.ValidateSettlements(amount, nil), apperrors.ErrValidation)
	assert.ErrorIs(t, allocation.ValidateSettlements(amount, []domain.SettlementSplit{{AccountID: "cash", Amount: dec("999.98")}}), apperrors.ErrValidation)
	assert.ErrorIs(t, allocation.ValidateSettlements(amount, []domain.SettlementSplit{{Amount: amount}}), apperrors.ErrValidation)
}

func TestPendingInterest(t *testing.T) {
	movements := []domain.Movement{
		{FunctionalAmount: dec("1000"), Details: domain.AccrualDetails{PeriodKey: "2025-01"}},
		{FunctionalAmount: dec("900"), Details: domain.AccrualDetails{PeriodKey: "2025-02"}},
		{FunctionalAmount: dec("5000"), Details: domain.PaymentDetails{InterestApplied: dec("1500")}},
		{FunctionalAmount: dec("7000"), Details: domain.DisbursementDetails{}},
	}
	assert.Equal(t, "400.00", allocation.PendingInterest(movements).StringFixed(2))
}
