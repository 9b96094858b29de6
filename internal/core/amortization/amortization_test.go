package amortization_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/amortization"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func baseTerms(system domain.AmortizationSystem) amortization.Terms {
	return amortization.Terms{
		Principal:        dec("120000"),
		AnnualRate:       dec("0.12"),
		InstallmentCount: 12,
		Frequency:        domain.Monthly,
		System:           system,
		OriginationDate:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		FirstDueDate:     time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerate_FrenchFirstInstallment(t *testing.T) {
	schedule, err := amortization.Generate(baseTerms(domain.French))
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	first := schedule[0]
	assert.Equal(t, "1200.00", first.Interest.StringFixed(2))
	assert.Equal(t, "9461.85", first.Capital.StringFixed(2))
	assert.Equal(t, "10661.85", first.Total.StringFixed(2))
	assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), first.DueDate)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), schedule[11].DueDate)
}

func TestGenerate_CapitalSumsToPrincipal(t *testing.T) {
	cases := []struct {
		principal string
		rate      string
		n         int
		freq      domain.Frequency
	}{
		{"120000", "0.12", 12, domain.Monthly},
		{"1000", "0.35", 7, domain.Bimonthly},
		{"99999.99", "0.05", 4, domain.Quarterly},
		{"5000", "0", 3, domain.Semiannual},
		{"250000", "0.9", 30, domain.Monthly},
		{"333.33", "0.18", 2, domain.Annual},
	}

	for _, system := range []domain.AmortizationSystem{domain.French, domain.German, domain.American, domain.Bullet} {
		for _, c := range cases {
			terms := baseTerms(system)
			terms.Principal = dec(c.principal)
			terms.AnnualRate = dec(c.rate)
			terms.InstallmentCount = c.n
			terms.Frequency = c.freq

			schedule, err := amortization.Generate(terms)
			require.NoError(t, err)
			require.Len(t, schedule, c.n)

			capital, _, _ := amortization.Totals(schedule)
			assert.True(t, capital.Equal(terms.Principal), "%s %s: capital %s != %s", system, c.principal, capital, terms.Principal)

			for _, inst := range schedule {
				assert.True(t, inst.Total.Equal(inst.Capital.Add(inst.Interest)), "%s row %d total mismatch", system, inst.Number)
				assert.False(t, inst.Capital.IsNegative())
				assert.False(t, inst.Interest.IsNegative())
			}
		}
	}
}

func TestGenerate_German(t *testing.T) {
	schedule, err := amortization.Generate(baseTerms(domain.German))
	require.NoError(t, err)

	assert.Equal(t, "10000.00", schedule[0].Capital.StringFixed(2))
	assert.Equal(t, "1200.00", schedule[0].Interest.StringFixed(2))
	assert.Equal(t, "10000.00", schedule[11].Capital.StringFixed(2))
	assert.Equal(t, "100.00", schedule[11].Interest.StringFixed(2))
}

func TestGenerate_American(t *testing.T) {
	schedule, err := amortization.Generate(baseTerms(domain.American))
	require.NoError(t, err)

	for _, inst := range schedule[:11] {
		assert.True(t, inst.Capital.IsZero())
		assert.Equal(t, "1200.00", inst.Interest.StringFixed(2))
	}
	assert.Equal(t, "120000.00", schedule[11].Capital.StringFixed(2))
	assert.Equal(t, "121200.00", schedule[11].Total.StringFixed(2))
}

func TestGenerate_Bullet(t *testing.T) {
	schedule, err := amortization.Generate(baseTerms(domain.Bullet))
	require.NoError(t, err)

	for _, inst := range schedule {
		assert.True(t, inst.Interest.IsZero())
	}
	assert.True(t, schedule[10].Capital.IsZero())
	assert.Equal(t, "120000.00", schedule[11].Total.StringFixed(2))
}

func TestGenerate_SingleFrequency(t *testing.T) {
	terms := baseTerms(domain.French)
	terms.Frequency = domain.Single
	terms.InstallmentCount = 1
	terms.FirstDueDate = time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	schedule, err := amortization.Generate(terms)
	require.NoError(t, err)
	require.Len(t, schedule, 1)
	// Six months at 1% per month.
	assert.Equal(t, "7200.00", schedule[0].Interest.StringFixed(2))
	assert.Equal(t, "120000.00", schedule[0].Capital.StringFixed(2))

	terms.InstallmentCount = 2
	_, err = amortization.Generate(terms)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGenerate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*amortization.Terms)
	}{
		{"zero principal", func(t *amortization.Terms) { t.Principal = decimal.Zero }},
		{"negative rate", func(t *amortization.Terms) { t.AnnualRate = dec("-0.01") }},
		{"no installments", func(t *amortization.Terms) { t.InstallmentCount = 0 }},
		{"missing first due date", func(t *amortization.Terms) { t.FirstDueDate = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := baseTerms(domain.French)
			tt.mutate(&terms)
			_, err := amortization.Generate(terms)
			var vErr *apperrors.ValidationError
			assert.True(t, errors.As(err, &vErr))
		})
	}
}

func TestGenerate_UnsupportedConfiguration(t *testing.T) {
	terms := baseTerms("SPANISH")
	_, err := amortization.Generate(terms)
	var cfgErr *apperrors.UnsupportedConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "amortization system", cfgErr.Setting)

	terms = baseTerms(domain.French)
	terms.Frequency = "WEEKLY"
	_, err = amortization.Generate(terms)
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "frequency", cfgErr.Setting)
}

func TestFrenchPayment_ZeroRate(t *testing.T) {
	payment := amortization.FrenchPayment(dec("1200"), decimal.Zero, 12)
	assert.True(t, payment.Equal(dec("100")))
}
