// Package allocation splits a payment into interest and capital and validates how
// it is funded.
package allocation

import (
	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SettlementTolerance is the largest accepted gap between the splits and the amount.
var SettlementTolerance = decimal.RequireFromString("0.01")

// Position is the debt's state at the moment of payment.
type Position struct {
	Outstanding     decimal.Decimal // Debt currency
	InterestPending decimal.Decimal // Functional currency
	CurrentRate     decimal.Decimal // Debt currency -> functional, 1 for functional debts
	RecordedRate    decimal.Decimal // Checkpoint the liability is carried at
	Kind            domain.CurrencyKind
}

// OutstandingFunctional is the outstanding balance valued at the current rate.
func (p Position) OutstandingFunctional() decimal.Decimal {
	return p.Outstanding.Mul(p.rate()).Round(2)
}

// Payoff is the amount that settles the debt in full.
func (p Position) Payoff() decimal.Decimal {
	return p.OutstandingFunctional().Add(p.InterestPending)
}

func (p Position) rate() decimal.Decimal {
	if p.Kind.IsFunctionalCurrency() || !p.CurrentRate.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return p.CurrentRate
}

func (p Position) recordedRate() decimal.Decimal {
	if p.Kind.IsFunctionalCurrency() || !p.RecordedRate.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return p.RecordedRate
}

// Result is the allocation of a payment amount.
type Result struct {
	Amount             decimal.Decimal
	InterestApplied    decimal.Decimal // Functional
	CapitalApplied     decimal.Decimal // Functional
	CapitalAppliedDebt decimal.Decimal // Debt currency
	LiabilityRelief    decimal.Decimal // Capital carried at the recorded rate
	FXDifference       decimal.Decimal // CapitalApplied - LiabilityRelief
	SettlesDebt        bool
}

// Allocate applies amount interest-first against the position under the given mode.
// The amount is in functional currency.
func Allocate(mode domain.PaymentMode, amount decimal.Decimal, pos Position) (Result, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return Result{}, apperrors.Invalid("amount", "must be greater than zero")
	}

	payoff := pos.Payoff()
	switch mode {
	case domain.PayTotalCancellation:
		if !amount.Equal(payoff) {
			return Result{}, apperrors.Invalid("amount", "total cancellation requires exactly %s, got %s", payoff.StringFixed(2), amount.StringFixed(2))
		}
	case domain.PayPartial:
		if !amount.LessThan(payoff) {
			return Result{}, apperrors.Invalid("amount", "a partial payment must be below the payoff amount %s", payoff.StringFixed(2))
		}
	case domain.PayByInstallment, domain.PayExtraordinary:
	default:
		return Result{}, &apperrors.UnsupportedConfigurationError{Setting: "payment mode", Value: string(mode)}
	}
	if amount.GreaterThan(payoff) {
		return Result{}, apperrors.Invalid("amount", "%s exceeds the pending balance %s", amount.StringFixed(2), payoff.StringFixed(2))
	}

	interest := decimal.Min(amount, decimal.Max(pos.InterestPending, decimal.Zero))
	capital := decimal.Max(decimal.Zero, amount.Sub(interest))

	outstandingFunctional := pos.OutstandingFunctional()
	if capital.GreaterThan(outstandingFunctional) {
		return Result{}, apperrors.Invalid("amount", "capital %s exceeds the outstanding balance %s", capital.StringFixed(2), outstandingFunctional.StringFixed(2))
	}

	res := Result{Amount: amount, InterestApplied: interest, CapitalApplied: capital}
	if capital.Equal(outstandingFunctional) {
		res.CapitalAppliedDebt = pos.Outstanding
	} else {
		res.CapitalAppliedDebt = decimal.Min(capital.Div(pos.rate()).Round(2), pos.Outstanding)
	}
	if res.CapitalAppliedDebt.Equal(pos.Outstanding) {
		res.SettlesDebt = true
	}

	res.LiabilityRelief = res.CapitalAppliedDebt.Mul(pos.recordedRate()).Round(2)
	if pos.Kind.IsFunctionalCurrency() {
		res.LiabilityRelief = capital
	}
	res.FXDifference = capital.Sub(res.LiabilityRelief)
	return res, nil
}

// ValidateSettlements checks that every split names an account, is positive, and
// that together they cover amount within SettlementTolerance.
func ValidateSettlements(amount decimal.Decimal, splits []domain.SettlementSplit) error {
	if len(splits) == 0 {
		return apperrors.Invalid("settlements", "at least one settlement account is required")
	}
	sum := decimal.Zero
	for _, s := range splits {
		if s.AccountID == "" {
			return apperrors.Invalid("settlements", "settlement account is required")
		}
		if !s.Amount.IsPositive() {
			return apperrors.Invalid("settlements", "settlement amounts must be greater than zero")
		}
		sum = sum.Add(s.Amount)
	}
	if sum.Sub(amount).Abs().GreaterThan(SettlementTolerance) {
		return apperrors.Invalid("settlements", "splits total %s but the payment is %s", sum.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}

// PendingInterest sums posted accrual interest minus the interest already paid,
// recomputed from the full movement history.
func PendingInterest(movements []domain.Movement) decimal.Decimal {
	pending := decimal.Zero
	for _, m := range movements {
		switch d := m.Details.(type) {
		case domain.AccrualDetails:
			pending = pending.Add(m.FunctionalAmount)
		case domain.PaymentDetails:
			pending = pending.Sub(d.InterestApplied)
		case domain.RefinancingDetails:
			pending = pending.Sub(d.CapitalizedInterest)
		}
	}
	return decimal.Max(pending, decimal.Zero)
}
