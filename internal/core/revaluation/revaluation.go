// Package revaluation restates a foreign-currency liability at a new exchange rate.
package revaluation

import (
	"fmt"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Threshold is the smallest difference worth posting.
var Threshold = decimal.RequireFromString("0.01")

// ErrBelowThreshold is returned when the revaluation would post less than Threshold.
var ErrBelowThreshold = fmt.Errorf("%w: revaluation difference is below %s", apperrors.ErrValidation, Threshold.String())

// Result is the translation difference of one revaluation.
type Result struct {
	Outstanding     decimal.Decimal
	PreviousRate    decimal.Decimal
	NewRate         decimal.Decimal
	HistoricalValue decimal.Decimal // Outstanding × previous rate
	CurrentValue    decimal.Decimal // Outstanding × new rate
	Difference      decimal.Decimal // Current − historical; positive is a loss on a liability
}

// IsLoss reports whether the liability grew in functional currency.
func (r Result) IsLoss() bool {
	return r.Difference.IsPositive()
}

// Revalue measures outstanding at currentRate against the recordedRate checkpoint.
func Revalue(kind domain.CurrencyKind, outstanding, recordedRate, currentRate decimal.Decimal) (Result, error) {
	if kind.IsFunctionalCurrency() {
		return Result{}, apperrors.Invalid("currency", "%s is the functional currency and is never revalued", kind.Code())
	}
	if !outstanding.IsPositive() {
		return Result{}, apperrors.Invalid("outstandingBalance", "nothing to revalue")
	}
	if !currentRate.IsPositive() {
		return Result{}, apperrors.Invalid("rate", "must be greater than zero")
	}

	res := Result{
		Outstanding:     outstanding,
		PreviousRate:    recordedRate,
		NewRate:         currentRate,
		HistoricalValue: outstanding.Mul(recordedRate).Round(2),
		CurrentValue:    outstanding.Mul(currentRate).Round(2),
	}
	res.Difference = res.CurrentValue.Sub(res.HistoricalValue)
	if res.Difference.Abs().LessThan(Threshold) {
		return Result{}, ErrBelowThreshold
	}
	return res, nil
}
