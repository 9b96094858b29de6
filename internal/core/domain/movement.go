package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind discriminates the economic event a Movement records.
type MovementKind string

const (
	MovementOrigination      MovementKind = "ORIGINATION"
	MovementDisbursement     MovementKind = "DISBURSEMENT"
	MovementPayment          MovementKind = "PAYMENT"
	MovementAccrual          MovementKind = "ACCRUAL"
	MovementRevaluation      MovementKind = "REVALUATION"
	MovementRefinancing      MovementKind = "REFINANCING"
	MovementWalletWithdrawal MovementKind = "WALLET_WITHDRAWAL"
)

// JournalLinkStatus records whether the movement's posting exists.
type JournalLinkStatus string

const (
	JournalGenerated     JournalLinkStatus = "GENERATED"
	JournalMissing       JournalLinkStatus = "MISSING"
	JournalNotApplicable JournalLinkStatus = "NOT_APPLICABLE"
)

// DayCountActual365Fixed is the only day-count basis used for accrual.
const DayCountActual365Fixed = "ACT/365F"

// PaymentMode selects how the payment amount is determined and validated.
type PaymentMode string

const (
	PayByInstallment     PaymentMode = "BY_INSTALLMENT"
	PayPartial           PaymentMode = "PARTIAL"
	PayTotalCancellation PaymentMode = "TOTAL_CANCELLATION"
	PayExtraordinary     PaymentMode = "EXTRAORDINARY"
)

// MovementDetails is implemented by the per-kind payload of a Movement.
type MovementDetails interface {
	Kind() MovementKind
}

// OriginationDetails is the payload of an ORIGINATION movement.
type OriginationDetails struct {
	ReceivingAccountID string `json:"receivingAccountID"`
}

// DisbursementDetails is the payload of a DISBURSEMENT movement.
type DisbursementDetails struct {
	ReceivingAccountID string          `json:"receivingAccountID"`
	PreviousRate       decimal.Decimal `json:"previousRate"`
	RecordedRate       decimal.Decimal `json:"recordedRate"`
}

// SettlementSplit is one funding account's share of a payment, in functional currency.
// WalletCurrency is set when the account is a foreign-currency wallet.
type SettlementSplit struct {
	AccountID      string          `json:"accountID"`
	Amount         decimal.Decimal `json:"amount"`
	WalletCurrency string          `json:"walletCurrency,omitempty"`
}

// PaymentDetails is the payload of a PAYMENT movement. Amounts are functional currency
// unless suffixed Debt.
type PaymentDetails struct {
	Mode               PaymentMode       `json:"mode"`
	InterestApplied    decimal.Decimal   `json:"interestApplied"`
	CapitalApplied     decimal.Decimal   `json:"capitalApplied"`
	CapitalAppliedDebt decimal.Decimal   `json:"capitalAppliedDebt"`
	LiabilityRelief    decimal.Decimal   `json:"liabilityRelief"` // Capital at the recorded rate
	FXDifference       decimal.Decimal   `json:"fxDifference"`    // CapitalApplied - LiabilityRelief
	Settlements        []SettlementSplit `json:"settlements"`
	InstallmentNumbers []int             `json:"installmentNumbers,omitempty"`
}

// AccrualDetails is the payload of an ACCRUAL movement.
type AccrualDetails struct {
	PeriodKey       string          `json:"periodKey"`
	PeriodStart     time.Time       `json:"periodStart"`
	PeriodEnd       time.Time       `json:"periodEnd"`
	Days            int             `json:"days"`
	DayCountBasis   string          `json:"dayCountBasis"`
	OutstandingBase decimal.Decimal `json:"outstandingBase"`
	AnnualRate      decimal.Decimal `json:"annualRate"`
}

// RevaluationDetails is the payload of a REVALUATION movement.
type RevaluationDetails struct {
	PreviousRate    decimal.Decimal `json:"previousRate"`
	NewRate         decimal.Decimal `json:"newRate"`
	HistoricalValue decimal.Decimal `json:"historicalValue"`
	CurrentValue    decimal.Decimal `json:"currentValue"`
	Difference      decimal.Decimal `json:"difference"`
}

// RefinancingDetails is the payload of a REFINANCING movement.
type RefinancingDetails struct {
	CapitalizedInterest decimal.Decimal    `json:"capitalizedInterest"` // Functional currency
	PreviousAnnualRate  decimal.Decimal    `json:"previousAnnualRate"`
	NewAnnualRate       decimal.Decimal    `json:"newAnnualRate"`
	NewInstallmentCount int                `json:"newInstallmentCount"`
	NewFrequency        Frequency          `json:"newFrequency"`
	NewSystem           AmortizationSystem `json:"newSystem"`
}

// WalletDetails is the payload of a WALLET_WITHDRAWAL movement. It tracks holdings only.
type WalletDetails struct {
	WalletAccountID   string `json:"walletAccountID"`
	WalletCurrency    string `json:"walletCurrency"`
	PaymentMovementID string `json:"paymentMovementID"`
}

func (OriginationDetails) Kind() MovementKind  { return MovementOrigination }
func (DisbursementDetails) Kind() MovementKind { return MovementDisbursement }
func (PaymentDetails) Kind() MovementKind      { return MovementPayment }
func (AccrualDetails) Kind() MovementKind      { return MovementAccrual }
func (RevaluationDetails) Kind() MovementKind  { return MovementRevaluation }
func (RefinancingDetails) Kind() MovementKind  { return MovementRefinancing }
func (WalletDetails) Kind() MovementKind       { return MovementWalletWithdrawal }

// Movement is an append-only economic fact about a debt.
type Movement struct {
	MovementID       string            `json:"movementID"`
	DebtID           string            `json:"debtID"`
	Date             time.Time         `json:"date"`
	Amount           decimal.Decimal   `json:"amount"` // Debt (or wallet) currency
	ExchangeRate     decimal.Decimal   `json:"exchangeRate"`
	FunctionalAmount decimal.Decimal   `json:"functionalAmount"`
	PeriodKey        string            `json:"periodKey,omitempty"` // ACCRUAL only, "YYYY-MM"
	AutoJournal      bool              `json:"autoJournal"`
	JournalID        *string           `json:"journalID,omitempty"`
	JournalStatus    JournalLinkStatus `json:"journalStatus"`
	Details          MovementDetails   `json:"details"`
	AuditFields
}

// Kind returns the kind carried by the payload.
func (m Movement) Kind() MovementKind {
	if m.Details == nil {
		return ""
	}
	return m.Details.Kind()
}

// PeriodKeyFor formats the accrual idempotency key for the month containing t.
func PeriodKeyFor(t time.Time) string {
	return t.Format("2006-01")
}
