package dto

import (
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ScheduleTerms are the inputs shared by origination, refinancing and previews.
type ScheduleTerms struct {
	AnnualRate       decimal.Decimal           `json:"annualRate" binding:"decimal_gte0"` // Fraction, 0.12 = 12%
	InstallmentCount int                       `json:"installmentCount" binding:"required,min=1,max=1200"`
	Frequency        domain.Frequency          `json:"frequency" binding:"required,oneof=MONTHLY BIMONTHLY QUARTERLY SEMIANNUAL ANNUAL SINGLE"`
	System           domain.AmortizationSystem `json:"system" binding:"required,oneof=FRENCH GERMAN AMERICAN BULLET"`
	FirstDueDate     time.Time                 `json:"firstDueDate" binding:"required"`
}

// OriginateDebtRequest records a new debt.
type OriginateDebtRequest struct {
	Description        string          `json:"description" binding:"required"`
	Creditor           string          `json:"creditor"`
	CurrencyCode       string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	Principal          decimal.Decimal `json:"principal" binding:"decimal_gt0"`
	OriginationRate    decimal.Decimal `json:"originationRate" binding:"decimal_gte0"` // Zero means use the current rate
	OriginationDate    time.Time       `json:"originationDate" binding:"required"`
	ReceivingAccountID string          `json:"receivingAccountID"` // Defaults to the CASH role
	LiabilityAccountID *string         `json:"liabilityAccountID"` // Defaults to the LOAN_LIABILITY role
	AutoJournal        *bool           `json:"autoJournal"`        // Defaults to true
	ScheduleTerms
}

// SchedulePreviewRequest computes a schedule without saving anything.
type SchedulePreviewRequest struct {
	Principal       decimal.Decimal `json:"principal" binding:"decimal_gt0"`
	OriginationDate time.Time       `json:"originationDate"`
	ScheduleTerms
}

// DisburseRequest records an additional draw on a debt.
type DisburseRequest struct {
	Amount             decimal.Decimal `json:"amount" binding:"decimal_gt0"` // Debt currency
	Date               time.Time       `json:"date" binding:"required"`
	ReceivingAccountID string          `json:"receivingAccountID"`
	AutoJournal        *bool           `json:"autoJournal"`
}

// RefinanceRequest replaces the unpaid part of a schedule.
type RefinanceRequest struct {
	Date               time.Time `json:"date" binding:"required"`
	CapitalizeInterest bool      `json:"capitalizeInterest"`
	AutoJournal        *bool     `json:"autoJournal"`
	ScheduleTerms
}

// SettlementRequest is one funding account of a payment. Amount may be omitted
// when it is the only split.
type SettlementRequest struct {
	AccountID      string          `json:"accountID" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"decimal_gte0"` // Functional currency
	WalletCurrency string          `json:"walletCurrency" binding:"omitempty,len=3,uppercase"`
}

// PaymentRequest records a payment against a debt. Amount is in functional currency
// and is filled in by BY_INSTALLMENT and TOTAL_CANCELLATION when omitted.
type PaymentRequest struct {
	Mode        domain.PaymentMode  `json:"mode" binding:"required,oneof=BY_INSTALLMENT PARTIAL TOTAL_CANCELLATION EXTRAORDINARY"`
	Amount      decimal.Decimal     `json:"amount" binding:"decimal_gte0"`
	Date        time.Time           `json:"date" binding:"required"`
	Settlements []SettlementRequest `json:"settlements" binding:"required,min=1,dive"`
	AutoJournal *bool               `json:"autoJournal"`
}

// RevaluationRequest restates a foreign debt. A zero Rate means use the current rate.
type RevaluationRequest struct {
	Date        time.Time       `json:"date" binding:"required"`
	Rate        decimal.Decimal `json:"rate" binding:"decimal_gte0"`
	AutoJournal *bool           `json:"autoJournal"`
}

// AccrueRequest runs accrual for one debt up to the last closed month before AsOf.
type AccrueRequest struct {
	AsOf *time.Time `json:"asOf"`
}

// AccruePeriodRequest posts one named month.
type AccruePeriodRequest struct {
	PeriodKey string `json:"periodKey" binding:"required,period_key"`
}

// ListDebtsParams filters the debt list.
type ListDebtsParams struct {
	Status *domain.DebtStatus `form:"status" binding:"omitempty,oneof=ACTIVE PAID CANCELLED"`
}

// DeleteDebtParams controls the delete cascade.
type DeleteDebtParams struct {
	PreserveManualEntries bool `form:"preserveManualEntries"`
}

// ReconcileParams switches reconciliation into repair mode.
type ReconcileParams struct {
	Repair bool `form:"repair"`
}

// AutoJournalOrDefault resolves an optional autoJournal flag.
func AutoJournalOrDefault(flag *bool) bool {
	return flag == nil || *flag
}

// InstallmentResponse is one schedule row.
type InstallmentResponse struct {
	Number   int             `json:"number"`
	DueDate  time.Time       `json:"dueDate"`
	Capital  decimal.Decimal `json:"capital"`
	Interest decimal.Decimal `json:"interest"`
	Total    decimal.Decimal `json:"total"`
	Paid     bool            `json:"paid"`
	PaidAt   *time.Time      `json:"paidAt,omitempty"`
}

// DebtResponse defines the data returned for a debt.
type DebtResponse struct {
	DebtID                string                    `json:"debtID"`
	Description           string                    `json:"description"`
	Creditor              string                    `json:"creditor"`
	CurrencyCode          string                    `json:"currencyCode"`
	Principal             decimal.Decimal           `json:"principal"`
	OriginationRate       decimal.Decimal           `json:"originationRate"`
	RecordedRate          decimal.Decimal           `json:"recordedRate"`
	OriginationDate       time.Time                 `json:"originationDate"`
	FirstDueDate          time.Time                 `json:"firstDueDate"`
	AnnualRate            decimal.Decimal           `json:"annualRate"`
	InstallmentCount      int                       `json:"installmentCount"`
	Frequency             domain.Frequency          `json:"frequency"`
	System                domain.AmortizationSystem `json:"system"`
	OutstandingBalance    decimal.Decimal           `json:"outstandingBalance"`
	PaidInstallments      int                       `json:"paidInstallments"`
	Status                domain.DebtStatus         `json:"status"`
	LiabilityAccountID    string                    `json:"liabilityAccountID,omitempty"`
	OriginationJournalIDs []string                  `json:"originationJournalIDs,omitempty"`
	Schedule              []InstallmentResponse     `json:"schedule"`
	CreatedAt             time.Time                 `json:"createdAt"`
	CreatedBy             string                    `json:"createdBy"`
	LastUpdatedAt         time.Time                 `json:"lastUpdatedAt"`
	LastUpdatedBy         string                    `json:"lastUpdatedBy"`
}

// MovementResponse defines the data returned for a movement. Details carries the
// kind-specific payload.
type MovementResponse struct {
	MovementID       string                   `json:"movementID"`
	DebtID           string                   `json:"debtID"`
	Kind             domain.MovementKind      `json:"kind"`
	Date             time.Time                `json:"date"`
	Amount           decimal.Decimal          `json:"amount"`
	ExchangeRate     decimal.Decimal          `json:"exchangeRate"`
	FunctionalAmount decimal.Decimal          `json:"functionalAmount"`
	PeriodKey        string                   `json:"periodKey,omitempty"`
	AutoJournal      bool                     `json:"autoJournal"`
	JournalID        *string                  `json:"journalID,omitempty"`
	JournalStatus    domain.JournalLinkStatus `json:"journalStatus"`
	Details          domain.MovementDetails   `json:"details"`
	CreatedAt        time.Time                `json:"createdAt"`
	CreatedBy        string                   `json:"createdBy"`
}

// SchedulePreviewResponse is a computed schedule with its totals.
type SchedulePreviewResponse struct {
	Installments  []InstallmentResponse `json:"installments"`
	TotalCapital  decimal.Decimal       `json:"totalCapital"`
	TotalInterest decimal.Decimal       `json:"totalInterest"`
	Total         decimal.Decimal       `json:"total"`
}

// DebtPositionResponse is what it takes to pay the debt now.
type DebtPositionResponse struct {
	DebtID               string               `json:"debtID"`
	AsOf                 time.Time            `json:"asOf"`
	OutstandingDebt      decimal.Decimal      `json:"outstandingDebtCurrency"`
	CurrentRate          decimal.Decimal      `json:"currentRate"`
	RecordedRate         decimal.Decimal      `json:"recordedRate"`
	Outstanding          decimal.Decimal      `json:"outstanding"`
	InterestPending      decimal.Decimal      `json:"interestPending"`
	Payoff               decimal.Decimal      `json:"payoff"`
	NextInstallment      *InstallmentResponse `json:"nextInstallment,omitempty"`
	NextInstallmentTotal decimal.Decimal      `json:"nextInstallmentTotal"`
}

// PaymentResponse is the posted payment and any wallet tracking movements.
type PaymentResponse struct {
	Payment         MovementResponse   `json:"payment"`
	WalletMovements []MovementResponse `json:"walletMovements,omitempty"`
	Debt            DebtResponse       `json:"debt"`
}

// AccrualRunResponse reports one debt's accrual pass.
type AccrualRunResponse struct {
	DebtID  string             `json:"debtID"`
	Posted  []MovementResponse `json:"posted"`
	Skipped []string           `json:"skipped,omitempty"`
}

// ReconciliationItemResponse is one movement's audit line.
type ReconciliationItemResponse struct {
	MovementID string                      `json:"movementID"`
	Kind       domain.MovementKind         `json:"kind"`
	Status     domain.ReconciliationStatus `json:"status"`
	JournalIDs []string                    `json:"journalIDs,omitempty"`
	Detail     string                      `json:"detail,omitempty"`
}

// ReconciliationResponse is the audit of a debt.
type ReconciliationResponse struct {
	DebtID     string                       `json:"debtID"`
	Items      []ReconciliationItemResponse `json:"items"`
	OK         int                          `json:"ok"`
	Missing    int                          `json:"missing"`
	Mismatched int                          `json:"mismatched"`
	Repaired   int                          `json:"repaired"`
}

// ToInstallmentResponses converts schedule rows.
func ToInstallmentResponses(rows []domain.Installment) []InstallmentResponse {
	out := make([]InstallmentResponse, len(rows))
	for i, r := range rows {
		out[i] = InstallmentResponse{
			Number:   r.Number,
			DueDate:  r.DueDate,
			Capital:  r.Capital,
			Interest: r.Interest,
			Total:    r.Total,
			Paid:     r.Paid,
			PaidAt:   r.PaidAt,
		}
	}
	return out
}

// ToDebtResponse converts a domain.Debt to DebtResponse DTO.
func ToDebtResponse(d *domain.Debt) DebtResponse {
	return DebtResponse{
		DebtID:                d.DebtID,
		Description:           d.Description,
		Creditor:              d.Creditor,
		CurrencyCode:          d.CurrencyCode,
		Principal:             d.Principal,
		OriginationRate:       d.OriginationRate,
		RecordedRate:          d.RecordedRate,
		OriginationDate:       d.OriginationDate,
		FirstDueDate:          d.FirstDueDate,
		AnnualRate:            d.AnnualRate,
		InstallmentCount:      d.InstallmentCount,
		Frequency:             d.Frequency,
		System:                d.System,
		OutstandingBalance:    d.OutstandingBalance,
		PaidInstallments:      d.PaidInstallments,
		Status:                d.Status,
		LiabilityAccountID:    d.LiabilityAccountID,
		OriginationJournalIDs: d.OriginationJournalIDs,
		Schedule:              ToInstallmentResponses(d.Schedule),
		CreatedAt:             d.CreatedAt,
		CreatedBy:             d.CreatedBy,
		LastUpdatedAt:         d.LastUpdatedAt,
		LastUpdatedBy:         d.LastUpdatedBy,
	}
}

// ToDebtResponses converts a list of debts.
func ToDebtResponses(debts []domain.Debt) []DebtResponse {
	out := make([]DebtResponse, len(debts))
	for i := range debts {
		out[i] = ToDebtResponse(&debts[i])
	}
	return out
}

// ToMovementResponse converts a domain.Movement to MovementResponse DTO.
func ToMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		MovementID:       m.MovementID,
		DebtID:           m.DebtID,
		Kind:             m.Kind(),
		Date:             m.Date,
		Amount:           m.Amount,
		ExchangeRate:     m.ExchangeRate,
		FunctionalAmount: m.FunctionalAmount,
		PeriodKey:        m.PeriodKey,
		AutoJournal:      m.AutoJournal,
		JournalID:        m.JournalID,
		JournalStatus:    m.JournalStatus,
		Details:          m.Details,
		CreatedAt:        m.CreatedAt,
		CreatedBy:        m.CreatedBy,
	}
}

// ToMovementResponses converts a list of movements.
func ToMovementResponses(movements []domain.Movement) []MovementResponse {
	out := make([]MovementResponse, len(movements))
	for i := range movements {
		out[i] = ToMovementResponse(&movements[i])
	}
	return out
}

// ToSchedulePreviewResponse wraps a schedule and its totals.
func ToSchedulePreviewResponse(rows []domain.Installment, capital, interest, total decimal.Decimal) SchedulePreviewResponse {
	return SchedulePreviewResponse{
		Installments:  ToInstallmentResponses(rows),
		TotalCapital:  capital,
		TotalInterest: interest,
		Total:         total,
	}
}

// ToDebtPositionResponse converts a domain.DebtPosition.
func ToDebtPositionResponse(p *domain.DebtPosition) DebtPositionResponse {
	res := DebtPositionResponse{
		DebtID:               p.DebtID,
		AsOf:                 p.AsOf,
		OutstandingDebt:      p.OutstandingDebt,
		CurrentRate:          p.CurrentRate,
		RecordedRate:         p.RecordedRate,
		Outstanding:          p.Outstanding,
		InterestPending:      p.InterestPending,
		Payoff:               p.Payoff,
		NextInstallmentTotal: p.NextInstallmentTotal,
	}
	if p.NextInstallment != nil {
		row := ToInstallmentResponses([]domain.Installment{*p.NextInstallment})[0]
		res.NextInstallment = &row
	}
	return res
}

// ToPaymentResponse converts a domain.PaymentReceipt.
func ToPaymentResponse(r *domain.PaymentReceipt) PaymentResponse {
	return PaymentResponse{
		Payment:         ToMovementResponse(&r.Payment),
		WalletMovements: ToMovementResponses(r.WalletMovements),
		Debt:            ToDebtResponse(&r.Debt),
	}
}

// ToAccrualRunResponse converts a domain.AccrualRun.
func ToAccrualRunResponse(r *domain.AccrualRun) AccrualRunResponse {
	return AccrualRunResponse{
		DebtID:  r.DebtID,
		Posted:  ToMovementResponses(r.Posted),
		Skipped: r.Skipped,
	}
}

// ToReconciliationResponse converts a domain.ReconciliationReport.
func ToReconciliationResponse(r *domain.ReconciliationReport) ReconciliationResponse {
	items := make([]ReconciliationItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = ReconciliationItemResponse{
			MovementID: item.MovementID,
			Kind:       item.Kind,
			Status:     item.Status,
			JournalIDs: item.JournalIDs,
			Detail:     item.Detail,
		}
	}
	return ReconciliationResponse{
		DebtID:     r.DebtID,
		Items:      items,
		OK:         r.Count(domain.ReconOK),
		Missing:    r.Count(domain.ReconMissing),
		Mismatched: r.Count(domain.ReconMismatch),
		Repaired:   r.Repaired,
	}
}
