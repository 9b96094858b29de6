package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtPosition is a debt's payable state at a point in time, in functional currency
// unless suffixed Debt.
type DebtPosition struct {
	DebtID               string
	AsOf                 time.Time
	OutstandingDebt      decimal.Decimal
	CurrentRate          decimal.Decimal
	RecordedRate         decimal.Decimal
	Outstanding          decimal.Decimal
	InterestPending      decimal.Decimal
	Payoff               decimal.Decimal
	NextInstallment      *Installment
	NextInstallmentTotal decimal.Decimal // Next installment valued at the current rate
}

// AccrualRun reports what one accrual pass did for a debt.
type AccrualRun struct {
	DebtID  string
	Posted  []Movement
	Skipped []string // Period keys priced at zero or already posted
}

// PaymentReceipt is the outcome of a posted payment.
type PaymentReceipt struct {
	Payment         Movement
	WalletMovements []Movement
	Debt            Debt
}

// ReconciliationStatus classifies a movement's posting.
type ReconciliationStatus string

const (
	ReconOK            ReconciliationStatus = "OK"
	ReconMissing       ReconciliationStatus = "MISSING"
	ReconMismatch      ReconciliationStatus = "MISMATCH"
	ReconNotApplicable ReconciliationStatus = "NOT_APPLICABLE"
)

// ReconciliationItem is the audit result for one movement.
type ReconciliationItem struct {
	MovementID string
	Kind       MovementKind
	Status     ReconciliationStatus
	JournalIDs []string
	Detail     string
}

// ReconciliationReport is the audit of every movement of a debt.
type ReconciliationReport struct {
	DebtID   string
	Items    []ReconciliationItem
	Repaired int
}

// Count returns how many items carry status.
func (r ReconciliationReport) Count(status ReconciliationStatus) int {
	n := 0
	for _, item := range r.Items {
		if item.Status == status {
			n++
		}
	}
	return n
}
