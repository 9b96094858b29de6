package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt is a row of the debts table.
type Debt struct {
	DebtID                string          `db:"debt_id"`
	Description           string          `db:"description"`
	Creditor              string          `db:"creditor"`
	CurrencyCode          string          `db:"currency_code"`
	Principal             decimal.Decimal `db:"principal"`
	OriginationRate       decimal.Decimal `db:"origination_rate"`
	RecordedRate          decimal.Decimal `db:"recorded_rate"`
	OriginationDate       time.Time       `db:"origination_date"`
	FirstDueDate          time.Time       `db:"first_due_date"`
	AnnualRate            decimal.Decimal `db:"annual_rate"`
	InstallmentCount      int             `db:"installment_count"`
	Frequency             string          `db:"frequency"`
	System                string          `db:"amortization_system"`
	OutstandingBalance    decimal.Decimal `db:"outstanding_balance"`
	PaidInstallments      int             `db:"paid_installments"`
	Status                string          `db:"status"`
	LiabilityAccountID    *string         `db:"liability_account_id"`
	OriginationJournalIDs []string        `db:"origination_journal_ids"`
	AuditFields
}

// Installment is a row of the debt_installments table.
type Installment struct {
	DebtID   string          `db:"debt_id"`
	Number   int             `db:"number"`
	DueDate  time.Time       `db:"due_date"`
	Capital  decimal.Decimal `db:"capital"`
	Interest decimal.Decimal `db:"interest"`
	Total    decimal.Decimal `db:"total"`
	Paid     bool            `db:"paid"`
	PaidAt   *time.Time      `db:"paid_at"`
}
