package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement is a row of the debt_movements table. Details holds the kind-specific
// payload as JSON.
type Movement struct {
	MovementID       string          `db:"movement_id"`
	DebtID           string          `db:"debt_id"`
	Kind             string          `db:"kind"`
	MovementDate     time.Time       `db:"movement_date"`
	Amount           decimal.Decimal `db:"amount"`
	ExchangeRate     decimal.Decimal `db:"exchange_rate"`
	FunctionalAmount decimal.Decimal `db:"functional_amount"`
	PeriodKey        *string         `db:"period_key"`
	AutoJournal      bool            `db:"auto_journal"`
	JournalID        *string         `db:"journal_id"`
	JournalStatus    string          `db:"journal_status"`
	Details          []byte          `db:"details"`
	AuditFields
}
