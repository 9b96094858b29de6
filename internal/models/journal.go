package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Journal is a row of the journals table. Lines live in transactions.
type Journal struct {
	JournalID    string          `db:"journal_id"`
	JournalDate  time.Time       `db:"journal_date"`
	Description  string          `db:"description"`
	CurrencyCode string          `db:"currency_code"`
	Status       JournalStatus   `db:"status"`
	Source       string          `db:"source"`
	DebtID       *string         `db:"debt_id"`
	MovementID   *string         `db:"movement_id"`
	Amount       decimal.Decimal `db:"amount"`
	AuditFields
}
