package models

import "github.com/shopspring/decimal"

// TransactionType indicates whether a transaction line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Transaction is a row of the transactions table, one journal line.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	JournalID       string          `db:"journal_id"`
	AccountID       string          `db:"account_id"`
	LineNo          int             `db:"line_no"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionType TransactionType `db:"transaction_type"`
	CurrencyCode    string          `db:"currency_code"`
	Notes           string          `db:"notes"`
	AuditFields
	RunningBalance decimal.Decimal `db:"running_balance"`
}
