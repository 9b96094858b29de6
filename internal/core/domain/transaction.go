package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Transaction represents a single line item within a Journal, affecting one account.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	JournalID       string          `json:"journalID"`
	AccountID       string          `json:"accountID"`
	Amount          decimal.Decimal `json:"amount"`          // Positive value
	TransactionType TransactionType `json:"transactionType"` // DEBIT or CREDIT
	CurrencyCode    string          `json:"currencyCode"`    // Must match Journal currency
	Notes           string          `json:"notes"`
	AuditFields
	RunningBalance decimal.Decimal `json:"runningBalance"` // Account balance after this line
}

// Validate checks the line in isolation.
func (t Transaction) Validate() error {
	if t.AccountID == "" {
		return errors.New("account ID is required")
	}
	if t.TransactionType != Debit && t.TransactionType != Credit {
		return fmt.Errorf("invalid transaction type %q", t.TransactionType)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive, got %s", t.Amount.String())
	}
	return nil
}
