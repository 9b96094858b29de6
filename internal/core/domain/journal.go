package domain

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

// JournalSource tells whether an entry was produced by the engine or typed in by a person.
type JournalSource string

const (
	SourceAuto   JournalSource = "AUTO"
	SourceManual JournalSource = "MANUAL"
)

// Journal represents a single, balanced financial event composed of multiple transactions.
type Journal struct {
	JournalID    string          `json:"journalID"`
	JournalDate  time.Time       `json:"journalDate"`
	Description  string          `json:"description"`  // Memo
	CurrencyCode string          `json:"currencyCode"` // Functional currency
	Status       JournalStatus   `json:"status"`
	Source       JournalSource   `json:"source"`
	DebtID       *string         `json:"debtID,omitempty"`     // Back-link to the debt
	MovementID   *string         `json:"movementID,omitempty"` // Back-link to the originating movement
	Amount       decimal.Decimal `json:"amount"`               // Sum of the debit side
	Transactions []Transaction   `json:"transactions,omitempty"`
	AuditFields
}

// Totals returns the debit and credit sums over the journal lines.
func (j Journal) Totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, txn := range j.Transactions {
		if txn.TransactionType == Debit {
			debits = debits.Add(txn.Amount)
		} else {
			credits = credits.Add(txn.Amount)
		}
	}
	return debits, credits
}

// IsBalanced reports whether the journal has at least two lines and equal sides.
func (j Journal) IsBalanced() bool {
	if len(j.Transactions) < 2 {
		return false
	}
	debits, credits := j.Totals()
	return debits.Equal(credits)
}

// JournalLine is one posting line as callers describe it. At most one of Debit
// and Credit may be non-zero.
type JournalLine struct {
	AccountID   string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// JournalDraft is an entry before it has been validated and persisted.
type JournalDraft struct {
	Date       time.Time
	Memo       string
	Source     JournalSource
	DebtID     *string
	MovementID *string
	Lines      []JournalLine
}
