package repositories

import (
	"context"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal and its lines.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindJournalsByMovementID retrieves every journal back-linked to a movement.
	FindJournalsByMovementID(ctx context.Context, movementID string) ([]domain.Journal, error)

	// ListJournalsByDebt retrieves every journal back-linked to a debt, with lines.
	ListJournalsByDebt(ctx context.Context, debtID string) ([]domain.Journal, error)

	// ListJournals retrieves a page of journals, newest first, using token-based pagination.
	// It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, limit int, nextToken *string) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal persists a journal and its transactions, updating account balances.
	SaveJournal(ctx context.Context, journal domain.Journal, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// DeleteJournal removes a journal and its lines, reverting the balance changes.
	DeleteJournal(ctx context.Context, journalID string, balanceChanges map[string]decimal.Decimal) error
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionsByJournalID retrieves all transactions associated with a single journal ID.
	FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error)

	// ListTransactionsByAccountID retrieves a page of an account's lines using token-based pagination.
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	TransactionReader
}
