package services

import (
	"context"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/debt_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a specific journal by its ID.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a page of journals, newest first.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines write operations for manual journal entries.
type JournalWriterSvc interface {
	// CreateJournal validates and posts a manual entry.
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error)

	// DeleteJournal removes an entry, reverts its balances and flags any
	// movement it was posted for as MISSING.
	DeleteJournal(ctx context.Context, journalID string, userID string) error
}

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	// ListTransactionsByAccount retrieves a page of an account's lines.
	ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	TransactionReaderSvc
}

// JournalPosterSvc builds balanced entries and persists them with their back-links.
// Both methods write through repos, which must be bound to the caller's unit of work.
type JournalPosterSvc interface {
	// Post validates draft and persists it, or persists nothing.
	Post(ctx context.Context, repos portsrepo.RepositoryProvider, draft domain.JournalDraft, userID string) (*domain.Journal, error)

	// PostMovement derives the lines for movement from its payload and posts them.
	PostMovement(ctx context.Context, repos portsrepo.RepositoryProvider, debt *domain.Debt, movement *domain.Movement, userID string) (*domain.Journal, error)
}
