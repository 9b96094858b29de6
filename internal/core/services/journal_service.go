package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/SscSPs/debt_ledger/internal/utils/accounting"
)

// journalService exposes manual entries and journal queries.
type journalService struct {
	BaseService
	txManager portsrepo.TransactionManager
	repos     portsrepo.RepositoryProvider
	poster    portssvc.JournalPosterSvc
}

// NewJournalService creates a new JournalService.
func NewJournalService(txManager portsrepo.TransactionManager, repos portsrepo.RepositoryProvider, poster portssvc.JournalPosterSvc) portssvc.JournalSvcFacade {
	return &journalService{txManager: txManager, repos: repos, poster: poster}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateJournal posts a manual entry, optionally linked to a debt.
func (s *journalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	draft := domain.JournalDraft{
		Date:   req.Date,
		Memo:   req.Description,
		Source: domain.SourceManual,
		DebtID: req.DebtID,
		Lines:  make([]domain.JournalLine, len(req.Lines)),
	}
	for i, line := range req.Lines {
		draft.Lines[i] = domain.JournalLine{
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
		}
	}

	var journal *domain.Journal
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if req.DebtID != nil {
			if _, err := repos.DebtRepo.FindDebtByID(ctx, *req.DebtID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return apperrors.Invalid("debtID", "debt %s not found", *req.DebtID)
				}
				return err
			}
		}
		var err error
		journal, err = s.poster.Post(ctx, repos, draft, creatorUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Manual journal created", slog.String("journal_id", journal.JournalID))
	return journal, nil
}

// GetJournalByID retrieves a journal with its lines.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.repos.JournalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get journal", slog.String("journal_id", journalID))
		}
		return nil, err
	}
	return journal, nil
}

// ListJournals retrieves a page of journals.
func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}
	journals, next, err := s.repos.JournalRepo.ListJournals(ctx, params.Limit, token)
	if err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}
	return &dto.ListJournalsResponse{Journals: dto.ToJournalResponses(journals), NextToken: next}, nil
}

// ListTransactionsByAccount retrieves a page of an account's lines.
func (s *journalService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.repos.AccountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}
	txns, next, err := s.repos.JournalRepo.ListTransactionsByAccountID(ctx, accountID, params.Limit, token)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return &dto.ListTransactionsResponse{Transactions: dto.ToTransactionResponses(txns), NextToken: next}, nil
}

// DeleteJournal removes the entry and reverts its balance effect. A movement that
// pointed at it becomes MISSING so reconciliation can re-post it.
func (s *journalService) DeleteJournal(ctx context.Context, journalID string, userID string) error {
	return s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		journal, err := repos.JournalRepo.FindJournalByID(ctx, journalID)
		if err != nil {
			return err
		}
		if err := removeJournal(ctx, repos, journal); err != nil {
			return err
		}

		if journal.MovementID != nil {
			err := repos.MovementRepo.UpdateMovementJournal(ctx, *journal.MovementID, nil, domain.JournalMissing)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
		}
		if journal.DebtID != nil {
			if err := s.unlinkOrigination(ctx, repos, *journal.DebtID, journalID, userID); err != nil {
				return err
			}
		}
		s.LogInfo(ctx, "Journal deleted", slog.String("journal_id", journalID), slog.String("user_id", userID))
		return nil
	})
}

func (s *journalService) unlinkOrigination(ctx context.Context, repos portsrepo.RepositoryProvider, debtID, journalID, userID string) error {
	debt, err := repos.DebtRepo.FindDebtByID(ctx, debtID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	kept := debt.OriginationJournalIDs[:0]
	for _, id := range debt.OriginationJournalIDs {
		if id != journalID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(debt.OriginationJournalIDs) {
		return nil
	}
	debt.OriginationJournalIDs = kept
	s.Touch(&debt.AuditFields, userID)
	return repos.DebtRepo.UpdateDebt(ctx, *debt)
}

// removeJournal deletes a journal and undoes its balance changes.
func removeJournal(ctx context.Context, repos portsrepo.RepositoryProvider, journal *domain.Journal) error {
	ids := make([]string, 0, len(journal.Transactions))
	for _, txn := range journal.Transactions {
		ids = append(ids, txn.AccountID)
	}
	accounts, err := repos.AccountRepo.FindAccountsByIDs(ctx, uniqueStrings(ids))
	if err != nil {
		return err
	}
	changes, err := accounting.BalanceChanges(journal.Transactions, accounts)
	if err != nil {
		return err
	}
	return repos.JournalRepo.DeleteJournal(ctx, journal.JournalID, accounting.Negate(changes))
}
