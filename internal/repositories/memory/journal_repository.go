package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/debt_ledger/internal/utils/accounting"
	"github.com/SscSPs/debt_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type journalRepository struct {
	store *Store
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

func (r *journalRepository) FindJournalByID(_ context.Context, journalID string) (*domain.Journal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	j, ok := r.store.data.journals[journalID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	j.Transactions = append([]domain.Transaction(nil), j.Transactions...)
	return &j, nil
}

func (r *journalRepository) FindJournalsByMovementID(_ context.Context, movementID string) ([]domain.Journal, error) {
	return r.filter(func(j domain.Journal) bool {
		return j.MovementID != nil && *j.MovementID == movementID
	}), nil
}

func (r *journalRepository) ListJournalsByDebt(_ context.Context, debtID string) ([]domain.Journal, error) {
	return r.filter(func(j domain.Journal) bool {
		return j.DebtID != nil && *j.DebtID == debtID
	}), nil
}

func (r *journalRepository) ListJournals(_ context.Context, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(err.Error())
		}
		cursor = &c
	}

	all := r.filter(func(j domain.Journal) bool {
		return cursor == nil || cursor.After(j.JournalDate, j.CreatedAt, j.JournalID)
	})
	sort.Slice(all, func(i, k int) bool {
		a, b := all[i], all[k]
		if !a.JournalDate.Equal(b.JournalDate) {
			return a.JournalDate.After(b.JournalDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.JournalID > b.JournalID
	})

	if limit <= 0 || len(all) <= limit {
		return all, nil, nil
	}
	page := all[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.Cursor{Date: last.JournalDate, CreatedAt: last.CreatedAt, ID: last.JournalID})
	return page, &token, nil
}

func (r *journalRepository) filter(keep func(domain.Journal) bool) []domain.Journal {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Journal
	for _, j := range r.store.data.journals {
		if keep(j) {
			j.Transactions = append([]domain.Transaction(nil), j.Transactions...)
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].JournalDate.Equal(out[k].JournalDate) {
			return out[i].JournalDate.Before(out[k].JournalDate)
		}
		return out[i].CreatedAt.Before(out[k].CreatedAt)
	})
	return out
}

func (r *journalRepository) SaveJournal(_ context.Context, journal domain.Journal, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.data.journals[journal.JournalID]; exists {
		return apperrors.ErrDuplicate
	}

	running := make(map[string]decimal.Decimal)
	lines := make([]domain.Transaction, len(transactions))
	for i, txn := range transactions {
		acc, ok := r.store.data.accounts[txn.AccountID]
		if !ok {
			return apperrors.NewNotFoundError("account " + txn.AccountID)
		}
		signed, err := accounting.CalculateSignedAmount(txn, acc.AccountType)
		if err != nil {
			return err
		}
		if _, seen := running[txn.AccountID]; !seen {
			running[txn.AccountID] = acc.Balance
		}
		running[txn.AccountID] = running[txn.AccountID].Add(signed)
		txn.RunningBalance = running[txn.AccountID]
		lines[i] = txn
	}

	if err := r.store.data.applyBalances(balanceChanges, journal.CreatedBy, journal.CreatedAt); err != nil {
		return err
	}
	journal.Transactions = lines
	r.store.data.journals[journal.JournalID] = journal
	return nil
}

func (r *journalRepository) DeleteJournal(_ context.Context, journalID string, balanceChanges map[string]decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	j, ok := r.store.data.journals[journalID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := r.store.data.applyBalances(balanceChanges, j.LastUpdatedBy, j.LastUpdatedAt); err != nil {
		return err
	}
	delete(r.store.data.journals, journalID)
	return nil
}

func (r *journalRepository) FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error) {
	j, err := r.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	return j.Transactions, nil
}

func (r *journalRepository) ListTransactionsByAccountID(_ context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(err.Error())
		}
		cursor = &c
	}

	type row struct {
		txn     domain.Transaction
		journal domain.Journal
	}
	var rows []row
	r.store.mu.RLock()
	for _, j := range r.store.data.journals {
		for _, txn := range j.Transactions {
			if txn.AccountID != accountID {
				continue
			}
			if cursor != nil && !cursor.After(j.JournalDate, txn.CreatedAt, txn.TransactionID) {
				continue
			}
			rows = append(rows, row{txn: txn, journal: j})
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(rows, func(i, k int) bool {
		a, b := rows[i], rows[k]
		if !a.journal.JournalDate.Equal(b.journal.JournalDate) {
			return a.journal.JournalDate.After(b.journal.JournalDate)
		}
		if !a.txn.CreatedAt.Equal(b.txn.CreatedAt) {
			return a.txn.CreatedAt.After(b.txn.CreatedAt)
		}
		return a.txn.TransactionID > b.txn.TransactionID
	})

	var next *string
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.journal.JournalDate, CreatedAt: last.txn.CreatedAt, ID: last.txn.TransactionID})
		next = &token
	}
	out := make([]domain.Transaction, len(rows))
	for i, rw := range rows {
		out[i] = rw.txn
	}
	return out, next, nil
}
