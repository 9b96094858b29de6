package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	acc, ok := r.store.data.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (r *accountRepository) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := r.store.data.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (r *accountRepository) ListAccounts(_ context.Context) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.activeSorted(), nil
}

func (r *accountRepository) FindAccount(_ context.Context, predicate func(domain.Account) bool) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, acc := range r.activeSorted() {
		if predicate(acc) {
			return &acc, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *accountRepository) activeSorted() []domain.Account {
	out := make([]domain.Account, 0, len(r.store.data.accounts))
	for _, acc := range r.store.data.accounts {
		if acc.IsActive {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out
}

func (r *accountRepository) SaveAccount(_ context.Context, account domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.data.accounts[account.AccountID]; exists {
		return apperrors.ErrDuplicate
	}
	for _, acc := range r.store.data.accounts {
		if account.Code != "" && acc.Code == account.Code {
			return apperrors.ErrDuplicate
		}
	}
	r.store.data.accounts[account.AccountID] = account
	return nil
}

func (r *accountRepository) UpdateAccount(_ context.Context, account domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.data.accounts[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	account.Balance = current.Balance
	r.store.data.accounts[account.AccountID] = account
	return nil
}

func (r *accountRepository) DeactivateAccount(_ context.Context, accountID string, userID string, now time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	acc, ok := r.store.data.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	acc.IsActive = false
	acc.LastUpdatedAt = now
	acc.LastUpdatedBy = userID
	r.store.data.accounts[accountID] = acc
	return nil
}

func (r *accountRepository) UpdateAccountBalances(_ context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.data.applyBalances(balanceChanges, userID, now)
}

func (s *state) applyBalances(balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	for id := range balanceChanges {
		if _, ok := s.accounts[id]; !ok {
			return apperrors.NewNotFoundError("account " + id)
		}
	}
	for id, change := range balanceChanges {
		acc := s.accounts[id]
		acc.Balance = acc.Balance.Add(change)
		acc.LastUpdatedAt = now
		acc.LastUpdatedBy = userID
		s.accounts[id] = acc
	}
	return nil
}
