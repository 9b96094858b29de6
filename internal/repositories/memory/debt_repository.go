package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
)

type debtRepository struct {
	store *Store
}

var _ portsrepo.DebtRepositoryFacade = (*debtRepository)(nil)

func (r *debtRepository) FindDebtByID(_ context.Context, debtID string) (*domain.Debt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	d, ok := r.store.data.debts[debtID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	d = cloneDebt(d)
	return &d, nil
}

func (r *debtRepository) ListDebts(_ context.Context, status *domain.DebtStatus) ([]domain.Debt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.Debt, 0, len(r.store.data.debts))
	for _, d := range r.store.data.debts {
		if status != nil && d.Status != *status {
			continue
		}
		out = append(out, cloneDebt(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OriginationDate.Equal(out[j].OriginationDate) {
			return out[i].OriginationDate.Before(out[j].OriginationDate)
		}
		return out[i].DebtID < out[j].DebtID
	})
	return out, nil
}

func (r *debtRepository) SaveDebt(_ context.Context, debt domain.Debt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.data.debts[debt.DebtID]; exists {
		return apperrors.ErrDuplicate
	}
	r.store.data.debts[debt.DebtID] = cloneDebt(debt)
	return nil
}

func (r *debtRepository) UpdateDebt(_ context.Context, debt domain.Debt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.data.debts[debt.DebtID]; !exists {
		return apperrors.ErrNotFound
	}
	r.store.data.debts[debt.DebtID] = cloneDebt(debt)
	return nil
}

func (r *debtRepository) DeleteDebt(_ context.Context, debtID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.data.debts[debtID]; !exists {
		return apperrors.ErrNotFound
	}
	delete(r.store.data.debts, debtID)
	return nil
}
