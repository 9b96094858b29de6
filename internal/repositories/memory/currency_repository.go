package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
)

type currencyRepository struct {
	store *Store
}

var _ portsrepo.CurrencyRepositoryFacade = (*currencyRepository)(nil)

func (r *currencyRepository) FindCurrencyByCode(_ context.Context, currencyCode string) (*domain.Currency, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.data.currencies[currencyCode]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (r *currencyRepository) ListCurrencies(_ context.Context) ([]domain.Currency, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.Currency, 0, len(r.store.data.currencies))
	for _, c := range r.store.data.currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out, nil
}

func (r *currencyRepository) SaveCurrency(_ context.Context, currency domain.Currency) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.data.currencies[currency.CurrencyCode] = currency
	return nil
}
