package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
)

type exchangeRateRepository struct {
	store *Store
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*exchangeRateRepository)(nil)

func (r *exchangeRateRepository) FindLatestExchangeRate(ctx context.Context, from, to string, side domain.RateSide) (*domain.ExchangeRate, error) {
	rates, _ := r.ListExchangeRates(ctx, from, to)
	for _, rate := range rates {
		if rate.Side == side {
			return &rate, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *exchangeRateRepository) ListExchangeRates(_ context.Context, from, to string) ([]domain.ExchangeRate, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.ExchangeRate
	// Newest insert first so ties on DateEffective favour the latest quote.
	for i := len(r.store.data.rates) - 1; i >= 0; i-- {
		rate := r.store.data.rates[i]
		if rate.FromCurrencyCode == from && rate.ToCurrencyCode == to {
			out = append(out, rate)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateEffective.After(out[j].DateEffective)
	})
	return out, nil
}

func (r *exchangeRateRepository) SaveExchangeRate(_ context.Context, rate domain.ExchangeRate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.data.rates = append(r.store.data.rates, rate)
	return nil
}
