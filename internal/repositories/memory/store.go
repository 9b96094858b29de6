// Package memory is an in-process implementation of the repository ports. It backs
// the service and repository tests.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
)

type state struct {
	accounts   map[string]domain.Account
	currencies map[string]domain.Currency
	rates      []domain.ExchangeRate
	journals   map[string]domain.Journal
	debts      map[string]domain.Debt
	movements  []domain.Movement
}

func newState() state {
	return state{
		accounts:   map[string]domain.Account{},
		currencies: map[string]domain.Currency{},
		journals:   map[string]domain.Journal{},
		debts:      map[string]domain.Debt{},
	}
}

func (s state) clone() state {
	out := state{
		accounts:   make(map[string]domain.Account, len(s.accounts)),
		currencies: make(map[string]domain.Currency, len(s.currencies)),
		rates:      append([]domain.ExchangeRate(nil), s.rates...),
		journals:   make(map[string]domain.Journal, len(s.journals)),
		debts:      make(map[string]domain.Debt, len(s.debts)),
		movements:  append([]domain.Movement(nil), s.movements...),
	}
	for k, v := range s.accounts {
		out.accounts[k] = v
	}
	for k, v := range s.currencies {
		out.currencies[k] = v
	}
	for k, v := range s.journals {
		v.Transactions = append([]domain.Transaction(nil), v.Transactions...)
		out.journals[k] = v
	}
	for k, v := range s.debts {
		out.debts[k] = cloneDebt(v)
	}
	return out
}

func cloneDebt(d domain.Debt) domain.Debt {
	d.Schedule = append([]domain.Installment(nil), d.Schedule...)
	d.OriginationJournalIDs = append([]string(nil), d.OriginationJournalIDs...)
	return d
}

// Store holds all data in memory. Units of work run one at a time; a failed unit
// restores the snapshot taken when it began.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

// Provider returns repositories backed by the store.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      &accountRepository{store: s},
		CurrencyRepo:     &currencyRepository{store: s},
		ExchangeRateRepo: &exchangeRateRepository{store: s},
		JournalRepo:      &journalRepository{store: s},
		DebtRepo:         &debtRepository{store: s},
		MovementRepo:     &movementRepository{store: s},
	}
}

// WithinTx runs fn with the store's repositories and rolls back on error.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.RepositoryProvider) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx, s.Provider()); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

var _ portsrepo.TransactionManager = (*Store)(nil)
