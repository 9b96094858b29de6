package pgsql

import (
	"context"

	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider returns repositories that run each call on the pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return newProvider(dbPool)
}

func newProvider(db querier) portsrepo.RepositoryProvider {
	base := BaseRepository{db: db}
	return portsrepo.RepositoryProvider{
		AccountRepo:      &PgxAccountRepository{BaseRepository: base},
		CurrencyRepo:     &PgxCurrencyRepository{BaseRepository: base},
		ExchangeRateRepo: &PgxExchangeRateRepository{BaseRepository: base},
		JournalRepo:      &PgxJournalRepository{BaseRepository: base},
		DebtRepo:         &PgxDebtRepository{BaseRepository: base},
		MovementRepo:     &PgxMovementRepository{BaseRepository: base},
	}
}

// TxManager runs units of work in a single database transaction.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a TxManager over the pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

// WithinTx begins a transaction, hands fn repositories bound to it and commits
// when fn succeeds.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.RepositoryProvider) error) error {
	tx, err := Begin(ctx, m.pool)
	if err != nil {
		return err
	}
	defer Rollback(ctx, tx) // no-op after commit

	if err := fn(ctx, newProvider(tx)); err != nil {
		return err
	}
	return Commit(ctx, tx)
}
