package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/debt_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accrualMovement(id, periodKey string) domain.Movement {
	return domain.Movement{
		MovementID:       id,
		DebtID:           "debt-1",
		Date:             time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		FunctionalAmount: decimal.NewFromInt(10),
		PeriodKey:        periodKey,
		Details:          domain.AccrualDetails{PeriodKey: periodKey},
	}
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Provider()
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "cash", Code: "1.1", AccountType: domain.Asset, IsActive: true}))

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.RepositoryProvider) error {
		require.NoError(t, tx.MovementRepo.SaveMovement(ctx, accrualMovement("m-1", "2025-03")))
		require.NoError(t, tx.AccountRepo.UpdateAccountBalances(ctx, map[string]decimal.Decimal{"cash": decimal.NewFromInt(50)}, "u", time.Now()))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := repos.MovementRepo.AccrualPeriodExists(ctx, "debt-1", "2025-03")
	require.NoError(t, err)
	assert.False(t, exists)

	acc, err := repos.AccountRepo.FindAccountByID(ctx, "cash")
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())
}

func TestSaveMovement_RejectsDuplicateAccrualKey(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Provider()

	require.NoError(t, repos.MovementRepo.SaveMovement(ctx, accrualMovement("m-1", "2025-03")))
	err := repos.MovementRepo.SaveMovement(ctx, accrualMovement("m-2", "2025-03"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	require.NoError(t, repos.MovementRepo.SaveMovement(ctx, accrualMovement("m-3", "2025-04")))
	keys, err := repos.MovementRepo.ListAccrualPeriodKeys(ctx, "debt-1")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestListJournals_Paginates(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Provider()
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "a", Code: "1", AccountType: domain.Asset, IsActive: true}))
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "b", Code: "2", AccountType: domain.Liability, IsActive: true}))

	for i, id := range []string{"j1", "j2", "j3"} {
		day := time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC)
		lines := []domain.Transaction{
			{TransactionID: id + "-d", AccountID: "a", Amount: decimal.NewFromInt(1), TransactionType: domain.Debit},
			{TransactionID: id + "-c", AccountID: "b", Amount: decimal.NewFromInt(1), TransactionType: domain.Credit},
		}
		changes := map[string]decimal.Decimal{"a": decimal.NewFromInt(1), "b": decimal.NewFromInt(1)}
		require.NoError(t, repos.JournalRepo.SaveJournal(ctx, domain.Journal{JournalID: id, JournalDate: day}, lines, changes))
	}

	page, next, err := repos.JournalRepo.ListJournals(ctx, 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.Equal(t, "j3", page[0].JournalID)

	page, next, err = repos.JournalRepo.ListJournals(ctx, 2, next)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Nil(t, next)
	assert.Equal(t, "j1", page[0].JournalID)

	acc, err := repos.AccountRepo.FindAccountByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "3", acc.Balance.String())
}
