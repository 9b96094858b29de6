package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/debt_ledger/internal/core/services"
	"github.com/SscSPs/debt_ledger/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type AccrualServiceTestSuite struct {
	suite.Suite
	f    *ledgerFixture
	debt *domain.Debt
}

func (suite *AccrualServiceTestSuite) SetupTest() {
	suite.f = newLedgerFixture(suite.T())
	// April 2024 has 30 days.
	suite.debt = suite.f.originate(suite.T(), originationRequest("ARS", "100000", "0.24", 12, day(2024, 4, 1)))
}

func (suite *AccrualServiceTestSuite) TestAccrueDebt_PostsClosedMonth() {
	f := suite.f
	run, err := f.svc.Accrual.AccrueDebt(f.ctx, suite.debt.DebtID, day(2024, 5, 15), testUser)

	suite.Require().NoError(err)
	suite.Require().Len(run.Posted, 1)
	m := run.Posted[0]
	suite.Equal("2024-04", m.PeriodKey)
	suite.Equal("1972.60", m.FunctionalAmount.StringFixed(2))
	suite.Equal(day(2024, 4, 30), m.Date)

	details, ok := m.Details.(domain.AccrualDetails)
	suite.Require().True(ok)
	suite.Equal(30, details.Days)
	suite.Equal(domain.DayCountActual365Fixed, details.DayCountBasis)

	j := f.journal(suite.T(), m.JournalID)
	suite.Equal("1972.60", f.side(j, domain.RoleInterestExpense, domain.Debit).StringFixed(2))
	suite.Equal("1972.60", f.side(j, domain.RoleAccruedInterest, domain.Credit).StringFixed(2))
}

func (suite *AccrualServiceTestSuite) TestAccrueDebt_IsIdempotent() {
	f := suite.f
	first, err := f.svc.Accrual.AccrueDebt(f.ctx, suite.debt.DebtID, day(2024, 7, 3), testUser)
	suite.Require().NoError(err)
	suite.Len(first.Posted, 3)

	second, err := f.svc.Accrual.AccrueDebt(f.ctx, suite.debt.DebtID, day(2024, 7, 3), testUser)
	suite.Require().NoError(err)
	suite.Empty(second.Posted)
	suite.Len(f.movements(suite.T(), suite.debt.DebtID, domain.MovementAccrual), 3)
}

func (suite *AccrualServiceTestSuite) TestAccrueDebt_NeverEntersOpenMonth() {
	f := suite.f
	run, err := f.svc.Accrual.AccrueDebt(f.ctx, suite.debt.DebtID, day(2024, 4, 29), testUser)

	suite.Require().NoError(err)
	suite.Empty(run.Posted)
}

func (suite *AccrualServiceTestSuite) TestAccrueDebt_FutureCutOffStopsAtClock() {
	f := suite.f
	now := time.Now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	recent := f.originate(suite.T(), originationRequest("ARS", "100000", "0.24", 24, lastMonth))

	run, err := f.svc.Accrual.AccrueDebt(f.ctx, recent.DebtID, now.AddDate(1, 0, 0), testUser)

	suite.Require().NoError(err)
	suite.Require().Len(run.Posted, 1)
	suite.Equal(lastMonth.Format("2006-01"), run.Posted[0].PeriodKey)
	for _, m := range f.movements(suite.T(), recent.DebtID, domain.MovementAccrual) {
		suite.Less(m.PeriodKey, thisMonth.Format("2006-01"))
	}
}

func (suite *AccrualServiceTestSuite) TestAccrueAll_FutureCutOffStopsAtClock() {
	f := suite.f
	now := time.Now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	recent := f.originate(suite.T(), originationRequest("ARS", "5000", "0.12", 24, thisMonth.AddDate(0, -2, 0)))

	f.svc.Accrual.AccrueAll(f.ctx, now.AddDate(2, 0, 0), testUser)

	accrued := f.movements(suite.T(), recent.DebtID, domain.MovementAccrual)
	suite.Len(accrued, 2)
	for _, m := range accrued {
		suite.Less(m.PeriodKey, thisMonth.Format("2006-01"))
	}
}

func (suite *AccrualServiceTestSuite) TestAccrueDebt_KeyTakenAfterCheckFailsRun() {
	f := suite.f
	_, err := f.svc.Accrual.AccruePeriod(f.ctx, suite.debt.DebtID, "2024-04", testUser)
	suite.Require().NoError(err)
	accruedBefore := f.balance(suite.T(), domain.RoleAccruedInterest)

	// A second runner whose reads miss the posted key, as when another run
	// commits between its check and its insert.
	blind := staleAccrualTx{Store: f.store}
	repos := f.store.Provider()
	repos.MovementRepo = staleAccrualKeys{repos.MovementRepo}
	racer := services.NewServiceContainer(f.cfg, blind, repos)

	run, err := racer.Accrual.AccrueDebt(f.ctx, suite.debt.DebtID, day(2024, 7, 3), testUser)

	suite.Nil(run)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	var dup *apperrors.DuplicateAccrualError
	suite.Require().True(errors.As(err, &dup))
	suite.Equal("2024-04", dup.PeriodKey)
	// The unit of work is abandoned whole: no journals, no later periods.
	suite.True(accruedBefore.Equal(f.balance(suite.T(), domain.RoleAccruedInterest)))
	suite.Len(f.movements(suite.T(), suite.debt.DebtID, domain.MovementAccrual), 1)
}

// staleAccrualKeys reports no accrued periods, leaving the insert to catch duplicates.
type staleAccrualKeys struct {
	portsrepo.MovementRepositoryFacade
}

func (staleAccrualKeys) AccrualPeriodExists(context.Context, string, string) (bool, error) {
	return false, nil
}

func (staleAccrualKeys) ListAccrualPeriodKeys(context.Context, string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

type staleAccrualTx struct {
	*memory.Store
}

func (s staleAccrualTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.RepositoryProvider) error) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		repos.MovementRepo = staleAccrualKeys{repos.MovementRepo}
		return fn(ctx, repos)
	})
}

func (suite *AccrualServiceTestSuite) TestAccruePeriod_DuplicateIsSurfaced() {
	f := suite.f
	m, err := f.svc.Accrual.AccruePeriod(f.ctx, suite.debt.DebtID, "2024-04", testUser)
	suite.Require().NoError(err)
	suite.Equal("1972.60", m.FunctionalAmount.StringFixed(2))

	_, err = f.svc.Accrual.AccruePeriod(f.ctx, suite.debt.DebtID, "2024-04", testUser)
	var dup *apperrors.DuplicateAccrualError
	suite.Require().True(errors.As(err, &dup))
	suite.Equal("2024-04", dup.PeriodKey)
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	// The automatic path treats the posted key as nothing to do.
	run, err := f.svc.Accrual.AccrueDebt(f.ctx, suite.debt.DebtID, day(2024, 5, 2), testUser)
	suite.Require().NoError(err)
	suite.Empty(run.Posted)
}

func (suite *AccrualServiceTestSuite) TestAccruePeriod_OutsideWindow() {
	f := suite.f
	_, err := f.svc.Accrual.AccruePeriod(f.ctx, suite.debt.DebtID, "2023-12", testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = f.svc.Accrual.AccruePeriod(f.ctx, suite.debt.DebtID, "2031-01", testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccrualServiceTestSuite) TestAccrueDebt_ForeignConvertsAtCurrentRate() {
	f := suite.f
	usd := f.originate(suite.T(), originationRequest("USD", "1000", "0.365", 12, day(2024, 4, 1)))
	f.setRate(suite.T(), "USD", "1200", day(2024, 5, 1))

	run, err := f.svc.Accrual.AccrueDebt(f.ctx, usd.DebtID, day(2024, 5, 15), testUser)

	suite.Require().NoError(err)
	suite.Require().Len(run.Posted, 1)
	// 1000 × 0.365 × 30/365 = 30 USD
	suite.Equal("30.00", run.Posted[0].Amount.StringFixed(2))
	suite.Equal("36000.00", run.Posted[0].FunctionalAmount.StringFixed(2))
}

func (suite *AccrualServiceTestSuite) TestAccrueAll_ContinuesPastFailures() {
	f := suite.f
	broken := f.originate(suite.T(), originationRequest("USD", "1000", "0.1", 12, day(2024, 4, 1)))
	// No EUR quote exists, so this debt cannot be priced.
	suite.Require().NoError(f.repos.DebtRepo.UpdateDebt(f.ctx, withCurrency(*broken, "EUR")))

	runs := f.svc.Accrual.AccrueAll(f.ctx, day(2024, 5, 15), testUser)

	suite.Require().Len(runs, 1)
	suite.Equal(suite.debt.DebtID, runs[0].DebtID)
	suite.Len(runs[0].Posted, 1)
	suite.Empty(f.movements(suite.T(), broken.DebtID, domain.MovementAccrual))
}

func withCurrency(d domain.Debt, code string) domain.Debt {
	d.CurrencyCode = code
	return d
}

func (suite *AccrualServiceTestSuite) TestAccrualSession_RunsOnce() {
	f := suite.f
	session := services.NewAccrualSession(f.svc.Accrual)
	suite.False(session.HasRun())

	var wg sync.WaitGroup
	ran := make(chan bool, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, did := session.RunOnce(f.ctx, day(2024, 6, 10), testUser)
			ran <- did
		}()
	}
	wg.Wait()
	close(ran)

	count := 0
	for did := range ran {
		if did {
			count++
		}
	}
	suite.Equal(1, count)
	suite.True(session.HasRun())
	suite.Len(f.movements(suite.T(), suite.debt.DebtID, domain.MovementAccrual), 2)

	// Manual accrual is unaffected by the session flag.
	_, err := f.svc.Accrual.AccrueDebt(f.ctx, suite.debt.DebtID, day(2024, 7, 10), testUser)
	suite.NoError(err)
	suite.Len(f.movements(suite.T(), suite.debt.DebtID, domain.MovementAccrual), 3)
}

func (suite *AccrualServiceTestSuite) TestAccrueDebt_ZeroRateDebtIsSkipped() {
	f := suite.f
	free := f.originate(suite.T(), originationRequest("ARS", "1000", "0", 12, day(2024, 4, 1)))

	run, err := f.svc.Accrual.AccrueDebt(f.ctx, free.DebtID, day(2024, 8, 1), testUser)

	suite.Require().NoError(err)
	suite.Empty(run.Posted)
}

func TestAccrualService(t *testing.T) {
	suite.Run(t, new(AccrualServiceTestSuite))
}
