package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/core/services"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/SscSPs/debt_ledger/internal/platform/config"
	"github.com/SscSPs/debt_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// ledgerFixture is a fully wired service container over an in-memory store
// holding ARS and USD, one account per posting role and a USD/ARS quote.
type ledgerFixture struct {
	ctx      context.Context
	cfg      *config.Config
	store    *memory.Store
	repos    portsrepo.RepositoryProvider
	svc      *portssvc.ServiceContainer
	accounts map[domain.AccountRole]string
}

var fixtureChart = []struct {
	role domain.AccountRole
	code string
	name string
	typ  domain.AccountType
}{
	{domain.RoleCash, "1.1.01", "Cash", domain.Asset},
	{domain.RoleLoanLiability, "2.1.03", "Loans Payable", domain.Liability},
	{domain.RoleAccruedInterest, "2.1.04", "Accrued Interest Payable", domain.Liability},
	{domain.RoleExchangeGain, "4.2.01", "Exchange Gain", domain.Revenue},
	{domain.RoleInterestExpense, "5.2.01", "Interest Expense", domain.Expense},
	{domain.RoleExchangeLoss, "5.2.02", "Exchange Loss", domain.Expense},
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	f := newBareFixture(t)
	for _, acc := range fixtureChart {
		f.accounts[acc.role] = f.addAccount(t, acc.code, acc.name, acc.typ)
	}
	f.setRate(t, "USD", "1000", day(2024, 1, 1))
	return f
}

// newBareFixture has currencies but no chart of accounts.
func newBareFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	cfg := &config.Config{
		FunctionalCurrency: "ARS",
		LiabilityRateSide:  domain.RateSell,
		AccountMap:         config.DefaultAccountMap(),
	}
	store := memory.NewStore()
	f := &ledgerFixture{
		ctx:      context.Background(),
		cfg:      cfg,
		store:    store,
		repos:    store.Provider(),
		accounts: map[domain.AccountRole]string{},
	}
	f.svc = services.NewServiceContainer(cfg, store, f.repos)
	for _, code := range []string{"ARS", "USD"} {
		require.NoError(t, f.repos.CurrencyRepo.SaveCurrency(f.ctx, domain.Currency{CurrencyCode: code, Name: code, Precision: 2}))
	}
	return f
}

func (f *ledgerFixture) addAccount(t *testing.T, code, name string, typ domain.AccountType) string {
	t.Helper()
	acc, err := f.svc.Account.CreateAccount(f.ctx, dto.CreateAccountRequest{Code: code, Name: name, AccountType: typ}, testUser)
	require.NoError(t, err)
	return acc.AccountID
}

func (f *ledgerFixture) setRate(t *testing.T, code, rate string, on time.Time) {
	t.Helper()
	_, err := f.svc.ExchangeRate.CreateExchangeRate(f.ctx, dto.CreateExchangeRateRequest{
		FromCurrencyCode: code,
		ToCurrencyCode:   "ARS",
		Side:             domain.RateSell,
		Rate:             dec(rate),
		DateEffective:    on,
	}, testUser)
	require.NoError(t, err)
}

// originationRequest is a monthly French loan of principal in currency.
func originationRequest(currency, principal, annualRate string, count int, originated time.Time) dto.OriginateDebtRequest {
	return dto.OriginateDebtRequest{
		Description:     "Test loan",
		Creditor:        "Bank",
		CurrencyCode:    currency,
		Principal:       dec(principal),
		OriginationDate: originated,
		ScheduleTerms: dto.ScheduleTerms{
			AnnualRate:       dec(annualRate),
			InstallmentCount: count,
			Frequency:        domain.Monthly,
			System:           domain.French,
			FirstDueDate:     domain.AddMonths(originated, 1),
		},
	}
}

func (f *ledgerFixture) originate(t *testing.T, req dto.OriginateDebtRequest) *domain.Debt {
	t.Helper()
	debt, err := f.svc.Debt.OriginateDebt(f.ctx, req, testUser)
	require.NoError(t, err)
	return debt
}

func (f *ledgerFixture) balance(t *testing.T, role domain.AccountRole) decimal.Decimal {
	t.Helper()
	acc, err := f.repos.AccountRepo.FindAccountByID(f.ctx, f.accounts[role])
	require.NoError(t, err)
	return acc.Balance
}

func (f *ledgerFixture) journal(t *testing.T, journalID *string) *domain.Journal {
	t.Helper()
	require.NotNil(t, journalID)
	j, err := f.repos.JournalRepo.FindJournalByID(f.ctx, *journalID)
	require.NoError(t, err)
	return j
}

// side sums the journal's lines of one type for the role's account.
func (f *ledgerFixture) side(j *domain.Journal, role domain.AccountRole, typ domain.TransactionType) decimal.Decimal {
	sum := decimal.Zero
	for _, txn := range j.Transactions {
		if txn.AccountID == f.accounts[role] && txn.TransactionType == typ {
			sum = sum.Add(txn.Amount)
		}
	}
	return sum
}

func (f *ledgerFixture) movements(t *testing.T, debtID string, kind domain.MovementKind) []domain.Movement {
	t.Helper()
	all, err := f.svc.Debt.ListMovements(f.ctx, debtID)
	require.NoError(t, err)
	var out []domain.Movement
	for _, m := range all {
		if m.Kind() == kind {
			out = append(out, m)
		}
	}
	return out
}
