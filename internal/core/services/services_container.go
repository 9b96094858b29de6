package services

import (
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/platform/config"
)

// NewServiceContainer wires every application service over one repository set.
// txManager must hand out providers bound to the same store as repos.
func NewServiceContainer(cfg *config.Config, txManager portsrepo.TransactionManager, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The resolver and poster come first since every posting path depends on them
	container.Resolver = NewAccountResolver(cfg.AccountMap)
	container.Poster = NewJournalPoster(container.Resolver, cfg.FunctionalCurrency)

	container.Account = NewAccountService(
		repos.AccountRepo,
		cfg.FunctionalCurrency,
		WithCurrencyRepository(repos.CurrencyRepo),
		WithAccountResolver(container.Resolver, domain.PostingRoles),
	)
	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency, cfg.FunctionalCurrency)
	container.Journal = NewJournalService(txManager, repos, container.Poster)

	deps := DebtDeps{
		TxManager:          txManager,
		Repos:              repos,
		Poster:             container.Poster,
		Rates:              container.ExchangeRate,
		FunctionalCurrency: cfg.FunctionalCurrency,
		LiabilitySide:      cfg.LiabilityRateSide,
	}
	container.Debt = NewDebtService(deps)
	container.Accrual = NewAccrualService(deps)
	container.Payment = NewPaymentService(deps)
	container.Revaluation = NewRevaluationService(deps)
	container.Reconciliation = NewReconciliationService(deps)

	return container
}
