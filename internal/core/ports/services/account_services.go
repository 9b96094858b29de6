package services

import (
	"context"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/debt_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves every active account in chart order.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}

// AccountRoleSvc reports how posting roles map onto the chart.
type AccountRoleSvc interface {
	// ResolveRoles runs the resolver for every configured role.
	ResolveRoles(ctx context.Context) (map[domain.AccountRole]AccountResolution, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountRoleSvc
}

// ResolutionStrategy names the rule that matched an account.
type ResolutionStrategy string

const (
	StrategyCode          ResolutionStrategy = "CODE"
	StrategyNameExact     ResolutionStrategy = "NAME_EXACT"
	StrategyNameSubstring ResolutionStrategy = "NAME_SUBSTRING"
)

// AccountResolution is the typed result of resolving a role: Account is nil
// when the role is unresolved.
type AccountResolution struct {
	Role     domain.AccountRole
	Account  *domain.Account
	Strategy ResolutionStrategy
}

// Resolved reports whether an account was found.
func (r AccountResolution) Resolved() bool {
	return r.Account != nil
}

// AccountResolverSvc maps posting roles to accounts. Callers pass the account
// reader so resolution can run inside their unit of work.
type AccountResolverSvc interface {
	// Resolve tries each strategy in order and never fails for a missing account;
	// it returns an unresolved result instead.
	Resolve(ctx context.Context, accounts portsrepo.AccountReader, role domain.AccountRole) (AccountResolution, error)

	// Require resolves role or fails with apperrors.UnresolvedAccountError.
	Require(ctx context.Context, accounts portsrepo.AccountReader, role domain.AccountRole) (*domain.Account, error)
}
