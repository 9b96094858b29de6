package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo        portsrepo.AccountRepositoryFacade
	currencyRepo       portsrepo.CurrencyReader
	resolver           portssvc.AccountResolverSvc
	roles              []domain.AccountRole
	functionalCurrency string
}

// ServiceOption is a functional option for configuring the account service
type ServiceOption func(*accountService)

// WithCurrencyRepository adds currency validation on create.
func WithCurrencyRepository(repo portsrepo.CurrencyReader) ServiceOption {
	return func(s *accountService) {
		s.currencyRepo = repo
	}
}

// WithAccountResolver enables ResolveRoles for the given roles.
func WithAccountResolver(resolver portssvc.AccountResolverSvc, roles []domain.AccountRole) ServiceOption {
	return func(s *accountService) {
		s.resolver = resolver
		s.roles = roles
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, functionalCurrency string, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo:        repo,
		functionalCurrency: functionalCurrency,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	currency := req.CurrencyCode
	if currency == "" {
		currency = s.functionalCurrency
	}
	// Postings are always booked in the functional currency.
	if currency != s.functionalCurrency {
		return nil, apperrors.Invalid("currencyCode", "accounts are kept in %s", s.functionalCurrency)
	}
	if s.currencyRepo != nil {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, currency); err != nil {
			s.LogError(ctx, err, "Invalid currency code", slog.String("currency_code", currency))
			return nil, fmt.Errorf("invalid currency code: %w", err)
		}
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		if _, err := s.accountRepo.FindAccountByID(ctx, parentID); err != nil {
			s.LogError(ctx, err, "Failed to find parent account", slog.String("parent_id", parentID))
			return nil, fmt.Errorf("invalid parent account: %w", err)
		}
	}

	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            strings.TrimSpace(req.Code),
		Name:            strings.TrimSpace(req.Name),
		AccountType:     req.AccountType,
		CurrencyCode:    currency,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields:     s.Audit(userID),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, accountID)
	}

	updated := false
	if req.Name != nil && *req.Name != account.Name {
		account.Name = strings.TrimSpace(*req.Name)
		updated = true
	}
	if req.Description != nil && *req.Description != account.Description {
		account.Description = *req.Description
		updated = true
	}
	if req.Code != nil && *req.Code != account.Code {
		account.Code = strings.TrimSpace(*req.Code)
		updated = true
	}
	if !updated {
		return account, nil
	}

	s.Touch(&account.AuditFields, userID)
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrValidation, accountID)
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: account %s still carries a balance of %s", apperrors.ErrConflict, accountID, account.Balance.StringFixed(2))
	}
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) ResolveRoles(ctx context.Context) (map[domain.AccountRole]portssvc.AccountResolution, error) {
	if s.resolver == nil {
		return nil, fmt.Errorf("%w: no account resolver configured", apperrors.ErrInternal)
	}
	out := make(map[domain.AccountRole]portssvc.AccountResolution, len(s.roles))
	for _, role := range s.roles {
		res, err := s.resolver.Resolve(ctx, s.accountRepo, role)
		if err != nil {
			return nil, err
		}
		out[role] = res
	}
	return out, nil
}
