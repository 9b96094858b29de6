package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/platform/config"
)

// resolutionStrategy turns a role rule into predicates tried in order.
type resolutionStrategy struct {
	name       portssvc.ResolutionStrategy
	predicates func(rule config.RoleRule) []func(domain.Account) bool
}

// defaultStrategies is code, then exact synonym name, then synonym substring.
var defaultStrategies = []resolutionStrategy{
	{
		name: portssvc.StrategyCode,
		predicates: func(rule config.RoleRule) []func(domain.Account) bool {
			code := strings.TrimSpace(rule.Code)
			if code == "" {
				return nil
			}
			return []func(domain.Account) bool{
				func(acc domain.Account) bool { return acc.Code == code },
			}
		},
	},
	{
		name: portssvc.StrategyNameExact,
		predicates: func(rule config.RoleRule) []func(domain.Account) bool {
			out := make([]func(domain.Account) bool, 0, len(rule.Synonyms))
			for _, synonym := range rule.Synonyms {
				synonym := strings.TrimSpace(synonym)
				if synonym == "" {
					continue
				}
				out = append(out, func(acc domain.Account) bool {
					return strings.EqualFold(strings.TrimSpace(acc.Name), synonym)
				})
			}
			return out
		},
	},
	{
		name: portssvc.StrategyNameSubstring,
		predicates: func(rule config.RoleRule) []func(domain.Account) bool {
			out := make([]func(domain.Account) bool, 0, len(rule.Synonyms))
			for _, synonym := range rule.Synonyms {
				needle := strings.ToLower(strings.TrimSpace(synonym))
				if needle == "" {
					continue
				}
				out = append(out, func(acc domain.Account) bool {
					return strings.Contains(strings.ToLower(acc.Name), needle)
				})
			}
			return out
		},
	},
}

type accountResolver struct {
	BaseService
	rules      config.AccountMap
	strategies []resolutionStrategy
}

// NewAccountResolver creates a resolver over the configured role rules.
func NewAccountResolver(rules config.AccountMap) portssvc.AccountResolverSvc {
	return &accountResolver{rules: rules, strategies: defaultStrategies}
}

var _ portssvc.AccountResolverSvc = (*accountResolver)(nil)

func (s *accountResolver) Resolve(ctx context.Context, accounts portsrepo.AccountReader, role domain.AccountRole) (portssvc.AccountResolution, error) {
	result := portssvc.AccountResolution{Role: role}
	rule, ok := s.rules[role]
	if !ok {
		return result, nil
	}

	for _, strategy := range s.strategies {
		for _, predicate := range strategy.predicates(rule) {
			acc, err := accounts.FindAccount(ctx, predicate)
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			if err != nil {
				return result, err
			}
			result.Account = acc
			result.Strategy = strategy.name
			s.LogDebug(ctx, "Account resolved for role",
				slog.String("role", string(role)),
				slog.String("account_id", acc.AccountID),
				slog.String("strategy", string(strategy.name)))
			return result, nil
		}
	}
	return result, nil
}

func (s *accountResolver) Require(ctx context.Context, accounts portsrepo.AccountReader, role domain.AccountRole) (*domain.Account, error) {
	res, err := s.Resolve(ctx, accounts, role)
	if err != nil {
		return nil, err
	}
	if !res.Resolved() {
		s.LogWarn(ctx, "No account resolved for role", slog.String("role", string(role)))
		return nil, &apperrors.UnresolvedAccountError{Role: string(role)}
	}
	return res.Account, nil
}
