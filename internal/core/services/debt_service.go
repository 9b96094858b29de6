package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/allocation"
	"github.com/SscSPs/debt_ledger/internal/core/amortization"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type debtService struct {
	debtEngine
}

// NewDebtService creates the debt lifecycle service.
func NewDebtService(deps DebtDeps) portssvc.DebtSvcFacade {
	return &debtService{debtEngine{DebtDeps: deps}}
}

var _ portssvc.DebtSvcFacade = (*debtService)(nil)

func termsFrom(principal decimal.Decimal, origination time.Time, t dto.ScheduleTerms) amortization.Terms {
	return amortization.Terms{
		Principal:        principal,
		AnnualRate:       t.AnnualRate,
		InstallmentCount: t.InstallmentCount,
		Frequency:        t.Frequency,
		System:           t.System,
		OriginationDate:  origination,
		FirstDueDate:     t.FirstDueDate,
	}
}

func (s *debtService) PreviewSchedule(ctx context.Context, req dto.SchedulePreviewRequest) ([]domain.Installment, error) {
	origination := req.OriginationDate
	if origination.IsZero() {
		origination = s.Now()
	}
	schedule, err := amortization.Generate(termsFrom(req.Principal, origination, req.ScheduleTerms))
	if err != nil {
		return nil, err
	}
	s.LogDebug(ctx, "Schedule previewed", slog.Int("installments", len(schedule)))
	return schedule, nil
}

func (s *debtService) OriginateDebt(ctx context.Context, req dto.OriginateDebtRequest, userID string) (*domain.Debt, error) {
	currency := strings.ToUpper(req.CurrencyCode)
	if req.FirstDueDate.Before(req.OriginationDate) {
		return nil, apperrors.Invalid("firstDueDate", "must not precede the origination date")
	}
	schedule, err := amortization.Generate(termsFrom(req.Principal, req.OriginationDate, req.ScheduleTerms))
	if err != nil {
		return nil, err
	}

	if _, err := s.Repos.CurrencyRepo.FindCurrencyByCode(ctx, currency); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Invalid("currencyCode", "currency %s not found", currency)
		}
		return nil, err
	}

	kind := domain.NewCurrencyKind(currency, s.FunctionalCurrency)
	rate := decimal.NewFromInt(1)
	if !kind.IsFunctionalCurrency() {
		rate = req.OriginationRate
		if !rate.IsPositive() {
			rate, err = s.Rates.GetCurrentRate(ctx, currency, s.LiabilitySide)
			if err != nil {
				return nil, fmt.Errorf("failed to get origination rate: %w", err)
			}
		}
	}

	debt := domain.Debt{
		DebtID:             uuid.NewString(),
		Description:        req.Description,
		Creditor:           req.Creditor,
		CurrencyCode:       currency,
		Principal:          req.Principal,
		OriginationRate:    rate,
		RecordedRate:       rate,
		OriginationDate:    req.OriginationDate,
		FirstDueDate:       req.FirstDueDate,
		AnnualRate:         req.AnnualRate,
		InstallmentCount:   req.InstallmentCount,
		Frequency:          req.Frequency,
		System:             req.System,
		Schedule:           schedule,
		OutstandingBalance: req.Principal,
		Status:             domain.DebtActive,
		AuditFields:        s.Audit(userID),
	}
	if req.LiabilityAccountID != nil {
		debt.LiabilityAccountID = *req.LiabilityAccountID
	}

	movement := domain.Movement{
		MovementID:       uuid.NewString(),
		DebtID:           debt.DebtID,
		Date:             req.OriginationDate,
		Amount:           req.Principal,
		ExchangeRate:     rate,
		FunctionalAmount: req.Principal.Mul(rate).Round(2),
		AutoJournal:      dto.AutoJournalOrDefault(req.AutoJournal),
		Details:          domain.OriginationDetails{ReceivingAccountID: req.ReceivingAccountID},
		AuditFields:      debt.AuditFields,
	}

	err = s.TxManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if debt.LiabilityAccountID != "" {
			acc, err := repos.AccountRepo.FindAccountByID(ctx, debt.LiabilityAccountID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return apperrors.Invalid("liabilityAccountID", "account %s not found", debt.LiabilityAccountID)
				}
				return err
			}
			if acc.AccountType != domain.Liability {
				return apperrors.Invalid("liabilityAccountID", "account %s is not a liability account", acc.AccountID)
			}
		}
		if err := repos.DebtRepo.SaveDebt(ctx, debt); err != nil {
			return fmt.Errorf("failed to save debt: %w", err)
		}
		if err := s.record(ctx, repos, &debt, &movement, userID); err != nil {
			return err
		}
		if movement.JournalID != nil {
			debt.OriginationJournalIDs = []string{*movement.JournalID}
			return repos.DebtRepo.UpdateDebt(ctx, debt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Debt originated",
		slog.String("debt_id", debt.DebtID),
		slog.String("currency", debt.CurrencyCode),
		slog.String("principal", debt.Principal.String()),
		slog.String("system", string(debt.System)))
	return &debt, nil
}

func (s *debtService) Disburse(ctx context.Context, debtID string, req dto.DisburseRequest, userID string) (*domain.Movement, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.Invalid("amount", "must be greater than zero")
	}
	debt, err := loadActiveDebt(ctx, s.Repos, debtID)
	if err != nil {
		return nil, err
	}
	rate, err := s.currentRate(ctx, debt)
	if err != nil {
		return nil, err
	}

	var movement domain.Movement
	err = s.TxManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		debt, err := loadActiveDebt(ctx, repos, debtID)
		if err != nil {
			return err
		}
		functional := req.Amount.Mul(rate).Round(2)
		previous := debt.RecordedRate
		outstanding := debt.OutstandingBalance.Add(req.Amount)
		if !s.kindOf(debt).IsFunctionalCurrency() {
			// Blend so outstanding × recorded rate still equals the carried liability.
			carried := debt.OutstandingBalance.Mul(debt.RecordedRate).Add(functional)
			debt.RecordedRate = carried.Div(outstanding)
		}

		movement = domain.Movement{
			MovementID:       uuid.NewString(),
			DebtID:           debt.DebtID,
			Date:             req.Date,
			Amount:           req.Amount,
			ExchangeRate:     rate,
			FunctionalAmount: functional,
			AutoJournal:      dto.AutoJournalOrDefault(req.AutoJournal),
			Details: domain.DisbursementDetails{
				ReceivingAccountID: req.ReceivingAccountID,
				PreviousRate:       previous,
				RecordedRate:       debt.RecordedRate,
			},
			AuditFields: s.Audit(userID),
		}
		if err := s.record(ctx, repos, debt, &movement, userID); err != nil {
			return err
		}

		debt.Principal = debt.Principal.Add(req.Amount)
		debt.OutstandingBalance = outstanding
		if err := rescheduleUnpaid(debt, outstanding, req.Date); err != nil {
			return err
		}
		s.Touch(&debt.AuditFields, userID)
		return repos.DebtRepo.UpdateDebt(ctx, *debt)
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Disbursement recorded",
		slog.String("debt_id", debtID),
		slog.String("amount", req.Amount.String()))
	return &movement, nil
}

func (s *debtService) Refinance(ctx context.Context, debtID string, req dto.RefinanceRequest, userID string) (*domain.Debt, error) {
	if req.InstallmentCount < 1 {
		return nil, apperrors.Invalid("installmentCount", "must be at least 1")
	}
	if req.AnnualRate.IsNegative() {
		return nil, apperrors.Invalid("annualRate", "must not be negative")
	}
	if !req.Frequency.Valid() {
		return nil, &apperrors.UnsupportedConfigurationError{Setting: "frequency", Value: string(req.Frequency)}
	}
	if !req.System.Valid() {
		return nil, &apperrors.UnsupportedConfigurationError{Setting: "amortization system", Value: string(req.System)}
	}

	var refinanced *domain.Debt
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		debt, err := loadActiveDebt(ctx, repos, debtID)
		if err != nil {
			return err
		}

		capitalized, capitalizedDebt := decimal.Zero, decimal.Zero
		if req.CapitalizeInterest {
			movements, err := repos.MovementRepo.ListMovementsByDebt(ctx, debtID)
			if err != nil {
				return err
			}
			capitalized = allocation.PendingInterest(movements)
			recorded := decimal.NewFromInt(1)
			if !s.kindOf(debt).IsFunctionalCurrency() && debt.RecordedRate.IsPositive() {
				recorded = debt.RecordedRate
			}
			capitalizedDebt = capitalized.Div(recorded).Round(2)
		}

		previousRate := debt.AnnualRate
		outstanding := debt.OutstandingBalance.Add(capitalizedDebt)
		if !outstanding.IsPositive() {
			return apperrors.Invalid("outstandingBalance", "nothing left to refinance")
		}
		debt.AnnualRate = req.AnnualRate
		debt.Frequency = req.Frequency
		debt.System = req.System
		if err := reschedule(debt, outstanding, req.InstallmentCount, req.FirstDueDate, req.Date); err != nil {
			return err
		}

		movement := domain.Movement{
			MovementID:       uuid.NewString(),
			DebtID:           debt.DebtID,
			Date:             req.Date,
			Amount:           capitalizedDebt,
			ExchangeRate:     debt.RecordedRate,
			FunctionalAmount: capitalized,
			AutoJournal:      dto.AutoJournalOrDefault(req.AutoJournal) && capitalized.IsPositive(),
			Details: domain.RefinancingDetails{
				CapitalizedInterest: capitalized,
				PreviousAnnualRate:  previousRate,
				NewAnnualRate:       req.AnnualRate,
				NewInstallmentCount: req.InstallmentCount,
				NewFrequency:        req.Frequency,
				NewSystem:           req.System,
			},
			AuditFields: s.Audit(userID),
		}
		if err := s.record(ctx, repos, debt, &movement, userID); err != nil {
			return err
		}

		debt.OutstandingBalance = outstanding
		s.Touch(&debt.AuditFields, userID)
		if err := repos.DebtRepo.UpdateDebt(ctx, *debt); err != nil {
			return err
		}
		refinanced = debt
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Debt refinanced",
		slog.String("debt_id", debtID),
		slog.Int("installments", req.InstallmentCount),
		slog.String("system", string(req.System)))
	return refinanced, nil
}

func (s *debtService) CancelDebt(ctx context.Context, debtID string, userID string) error {
	return s.TxManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		debt, err := loadActiveDebt(ctx, repos, debtID)
		if err != nil {
			return err
		}
		debt.Status = domain.DebtCancelled
		s.Touch(&debt.AuditFields, userID)
		if err := repos.DebtRepo.UpdateDebt(ctx, *debt); err != nil {
			return err
		}
		s.LogInfo(ctx, "Debt cancelled", slog.String("debt_id", debtID))
		return nil
	})
}

func (s *debtService) DeleteDebt(ctx context.Context, debtID string, params dto.DeleteDebtParams, userID string) error {
	return s.TxManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.DebtRepo.FindDebtByID(ctx, debtID); err != nil {
			return err
		}
		journals, err := repos.JournalRepo.ListJournalsByDebt(ctx, debtID)
		if err != nil {
			return err
		}
		removed, kept := 0, 0
		for i := range journals {
			if params.PreserveManualEntries && journals[i].Source == domain.SourceManual {
				kept++
				continue
			}
			if err := removeJournal(ctx, repos, &journals[i]); err != nil {
				return fmt.Errorf("failed to remove journal %s: %w", journals[i].JournalID, err)
			}
			removed++
		}
		if err := repos.MovementRepo.DeleteMovementsByDebt(ctx, debtID); err != nil {
			return err
		}
		if err := repos.DebtRepo.DeleteDebt(ctx, debtID); err != nil {
			return err
		}
		s.LogInfo(ctx, "Debt deleted",
			slog.String("debt_id", debtID),
			slog.String("user_id", userID),
			slog.Int("journals_removed", removed),
			slog.Int("journals_kept", kept))
		return nil
	})
}

func (s *debtService) GetDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	debt, err := s.Repos.DebtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get debt", slog.String("debt_id", debtID))
		}
		return nil, err
	}
	return debt, nil
}

func (s *debtService) ListDebts(ctx context.Context, params dto.ListDebtsParams) ([]domain.Debt, error) {
	debts, err := s.Repos.DebtRepo.ListDebts(ctx, params.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	if debts == nil {
		return []domain.Debt{}, nil
	}
	return debts, nil
}

func (s *debtService) ListMovements(ctx context.Context, debtID string) ([]domain.Movement, error) {
	if _, err := s.Repos.DebtRepo.FindDebtByID(ctx, debtID); err != nil {
		return nil, err
	}
	movements, err := s.Repos.MovementRepo.ListMovementsByDebt(ctx, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	if movements == nil {
		return []domain.Movement{}, nil
	}
	return movements, nil
}

func (s *debtService) GetPosition(ctx context.Context, debtID string, asOf time.Time) (*domain.DebtPosition, error) {
	debt, err := s.Repos.DebtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	return positionOf(ctx, &s.debtEngine, s.Repos, debt, asOf)
}

// positionOf values a debt for payment at the current liability rate.
func positionOf(ctx context.Context, e *debtEngine, repos portsrepo.RepositoryProvider, debt *domain.Debt, asOf time.Time) (*domain.DebtPosition, error) {
	rate := decimal.NewFromInt(1)
	if debt.OutstandingBalance.IsPositive() {
		var err error
		if rate, err = e.currentRate(ctx, debt); err != nil {
			return nil, err
		}
	}
	movements, err := repos.MovementRepo.ListMovementsByDebt(ctx, debt.DebtID)
	if err != nil {
		return nil, err
	}
	pos := allocation.Position{
		Outstanding:     debt.OutstandingBalance,
		InterestPending: allocation.PendingInterest(movements),
		CurrentRate:     rate,
		RecordedRate:    debt.RecordedRate,
		Kind:            e.kindOf(debt),
	}
	out := &domain.DebtPosition{
		DebtID:          debt.DebtID,
		AsOf:            asOf,
		OutstandingDebt: debt.OutstandingBalance,
		CurrentRate:     rate,
		RecordedRate:    debt.RecordedRate,
		Outstanding:     pos.OutstandingFunctional(),
		InterestPending: pos.InterestPending,
		Payoff:          pos.Payoff(),
	}
	if i, ok := debt.NextUnpaidInstallment(); ok {
		next := debt.Schedule[i]
		out.NextInstallment = &next
		out.NextInstallmentTotal = decimal.Min(next.Total.Mul(rate).Round(2), out.Payoff)
	}
	return out, nil
}
