package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/core/revaluation"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/google/uuid"
)

type revaluationService struct {
	debtEngine
}

// NewRevaluationService creates the FX revaluation service.
func NewRevaluationService(deps DebtDeps) portssvc.RevaluationSvc {
	return &revaluationService{debtEngine{DebtDeps: deps}}
}

var _ portssvc.RevaluationSvc = (*revaluationService)(nil)

func (s *revaluationService) Revalue(ctx context.Context, debtID string, req dto.RevaluationRequest, userID string) (*domain.Movement, error) {
	debt, err := loadActiveDebt(ctx, s.Repos, debtID)
	if err != nil {
		return nil, err
	}
	kind := s.kindOf(debt)

	rate := req.Rate
	if !rate.IsPositive() && !kind.IsFunctionalCurrency() {
		if rate, err = s.currentRate(ctx, debt); err != nil {
			return nil, err
		}
	}
	// Fail fast on no-op revaluations.
	if _, err := revaluation.Revalue(kind, debt.OutstandingBalance, debt.RecordedRate, rate); err != nil {
		return nil, err
	}

	var movement domain.Movement
	err = s.TxManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		debt, err := loadActiveDebt(ctx, repos, debtID)
		if err != nil {
			return err
		}
		res, err := revaluation.Revalue(kind, debt.OutstandingBalance, debt.RecordedRate, rate)
		if err != nil {
			return err
		}

		movement = domain.Movement{
			MovementID:       uuid.NewString(),
			DebtID:           debt.DebtID,
			Date:             req.Date,
			Amount:           res.Outstanding,
			ExchangeRate:     res.NewRate,
			FunctionalAmount: res.Difference.Abs(),
			AutoJournal:      dto.AutoJournalOrDefault(req.AutoJournal),
			Details: domain.RevaluationDetails{
				PreviousRate:    res.PreviousRate,
				NewRate:         res.NewRate,
				HistoricalValue: res.HistoricalValue,
				CurrentValue:    res.CurrentValue,
				Difference:      res.Difference,
			},
			AuditFields: s.Audit(userID),
		}
		if err := s.record(ctx, repos, debt, &movement, userID); err != nil {
			return err
		}

		debt.RecordedRate = res.NewRate
		s.Touch(&debt.AuditFields, userID)
		return repos.DebtRepo.UpdateDebt(ctx, *debt)
	})
	if err != nil {
		return nil, err
	}

	details := movement.Details.(domain.RevaluationDetails)
	s.LogInfo(ctx, "Debt revalued",
		slog.String("debt_id", debtID),
		slog.String("previous_rate", details.PreviousRate.String()),
		slog.String("new_rate", details.NewRate.String()),
		slog.String("difference", details.Difference.StringFixed(2)))
	return &movement, nil
}
