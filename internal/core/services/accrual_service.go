package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/accrual"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// errNothingToAccrue marks a slice priced at zero; its key stays free.
var errNothingToAccrue = errors.New("slice accrues no interest")

// errConcurrentAccrual marks a period key taken by another run after the
// in-transaction check. The store has already failed the unit of work.
var errConcurrentAccrual = errors.New("period accrued concurrently")

type accrualService struct {
	debtEngine
}

// NewAccrualService creates the interest accrual service.
func NewAccrualService(deps DebtDeps) portssvc.AccrualSvcFacade {
	return &accrualService{debtEngine{DebtDeps: deps}}
}

var _ portssvc.AccrualSvcFacade = (*accrualService)(nil)

func (s *accrualService) AccrueDebt(ctx context.Context, debtID string, asOf time.Time, userID string) (*domain.AccrualRun, error) {
	debt, err := s.Repos.DebtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	return s.accrue(ctx, debt, asOf, userID)
}

func (s *accrualService) AccrueAll(ctx context.Context, asOf time.Time, userID string) []domain.AccrualRun {
	active := domain.DebtActive
	debts, err := s.Repos.DebtRepo.ListDebts(ctx, &active)
	if err != nil {
		s.LogError(ctx, err, "Accrual sweep could not list debts")
		return nil
	}

	runs := make([]domain.AccrualRun, 0, len(debts))
	failed := 0
	for i := range debts {
		run, err := s.accrue(ctx, &debts[i], asOf, userID)
		if err != nil {
			failed++
			s.LogError(ctx, err, "Accrual failed for debt, continuing",
				slog.String("debt_id", debts[i].DebtID))
			continue
		}
		runs = append(runs, *run)
	}

	posted := 0
	for _, run := range runs {
		posted += len(run.Posted)
	}
	s.LogInfo(ctx, "Accrual sweep finished",
		slog.Int("debts", len(debts)),
		slog.Int("movements_posted", posted),
		slog.Int("debts_failed", failed))
	return runs
}

// accrue posts every pending slice of one debt in a single unit of work.
func (s *accrualService) accrue(ctx context.Context, debt *domain.Debt, asOf time.Time, userID string) (*domain.AccrualRun, error) {
	run := &domain.AccrualRun{DebtID: debt.DebtID}
	if debt.Status != domain.DebtActive || !debt.IsInterestBearing() {
		return run, nil
	}

	// The cut-off never runs past the clock.
	if now := s.Now(); asOf.After(now) {
		asOf = now
	}
	horizon := accrual.Horizon(asOf, debt.Maturity())
	posted, err := s.Repos.MovementRepo.ListAccrualPeriodKeys(ctx, debt.DebtID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accrued periods: %w", err)
	}
	pending := accrual.Pending(accrual.Slices(debt.OriginationDate, horizon), posted)
	if len(pending) == 0 {
		return run, nil
	}

	rate, err := s.currentRate(ctx, debt)
	if err != nil {
		return nil, err
	}

	err = s.TxManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		current, err := loadActiveDebt(ctx, repos, debt.DebtID)
		if err != nil {
			return err
		}
		run.Posted, run.Skipped = nil, nil
		for _, slice := range pending {
			m, err := s.postSlice(ctx, repos, current, slice, rate, userID)
			var dup *apperrors.DuplicateAccrualError
			switch {
			case errors.Is(err, errConcurrentAccrual):
				return err
			case errors.As(err, &dup), errors.Is(err, errNothingToAccrue):
				run.Skipped = append(run.Skipped, slice.PeriodKey)
			case err != nil:
				return err
			default:
				run.Posted = append(run.Posted, *m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(run.Posted) > 0 {
		s.LogInfo(ctx, "Interest accrued",
			slog.String("debt_id", debt.DebtID),
			slog.Int("periods", len(run.Posted)),
			slog.Int("skipped", len(run.Skipped)))
	}
	return run, nil
}

func (s *accrualService) AccruePeriod(ctx context.Context, debtID string, periodKey string, userID string) (*domain.Movement, error) {
	debt, err := loadActiveDebt(ctx, s.Repos, debtID)
	if err != nil {
		return nil, err
	}
	if !debt.IsInterestBearing() {
		return nil, apperrors.Invalid("debt", "debt %s does not bear interest", debtID)
	}

	var slice *accrual.Slice
	for _, candidate := range accrual.Slices(debt.OriginationDate, accrual.Horizon(s.Now(), debt.Maturity())) {
		if candidate.PeriodKey == periodKey {
			slice = &candidate
			break
		}
	}
	if slice == nil {
		return nil, apperrors.Invalid("periodKey", "%s is not a closed month between origination and maturity", periodKey)
	}

	rate, err := s.currentRate(ctx, debt)
	if err != nil {
		return nil, err
	}

	var movement *domain.Movement
	err = s.TxManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		current, err := loadActiveDebt(ctx, repos, debtID)
		if err != nil {
			return err
		}
		movement, err = s.postSlice(ctx, repos, current, *slice, rate, userID)
		return err
	})
	if errors.Is(err, errNothingToAccrue) {
		return nil, apperrors.Invalid("periodKey", "%s accrues no interest", periodKey)
	}
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Accrual period posted", slog.String("debt_id", debtID), slog.String("period_key", periodKey))
	return movement, nil
}

// postSlice is the one posting path for accrual. The period key is checked again
// here, inside the unit of work, right before the write.
func (s *accrualService) postSlice(ctx context.Context, repos portsrepo.RepositoryProvider, debt *domain.Debt, slice accrual.Slice, rate decimal.Decimal, userID string) (*domain.Movement, error) {
	exists, err := repos.MovementRepo.AccrualPeriodExists(ctx, debt.DebtID, slice.PeriodKey)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &apperrors.DuplicateAccrualError{DebtID: debt.DebtID, PeriodKey: slice.PeriodKey}
	}

	amounts, ok := accrual.Compute(slice, debt.OutstandingBalance, debt.AnnualRate, rate, s.kindOf(debt))
	if !ok {
		return nil, errNothingToAccrue
	}

	movement := domain.Movement{
		MovementID:       uuid.NewString(),
		DebtID:           debt.DebtID,
		Date:             slice.End,
		Amount:           amounts.Debt,
		ExchangeRate:     rate,
		FunctionalAmount: amounts.Functional,
		PeriodKey:        slice.PeriodKey,
		AutoJournal:      true,
		Details: domain.AccrualDetails{
			PeriodKey:       slice.PeriodKey,
			PeriodStart:     slice.Start,
			PeriodEnd:       slice.End,
			Days:            slice.Days,
			DayCountBasis:   domain.DayCountActual365Fixed,
			OutstandingBase: debt.OutstandingBalance,
			AnnualRate:      debt.AnnualRate,
		},
		AuditFields: s.Audit(userID),
	}
	if err := s.record(ctx, repos, debt, &movement, userID); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %w", errConcurrentAccrual,
				&apperrors.DuplicateAccrualError{DebtID: debt.DebtID, PeriodKey: slice.PeriodKey})
		}
		return nil, err
	}
	return &movement, nil
}
