package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/amortization"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// DebtDeps are the collaborators shared by the debt lifecycle services.
type DebtDeps struct {
	TxManager          portsrepo.TransactionManager
	Repos              portsrepo.RepositoryProvider
	Poster             portssvc.JournalPosterSvc
	Rates              portssvc.ExchangeRateProviderSvc
	FunctionalCurrency string
	// LiabilitySide is the quote used to value foreign liabilities.
	LiabilitySide domain.RateSide
}

// debtEngine carries the helpers every lifecycle service needs.
type debtEngine struct {
	BaseService
	DebtDeps
}

func (e *debtEngine) kindOf(debt *domain.Debt) domain.CurrencyKind {
	return domain.NewCurrencyKind(debt.CurrencyCode, e.FunctionalCurrency)
}

// currentRate is the liability quote for the debt's currency, 1 when functional.
func (e *debtEngine) currentRate(ctx context.Context, debt *domain.Debt) (decimal.Decimal, error) {
	if e.kindOf(debt).IsFunctionalCurrency() {
		return decimal.NewFromInt(1), nil
	}
	rate, err := e.Rates.GetCurrentRate(ctx, debt.CurrencyCode, e.LiabilitySide)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get %s rate: %w", debt.CurrencyCode, err)
	}
	return rate, nil
}

// loadActiveDebt reads a debt through repos and rejects it unless ACTIVE.
func loadActiveDebt(ctx context.Context, repos portsrepo.RepositoryProvider, debtID string) (*domain.Debt, error) {
	debt, err := repos.DebtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if debt.Status != domain.DebtActive {
		return nil, fmt.Errorf("%w: debt %s is %s", apperrors.ErrConflict, debtID, debt.Status)
	}
	return debt, nil
}

// record posts the movement when it asks for a journal, then appends it to the
// log. It must run inside the caller's unit of work.
func (e *debtEngine) record(ctx context.Context, repos portsrepo.RepositoryProvider, debt *domain.Debt, m *domain.Movement, userID string) error {
	m.JournalStatus = domain.JournalNotApplicable
	if m.AutoJournal {
		journal, err := e.Poster.PostMovement(ctx, repos, debt, m, userID)
		if err != nil {
			e.LogError(ctx, err, "Posting failed",
				slog.String("debt_id", debt.DebtID),
				slog.String("kind", string(m.Kind())))
			return err
		}
		m.JournalID = &journal.JournalID
		m.JournalStatus = domain.JournalGenerated
	}
	if err := repos.MovementRepo.SaveMovement(ctx, *m); err != nil {
		return fmt.Errorf("failed to save %s movement: %w", m.Kind(), err)
	}
	return nil
}

// reschedule keeps the paid rows and replaces the rest with a fresh schedule
// for outstanding over count installments starting at firstDue.
func reschedule(debt *domain.Debt, outstanding decimal.Decimal, count int, firstDue, from time.Time) error {
	paid := make([]domain.Installment, 0, len(debt.Schedule))
	for _, row := range debt.Schedule {
		if row.Paid {
			paid = append(paid, row)
		}
	}
	if !outstanding.IsPositive() || count < 1 {
		debt.Schedule = paid
		return nil
	}
	rows, err := amortization.Generate(amortization.Terms{
		Principal:        outstanding,
		AnnualRate:       debt.AnnualRate,
		InstallmentCount: count,
		Frequency:        debt.Frequency,
		System:           debt.System,
		OriginationDate:  from,
		FirstDueDate:     firstDue,
	})
	if err != nil {
		return err
	}
	for i := range rows {
		rows[i].Number = len(paid) + i + 1
	}
	debt.Schedule = append(paid, rows...)
	debt.InstallmentCount = len(debt.Schedule)
	return nil
}

// rescheduleUnpaid re-amortizes outstanding over the debt's remaining unpaid rows.
func rescheduleUnpaid(debt *domain.Debt, outstanding decimal.Decimal, from time.Time) error {
	next, ok := debt.NextUnpaidInstallment()
	if !ok {
		return nil
	}
	return reschedule(debt, outstanding, len(debt.Schedule)-next, debt.Schedule[next].DueDate, from)
}
