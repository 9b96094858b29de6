package services

import (
	"context"
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/SscSPs/debt_ledger/internal/dto"
)

// DebtReaderSvc defines read operations for debts.
type DebtReaderSvc interface {
	// GetDebtByID retrieves a debt with its schedule.
	GetDebtByID(ctx context.Context, debtID string) (*domain.Debt, error)

	// ListDebts retrieves debts, optionally filtered by status.
	ListDebts(ctx context.Context, params dto.ListDebtsParams) ([]domain.Debt, error)

	// ListMovements retrieves the debt's movement log.
	ListMovements(ctx context.Context, debtID string) ([]domain.Movement, error)

	// GetPosition values the debt at the current rate with its pending interest.
	GetPosition(ctx context.Context, debtID string, asOf time.Time) (*domain.DebtPosition, error)

	// PreviewSchedule computes a schedule without persisting anything.
	PreviewSchedule(ctx context.Context, req dto.SchedulePreviewRequest) ([]domain.Installment, error)
}

// DebtWriterSvc defines lifecycle operations for debts.
type DebtWriterSvc interface {
	// OriginateDebt records a new debt, its schedule and its origination posting.
	OriginateDebt(ctx context.Context, req dto.OriginateDebtRequest, userID string) (*domain.Debt, error)

	// Disburse records an additional draw.
	Disburse(ctx context.Context, debtID string, req dto.DisburseRequest, userID string) (*domain.Movement, error)

	// Refinance keeps paid installments and replaces the rest with a new schedule.
	Refinance(ctx context.Context, debtID string, req dto.RefinanceRequest, userID string) (*domain.Debt, error)

	// CancelDebt marks an active debt CANCELLED.
	CancelDebt(ctx context.Context, debtID string, userID string) error

	// DeleteDebt removes the debt with its movements and linked entries.
	DeleteDebt(ctx context.Context, debtID string, params dto.DeleteDebtParams, userID string) error
}

// DebtSvcFacade combines all debt-related service interfaces
type DebtSvcFacade interface {
	DebtReaderSvc
	DebtWriterSvc
}

// AccrualSvcFacade posts interest accruals. Every entry point shares one
// slice-computation and posting path.
type AccrualSvcFacade interface {
	// AccrueDebt posts every pending month of one debt up to the last closed
	// month before asOf. Errors are returned to the caller.
	AccrueDebt(ctx context.Context, debtID string, asOf time.Time, userID string) (*domain.AccrualRun, error)

	// AccruePeriod posts one named month and fails with
	// apperrors.DuplicateAccrualError when it is already posted.
	AccruePeriod(ctx context.Context, debtID string, periodKey string, userID string) (*domain.Movement, error)

	// AccrueAll sweeps every active debt, logging per-debt failures and
	// continuing with the next one.
	AccrueAll(ctx context.Context, asOf time.Time, userID string) []domain.AccrualRun
}

// PaymentSvc records payments.
type PaymentSvc interface {
	// Pay allocates and posts a payment.
	Pay(ctx context.Context, debtID string, req dto.PaymentRequest, userID string) (*domain.PaymentReceipt, error)
}

// RevaluationSvc restates foreign debts.
type RevaluationSvc interface {
	// Revalue posts the translation difference and advances the recorded rate.
	Revalue(ctx context.Context, debtID string, req dto.RevaluationRequest, userID string) (*domain.Movement, error)
}

// ReconciliationSvc audits the movement log against the journal.
type ReconciliationSvc interface {
	// Reconcile checks every movement of the debt; with repair it re-posts MISSING ones.
	Reconcile(ctx context.Context, debtID string, repair bool, userID string) (*domain.ReconciliationReport, error)
}
