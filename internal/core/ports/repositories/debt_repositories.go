package repositories

import (
	"context"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
)

// DebtReader defines read operations for debts and their schedules.
type DebtReader interface {
	// FindDebtByID retrieves a debt with its installment schedule.
	FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error)

	// ListDebts retrieves debts, optionally filtered by status, oldest first.
	ListDebts(ctx context.Context, status *domain.DebtStatus) ([]domain.Debt, error)
}

// DebtWriter defines write operations for debts.
type DebtWriter interface {
	// SaveDebt inserts a new debt and its schedule.
	SaveDebt(ctx context.Context, debt domain.Debt) error

	// UpdateDebt overwrites the debt's mutable state and replaces its schedule.
	UpdateDebt(ctx context.Context, debt domain.Debt) error

	// DeleteDebt removes the debt and its schedule.
	DeleteDebt(ctx context.Context, debtID string) error
}

// DebtRepositoryFacade combines all debt-related repository interfaces
type DebtRepositoryFacade interface {
	DebtReader
	DebtWriter
}

// MovementReader defines read operations for the movement log.
type MovementReader interface {
	// FindMovementByID retrieves a single movement.
	FindMovementByID(ctx context.Context, movementID string) (*domain.Movement, error)

	// ListMovementsByDebt retrieves a debt's movements in date order.
	ListMovementsByDebt(ctx context.Context, debtID string) ([]domain.Movement, error)

	// AccrualPeriodExists reports whether an ACCRUAL movement with periodKey exists for the debt.
	AccrualPeriodExists(ctx context.Context, debtID, periodKey string) (bool, error)

	// ListAccrualPeriodKeys returns the set of period keys already accrued for the debt.
	ListAccrualPeriodKeys(ctx context.Context, debtID string) (map[string]struct{}, error)
}

// MovementWriter defines write operations for the movement log.
type MovementWriter interface {
	// SaveMovement appends a movement. Saving a second ACCRUAL for the same
	// debt and period key fails with apperrors.ErrDuplicate.
	SaveMovement(ctx context.Context, movement domain.Movement) error

	// UpdateMovementJournal records the journal link and status of a movement.
	UpdateMovementJournal(ctx context.Context, movementID string, journalID *string, status domain.JournalLinkStatus) error

	// DeleteMovementsByDebt removes every movement of the debt.
	DeleteMovementsByDebt(ctx context.Context, debtID string) error
}

// MovementRepositoryFacade combines all movement-related repository interfaces
type MovementRepositoryFacade interface {
	MovementReader
	MovementWriter
}
