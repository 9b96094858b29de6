package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/debt_ledger/internal/models"
	"github.com/SscSPs/debt_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// PgxMovementRepository stores the append-only movement log. Kind-specific
// payloads live in the JSONB details column.
type PgxMovementRepository struct {
	BaseRepository
}

var _ portsrepo.MovementRepositoryFacade = (*PgxMovementRepository)(nil)

const movementColumns = `movement_id, debt_id, kind, movement_date, amount, exchange_rate, functional_amount, period_key, auto_journal, journal_id, journal_status, details, created_at, created_by, last_updated_at, last_updated_by`

func scanMovement(row pgx.Row) (domain.Movement, error) {
	var m models.Movement
	err := row.Scan(
		&m.MovementID,
		&m.DebtID,
		&m.Kind,
		&m.MovementDate,
		&m.Amount,
		&m.ExchangeRate,
		&m.FunctionalAmount,
		&m.PeriodKey,
		&m.AutoJournal,
		&m.JournalID,
		&m.JournalStatus,
		&m.Details,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Movement{}, err
	}
	return mapping.ToDomainMovement(m)
}

// SaveMovement appends a movement. The accrual index rejects a second ACCRUAL
// for the same debt and period with apperrors.ErrDuplicate.
func (r *PgxMovementRepository) SaveMovement(ctx context.Context, movement domain.Movement) error {
	m, err := mapping.ToModelMovement(movement)
	if err != nil {
		return err
	}
	query := `INSERT INTO debt_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	_, err = r.db.Exec(ctx, query,
		m.MovementID,
		m.DebtID,
		m.Kind,
		m.MovementDate,
		m.Amount,
		m.ExchangeRate,
		m.FunctionalAmount,
		m.PeriodKey,
		m.AutoJournal,
		m.JournalID,
		m.JournalStatus,
		m.Details,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapWriteError(err, "save movement %s", m.MovementID)
	}
	return nil
}

// FindMovementByID retrieves a single movement.
func (r *PgxMovementRepository) FindMovementByID(ctx context.Context, movementID string) (*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM debt_movements WHERE movement_id = $1;`
	m, err := scanMovement(r.db.QueryRow(ctx, query, movementID))
	if err != nil {
		return nil, wrapReadError(err, "find movement by ID %s", movementID)
	}
	return &m, nil
}

// ListMovementsByDebt retrieves a debt's movements by date, then insertion order.
func (r *PgxMovementRepository) ListMovementsByDebt(ctx context.Context, debtID string) ([]domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM debt_movements WHERE debt_id = $1 ORDER BY movement_date, seq;`
	rows, err := r.db.Query(ctx, query, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements of debt %s: %w", debtID, err)
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement rows: %w", err)
	}
	return movements, nil
}

// AccrualPeriodExists reports whether the debt already has an ACCRUAL for periodKey.
func (r *PgxMovementRepository) AccrualPeriodExists(ctx context.Context, debtID, periodKey string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM debt_movements WHERE debt_id = $1 AND kind = $2 AND period_key = $3
	);`
	var exists bool
	if err := r.db.QueryRow(ctx, query, debtID, string(domain.MovementAccrual), periodKey).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check accrual %s/%s: %w", debtID, periodKey, err)
	}
	return exists, nil
}

// ListAccrualPeriodKeys returns the set of period keys already accrued for the debt.
func (r *PgxMovementRepository) ListAccrualPeriodKeys(ctx context.Context, debtID string) (map[string]struct{}, error) {
	query := `SELECT period_key FROM debt_movements WHERE debt_id = $1 AND kind = $2 AND period_key IS NOT NULL;`
	rows, err := r.db.Query(ctx, query, debtID, string(domain.MovementAccrual))
	if err != nil {
		return nil, fmt.Errorf("failed to query accrual periods of debt %s: %w", debtID, err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect accrual periods of debt %s: %w", debtID, err)
	}
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out, nil
}

// UpdateMovementJournal records the journal link and status of a movement.
func (r *PgxMovementRepository) UpdateMovementJournal(ctx context.Context, movementID string, journalID *string, status domain.JournalLinkStatus) error {
	query := `UPDATE debt_movements SET journal_id = $2, journal_status = $3 WHERE movement_id = $1;`
	cmdTag, err := r.db.Exec(ctx, query, movementID, journalID, string(status))
	if err != nil {
		return fmt.Errorf("failed to link movement %s: %w", movementID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteMovementsByDebt removes every movement of the debt.
func (r *PgxMovementRepository) DeleteMovementsByDebt(ctx context.Context, debtID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM debt_movements WHERE debt_id = $1;`, debtID); err != nil {
		return fmt.Errorf("failed to delete movements of debt %s: %w", debtID, err)
	}
	return nil
}
