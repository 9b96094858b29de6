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

// PgxDebtRepository stores debts in the debts table and their schedules in
// debt_installments.
type PgxDebtRepository struct {
	BaseRepository
}

var _ portsrepo.DebtRepositoryFacade = (*PgxDebtRepository)(nil)

const debtColumns = `debt_id, description, creditor, currency_code, principal, origination_rate, recorded_rate, origination_date, first_due_date, annual_rate, installment_count, frequency, amortization_system, outstanding_balance, paid_installments, status, liability_account_id, origination_journal_ids, created_at, created_by, last_updated_at, last_updated_by`

const installmentColumns = `debt_id, number, due_date, capital, interest, total, paid, paid_at`

func scanDebt(row pgx.Row) (models.Debt, error) {
	var m models.Debt
	err := row.Scan(
		&m.DebtID,
		&m.Description,
		&m.Creditor,
		&m.CurrencyCode,
		&m.Principal,
		&m.OriginationRate,
		&m.RecordedRate,
		&m.OriginationDate,
		&m.FirstDueDate,
		&m.AnnualRate,
		&m.InstallmentCount,
		&m.Frequency,
		&m.System,
		&m.OutstandingBalance,
		&m.PaidInstallments,
		&m.Status,
		&m.LiabilityAccountID,
		&m.OriginationJournalIDs,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func debtArgs(m models.Debt) []any {
	return []any{
		m.DebtID,
		m.Description,
		m.Creditor,
		m.CurrencyCode,
		m.Principal,
		m.OriginationRate,
		m.RecordedRate,
		m.OriginationDate,
		m.FirstDueDate,
		m.AnnualRate,
		m.InstallmentCount,
		m.Frequency,
		m.System,
		m.OutstandingBalance,
		m.PaidInstallments,
		m.Status,
		m.LiabilityAccountID,
		m.OriginationJournalIDs,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// SaveDebt inserts a new debt and its schedule.
func (r *PgxDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) error {
	m, rows := mapping.ToModelDebt(debt)
	return r.atomic(ctx, func(tx pgx.Tx) error {
		query := `INSERT INTO debts (` + debtColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);`
		if _, err := tx.Exec(ctx, query, debtArgs(m)...); err != nil {
			return wrapWriteError(err, "save debt %s", m.DebtID)
		}
		return insertInstallments(ctx, tx, rows)
	})
}

// UpdateDebt overwrites the debt's mutable state and replaces its schedule.
func (r *PgxDebtRepository) UpdateDebt(ctx context.Context, debt domain.Debt) error {
	m, rows := mapping.ToModelDebt(debt)
	return r.atomic(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE debts SET
				description = $2, creditor = $3, principal = $4, recorded_rate = $5,
				annual_rate = $6, installment_count = $7, frequency = $8, amortization_system = $9,
				outstanding_balance = $10, paid_installments = $11, status = $12,
				liability_account_id = $13, origination_journal_ids = $14,
				last_updated_at = $15, last_updated_by = $16
			WHERE debt_id = $1;`
		cmdTag, err := tx.Exec(ctx, query,
			m.DebtID,
			m.Description,
			m.Creditor,
			m.Principal,
			m.RecordedRate,
			m.AnnualRate,
			m.InstallmentCount,
			m.Frequency,
			m.System,
			m.OutstandingBalance,
			m.PaidInstallments,
			m.Status,
			m.LiabilityAccountID,
			m.OriginationJournalIDs,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to update debt %s: %w", m.DebtID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM debt_installments WHERE debt_id = $1;`, m.DebtID); err != nil {
			return fmt.Errorf("failed to clear schedule of debt %s: %w", m.DebtID, err)
		}
		return insertInstallments(ctx, tx, rows)
	})
}

// DeleteDebt removes the debt; its schedule goes with it by cascade.
func (r *PgxDebtRepository) DeleteDebt(ctx context.Context, debtID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM debts WHERE debt_id = $1;`, debtID)
	if err != nil {
		return fmt.Errorf("failed to delete debt %s: %w", debtID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindDebtByID retrieves a debt with its installment schedule.
func (r *PgxDebtRepository) FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE debt_id = $1;`
	m, err := scanDebt(r.db.QueryRow(ctx, query, debtID))
	if err != nil {
		return nil, wrapReadError(err, "find debt by ID %s", debtID)
	}
	debts, err := r.withSchedules(ctx, []models.Debt{m})
	if err != nil {
		return nil, err
	}
	return &debts[0], nil
}

// ListDebts retrieves debts, optionally filtered by status, oldest first.
func (r *PgxDebtRepository) ListDebts(ctx context.Context, status *domain.DebtStatus) ([]domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	query += ` ORDER BY origination_date, debt_id;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query debts: %w", err)
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		m, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt row: %w", err)
		}
		debts = append(debts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debt rows: %w", err)
	}
	return r.withSchedules(ctx, debts)
}

func (r *PgxDebtRepository) withSchedules(ctx context.Context, debts []models.Debt) ([]domain.Debt, error) {
	out := make([]domain.Debt, 0, len(debts))
	if len(debts) == 0 {
		return out, nil
	}
	ids := make([]string, len(debts))
	for i, d := range debts {
		ids[i] = d.DebtID
	}

	query := `SELECT ` + installmentColumns + ` FROM debt_installments WHERE debt_id = ANY($1) ORDER BY debt_id, number;`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query debt schedules: %w", err)
	}
	defer rows.Close()

	byDebt := make(map[string][]models.Installment, len(debts))
	for rows.Next() {
		var inst models.Installment
		err := rows.Scan(
			&inst.DebtID,
			&inst.Number,
			&inst.DueDate,
			&inst.Capital,
			&inst.Interest,
			&inst.Total,
			&inst.Paid,
			&inst.PaidAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment row: %w", err)
		}
		byDebt[inst.DebtID] = append(byDebt[inst.DebtID], inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installment rows: %w", err)
	}

	for _, m := range debts {
		out = append(out, mapping.ToDomainDebt(m, byDebt[m.DebtID]))
	}
	return out, nil
}

func insertInstallments(ctx context.Context, tx pgx.Tx, rows []models.Installment) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `INSERT INTO debt_installments (` + installmentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	for _, inst := range rows {
		batch.Queue(query, inst.DebtID, inst.Number, inst.DueDate, inst.Capital, inst.Interest, inst.Total, inst.Paid, inst.PaidAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert schedule of debt %s: %w", rows[0].DebtID, err)
	}
	return nil
}
