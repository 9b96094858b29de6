package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/debt_ledger/internal/models"
	"github.com/SscSPs/debt_ledger/internal/utils/accounting"
	"github.com/SscSPs/debt_ledger/internal/utils/mapping"
	"github.com/SscSPs/debt_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalColumns = `journal_id, journal_date, description, currency_code, status, source, debt_id, movement_id, amount, created_at, created_by, last_updated_at, last_updated_by`

const transactionColumns = `t.transaction_id, t.journal_id, t.account_id, t.line_no, t.amount, t.transaction_type, t.currency_code, t.notes, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by, t.running_balance`

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.JournalDate,
		&m.Description,
		&m.CurrencyCode,
		&m.Status,
		&m.Source,
		&m.DebtID,
		&m.MovementID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.JournalID,
		&m.AccountID,
		&m.LineNo,
		&m.Amount,
		&m.TransactionType,
		&m.CurrencyCode,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.RunningBalance,
	)
	return m, err
}

// SaveJournal inserts the journal and its lines and applies balanceChanges. Each
// line records the account balance after it.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	return r.atomic(ctx, func(tx pgx.Tx) error {
		m := mapping.ToModelJournal(journal)
		query := `INSERT INTO journals (` + journalColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
		_, err := tx.Exec(ctx, query,
			m.JournalID,
			m.JournalDate,
			m.Description,
			m.CurrencyCode,
			m.Status,
			m.Source,
			m.DebtID,
			m.MovementID,
			m.Amount,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return wrapWriteError(err, "insert journal %s", m.JournalID)
		}

		accounts := &PgxAccountRepository{BaseRepository: BaseRepository{db: tx}}
		locked, err := accounts.findAccountsForUpdate(ctx, balanceChanges)
		if err != nil {
			return err
		}

		running := make(map[string]decimal.Decimal, len(locked))
		for id, acc := range locked {
			running[id] = acc.Balance
		}

		batch := &pgx.Batch{}
		lineQuery := `
			INSERT INTO transactions (transaction_id, journal_id, account_id, line_no, amount, transaction_type, currency_code, notes, created_at, created_by, last_updated_at, last_updated_by, running_balance)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
		for i, txn := range transactions {
			acc, ok := locked[txn.AccountID]
			if !ok {
				return apperrors.NewNotFoundError("account " + txn.AccountID)
			}
			signed, err := accounting.CalculateSignedAmount(txn, acc.AccountType)
			if err != nil {
				return err
			}
			running[txn.AccountID] = running[txn.AccountID].Add(signed)
			txn.RunningBalance = running[txn.AccountID]

			line := mapping.ToModelTransaction(txn, i+1)
			batch.Queue(lineQuery,
				line.TransactionID,
				line.JournalID,
				line.AccountID,
				line.LineNo,
				line.Amount,
				line.TransactionType,
				line.CurrencyCode,
				line.Notes,
				line.CreatedAt,
				line.CreatedBy,
				line.LastUpdatedAt,
				line.LastUpdatedBy,
				line.RunningBalance,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert lines for journal %s: %w", m.JournalID, err)
		}

		return accounts.UpdateAccountBalances(ctx, balanceChanges, m.CreatedBy, m.CreatedAt)
	})
}

// DeleteJournal removes a journal and its lines, then applies balanceChanges.
func (r *PgxJournalRepository) DeleteJournal(ctx context.Context, journalID string, balanceChanges map[string]decimal.Decimal) error {
	return r.atomic(ctx, func(tx pgx.Tx) error {
		var updatedBy string
		err := tx.QueryRow(ctx, `SELECT last_updated_by FROM journals WHERE journal_id = $1 FOR UPDATE;`, journalID).Scan(&updatedBy)
		if err != nil {
			return wrapReadError(err, "lock journal %s", journalID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE journal_id = $1;`, journalID); err != nil {
			return fmt.Errorf("failed to delete lines of journal %s: %w", journalID, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM journals WHERE journal_id = $1;`, journalID); err != nil {
			return fmt.Errorf("failed to delete journal %s: %w", journalID, err)
		}
		accounts := &PgxAccountRepository{BaseRepository: BaseRepository{db: tx}}
		return accounts.UpdateAccountBalances(ctx, balanceChanges, updatedBy, time.Now().UTC())
	})
}

// FindJournalByID retrieves a journal and its lines.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`
	m, err := scanJournal(r.db.QueryRow(ctx, query, journalID))
	if err != nil {
		return nil, wrapReadError(err, "find journal by ID %s", journalID)
	}
	journals, err := r.withLines(ctx, []models.Journal{m})
	if err != nil {
		return nil, err
	}
	return &journals[0], nil
}

// FindJournalsByMovementID retrieves every journal back-linked to a movement.
func (r *PgxJournalRepository) FindJournalsByMovementID(ctx context.Context, movementID string) ([]domain.Journal, error) {
	return r.queryJournals(ctx, `SELECT `+journalColumns+`
		FROM journals
		WHERE movement_id = $1
		ORDER BY journal_date, created_at;`, movementID)
}

// ListJournalsByDebt retrieves every journal back-linked to a debt, with lines.
func (r *PgxJournalRepository) ListJournalsByDebt(ctx context.Context, debtID string) ([]domain.Journal, error) {
	return r.queryJournals(ctx, `SELECT `+journalColumns+`
		FROM journals
		WHERE debt_id = $1
		ORDER BY journal_date, created_at;`, debtID)
}

// ListJournals retrieves a page of journals, newest first.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	cursor, err := decodeCursor(nextToken)
	if err != nil {
		return nil, nil, err
	}

	query := `SELECT ` + journalColumns + ` FROM journals`
	args := []any{}
	if cursor != nil {
		query += ` WHERE (journal_date, created_at, journal_id) < ($1, $2, $3)`
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
	}
	query += ` ORDER BY journal_date DESC, created_at DESC, journal_id DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit+1)
	}

	journals, err := r.queryJournals(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	if limit <= 0 || len(journals) <= limit {
		return journals, nil, nil
	}
	journals = journals[:limit]
	last := journals[len(journals)-1]
	token := pagination.EncodeToken(pagination.Cursor{Date: last.JournalDate, CreatedAt: last.CreatedAt, ID: last.JournalID})
	return journals, &token, nil
}

// FindTransactionsByJournalID retrieves the lines of a journal in entry order.
func (r *PgxJournalRepository) FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.journal_id = $1 ORDER BY t.line_no;`
	rows, err := r.db.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for journal %s: %w", journalID, err)
	}
	lines, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTransactionSlice(lines), nil
}

// ListTransactionsByAccountID retrieves a page of an account's lines, newest first.
func (r *PgxJournalRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	cursor, err := decodeCursor(nextToken)
	if err != nil {
		return nil, nil, err
	}

	query := `SELECT ` + transactionColumns + `, j.journal_date
		FROM transactions t
		JOIN journals j ON j.journal_id = t.journal_id
		WHERE t.account_id = $1`
	args := []any{accountID}
	if cursor != nil {
		query += ` AND (j.journal_date, t.created_at, t.transaction_id) < ($2, $3, $4)`
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
	}
	query += ` ORDER BY j.journal_date DESC, t.created_at DESC, t.transaction_id DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit+1)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var (
		lines []domain.Transaction
		dates []time.Time
	)
	for rows.Next() {
		var m models.Transaction
		var journalDate time.Time
		err := rows.Scan(
			&m.TransactionID,
			&m.JournalID,
			&m.AccountID,
			&m.LineNo,
			&m.Amount,
			&m.TransactionType,
			&m.CurrencyCode,
			&m.Notes,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&m.RunningBalance,
			&journalDate,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		lines = append(lines, mapping.ToDomainTransaction(m))
		dates = append(dates, journalDate)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	if limit <= 0 || len(lines) <= limit {
		return lines, nil, nil
	}
	lines = lines[:limit]
	last := lines[len(lines)-1]
	token := pagination.EncodeToken(pagination.Cursor{Date: dates[limit-1], CreatedAt: last.CreatedAt, ID: last.TransactionID})
	return lines, &token, nil
}

func decodeCursor(nextToken *string) (*pagination.Cursor, error) {
	if nextToken == nil || *nextToken == "" {
		return nil, nil
	}
	c, err := pagination.DecodeToken(*nextToken)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	return &c, nil
}

func (r *PgxJournalRepository) queryJournals(ctx context.Context, query string, args ...any) ([]domain.Journal, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journals: %w", err)
	}
	defer rows.Close()

	var journals []models.Journal
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		journals = append(journals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal rows: %w", err)
	}
	return r.withLines(ctx, journals)
}

// withLines loads the lines of every journal in one query.
func (r *PgxJournalRepository) withLines(ctx context.Context, journals []models.Journal) ([]domain.Journal, error) {
	if len(journals) == 0 {
		return nil, nil
	}
	ids := make([]string, len(journals))
	for i, j := range journals {
		ids[i] = j.JournalID
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.journal_id = ANY($1) ORDER BY t.journal_id, t.line_no;`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	lines, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}
	byJournal := make(map[string][]domain.Transaction, len(journals))
	for _, line := range lines {
		byJournal[line.JournalID] = append(byJournal[line.JournalID], mapping.ToDomainTransaction(line))
	}

	out := make([]domain.Journal, len(journals))
	for i, m := range journals {
		out[i] = mapping.ToDomainJournal(m)
		out[i].Transactions = byJournal[m.JournalID]
	}
	return out, nil
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()
	lines := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return lines, nil
}
