package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/debt_ledger/internal/models"
	"github.com/SscSPs/debt_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

// PgxExchangeRateRepository implements the exchange rate repository using pgx.
type PgxExchangeRateRepository struct {
	BaseRepository
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

const exchangeRateColumns = `exchange_rate_id, from_currency_code, to_currency_code, side, rate, date_effective, created_at, created_by, last_updated_at, last_updated_by`

// Newest quote first; ties on the effective date favour the latest insert.
const exchangeRateOrder = `ORDER BY date_effective DESC, seq DESC`

func scanExchangeRate(row pgx.Row) (models.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(
		&m.ExchangeRateID,
		&m.FromCurrencyCode,
		&m.ToCurrencyCode,
		&m.Side,
		&m.Rate,
		&m.DateEffective,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveExchangeRate appends a quote to the pair's history.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`

	_, err := r.db.Exec(ctx, query,
		m.ExchangeRateID,
		m.FromCurrencyCode,
		m.ToCurrencyCode,
		m.Side,
		m.Rate,
		m.DateEffective,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapWriteError(err, "save exchange rate %s", m.ExchangeRateID)
	}
	return nil
}

// FindLatestExchangeRate retrieves the most recent quote for the pair and side.
func (r *PgxExchangeRateRepository) FindLatestExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, side domain.RateSide) (*domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND side = $3
		` + exchangeRateOrder + `
		LIMIT 1;`
	m, err := scanExchangeRate(r.db.QueryRow(ctx, query, fromCurrencyCode, toCurrencyCode, string(side)))
	if err != nil {
		return nil, wrapReadError(err, "find latest rate %s/%s %s", fromCurrencyCode, toCurrencyCode, side)
	}
	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}

// ListExchangeRates retrieves the quote history for a pair, newest first.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, fromCurrencyCode, toCurrencyCode string) ([]domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2
		` + exchangeRateOrder + `;`
	rows, err := r.db.Query(ctx, query, fromCurrencyCode, toCurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates %s/%s: %w", fromCurrencyCode, toCurrencyCode, err)
	}
	defer rows.Close()

	var rates []domain.ExchangeRate
	for rows.Next() {
		m, err := scanExchangeRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row: %w", err)
		}
		rates = append(rates, mapping.ToDomainExchangeRate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange rate rows: %w", err)
	}
	return rates, nil
}
