package repositories

import (
	"context"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindLatestExchangeRate retrieves the most recent quote for the pair and side.
	FindLatestExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, side domain.RateSide) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves the quote history for a pair, newest first.
	ListExchangeRates(ctx context.Context, fromCurrencyCode, toCurrencyCode string) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new exchange rate.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
