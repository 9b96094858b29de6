package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSide selects which quote of a currency pair to use.
type RateSide string

const (
	RateBuy  RateSide = "BUY"
	RateSell RateSide = "SELL"
	RateMid  RateSide = "MID"
)

// ExchangeRate stores the conversion rate between two currencies for a specific date.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Side             RateSide        `json:"side"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}
