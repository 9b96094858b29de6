package domain

import "strings"

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`       // e.g., "$"
	Name         string `json:"name"`         // e.g., "US Dollar"
	Precision    int    `json:"precision"`    // Minor unit decimals, 2 for most currencies
	AuditFields
}

// CurrencyKind tells whether a debt's currency is the ledger's functional currency.
// It is computed once per debt and passed to the engines.
type CurrencyKind struct {
	code       string
	functional bool
}

// NewCurrencyKind classifies code against the functional currency code.
func NewCurrencyKind(code, functionalCode string) CurrencyKind {
	code = strings.ToUpper(strings.TrimSpace(code))
	return CurrencyKind{
		code:       code,
		functional: code == strings.ToUpper(strings.TrimSpace(functionalCode)),
	}
}

// Code returns the normalized ISO code.
func (k CurrencyKind) Code() string { return k.code }

// IsFunctionalCurrency reports whether amounts in this currency need no translation.
func (k CurrencyKind) IsFunctionalCurrency() bool { return k.functional }
