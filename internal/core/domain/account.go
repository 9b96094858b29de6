package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a ledger account within the core domain.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary Key (e.g., UUID)
	Code            string      `json:"code"`            // Structured chart code, e.g. "2.1.03"
	Name            string      `json:"name"`            // User-defined name
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, etc.
	CurrencyCode    string      `json:"currencyCode"`    // Always the functional currency for posting accounts
	ParentAccountID string      `json:"parentAccountID"` // Nullable FK -> accounts.account_id
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	AuditFields
	Balance decimal.Decimal `json:"balance"` // Persisted balance, maintained on journal save
}

// AccountRole names the purpose an account plays in an automatic posting.
type AccountRole string

const (
	RoleLoanLiability   AccountRole = "LOAN_LIABILITY"
	RoleInterestExpense AccountRole = "INTEREST_EXPENSE"
	RoleAccruedInterest AccountRole = "ACCRUED_INTEREST_PAYABLE"
	RoleExchangeLoss    AccountRole = "EXCHANGE_LOSS"
	RoleExchangeGain    AccountRole = "EXCHANGE_GAIN"
	RoleCash            AccountRole = "CASH"
)

// PostingRoles lists every role the engine may resolve, in report order.
var PostingRoles = []AccountRole{
	RoleLoanLiability,
	RoleInterestExpense,
	RoleAccruedInterest,
	RoleExchangeLoss,
	RoleExchangeGain,
	RoleCash,
}
