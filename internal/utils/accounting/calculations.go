package accounting

import (
	"fmt"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a transaction amount based on account type and transaction type.
// This is used in both services and repositories to ensure consistent accounting logic.
func CalculateSignedAmount(txn domain.Transaction, accountType domain.AccountType) (decimal.Decimal, error) {
	signedAmount := txn.Amount
	isDebit := txn.TransactionType == domain.Debit

	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to ASSET/EXPENSE -> Negative (-)
	// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
	// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, txn.AccountID)
	}
	return signedAmount, nil
}

// BalanceChanges aggregates the signed effect of the lines on each account's balance.
func BalanceChanges(transactions []domain.Transaction, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(transactions))
	for _, txn := range transactions {
		account, ok := accounts[txn.AccountID]
		if !ok {
			return nil, fmt.Errorf("account %s not found for balance update", txn.AccountID)
		}
		signed, err := CalculateSignedAmount(txn, account.AccountType)
		if err != nil {
			return nil, err
		}
		changes[txn.AccountID] = changes[txn.AccountID].Add(signed)
	}
	return changes, nil
}

// Negate returns the changes that undo changes.
func Negate(changes map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(changes))
	for id, amt := range changes {
		out[id] = amt.Neg()
	}
	return out
}
