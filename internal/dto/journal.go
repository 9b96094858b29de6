package dto

import (
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a manual journal entry. Exactly one of Debit
// and Credit must be non-zero.
type JournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit" binding:"decimal_gte0"`
	Credit      decimal.Decimal `json:"credit" binding:"decimal_gte0"`
	Description string          `json:"description"`
}

// CreateJournalRequest defines a manual journal entry, optionally linked to a debt.
type CreateJournalRequest struct {
	Date        time.Time            `json:"date" binding:"required"`
	Description string               `json:"description" binding:"required"`
	DebtID      *string              `json:"debtID"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ListJournalsParams defines query parameters for listing journals.
type ListJournalsParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken string `form:"nextToken"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID  string          `json:"transactionID"`
	JournalID      string          `json:"journalID"`
	AccountID      string          `json:"accountID"`
	Amount         decimal.Decimal `json:"amount"`
	Type           string          `json:"type"` // DEBIT or CREDIT
	Notes          string          `json:"notes,omitempty"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID    string                `json:"journalID"`
	Date         time.Time             `json:"date"`
	Description  string                `json:"description"`
	CurrencyCode string                `json:"currencyCode"`
	Source       domain.JournalSource  `json:"source"`
	DebtID       *string               `json:"debtID,omitempty"`
	MovementID   *string               `json:"movementID,omitempty"`
	Amount       decimal.Decimal       `json:"amount"`
	CreatedAt    time.Time             `json:"createdAt"`
	CreatedBy    string                `json:"createdBy"`
	Transactions []TransactionResponse `json:"transactions,omitempty"`
}

// ListJournalsResponse is a page of journals.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListTransactionsResponse is a page of an account's lines.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:  txn.TransactionID,
		JournalID:      txn.JournalID,
		AccountID:      txn.AccountID,
		Amount:         txn.Amount,
		Type:           string(txn.TransactionType),
		Notes:          txn.Notes,
		RunningBalance: txn.RunningBalance,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	return JournalResponse{
		JournalID:    j.JournalID,
		Date:         j.JournalDate,
		Description:  j.Description,
		CurrencyCode: j.CurrencyCode,
		Source:       j.Source,
		DebtID:       j.DebtID,
		MovementID:   j.MovementID,
		Amount:       j.Amount,
		CreatedAt:    j.CreatedAt,
		CreatedBy:    j.CreatedBy,
		Transactions: ToTransactionResponses(j.Transactions),
	}
}

// ToJournalResponses converts journals to response DTOs.
func ToJournalResponses(journals []domain.Journal) []JournalResponse {
	out := make([]JournalResponse, len(journals))
	for i := range journals {
		out[i] = ToJournalResponse(&journals[i])
	}
	return out
}

// ListTransactionsParams defines query parameters for listing an account's lines.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken string `form:"nextToken"`
}
