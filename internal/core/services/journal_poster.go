package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// journalPoster is the only writer of journal entries.
type journalPoster struct {
	BaseService
	resolver           portssvc.AccountResolverSvc
	functionalCurrency string
}

// NewJournalPoster creates a poster that books entries in functionalCurrency.
func NewJournalPoster(resolver portssvc.AccountResolverSvc, functionalCurrency string) portssvc.JournalPosterSvc {
	return &journalPoster{resolver: resolver, functionalCurrency: functionalCurrency}
}

var _ portssvc.JournalPosterSvc = (*journalPoster)(nil)

// validateLines enforces the entry invariants before anything is looked up.
func validateLines(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return &apperrors.UnbalancedEntryError{Reason: fmt.Sprintf("an entry needs at least two lines, got %d", len(lines))}
	}
	debits, credits := decimal.Zero, decimal.Zero
	for i, line := range lines {
		if line.AccountID == "" {
			return apperrors.Invalid("accountID", "line %d has no account", i+1)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return &apperrors.UnbalancedEntryError{Reason: fmt.Sprintf("line %d has a negative amount", i+1)}
		}
		if !line.Debit.IsZero() && !line.Credit.IsZero() {
			return &apperrors.UnbalancedEntryError{Reason: fmt.Sprintf("line %d has both a debit and a credit", i+1)}
		}
		if line.Debit.IsZero() && line.Credit.IsZero() {
			return &apperrors.UnbalancedEntryError{Reason: fmt.Sprintf("line %d carries no amount", i+1)}
		}
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	if !debits.Equal(credits) {
		return &apperrors.UnbalancedEntryError{Debits: debits, Credits: credits}
	}
	return nil
}

func (s *journalPoster) Post(ctx context.Context, repos portsrepo.RepositoryProvider, draft domain.JournalDraft, userID string) (*domain.Journal, error) {
	if err := validateLines(draft.Lines); err != nil {
		s.LogError(ctx, err, "Rejected journal draft", slog.String("memo", draft.Memo))
		return nil, err
	}

	ids := make([]string, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		ids = append(ids, line.AccountID)
	}
	accounts, err := repos.AccountRepo.FindAccountsByIDs(ctx, uniqueStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for posting: %w", err)
	}
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return nil, apperrors.Invalid("accountID", "account %s not found", id)
		}
		if !acc.IsActive {
			return nil, apperrors.Invalid("accountID", "account %s is inactive", id)
		}
	}

	audit := s.Audit(userID)
	journalID := uuid.NewString()
	txns := make([]domain.Transaction, len(draft.Lines))
	for i, line := range draft.Lines {
		txn := domain.Transaction{
			TransactionID:   uuid.NewString(),
			JournalID:       journalID,
			AccountID:       line.AccountID,
			Amount:          line.Debit,
			TransactionType: domain.Debit,
			CurrencyCode:    s.functionalCurrency,
			Notes:           line.Description,
			AuditFields:     audit,
		}
		if line.Debit.IsZero() {
			txn.Amount = line.Credit
			txn.TransactionType = domain.Credit
		}
		txns[i] = txn
	}

	balanceChanges, err := accounting.BalanceChanges(txns, accounts)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance changes: %w", err)
	}

	source := draft.Source
	if source == "" {
		source = domain.SourceAuto
	}
	journal := domain.Journal{
		JournalID:    journalID,
		JournalDate:  draft.Date,
		Description:  draft.Memo,
		CurrencyCode: s.functionalCurrency,
		Status:       domain.Posted,
		Source:       source,
		DebtID:       draft.DebtID,
		MovementID:   draft.MovementID,
		AuditFields:  audit,
	}
	journal.Amount, _ = domain.Journal{Transactions: txns}.Totals()

	if err := repos.JournalRepo.SaveJournal(ctx, journal, txns, balanceChanges); err != nil {
		s.LogError(ctx, err, "Failed to save journal", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	saved, err := repos.JournalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload journal %s: %w", journalID, err)
	}
	s.LogInfo(ctx, "Journal posted",
		slog.String("journal_id", journalID),
		slog.String("source", string(source)),
		slog.String("amount", journal.Amount.StringFixed(2)))
	return saved, nil
}

func (s *journalPoster) PostMovement(ctx context.Context, repos portsrepo.RepositoryProvider, debt *domain.Debt, movement *domain.Movement, userID string) (*domain.Journal, error) {
	lines, err := s.linesFor(ctx, repos.AccountRepo, debt, movement)
	if err != nil {
		return nil, err
	}
	draft := domain.JournalDraft{
		Date:       movement.Date,
		Memo:       movementMemo(debt, movement),
		Source:     domain.SourceAuto,
		DebtID:     &debt.DebtID,
		MovementID: &movement.MovementID,
		Lines:      lines,
	}
	return s.Post(ctx, repos, draft, userID)
}

// linesFor derives the posting for each movement kind.
func (s *journalPoster) linesFor(ctx context.Context, accounts portsrepo.AccountReader, debt *domain.Debt, m *domain.Movement) ([]domain.JournalLine, error) {
	role := func(r domain.AccountRole) (string, error) {
		acc, err := s.resolver.Require(ctx, accounts, r)
		if err != nil {
			return "", err
		}
		return acc.AccountID, nil
	}
	liability := func() (string, error) {
		if debt.LiabilityAccountID != "" {
			return debt.LiabilityAccountID, nil
		}
		return role(domain.RoleLoanLiability)
	}
	receiving := func(accountID string) (string, error) {
		if accountID != "" {
			return accountID, nil
		}
		return role(domain.RoleCash)
	}

	switch d := m.Details.(type) {
	case domain.OriginationDetails:
		return drawLines(m.FunctionalAmount, func() (string, error) { return receiving(d.ReceivingAccountID) }, liability, "Loan proceeds")

	case domain.DisbursementDetails:
		return drawLines(m.FunctionalAmount, func() (string, error) { return receiving(d.ReceivingAccountID) }, liability, "Additional disbursement")

	case domain.PaymentDetails:
		var lines []domain.JournalLine
		for _, split := range d.Settlements {
			if split.Amount.IsPositive() {
				lines = append(lines, domain.JournalLine{AccountID: split.AccountID, Credit: split.Amount, Description: "Payment funding"})
			}
		}
		if d.InterestApplied.IsPositive() {
			accrued, err := role(domain.RoleAccruedInterest)
			if err != nil {
				return nil, err
			}
			lines = append(lines, domain.JournalLine{AccountID: accrued, Debit: d.InterestApplied, Description: "Interest paid"})
		}
		if d.LiabilityRelief.IsPositive() {
			liab, err := liability()
			if err != nil {
				return nil, err
			}
			lines = append(lines, domain.JournalLine{AccountID: liab, Debit: d.LiabilityRelief, Description: "Capital repaid"})
		}
		switch {
		case d.FXDifference.IsPositive():
			loss, err := role(domain.RoleExchangeLoss)
			if err != nil {
				return nil, err
			}
			lines = append(lines, domain.JournalLine{AccountID: loss, Debit: d.FXDifference, Description: "Realised exchange difference"})
		case d.FXDifference.IsNegative():
			gain, err := role(domain.RoleExchangeGain)
			if err != nil {
				return nil, err
			}
			lines = append(lines, domain.JournalLine{AccountID: gain, Credit: d.FXDifference.Abs(), Description: "Realised exchange difference"})
		}
		return lines, nil

	case domain.AccrualDetails:
		expense, err := role(domain.RoleInterestExpense)
		if err != nil {
			return nil, err
		}
		accrued, err := role(domain.RoleAccruedInterest)
		if err != nil {
			return nil, err
		}
		note := fmt.Sprintf("%d days %s", d.Days, d.DayCountBasis)
		return []domain.JournalLine{
			{AccountID: expense, Debit: m.FunctionalAmount, Description: note},
			{AccountID: accrued, Credit: m.FunctionalAmount, Description: note},
		}, nil

	case domain.RevaluationDetails:
		liab, err := liability()
		if err != nil {
			return nil, err
		}
		amount := d.Difference.Abs()
		if d.Difference.IsPositive() {
			loss, err := role(domain.RoleExchangeLoss)
			if err != nil {
				return nil, err
			}
			return []domain.JournalLine{
				{AccountID: loss, Debit: amount, Description: "Exchange loss"},
				{AccountID: liab, Credit: amount, Description: "Liability restated"},
			}, nil
		}
		gain, err := role(domain.RoleExchangeGain)
		if err != nil {
			return nil, err
		}
		return []domain.JournalLine{
			{AccountID: liab, Debit: amount, Description: "Liability restated"},
			{AccountID: gain, Credit: amount, Description: "Exchange gain"},
		}, nil

	case domain.RefinancingDetails:
		if !d.CapitalizedInterest.IsPositive() {
			return nil, apperrors.Invalid("movement", "refinancing without capitalised interest has nothing to post")
		}
		accrued, err := role(domain.RoleAccruedInterest)
		if err != nil {
			return nil, err
		}
		liab, err := liability()
		if err != nil {
			return nil, err
		}
		return []domain.JournalLine{
			{AccountID: accrued, Debit: d.CapitalizedInterest, Description: "Interest capitalised"},
			{AccountID: liab, Credit: d.CapitalizedInterest, Description: "Interest capitalised"},
		}, nil

	case domain.WalletDetails:
		return nil, apperrors.Invalid("movement", "wallet movements are tracked, not posted")
	}
	return nil, &apperrors.UnsupportedConfigurationError{Setting: "movement kind", Value: string(m.Kind())}
}

// drawLines books cash received against the liability.
func drawLines(amount decimal.Decimal, debitAccount, creditAccount func() (string, error), note string) ([]domain.JournalLine, error) {
	debitID, err := debitAccount()
	if err != nil {
		return nil, err
	}
	creditID, err := creditAccount()
	if err != nil {
		return nil, err
	}
	return []domain.JournalLine{
		{AccountID: debitID, Debit: amount, Description: note},
		{AccountID: creditID, Credit: amount, Description: note},
	}, nil
}

func movementMemo(debt *domain.Debt, m *domain.Movement) string {
	switch d := m.Details.(type) {
	case domain.OriginationDetails:
		return "Debt origination: " + debt.Description
	case domain.DisbursementDetails:
		return "Disbursement: " + debt.Description
	case domain.PaymentDetails:
		return fmt.Sprintf("Payment (%s): %s", d.Mode, debt.Description)
	case domain.AccrualDetails:
		return fmt.Sprintf("Interest accrual %s: %s", d.PeriodKey, debt.Description)
	case domain.RevaluationDetails:
		return fmt.Sprintf("FX revaluation %s -> %s: %s", d.PreviousRate.String(), d.NewRate.String(), debt.Description)
	case domain.RefinancingDetails:
		return "Refinancing: " + debt.Description
	}
	return string(m.Kind()) + ": " + debt.Description
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
