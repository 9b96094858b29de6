package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/allocation"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/debt_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type paymentService struct {
	debtEngine
}

// NewPaymentService creates the payment allocation service.
func NewPaymentService(deps DebtDeps) portssvc.PaymentSvc {
	return &paymentService{debtEngine{DebtDeps: deps}}
}

var _ portssvc.PaymentSvc = (*paymentService)(nil)

func (s *paymentService) Pay(ctx context.Context, debtID string, req dto.PaymentRequest, userID string) (*domain.PaymentReceipt, error) {
	debt, err := loadActiveDebt(ctx, s.Repos, debtID)
	if err != nil {
		return nil, err
	}
	pos, err := positionOf(ctx, &s.debtEngine, s.Repos, debt, req.Date)
	if err != nil {
		return nil, err
	}

	amount := req.Amount
	if amount.IsZero() {
		switch req.Mode {
		case domain.PayByInstallment:
			if pos.NextInstallment == nil {
				return nil, apperrors.Invalid("mode", "debt %s has no unpaid installment", debtID)
			}
			amount = pos.NextInstallmentTotal
		case domain.PayTotalCancellation:
			amount = pos.Payoff
		}
	}

	result, err := allocation.Allocate(req.Mode, amount, allocation.Position{
		Outstanding:     pos.OutstandingDebt,
		InterestPending: pos.InterestPending,
		CurrentRate:     pos.CurrentRate,
		RecordedRate:    pos.RecordedRate,
		Kind:            s.kindOf(debt),
	})
	if err != nil {
		return nil, err
	}

	splits, err := settlementSplits(result.Amount, req.Settlements)
	if err != nil {
		return nil, err
	}
	walletRates, err := s.walletRates(ctx, splits)
	if err != nil {
		return nil, err
	}

	receipt := &domain.PaymentReceipt{}
	err = s.TxManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		debt, err := loadActiveDebt(ctx, repos, debtID)
		if err != nil {
			return err
		}
		if !debt.OutstandingBalance.Equal(pos.OutstandingDebt) {
			return fmt.Errorf("%w: debt %s changed while the payment was being prepared", apperrors.ErrConflict, debtID)
		}

		details := domain.PaymentDetails{
			Mode:               req.Mode,
			InterestApplied:    result.InterestApplied,
			CapitalApplied:     result.CapitalApplied,
			CapitalAppliedDebt: result.CapitalAppliedDebt,
			LiabilityRelief:    result.LiabilityRelief,
			FXDifference:       result.FXDifference,
			Settlements:        splits,
		}
		details.InstallmentNumbers = settleInstallments(debt, req.Mode, result.SettlesDebt, req.Date)

		payment := domain.Movement{
			MovementID:       uuid.NewString(),
			DebtID:           debt.DebtID,
			Date:             req.Date,
			Amount:           result.Amount.Div(pos.CurrentRate).Round(2),
			ExchangeRate:     pos.CurrentRate,
			FunctionalAmount: result.Amount,
			AutoJournal:      dto.AutoJournalOrDefault(req.AutoJournal),
			Details:          details,
			AuditFields:      s.Audit(userID),
		}
		if s.kindOf(debt).IsFunctionalCurrency() {
			payment.Amount = result.Amount
		}
		if err := s.record(ctx, repos, debt, &payment, userID); err != nil {
			return err
		}
		receipt.Payment = payment

		for _, split := range splits {
			walletRate, ok := walletRates[split.WalletCurrency]
			if !ok || !result.CapitalApplied.IsPositive() {
				continue
			}
			// Only the capital share of the split leaves the wallet's tracked holdings.
			capitalShare := split.Amount.Mul(result.CapitalApplied).Div(result.Amount)
			wallet := domain.Movement{
				MovementID:       uuid.NewString(),
				DebtID:           debt.DebtID,
				Date:             req.Date,
				Amount:           capitalShare.Div(walletRate).Round(2),
				ExchangeRate:     walletRate,
				FunctionalAmount: capitalShare.Round(2),
				Details: domain.WalletDetails{
					WalletAccountID:   split.AccountID,
					WalletCurrency:    split.WalletCurrency,
					PaymentMovementID: payment.MovementID,
				},
				AuditFields: s.Audit(userID),
			}
			if err := s.record(ctx, repos, debt, &wallet, userID); err != nil {
				return err
			}
			receipt.WalletMovements = append(receipt.WalletMovements, wallet)
		}

		debt.OutstandingBalance = debt.OutstandingBalance.Sub(result.CapitalAppliedDebt)
		if result.SettlesDebt {
			debt.OutstandingBalance = decimal.Zero
			debt.Status = domain.DebtPaid
		} else if result.CapitalAppliedDebt.IsPositive() {
			if err := rescheduleUnpaid(debt, debt.OutstandingBalance, req.Date); err != nil {
				return err
			}
		}
		s.Touch(&debt.AuditFields, userID)
		if err := repos.DebtRepo.UpdateDebt(ctx, *debt); err != nil {
			return err
		}
		receipt.Debt = *debt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Payment recorded",
		slog.String("debt_id", debtID),
		slog.String("mode", string(req.Mode)),
		slog.String("amount", result.Amount.StringFixed(2)),
		slog.String("interest", result.InterestApplied.StringFixed(2)),
		slog.String("capital", result.CapitalApplied.StringFixed(2)),
		slog.Bool("settled", result.SettlesDebt))
	return receipt, nil
}

// settlementSplits turns the requested funding into splits that sum to amount
// exactly. A single split without an amount takes the whole payment.
func settlementSplits(amount decimal.Decimal, reqs []dto.SettlementRequest) ([]domain.SettlementSplit, error) {
	splits := make([]domain.SettlementSplit, 0, len(reqs))
	for _, r := range reqs {
		splits = append(splits, domain.SettlementSplit{
			AccountID:      r.AccountID,
			Amount:         r.Amount.Round(2),
			WalletCurrency: strings.ToUpper(r.WalletCurrency),
		})
	}
	if len(splits) == 1 && splits[0].Amount.IsZero() {
		splits[0].Amount = amount
	}
	if err := allocation.ValidateSettlements(amount, splits); err != nil {
		return nil, err
	}

	sum := decimal.Zero
	for _, split := range splits {
		sum = sum.Add(split.Amount)
	}
	last := &splits[len(splits)-1]
	last.Amount = last.Amount.Add(amount.Sub(sum))
	if !last.Amount.IsPositive() {
		return nil, apperrors.Invalid("settlements", "settlement amounts must be greater than zero")
	}
	return splits, nil
}

// walletRates quotes each foreign wallet funding the payment.
func (s *paymentService) walletRates(ctx context.Context, splits []domain.SettlementSplit) (map[string]decimal.Decimal, error) {
	rates := map[string]decimal.Decimal{}
	for _, split := range splits {
		code := split.WalletCurrency
		if code == "" || code == s.FunctionalCurrency {
			continue
		}
		if _, ok := rates[code]; ok {
			continue
		}
		rate, err := s.Rates.GetCurrentRate(ctx, code, s.LiabilitySide)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s wallet rate: %w", code, err)
		}
		rates[code] = rate
	}
	return rates, nil
}

// settleInstallments marks the rows a payment retires and returns their numbers.
func settleInstallments(debt *domain.Debt, mode domain.PaymentMode, settles bool, date time.Time) []int {
	var numbers []int
	markNext := func() bool {
		i, ok := debt.NextUnpaidInstallment()
		if !ok {
			return false
		}
		paidAt := date
		debt.Schedule[i].Paid = true
		debt.Schedule[i].PaidAt = &paidAt
		debt.PaidInstallments++
		numbers = append(numbers, debt.Schedule[i].Number)
		return true
	}

	if mode == domain.PayByInstallment {
		markNext()
	}
	if settles {
		for markNext() {
		}
	}
	return numbers
}
