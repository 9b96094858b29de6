package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}
func (m *MockAccountService) ResolveRoles(ctx context.Context) (map[domain.AccountRole]portssvc.AccountResolution, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.AccountRole]portssvc.AccountResolution), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}
func (m *MockJournalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalsResponse), args.Error(1)
}
func (m *MockJournalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}
func (m *MockJournalService) DeleteJournal(ctx context.Context, journalID string, userID string) error {
	args := m.Called(ctx, journalID, userID)
	return args.Error(0)
}
func (m *MockJournalService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock DebtService ---
type MockDebtService struct {
	mock.Mock
}

func (m *MockDebtService) GetDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockDebtService) ListDebts(ctx context.Context, params dto.ListDebtsParams) ([]domain.Debt, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}
func (m *MockDebtService) ListMovements(ctx context.Context, debtID string) ([]domain.Movement, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}
func (m *MockDebtService) GetPosition(ctx context.Context, debtID string, asOf time.Time) (*domain.DebtPosition, error) {
	args := m.Called(ctx, debtID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtPosition), args.Error(1)
}
func (m *MockDebtService) PreviewSchedule(ctx context.Context, req dto.SchedulePreviewRequest) ([]domain.Installment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}
func (m *MockDebtService) OriginateDebt(ctx context.Context, req dto.OriginateDebtRequest, userID string) (*domain.Debt, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockDebtService) Disburse(ctx context.Context, debtID string, req dto.DisburseRequest, userID string) (*domain.Movement, error) {
	args := m.Called(ctx, debtID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}
func (m *MockDebtService) Refinance(ctx context.Context, debtID string, req dto.RefinanceRequest, userID string) (*domain.Debt, error) {
	args := m.Called(ctx, debtID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockDebtService) CancelDebt(ctx context.Context, debtID string, userID string) error {
	return m.Called(ctx, debtID, userID).Error(0)
}
func (m *MockDebtService) DeleteDebt(ctx context.Context, debtID string, params dto.DeleteDebtParams, userID string) error {
	return m.Called(ctx, debtID, params, userID).Error(0)
}

var _ portssvc.DebtSvcFacade = (*MockDebtService)(nil)

// --- Mock AccrualService ---
type MockAccrualService struct {
	mock.Mock
}

func (m *MockAccrualService) AccrueDebt(ctx context.Context, debtID string, asOf time.Time, userID string) (*domain.AccrualRun, error) {
	args := m.Called(ctx, debtID, asOf, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccrualRun), args.Error(1)
}
func (m *MockAccrualService) AccruePeriod(ctx context.Context, debtID string, periodKey string, userID string) (*domain.Movement, error) {
	args := m.Called(ctx, debtID, periodKey, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}
func (m *MockAccrualService) AccrueAll(ctx context.Context, asOf time.Time, userID string) []domain.AccrualRun {
	args := m.Called(ctx, asOf, userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.AccrualRun)
}

var _ portssvc.AccrualSvcFacade = (*MockAccrualService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Pay(ctx context.Context, debtID string, req dto.PaymentRequest, userID string) (*domain.PaymentReceipt, error) {
	args := m.Called(ctx, debtID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentReceipt), args.Error(1)
}

var _ portssvc.PaymentSvc = (*MockPaymentService)(nil)

// --- Mock RevaluationService ---
type MockRevaluationService struct {
	mock.Mock
}

func (m *MockRevaluationService) Revalue(ctx context.Context, debtID string, req dto.RevaluationRequest, userID string) (*domain.Movement, error) {
	args := m.Called(ctx, debtID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

var _ portssvc.RevaluationSvc = (*MockRevaluationService)(nil)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) Reconcile(ctx context.Context, debtID string, repair bool, userID string) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, debtID, repair, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

var _ portssvc.ReconciliationSvc = (*MockReconciliationService)(nil)
