package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/debt_ledger/internal/apperrors"
	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/core/revaluation"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/SscSPs/debt_ledger/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DebtHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	debts          *MockDebtService
	accruals       *MockAccrualService
	payments       *MockPaymentService
	revaluations   *MockRevaluationService
	reconciliation *MockReconciliationService
	userID         string
	debtID         string
}

func (suite *DebtHandlerTestSuite) SetupTest() {
	var v1 *gin.RouterGroup
	suite.router, v1 = newTestRouter(suite.T())
	suite.debts = new(MockDebtService)
	suite.accruals = new(MockAccrualService)
	suite.payments = new(MockPaymentService)
	suite.revaluations = new(MockRevaluationService)
	suite.reconciliation = new(MockReconciliationService)
	suite.userID = uuid.NewString()
	suite.debtID = uuid.NewString()

	handlers.RegisterDebtRoutes(v1, &portssvc.ServiceContainer{
		Debt:           suite.debts,
		Accrual:        suite.accruals,
		Payment:        suite.payments,
		Revaluation:    suite.revaluations,
		Reconciliation: suite.reconciliation,
	})
}

func (suite *DebtHandlerTestSuite) TearDownTest() {
	for _, m := range []interface{ AssertExpectations(mock.TestingT) bool }{
		suite.debts, suite.accruals, suite.payments, suite.revaluations, suite.reconciliation,
	} {
		m.AssertExpectations(suite.T())
	}
}

func (suite *DebtHandlerTestSuite) url(format string, args ...any) string {
	return "/api/v1/debts" + fmt.Sprintf(format, args...)
}

func (suite *DebtHandlerTestSuite) sampleDebt() *domain.Debt {
	return &domain.Debt{
		DebtID:             suite.debtID,
		Description:        "Bank loan",
		CurrencyCode:       "USD",
		Principal:          decimal.NewFromInt(10000),
		OutstandingBalance: decimal.NewFromInt(10000),
		Status:             domain.DebtActive,
		Schedule: []domain.Installment{
			{Number: 1, DueDate: time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), Capital: decimal.NewFromInt(10000), Total: decimal.NewFromInt(10000)},
		},
	}
}

func originateBody() map[string]any {
	return map[string]any{
		"description":      "Bank loan",
		"currencyCode":     "USD",
		"principal":        "10000",
		"originationRate":  "0",
		"originationDate":  "2025-01-15T00:00:00Z",
		"annualRate":       "0.12",
		"installmentCount": 12,
		"frequency":        "MONTHLY",
		"system":           "FRENCH",
		"firstDueDate":     "2025-02-15T00:00:00Z",
	}
}

// --- Debt lifecycle ---

func (suite *DebtHandlerTestSuite) TestOriginateDebt_Success() {
	suite.debts.On("OriginateDebt", mock.Anything,
		mock.MatchedBy(func(req dto.OriginateDebtRequest) bool {
			return req.Principal.Equal(decimal.NewFromInt(10000)) &&
				req.AnnualRate.Equal(decimal.RequireFromString("0.12")) &&
				req.System == domain.French &&
				dto.AutoJournalOrDefault(req.AutoJournal)
		}),
		suite.userID,
	).Return(suite.sampleDebt(), nil).Once()

	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url(""), suite.userID, originateBody())

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var body dto.DebtResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(suite.debtID, body.DebtID)
	suite.Len(body.Schedule, 1)
}

func (suite *DebtHandlerTestSuite) TestOriginateDebt_RejectsBadInput() {
	tests := []struct {
		name  string
		field string
		value any
	}{
		{"zero principal", "principal", "0"},
		{"negative rate", "annualRate", "-0.01"},
		{"lowercase currency", "currencyCode", "usd"},
		{"unknown system", "system", "SPANISH"},
		{"no installments", "installmentCount", 0},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			body := originateBody()
			body[tt.field] = tt.value
			w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url(""), suite.userID, body)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.debts.AssertNotCalled(suite.T(), "OriginateDebt")
}

func (suite *DebtHandlerTestSuite) TestOriginateDebt_UnresolvedAccount() {
	suite.debts.On("OriginateDebt", mock.Anything, mock.Anything, suite.userID).
		Return(nil, &apperrors.UnresolvedAccountError{Role: string(domain.RoleLoanLiability)}).Once()

	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url(""), suite.userID, originateBody())

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(w.Body.String(), "LOAN_LIABILITY")
}

func (suite *DebtHandlerTestSuite) TestListDebts_FiltersByStatus() {
	suite.debts.On("ListDebts", mock.Anything,
		mock.MatchedBy(func(p dto.ListDebtsParams) bool {
			return p.Status != nil && *p.Status == domain.DebtActive
		}),
	).Return([]domain.Debt{*suite.sampleDebt()}, nil).Once()

	w := doRequest(suite.T(), suite.router, http.MethodGet, suite.url("?status=ACTIVE"), suite.userID, nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var body []dto.DebtResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body, 1)
}

func (suite *DebtHandlerTestSuite) TestListDebts_RejectsUnknownStatus() {
	w := doRequest(suite.T(), suite.router, http.MethodGet, suite.url("?status=OPEN"), suite.userID, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *DebtHandlerTestSuite) TestPreviewSchedule_ReturnsTotals() {
	rows := []domain.Installment{
		{Number: 1, Capital: decimal.NewFromInt(600), Interest: decimal.NewFromInt(12), Total: decimal.NewFromInt(612)},
		{Number: 2, Capital: decimal.NewFromInt(400), Interest: decimal.NewFromInt(6), Total: decimal.NewFromInt(406)},
	}
	suite.debts.On("PreviewSchedule", mock.Anything, mock.AnythingOfType("dto.SchedulePreviewRequest")).Return(rows, nil).Once()

	body := originateBody()
	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url("/preview"), suite.userID, body)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.SchedulePreviewResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Installments, 2)
	suite.True(resp.TotalCapital.Equal(decimal.NewFromInt(1000)))
	suite.True(resp.TotalInterest.Equal(decimal.NewFromInt(18)))
	suite.True(resp.Total.Equal(decimal.NewFromInt(1018)))
}

func (suite *DebtHandlerTestSuite) TestGetDebt_NotFound() {
	suite.debts.On("GetDebtByID", mock.Anything, suite.debtID).Return(nil, apperrors.NewNotFoundError("debt")).Once()

	w := doRequest(suite.T(), suite.router, http.MethodGet, suite.url("/%s", suite.debtID), suite.userID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *DebtHandlerTestSuite) TestGetPosition_ParsesAsOf() {
	asOf := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	position := &domain.DebtPosition{
		DebtID:          suite.debtID,
		AsOf:            asOf,
		Outstanding:     decimal.RequireFromString("9500000"),
		InterestPending: decimal.RequireFromString("93698.63"),
		Payoff:          decimal.RequireFromString("9593698.63"),
	}
	suite.debts.On("GetPosition", mock.Anything, suite.debtID,
		mock.MatchedBy(func(t time.Time) bool { return t.Equal(asOf) }),
	).Return(position, nil).Once()

	w := doRequest(suite.T(), suite.router, http.MethodGet, suite.url("/%s/position?asOf=2025-03-31", suite.debtID), suite.userID, nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.DebtPositionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Payoff.Equal(position.Payoff))
}

func (suite *DebtHandlerTestSuite) TestGetPosition_RejectsBadDate() {
	w := doRequest(suite.T(), suite.router, http.MethodGet, suite.url("/%s/position?asOf=31/03/2025", suite.debtID), suite.userID, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *DebtHandlerTestSuite) TestDeleteDebt_PreservesManualEntries() {
	suite.debts.On("DeleteDebt", mock.Anything, suite.debtID,
		dto.DeleteDebtParams{PreserveManualEntries: true}, suite.userID,
	).Return(nil).Once()

	w := doRequest(suite.T(), suite.router, http.MethodDelete, suite.url("/%s?preserveManualEntries=true", suite.debtID), suite.userID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *DebtHandlerTestSuite) TestCancelDebt_NotActive() {
	suite.debts.On("CancelDebt", mock.Anything, suite.debtID, suite.userID).
		Return(fmt.Errorf("debt is PAID: %w", apperrors.ErrConflict)).Once()

	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url("/%s/cancel", suite.debtID), suite.userID, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *DebtHandlerTestSuite) TestDisburse_Success() {
	movement := &domain.Movement{
		MovementID: uuid.NewString(),
		DebtID:     suite.debtID,
		Amount:     decimal.NewFromInt(500),
		Details:    domain.DisbursementDetails{ReceivingAccountID: "cash"},
	}
	suite.debts.On("Disburse", mock.Anything, suite.debtID,
		mock.MatchedBy(func(req dto.DisburseRequest) bool { return req.Amount.Equal(decimal.NewFromInt(500)) }),
		suite.userID,
	).Return(movement, nil).Once()

	body := map[string]any{"amount": "500", "date": "2025-03-01T00:00:00Z"}
	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url("/%s/disbursements", suite.debtID), suite.userID, body)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.MovementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.MovementDisbursement, resp.Kind)
}

// --- Accrual ---

func (suite *DebtHandlerTestSuite) TestAccrueDebt_DefaultsToNow() {
	before := time.Now().UTC()
	run := &domain.AccrualRun{DebtID: suite.debtID, Skipped: []string{"2025-01"}}
	suite.accruals.On("AccrueDebt", mock.Anything, suite.debtID,
		mock.MatchedBy(func(t time.Time) bool { return !t.Before(before) }),
		suite.userID,
	).Return(run, nil).Once()

	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url("/%s/accruals", suite.debtID), suite.userID, nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.AccrualRunResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal([]string{"2025-01"}, resp.Skipped)
}

func (suite *DebtHandlerTestSuite) TestAccrueDebt_UsesBodyAsOf() {
	asOf := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	suite.accruals.On("AccrueDebt", mock.Anything, suite.debtID,
		mock.MatchedBy(func(t time.Time) bool { return t.Equal(asOf) }),
		suite.userID,
	).Return(&domain.AccrualRun{DebtID: suite.debtID}, nil).Once()

	body := map[string]any{"asOf": "2025-04-01T00:00:00Z"}
	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url("/%s/accruals", suite.debtID), suite.userID, body)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *DebtHandlerTestSuite) TestAccruePeriod_Duplicate() {
	suite.accruals.On("AccruePeriod", mock.Anything, suite.debtID, "2025-03", suite.userID).
		Return(nil, &apperrors.DuplicateAccrualError{DebtID: suite.debtID, PeriodKey: "2025-03"}).Once()

	body := map[string]any{"periodKey": "2025-03"}
	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url("/%s/accruals/period", suite.debtID), suite.userID, body)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "2025-03")
}

func (suite *DebtHandlerTestSuite) TestAccruePeriod_RejectsMalformedKey() {
	body := map[string]any{"periodKey": "2025-13"}
	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url("/%s/accruals/period", suite.debtID), suite.userID, body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *DebtHandlerTestSuite) TestAccrueAll() {
	runs := []domain.AccrualRun{{DebtID: "a"}, {DebtID: "b"}}
	suite.accruals.On("AccrueAll", mock.Anything, mock.AnythingOfType("time.Time"), suite.userID).Return(runs, nil).Once()

	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url("/accruals"), suite.userID, nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp []dto.AccrualRunResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 2)
}

// --- Payments and revaluation ---

func (suite *DebtHandlerTestSuite) TestPay_Success() {
	receipt := &domain.PaymentReceipt{
		Payment: domain.Movement{MovementID: uuid.NewString(), DebtID: suite.debtID, Details: domain.PaymentDetails{Mode: domain.PayPartial}},
		Debt:    *suite.sampleDebt(),
	}
	suite.payments.On("Pay", mock.Anything, suite.debtID,
		mock.MatchedBy(func(req dto.PaymentRequest) bool {
			return req.Mode == domain.PayPartial && len(req.Settlements) == 1
		}),
		suite.userID,
	).Return(receipt, nil).Once()

	body := map[string]any{
		"mode":        "PARTIAL",
		"amount":      "1500",
		"date":        "2025-03-10T00:00:00Z",
		"settlements": []map[string]any{{"accountID": "bank"}},
	}
	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url("/%s/payments", suite.debtID), suite.userID, body)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.PaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.MovementPayment, resp.Payment.Kind)
}

func (suite *DebtHandlerTestSuite) TestPay_RequiresSettlement() {
	body := map[string]any{"mode": "PARTIAL", "amount": "10", "date": "2025-03-10T00:00:00Z"}
	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url("/%s/payments", suite.debtID), suite.userID, body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.payments.AssertNotCalled(suite.T(), "Pay")
}

func (suite *DebtHandlerTestSuite) TestPay_UnbalancedEntry() {
	suite.payments.On("Pay", mock.Anything, suite.debtID, mock.Anything, suite.userID).
		Return(nil, &apperrors.UnbalancedEntryError{Debits: decimal.NewFromInt(100), Credits: decimal.NewFromInt(90)}).Once()

	body := map[string]any{
		"mode":        "EXTRAORDINARY",
		"amount":      "100",
		"date":        "2025-03-10T00:00:00Z",
		"settlements": []map[string]any{{"accountID": "bank", "amount": "90"}},
	}
	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url("/%s/payments", suite.debtID), suite.userID, body)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *DebtHandlerTestSuite) TestRevalue_BelowThreshold() {
	suite.revaluations.On("Revalue", mock.Anything, suite.debtID, mock.AnythingOfType("dto.RevaluationRequest"), suite.userID).
		Return(nil, revaluation.ErrBelowThreshold).Once()

	body := map[string]any{"date": "2025-03-31T00:00:00Z", "rate": "1000.001"}
	w := doRequest(suite.T(), suite.router, http.MethodPost, suite.url("/%s/revaluations", suite.debtID), suite.userID, body)

	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Reconciliation ---

func (suite *DebtHandlerTestSuite) report() *domain.ReconciliationReport {
	return &domain.ReconciliationReport{
		DebtID: suite.debtID,
		Items: []domain.ReconciliationItem{
			{MovementID: "m1", Kind: domain.MovementOrigination, Status: domain.ReconOK},
			{MovementID: "m2", Kind: domain.MovementAccrual, Status: domain.ReconMissing},
		},
	}
}

func (suite *DebtHandlerTestSuite) TestReconcile_ReadOnly() {
	suite.reconciliation.On("Reconcile", mock.Anything, suite.debtID, false, suite.userID).Return(suite.report(), nil).Once()

	w := doRequest(suite.T(), suite.router, http.MethodGet, suite.url("/%s/reconciliation", suite.debtID), suite.userID, nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.ReconciliationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.OK)
	suite.Equal(1, resp.Missing)
}

func (suite *DebtHandlerTestSuite) TestReconcile_RepairNeedsPost() {
	w := doRequest(suite.T(), suite.router, http.MethodGet, suite.url("/%s/reconciliation?repair=true", suite.debtID), suite.userID, nil)
	suite.Equal(http.StatusMethodNotAllowed, w.Code)

	report := suite.report()
	report.Repaired = 1
	suite.reconciliation.On("Reconcile", mock.Anything, suite.debtID, true, suite.userID).Return(report, nil).Once()

	w = doRequest(suite.T(), suite.router, http.MethodPost, suite.url("/%s/reconciliation?repair=true", suite.debtID), suite.userID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"repaired":1`)
}

func TestDebtHandler(t *testing.T) {
	suite.Run(t, new(DebtHandlerTestSuite))
}
