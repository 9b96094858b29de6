package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/SscSPs/debt_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// debtOperationHandler serves the movements that change a debt after origination.
type debtOperationHandler struct {
	accrualService        portssvc.AccrualSvcFacade
	paymentService        portssvc.PaymentSvc
	revaluationService    portssvc.RevaluationSvc
	reconciliationService portssvc.ReconciliationSvc
}

func registerDebtOperationRoutes(debts *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &debtOperationHandler{
		accrualService:        services.Accrual,
		paymentService:        services.Payment,
		revaluationService:    services.Revaluation,
		reconciliationService: services.Reconciliation,
	}

	debts.POST("/accruals", h.accrueAll)
	debts.POST("/:id/accruals", h.accrueDebt)
	debts.POST("/:id/accruals/period", h.accruePeriod)
	debts.POST("/:id/payments", h.pay)
	debts.POST("/:id/revaluations", h.revalue)
	debts.GET("/:id/reconciliation", h.reconcile)
	debts.POST("/:id/reconciliation", h.reconcile)
}

// accrueAll godoc
// @Summary Accrue interest on every active debt
// @Description Posts every pending closed month. Failing debts are reported and skipped.
// @Tags accruals
// @Accept  json
// @Produce  json
// @Param   request body dto.AccrueRequest false "Cut-off date; defaults to now"
// @Success 200 {array} dto.AccrualRunResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /debts/accruals [post]
func (h *debtOperationHandler) accrueAll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, ok := bindAccrueRequest(c, logger)
	if !ok {
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	runs := h.accrualService.AccrueAll(c.Request.Context(), asOf, userID)
	resp := make([]dto.AccrualRunResponse, 0, len(runs))
	for i := range runs {
		resp = append(resp, dto.ToAccrualRunResponse(&runs[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// accrueDebt godoc
// @Summary Accrue interest on one debt
// @Description Posts every pending month up to the last month closed before asOf
// @Tags accruals
// @Accept  json
// @Produce  json
// @Param   id path string true "Debt ID"
// @Param   request body dto.AccrueRequest false "Cut-off date; defaults to now"
// @Success 200 {object} dto.AccrualRunResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Debt not found"
// @Failure 409 {object} ErrorResponse "Debt is not active"
// @Failure 500 {object} ErrorResponse "Failed to accrue interest"
// @Security BearerAuth
// @Router /debts/{id}/accruals [post]
func (h *debtOperationHandler) accrueDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("debt_id", c.Param("id")))
	asOf, ok := bindAccrueRequest(c, logger)
	if !ok {
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	run, err := h.accrualService.AccrueDebt(c.Request.Context(), c.Param("id"), asOf, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to accrue interest")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccrualRunResponse(run))
}

// accruePeriod godoc
// @Summary Accrue one month of interest
// @Tags accruals
// @Accept  json
// @Produce  json
// @Param   id path string true "Debt ID"
// @Param   request body dto.AccruePeriodRequest true "Month as YYYY-MM"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} ErrorResponse "Invalid period"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Debt not found"
// @Failure 409 {object} ErrorResponse "Period already accrued"
// @Failure 500 {object} ErrorResponse "Failed to accrue period"
// @Security BearerAuth
// @Router /debts/{id}/accruals/period [post]
func (h *debtOperationHandler) accruePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("debt_id", c.Param("id")))
	var req dto.AccruePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	movement, err := h.accrualService.AccruePeriod(c.Request.Context(), c.Param("id"), req.PeriodKey, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to accrue period")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}

// pay godoc
// @Summary Record a payment
// @Description Allocates a payment to interest and capital and settles it from one or more accounts
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Debt ID"
// @Param   payment body dto.PaymentRequest true "Payment"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} ErrorResponse "Invalid payment"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Debt or account not found"
// @Failure 409 {object} ErrorResponse "Debt is not active"
// @Failure 422 {object} ErrorResponse "Entry does not balance"
// @Failure 500 {object} ErrorResponse "Failed to record payment"
// @Security BearerAuth
// @Router /debts/{id}/payments [post]
func (h *debtOperationHandler) pay(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("debt_id", c.Param("id")))
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger.Info("Received payment", slog.String("mode", string(req.Mode)), slog.String("amount", req.Amount.String()))
	receipt, err := h.paymentService.Pay(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(receipt))
}

// revalue godoc
// @Summary Revalue a foreign-currency debt
// @Description Posts the translation difference between the recorded and the given rate
// @Tags revaluations
// @Accept  json
// @Produce  json
// @Param   id path string true "Debt ID"
// @Param   revaluation body dto.RevaluationRequest true "Revaluation"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} ErrorResponse "Invalid input or difference below threshold"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Debt or rate not found"
// @Failure 409 {object} ErrorResponse "Debt is not active"
// @Failure 500 {object} ErrorResponse "Failed to revalue debt"
// @Security BearerAuth
// @Router /debts/{id}/revaluations [post]
func (h *debtOperationHandler) revalue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("debt_id", c.Param("id")))
	var req dto.RevaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	movement, err := h.revaluationService.Revalue(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to revalue debt")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}

// reconcile godoc
// @Summary Reconcile a debt against the journal
// @Description Reports each movement as OK, MISSING or MISMATCH. With repair=true missing entries are re-posted.
// @Tags reconciliation
// @Produce  json
// @Param   id path string true "Debt ID"
// @Param   repair query bool false "Re-post missing entries"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Debt not found"
// @Failure 500 {object} ErrorResponse "Failed to reconcile debt"
// @Security BearerAuth
// @Router /debts/{id}/reconciliation [get]
// @Router /debts/{id}/reconciliation [post]
func (h *debtOperationHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("debt_id", c.Param("id")))
	var params dto.ReconcileParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindFailed(c, logger, err)
		return
	}
	if params.Repair && c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "repair requires POST"})
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	report, err := h.reconciliationService.Reconcile(c.Request.Context(), c.Param("id"), params.Repair, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile debt")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(report))
}

// bindAccrueRequest reads an optional AccrueRequest body. An empty body means now.
func bindAccrueRequest(c *gin.Context, logger *slog.Logger) (time.Time, bool) {
	var req dto.AccrueRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFailed(c, logger, err)
			return time.Time{}, false
		}
	}
	if req.AsOf == nil {
		return time.Now().UTC(), true
	}
	return *req.AsOf, true
}
