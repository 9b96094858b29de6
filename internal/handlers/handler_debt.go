package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/debt_ledger/internal/core/amortization"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/SscSPs/debt_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// debtHandler handles the debt lifecycle endpoints.
type debtHandler struct {
	debtService portssvc.DebtSvcFacade
}

func newDebtHandler(ds portssvc.DebtSvcFacade) *debtHandler {
	return &debtHandler{debtService: ds}
}

// RegisterDebtRoutes registers the debt lifecycle routes and the accrual,
// payment, revaluation and reconciliation operations nested under them.
func RegisterDebtRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newDebtHandler(services.Debt)

	debts := rg.Group("/debts")
	{
		debts.POST("", h.originateDebt)
		debts.GET("", h.listDebts)
		debts.POST("/preview", h.previewSchedule)
		debts.GET("/:id", h.getDebt)
		debts.DELETE("/:id", h.deleteDebt)
		debts.GET("/:id/position", h.getPosition)
		debts.GET("/:id/movements", h.listMovements)
		debts.POST("/:id/disbursements", h.disburse)
		debts.POST("/:id/refinance", h.refinance)
		debts.POST("/:id/cancel", h.cancelDebt)
	}
	registerDebtOperationRoutes(debts, services)
}

// originateDebt godoc
// @Summary Originate a debt
// @Description Records a debt, builds its schedule and posts the origination entry
// @Tags debts
// @Accept  json
// @Produce  json
// @Param   debt body dto.OriginateDebtRequest true "Debt terms"
// @Success 201 {object} dto.DebtResponse
// @Failure 400 {object} ErrorResponse "Invalid terms"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Currency, rate or account not found"
// @Failure 422 {object} ErrorResponse "Posting account could not be resolved"
// @Failure 500 {object} ErrorResponse "Failed to originate debt"
// @Security BearerAuth
// @Router /debts [post]
func (h *debtHandler) originateDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OriginateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger.Info("Received request to originate debt",
		slog.String("currency_code", req.CurrencyCode),
		slog.String("principal", req.Principal.String()))
	debt, err := h.debtService.OriginateDebt(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to originate debt")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDebtResponse(debt))
}

// listDebts godoc
// @Summary List debts
// @Tags debts
// @Produce  json
// @Param   status query string false "ACTIVE, PAID or CANCELLED"
// @Success 200 {array} dto.DebtResponse
// @Failure 400 {object} ErrorResponse "Invalid status"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list debts"
// @Security BearerAuth
// @Router /debts [get]
func (h *debtHandler) listDebts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDebtsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindFailed(c, logger, err)
		return
	}

	debts, err := h.debtService.ListDebts(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list debts")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponses(debts))
}

// previewSchedule godoc
// @Summary Preview an amortization schedule
// @Description Computes a schedule with its totals without saving anything
// @Tags debts
// @Accept  json
// @Produce  json
// @Param   terms body dto.SchedulePreviewRequest true "Schedule terms"
// @Success 200 {object} dto.SchedulePreviewResponse
// @Failure 400 {object} ErrorResponse "Invalid terms"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /debts/preview [post]
func (h *debtHandler) previewSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SchedulePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, logger, err)
		return
	}

	rows, err := h.debtService.PreviewSchedule(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to preview schedule")
		return
	}
	capital, interest, total := amortization.Totals(rows)
	c.JSON(http.StatusOK, dto.ToSchedulePreviewResponse(rows, capital, interest, total))
}

// getDebt godoc
// @Summary Get a debt with its schedule
// @Tags debts
// @Produce  json
// @Param   id path string true "Debt ID"
// @Success 200 {object} dto.DebtResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Debt not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve debt"
// @Security BearerAuth
// @Router /debts/{id} [get]
func (h *debtHandler) getDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("debt_id", c.Param("id")))

	debt, err := h.debtService.GetDebtByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve debt")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}

// deleteDebt godoc
// @Summary Delete a debt
// @Description Removes a debt, its movements and its journals. Manual journals can be kept.
// @Tags debts
// @Produce  json
// @Param   id path string true "Debt ID"
// @Param   preserveManualEntries query bool false "Keep manual journals linked to the debt"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Debt not found"
// @Failure 500 {object} ErrorResponse "Failed to delete debt"
// @Security BearerAuth
// @Router /debts/{id} [delete]
func (h *debtHandler) deleteDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("debt_id", c.Param("id")))
	var params dto.DeleteDebtParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindFailed(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.debtService.DeleteDebt(c.Request.Context(), c.Param("id"), params, userID); err != nil {
		respondError(c, logger, err, "Failed to delete debt")
		return
	}
	c.Status(http.StatusNoContent)
}

// getPosition godoc
// @Summary Get a debt's payoff position
// @Description Outstanding balance, pending interest and payoff at the current rate
// @Tags debts
// @Produce  json
// @Param   id path string true "Debt ID"
// @Param   asOf query string false "Date, YYYY-MM-DD; defaults to today"
// @Success 200 {object} dto.DebtPositionResponse
// @Failure 400 {object} ErrorResponse "Invalid date"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Debt or rate not found"
// @Failure 500 {object} ErrorResponse "Failed to compute position"
// @Security BearerAuth
// @Router /debts/{id}/position [get]
func (h *debtHandler) getPosition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("debt_id", c.Param("id")))
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	position, err := h.debtService.GetPosition(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to compute position")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtPositionResponse(position))
}

// listMovements godoc
// @Summary List a debt's movements
// @Tags debts
// @Produce  json
// @Param   id path string true "Debt ID"
// @Success 200 {array} dto.MovementResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Debt not found"
// @Failure 500 {object} ErrorResponse "Failed to list movements"
// @Security BearerAuth
// @Router /debts/{id}/movements [get]
func (h *debtHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("debt_id", c.Param("id")))

	movements, err := h.debtService.ListMovements(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list movements")
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponses(movements))
}

// disburse godoc
// @Summary Record a disbursement
// @Description Draws an additional amount on an active debt and reschedules the unpaid rows
// @Tags debts
// @Accept  json
// @Produce  json
// @Param   id path string true "Debt ID"
// @Param   disbursement body dto.DisburseRequest true "Disbursement"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Debt not found"
// @Failure 409 {object} ErrorResponse "Debt is not active"
// @Failure 500 {object} ErrorResponse "Failed to record disbursement"
// @Security BearerAuth
// @Router /debts/{id}/disbursements [post]
func (h *debtHandler) disburse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("debt_id", c.Param("id")))
	var req dto.DisburseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	movement, err := h.debtService.Disburse(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record disbursement")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}

// refinance godoc
// @Summary Refinance a debt
// @Description Replaces the unpaid schedule with new terms, optionally capitalizing pending interest
// @Tags debts
// @Accept  json
// @Produce  json
// @Param   id path string true "Debt ID"
// @Param   terms body dto.RefinanceRequest true "New terms"
// @Success 200 {object} dto.DebtResponse
// @Failure 400 {object} ErrorResponse "Invalid terms"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Debt not found"
// @Failure 409 {object} ErrorResponse "Debt is not active"
// @Failure 500 {object} ErrorResponse "Failed to refinance debt"
// @Security BearerAuth
// @Router /debts/{id}/refinance [post]
func (h *debtHandler) refinance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("debt_id", c.Param("id")))
	var req dto.RefinanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	debt, err := h.debtService.Refinance(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to refinance debt")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}

// cancelDebt godoc
// @Summary Cancel a debt
// @Description Marks an active debt as cancelled; its history is kept
// @Tags debts
// @Produce  json
// @Param   id path string true "Debt ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Debt not found"
// @Failure 409 {object} ErrorResponse "Debt is not active"
// @Failure 500 {object} ErrorResponse "Failed to cancel debt"
// @Security BearerAuth
// @Router /debts/{id}/cancel [post]
func (h *debtHandler) cancelDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("debt_id", c.Param("id")))
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.debtService.CancelDebt(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, logger, err, "Failed to cancel debt")
		return
	}
	c.Status(http.StatusNoContent)
}

// parseAsOf reads the optional asOf query parameter. On failure it has already
// written the 400 response.
func parseAsOf(c *gin.Context) (time.Time, bool) {
	raw := c.Query("asOf")
	if raw == "" {
		return time.Now().UTC(), true
	}
	asOf, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "asOf must be a date in YYYY-MM-DD form"})
		return time.Time{}, false
	}
	return asOf, true
}
