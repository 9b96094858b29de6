package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/debt_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/debt_ledger/internal/core/ports/services"
	"github.com/SscSPs/debt_ledger/internal/dto"
	"github.com/SscSPs/debt_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
	defaultSide         domain.RateSide
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade, defaultSide domain.RateSide) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
		defaultSide:         defaultSide,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade, defaultSide domain.RateSide) {
	h := newExchangeRateHandler(exchangeRateService, defaultSide)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("", h.createExchangeRate)
		exchangeRates.GET("/current/:code", h.getCurrentRate)
		exchangeRates.GET("/:from/:to", h.getExchangeRate)
		exchangeRates.GET("/:from/:to/history", h.listExchangeRates)
	}
}

// side reads the side query parameter, falling back to the configured side.
func (h *exchangeRateHandler) side(c *gin.Context) (domain.RateSide, bool) {
	raw := strings.ToUpper(c.Query("side"))
	if raw == "" {
		return h.defaultSide, true
	}
	switch side := domain.RateSide(raw); side {
	case domain.RateBuy, domain.RateSell, domain.RateMid:
		return side, true
	}
	return "", false
}

// createExchangeRate godoc
// @Summary Record an exchange rate
// @Description Appends a quote for a currency pair and side, effective from a date
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create exchange rate"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, logger, err)
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger.Info("Received request to create exchange rate",
		slog.String("from", req.FromCurrencyCode),
		slog.String("to", req.ToCurrencyCode),
		slog.String("side", string(req.Side)),
		slog.String("rate", req.Rate.String()),
		slog.Time("date_effective", req.DateEffective),
	)

	createdRate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create exchange rate")
		return
	}

	logger.Info("Exchange rate created successfully", slog.String("rate_id", createdRate.ExchangeRateID))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(createdRate))
}

// getExchangeRate godoc
// @Summary Get the latest exchange rate
// @Description Retrieves the latest quote for a currency pair and side
// @Tags exchange rates
// @Produce  json
// @Param   from path string true "From Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   to   path string true "To Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   side query string false "BUY, SELL or MID; defaults to the liability side"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid currency code or side"
// @Failure 404 {object} ErrorResponse "Exchange rate not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve exchange rate"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode, toCode := strings.ToUpper(c.Param("from")), strings.ToUpper(c.Param("to"))
	if len(fromCode) != 3 || len(toCode) != 3 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Currency codes must be 3 letters"})
		return
	}
	side, ok := h.side(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "side must be BUY, SELL or MID"})
		return
	}

	logger = logger.With(slog.String("from_code", fromCode), slog.String("to_code", toCode), slog.String("side", string(side)))
	rate, err := h.exchangeRateService.GetExchangeRate(c.Request.Context(), fromCode, toCode, side)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// listExchangeRates godoc
// @Summary List a pair's quote history
// @Tags exchange rates
// @Produce  json
// @Param   from path string true "From Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   to   path string true "To Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid currency code format"
// @Failure 500 {object} ErrorResponse "Failed to list exchange rates"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to}/history [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode, toCode := strings.ToUpper(c.Param("from")), strings.ToUpper(c.Param("to"))
	if len(fromCode) != 3 || len(toCode) != 3 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Currency codes must be 3 letters"})
		return
	}

	rates, err := h.exchangeRateService.ListExchangeRates(c.Request.Context(), fromCode, toCode)
	if err != nil {
		respondError(c, logger, err, "Failed to list exchange rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// getCurrentRate godoc
// @Summary Get the engine's current rate
// @Description Returns the rate the engine would use right now to convert the currency into the functional currency
// @Tags exchange rates
// @Produce  json
// @Param   code path string true "Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   side query string false "BUY, SELL or MID; defaults to the liability side"
// @Success 200 {object} dto.CurrentRateResponse
// @Failure 400 {object} ErrorResponse "Invalid currency code or side"
// @Failure 404 {object} ErrorResponse "No rate recorded"
// @Failure 500 {object} ErrorResponse "Failed to retrieve current rate"
// @Security BearerAuth
// @Router /exchange-rates/current/{code} [get]
func (h *exchangeRateHandler) getCurrentRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := strings.ToUpper(c.Param("code"))
	if len(code) != 3 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Currency code must be 3 letters"})
		return
	}
	side, ok := h.side(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "side must be BUY, SELL or MID"})
		return
	}

	rate, err := h.exchangeRateService.GetCurrentRate(c.Request.Context(), code, side)
	if err != nil {
		respondError(c, logger.With(slog.String("currency_code", code)), err, "Failed to retrieve current rate")
		return
	}
	c.JSON(http.StatusOK, dto.CurrentRateResponse{CurrencyCode: code, Side: side, Rate: rate})
}
