package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/services"
)

// CurrencyHandler serves exchange rates and conversions.
type CurrencyHandler struct {
	currencyService services.CurrencyServicer
	auditService    services.AuditServicer
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyService services.CurrencyServicer, auditService services.AuditServicer) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService, auditService: auditService}
}

// AddRateRequest is the payload for storing an exchange rate.
type AddRateRequest struct {
	From string          `json:"from" binding:"required,iso4217" example:"EUR"`
	To   string          `json:"to" binding:"required,iso4217" example:"PLN"`
	Rate decimal.Decimal `json:"rate" swaggertype:"string" example:"4.30"`
}

// ConversionResponse is the result of a currency conversion.
type ConversionResponse struct {
	Amount    decimal.Decimal `json:"amount" swaggertype:"string"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Converted decimal.Decimal `json:"converted" swaggertype:"string"`
}

// ListCurrencies returns the currencies that have a known rate.
// @Summary     List currencies
// @Tags        currencies
// @Produce     json
// @Param       userID path string true "User ID"
// @Success     200 {array}  string "ISO 4217 codes"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/currencies [get]
func (h *CurrencyHandler) ListCurrencies(c *gin.Context) {
	codes, err := h.currencyService.ListCurrencies()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"currencies": codes})
}

// AddRate stores an exchange rate and its inverse.
// @Summary     Add exchange rate
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Param       userID  path string         true "User ID"
// @Param       request body AddRateRequest true "Rate"
// @Success     201 {object} MessageResponse "Rate stored"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/currencies/rates [post]
func (h *CurrencyHandler) AddRate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.currencyService.AddRate(req.From, req.To, req.Rate); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(userID, c.ClientIP(), services.RateAddedEvent(req.From, req.To, req.Rate))

	c.JSON(http.StatusCreated, MessageResponse{Message: "Rate stored successfully"})
}

// Convert converts an amount between two currencies.
// @Summary     Convert amount
// @Tags        currencies
// @Produce     json
// @Param       userID path  string true "User ID"
// @Param       amount query string true "Amount"
// @Param       from   query string true "Source currency"
// @Param       to     query string true "Target currency"
// @Success     200 {object} ConversionResponse "Converted amount"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Rate not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/currencies/convert [get]
func (h *CurrencyHandler) Convert(c *gin.Context) {
	amount, err := parseAmount(c.Query("amount"), "amount")
	if err != nil {
		respondWithError(c, err)
		return
	}
	from := strings.ToUpper(c.Query("from"))
	to := strings.ToUpper(c.Query("to"))

	converted, err := h.currencyService.Convert(amount, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ConversionResponse{Amount: amount, From: from, To: to, Converted: converted})
}
