package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/logger"
	"budgetwise/internal/reporting"
)

// getUserID extracts the scoped user ID from the Gin context.
func getUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing user ID")
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing user ID")
	}
	return id, nil
}

// parsePathID returns a non-empty string path parameter.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if id == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parsePathPeriod reads a YYYY-M period from the :period path parameter.
func parsePathPeriod(c *gin.Context) (reporting.Period, error) {
	period, err := reporting.ParsePeriod(c.Param("period"))
	if err != nil {
		return reporting.Period{}, apperrors.ErrInvalidPeriod
	}
	return period, nil
}

// parseYearMonth builds a period out of two integer parameters.
func parseYearMonth(year, month string) (reporting.Period, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return reporting.Period{}, apperrors.ErrInvalidPeriod
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return reporting.Period{}, apperrors.ErrInvalidPeriod
	}
	period, err := reporting.NewPeriod(y, m)
	if err != nil {
		return reporting.Period{}, apperrors.ErrInvalidPeriod
	}
	return period, nil
}

// parseAmount reads a decimal amount and rejects negatives.
func parseAmount(raw, field string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+field)
	}
	return amount, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message}})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{Error: ErrorDetail{
		Code:    apperrors.ErrInternalServer.Code,
		Message: apperrors.ErrInternalServer.Message,
	}})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
