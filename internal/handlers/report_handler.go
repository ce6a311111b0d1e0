package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/services"
)

// defaultForecastMonths is used when the months query parameter is absent.
const defaultForecastMonths = 12

// ReportHandler serves budget reports and savings forecasts.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetMonthlyReport compares a month's spending with its budgets.
// @Summary     Get monthly report
// @Description Budget vs. spending per category with savings suggestions. The report is null when the month has no budgets.
// @Tags        reports
// @Produce     json
// @Param       userID path string true "User ID"
// @Param       year   path int    true "Year"
// @Param       month  path int    true "Month (1-12)"
// @Success     200 {object} reporting.Report "Monthly report"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/reports/{year}/{month} [get]
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := parseYearMonth(c.Param("year"), c.Param("month"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.GetMonthlyReport(userID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetForecast projects cumulative savings.
// @Summary     Get savings forecast
// @Description Projects cumulative savings using the average of the most recent months.
// @Tags        reports
// @Produce     json
// @Param       userID path  string true  "User ID"
// @Param       months query int    false "Months ahead (default 12)"
// @Success     200 {object} services.ForecastResult "Forecast"
// @Failure     400 {object} ErrorResponse "Invalid months"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/reports/forecast [get]
func (h *ReportHandler) GetForecast(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months := defaultForecastMonths
	if v := c.Query("months"); v != "" {
		months, err = strconv.Atoi(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be an integer"))
			return
		}
	}

	forecast, err := h.reportService.GetForecast(userID, months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecast": forecast})
}

// GetMonthsToGoal estimates how long reaching a savings goal takes.
// @Summary     Get months to goal
// @Description Months of average savings needed to reach the goal. months is null when the goal is unreachable.
// @Tags        reports
// @Produce     json
// @Param       userID path  string true "User ID"
// @Param       amount query string true "Savings goal"
// @Success     200 {object} services.GoalEstimate "Estimate"
// @Failure     400 {object} ErrorResponse "Invalid amount"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/reports/goal [get]
func (h *ReportHandler) GetMonthsToGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := parseAmount(c.Query("amount"), "amount")
	if err != nil {
		respondWithError(c, err)
		return
	}

	estimate, err := h.reportService.GetMonthsToGoal(userID, goal)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": estimate})
}

// GetMonthlySavings returns the savings history.
// @Summary     Get monthly savings
// @Tags        reports
// @Produce     json
// @Param       userID path string true "User ID"
// @Success     200 {array}  services.SavingsEntry "Savings per month, oldest first"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/reports/savings [get]
func (h *ReportHandler) GetMonthlySavings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.reportService.GetMonthlySavings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"savings": entries})
}
