package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/reporting"
	"budgetwise/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// SetBudgetRequest represents the request payload for setting a category budget.
type SetBudgetRequest struct {
	CategoryID string          `json:"category_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string" example:"500.00"`
}

// BudgetBookEntry is one period of the budget book.
type BudgetBookEntry struct {
	Period     reporting.Period           `json:"period" swaggertype:"string" example:"2025-4"`
	Total      decimal.Decimal            `json:"total"`
	Categories map[string]decimal.Decimal `json:"categories"`
}

// GetBudgetBook lists every budget of the user grouped by period.
// @Summary     Get budget book
// @Tags        budgets
// @Produce     json
// @Param       userID path string true "User ID"
// @Success     200 {array}  BudgetBookEntry "Budgets per period"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/budgets [get]
func (h *BudgetHandler) GetBudgetBook(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	book, err := h.budgetService.GetBudgetBook(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries := make([]BudgetBookEntry, 0, len(book))
	for period, budgets := range book {
		entries = append(entries, BudgetBookEntry{
			Period:     period,
			Total:      budgets.Total(),
			Categories: budgets,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Period.Before(entries[j].Period) })

	c.JSON(http.StatusOK, gin.H{"budgets": entries})
}

// GetPeriodBudgets lists the budgets of one period.
// @Summary     Get period budgets
// @Tags        budgets
// @Produce     json
// @Param       userID path string true "User ID"
// @Param       period path string true "Period (YYYY-M)"
// @Success     200 {array}  models.Budget "Budgets ordered by category name"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/budgets/{period} [get]
func (h *BudgetHandler) GetPeriodBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := parsePathPeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.GetPeriodBudgets(userID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": period, "budgets": budgets})
}

// SetBudget creates or replaces a category budget for a period.
// @Summary     Set budget
// @Description Set the budget of a category for a period. Setting it again replaces the amount.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       userID  path string           true "User ID"
// @Param       period  path string           true "Period (YYYY-M)"
// @Param       request body SetBudgetRequest true "Budget details"
// @Success     200 {object} models.Budget "Stored budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/budgets/{period} [put]
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := parsePathPeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.SetBudget(userID, period, req.CategoryID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(userID, c.ClientIP(), services.BudgetSetEvent(budget))

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget removes every budget of a period.
// @Summary     Delete period budgets
// @Tags        budgets
// @Produce     json
// @Param       userID path string true "User ID"
// @Param       period path string true "Period (YYYY-M)"
// @Success     200 {object} MessageResponse "Budgets deleted"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/{userID}/budgets/{period} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := parsePathPeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, period); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Record(userID, c.ClientIP(), services.BudgetDeletedEvent(period))

	c.JSON(http.StatusOK, MessageResponse{Message: "Budget deleted successfully"})
}
