package handlers

import (
	"github.com/gin-gonic/gin"

	"budgetwise/internal/middleware"
)

// Handlers groups every handler mounted under a user scope.
type Handlers struct {
	Category    *CategoryHandler
	Transaction *TransactionHandler
	Budget      *BudgetHandler
	Report      *ReportHandler
	Currency    *CurrencyHandler
	Audit       *AuditHandler
}

// RegisterRoutes mounts the API under rg/users/:userID.
func RegisterRoutes(rg *gin.RouterGroup, h Handlers) {
	user := rg.Group("/users/:userID", middleware.UserScope())

	categories := user.Group("/categories")
	categories.GET("", h.Category.GetUserCategories)
	categories.POST("", h.Category.CreateCategory)
	categories.DELETE("", h.Category.DeleteCategoryByName)
	categories.GET("/:id", h.Category.GetCategoryByID)
	categories.PUT("/:id", h.Category.RenameCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	transactions := user.Group("/transactions")
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetUserTransactions)
	transactions.GET("/totals", h.Transaction.GetTotals)
	transactions.GET("/:id", h.Transaction.GetTransactionByID)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	budgets := user.Group("/budgets")
	budgets.GET("", h.Budget.GetBudgetBook)
	budgets.GET("/:period", h.Budget.GetPeriodBudgets)
	budgets.PUT("/:period", h.Budget.SetBudget)
	budgets.DELETE("/:period", h.Budget.DeleteBudget)

	reports := user.Group("/reports")
	reports.GET("/forecast", h.Report.GetForecast)
	reports.GET("/goal", h.Report.GetMonthsToGoal)
	reports.GET("/savings", h.Report.GetMonthlySavings)
	reports.GET("/:year/:month", h.Report.GetMonthlyReport)

	currencies := user.Group("/currencies")
	currencies.GET("", h.Currency.ListCurrencies)
	currencies.POST("/rates", h.Currency.AddRate)
	currencies.GET("/convert", h.Currency.Convert)

	user.GET("/audit", h.Audit.GetAuditLog)
}
