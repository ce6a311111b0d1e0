package services

import (
	"time"

	"github.com/shopspring/decimal"

	"budgetwise/internal/models"
	"budgetwise/internal/pagination"
	"budgetwise/internal/reporting"
)

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	RenameCategory(userID, categoryID, name string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
	DeleteCategoryByName(userID, name string) error
}

// TransactionInput carries the fields of a new transaction. Date is an ISO
// YYYY-MM-DD string; an empty Currency falls back to the configured default.
type TransactionInput struct {
	Kind       models.TransactionKind
	Name       string
	Amount     decimal.Decimal
	Currency   string
	Date       string
	CategoryID *string
	Note       string
}

// TransactionUpdate holds the fields to change; nil fields are left alone.
type TransactionUpdate struct {
	Name       *string
	Amount     *decimal.Decimal
	Currency   *string
	Date       *string
	CategoryID *string
	Note       *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Kind       *models.TransactionKind
	CategoryID *string
}

// TransactionTotals summarizes recent activity.
type TransactionTotals struct {
	ExpensesLast30Days decimal.Decimal `json:"expenses_last_30_days"`
	IncomesThisMonth   decimal.Decimal `json:"incomes_this_month"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, upd TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetMonthTransactions(userID string, period reporting.Period) ([]reporting.Transaction, error)
	GetTotals(userID string) (*TransactionTotals, error)
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	SetBudget(userID string, period reporting.Period, categoryID string, amount decimal.Decimal) (*models.Budget, error)
	GetBudgetBook(userID string) (reporting.BudgetBook, error)
	GetPeriodBudgets(userID string, period reporting.Period) ([]models.Budget, error)
	DeleteBudget(userID string, period reporting.Period) error
}

// RecordStore reads a consistent view of one user's records for reporting.
type RecordStore interface {
	ListTransactions(userID string) ([]reporting.Transaction, error)
	ListBudgets(userID string) (reporting.BudgetBook, error)
	ResolveCategoryName(userID, categoryID string) (string, bool, error)
	Snapshot(userID string) (*reporting.Snapshot, error)
}

// ForecastResult is the savings projection returned to callers.
type ForecastResult struct {
	CurrentTotalSavings decimal.Decimal           `json:"current_total_savings"`
	TrailingAverage     decimal.Decimal           `json:"trailing_average"`
	Months              []reporting.ForecastPoint `json:"months"`
}

// GoalEstimate answers how long reaching a savings goal takes. Months is nil
// when the goal is unreachable at the current pace.
type GoalEstimate struct {
	Goal                decimal.Decimal `json:"goal"`
	CurrentTotalSavings decimal.Decimal `json:"current_total_savings"`
	TrailingAverage     decimal.Decimal `json:"trailing_average"`
	Reachable           bool            `json:"reachable"`
	Months              *int64          `json:"months"`
}

// SavingsEntry is one month of the savings history.
type SavingsEntry struct {
	Period  reporting.Period `json:"period"`
	Income  decimal.Decimal  `json:"income"`
	Expense decimal.Decimal  `json:"expense"`
	Net     decimal.Decimal  `json:"net"`
}

// ReportServicer defines the contract for budget reports and savings forecasts.
type ReportServicer interface {
	GetMonthlyReport(userID string, period reporting.Period) (*reporting.Report, error)
	GetForecast(userID string, months int) (*ForecastResult, error)
	GetMonthsToGoal(userID string, goal decimal.Decimal) (*GoalEstimate, error)
	GetMonthlySavings(userID string) ([]SavingsEntry, error)
}

// CurrencyServicer defines the contract for exchange rates and conversion.
type CurrencyServicer interface {
	AddRate(from, to string, rate decimal.Decimal) error
	GetRate(from, to string) (decimal.Decimal, error)
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error)
	ListCurrencies() ([]string, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Record(userID, ipAddress string, event AuditEvent)
	GetUserAuditLog(userID string, page pagination.PageRequest, filter AuditFilter) (*pagination.PageResponse[models.AuditLog], error)
}
