package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"budgetwise/internal/models"
	"budgetwise/internal/reporting"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a user id that no other fixture has used.
func NewUserID() string {
	return fmt.Sprintf("user-%d", nextID())
}

// MustDate parses a YYYY-MM-DD date or fails the test.
func MustDate(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := reporting.ParseDate(s)
	if err != nil {
		t.Fatalf("invalid fixture date %q: %v", s, err)
	}
	return d
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, userID, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryNamed creates a category with the given name.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, userID, name string) *models.Category {
	t.Helper()

	category := &models.Category{UserID: userID, Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestIncome creates an income on the given date.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID, date, amount string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:   userID,
		Kind:     models.TransactionKindIncome,
		Name:     fmt.Sprintf("Income %d", nextID()),
		Amount:   decimal.RequireFromString(amount),
		Currency: "PLN",
		Date:     MustDate(t, date),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return tx
}

// CreateTestExpense creates an expense in categoryID on the given date.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID, date, amount string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		Kind:       models.TransactionKindExpense,
		Amount:     decimal.RequireFromString(amount),
		Currency:   "PLN",
		Date:       MustDate(t, date),
		CategoryID: &categoryID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return tx
}

// CreateTestBudget stores a budget for categoryName in period.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, period, categoryName, amount string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:       userID,
		Period:       period,
		CategoryName: categoryName,
		Amount:       decimal.RequireFromString(amount),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestRate stores a single directed exchange rate.
func CreateTestRate(t *testing.T, db *gorm.DB, from, to, rate string) *models.ExchangeRate {
	t.Helper()

	r := &models.ExchangeRate{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         decimal.RequireFromString(rate),
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to create test rate: %v", err)
	}
	return r
}
