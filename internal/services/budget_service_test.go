package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"budgetwise/internal/models"
	"budgetwise/internal/reporting"
	"budgetwise/internal/testutil"
)

var april = reporting.Period{Year: 2025, Month: 4}

func TestSetBudget(t *testing.T) {
	t.Run("stores_by_category_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		cat := testutil.CreateTestCategoryNamed(t, db, userID, "Food")

		budget, err := svc.SetBudget(userID, april, cat.ID, decimal.NewFromInt(500))
		testutil.AssertNoError(t, err)

		if budget.ID == "" {
			t.Fatal("expected budget ID")
		}
		if budget.Period != "2025-4" {
			t.Errorf("expected unpadded period key, got %s", budget.Period)
		}
		if budget.CategoryName != "Food" {
			t.Errorf("expected category name Food, got %s", budget.CategoryName)
		}
		testutil.AssertDecimal(t, "500", budget.Amount)
	})

	t.Run("second_set_replaces_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		cat := testutil.CreateTestCategoryNamed(t, db, userID, "Food")

		first, err := svc.SetBudget(userID, april, cat.ID, decimal.NewFromInt(500))
		testutil.AssertNoError(t, err)
		second, err := svc.SetBudget(userID, april, cat.ID, decimal.NewFromInt(650))
		testutil.AssertNoError(t, err)

		if first.ID != second.ID {
			t.Errorf("expected the same row to be updated, got %s and %s", first.ID, second.ID)
		}
		testutil.AssertDecimal(t, "650", second.Amount)

		var count int64
		db.Model(&models.Budget{}).Where("user_id = ?", userID).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 budget row, got %d", count)
		}
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		_, err := svc.SetBudget(testutil.NewUserID(), april, "missing", decimal.NewFromInt(1))
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("other_users_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		cat := testutil.CreateTestCategory(t, db, testutil.NewUserID())

		_, err := svc.SetBudget(testutil.NewUserID(), april, cat.ID, decimal.NewFromInt(1))
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		cat := testutil.CreateTestCategory(t, db, userID)

		_, err := svc.SetBudget(userID, april, cat.ID, decimal.NewFromInt(-1))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("zero_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		_, err := svc.SetBudget(testutil.NewUserID(), reporting.Period{}, "x", decimal.NewFromInt(1))
		testutil.AssertAppError(t, err, "INVALID_PERIOD")
	})
}

func TestGetBudgetBook(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	userID := testutil.NewUserID()
	testutil.CreateTestBudget(t, db, userID, "2025-4", "Food", "500")
	testutil.CreateTestBudget(t, db, userID, "2025-4", "Bills", "300")
	testutil.CreateTestBudget(t, db, userID, "2025-10", "Food", "450")
	testutil.CreateTestBudget(t, db, testutil.NewUserID(), "2025-4", "Food", "1")

	book, err := svc.GetBudgetBook(userID)
	testutil.AssertNoError(t, err)

	if len(book) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(book))
	}
	testutil.AssertDecimal(t, "800", book[april].Total())
	testutil.AssertDecimal(t, "450", book[reporting.Period{Year: 2025, Month: 10}]["Food"])
}

func TestGetPeriodBudgets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	userID := testutil.NewUserID()
	testutil.CreateTestBudget(t, db, userID, "2025-4", "Food", "500")
	testutil.CreateTestBudget(t, db, userID, "2025-4", "Bills", "300")
	testutil.CreateTestBudget(t, db, userID, "2025-5", "Food", "500")

	budgets, err := svc.GetPeriodBudgets(userID, april)
	testutil.AssertNoError(t, err)

	if len(budgets) != 2 {
		t.Fatalf("expected 2 budgets, got %d", len(budgets))
	}
	if budgets[0].CategoryName != "Bills" || budgets[1].CategoryName != "Food" {
		t.Errorf("expected budgets ordered by name, got %s, %s", budgets[0].CategoryName, budgets[1].CategoryName)
	}

	none, err := svc.GetPeriodBudgets(userID, reporting.Period{Year: 2030, Month: 1})
	testutil.AssertNoError(t, err)
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty list, got %v", none)
	}
}

func TestDeleteBudget(t *testing.T) {
	t.Run("removes_whole_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		userID := testutil.NewUserID()
		cat := testutil.CreateTestCategoryNamed(t, db, userID, "Food")
		testutil.CreateTestBudget(t, db, userID, "2025-4", "Food", "500")
		testutil.CreateTestBudget(t, db, userID, "2025-4", "Bills", "300")
		testutil.CreateTestBudget(t, db, userID, "2025-5", "Food", "500")

		testutil.AssertNoError(t, svc.DeleteBudget(userID, april))

		book, err := svc.GetBudgetBook(userID)
		testutil.AssertNoError(t, err)
		if _, ok := book[april]; ok {
			t.Error("expected April budgets to be gone")
		}
		if len(book) != 1 {
			t.Errorf("expected May to remain, got %d periods", len(book))
		}

		// The period can be set again after deletion.
		_, err = svc.SetBudget(userID, april, cat.ID, decimal.NewFromInt(100))
		testutil.AssertNoError(t, err)
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)

		err := svc.DeleteBudget(testutil.NewUserID(), april)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}
