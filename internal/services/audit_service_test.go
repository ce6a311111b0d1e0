package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"budgetwise/internal/models"
	"budgetwise/internal/pagination"
	"budgetwise/internal/reporting"
	"budgetwise/internal/testutil"
)

func TestAuditEvents(t *testing.T) {
	t.Run("budget_carries_period_and_category", func(t *testing.T) {
		event := BudgetSetEvent(&models.Budget{
			Base:         models.Base{ID: "b-1"},
			Period:       "2025-4",
			CategoryName: "Food",
			Amount:       decimal.RequireFromString("300"),
		})

		if event.Action != ActionSetBudget || event.ResourceID != "b-1" {
			t.Errorf("unexpected event %+v", event)
		}
		if event.Period != "2025-4" || event.Category != "Food" {
			t.Errorf("expected Food in 2025-4, got %q in %q", event.Category, event.Period)
		}
		if !event.Amount.Valid {
			t.Fatal("expected an amount")
		}
		testutil.AssertDecimal(t, "300", event.Amount.Decimal)
	})

	t.Run("transaction_is_filed_under_its_month", func(t *testing.T) {
		categoryID := "cat-1"
		event := TransactionEvent(ActionCreateTransaction, &models.Transaction{
			Base:       models.Base{ID: "tx-1"},
			Kind:       models.TransactionKindExpense,
			Amount:     decimal.RequireFromString("12.5"),
			Currency:   "PLN",
			Date:       testutil.MustDate(t, "2025-04-30"),
			CategoryID: &categoryID,
		})

		if event.Period != "2025-4" {
			t.Errorf("expected period 2025-4, got %q", event.Period)
		}
		if event.Changes["category_id"] != "cat-1" || event.Changes["date"] != "2025-04-30" {
			t.Errorf("unexpected changes %v", event.Changes)
		}
	})

	t.Run("deleted_budgets_name_the_period", func(t *testing.T) {
		event := BudgetDeletedEvent(reporting.Period{Year: 2025, Month: 12})
		if event.Period != "2025-12" || event.ResourceID != "2025-12" {
			t.Errorf("unexpected event %+v", event)
		}
		if event.Amount.Valid {
			t.Error("expected no amount")
		}
	})
}

func TestAuditService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	userID := testutil.NewUserID()

	svc.Record(userID, "10.0.0.1", BudgetSetEvent(&models.Budget{
		Base: models.Base{ID: "b-1"}, Period: "2025-4", CategoryName: "Food", Amount: decimal.RequireFromString("300"),
	}))
	svc.Record(userID, "10.0.0.1", BudgetSetEvent(&models.Budget{
		Base: models.Base{ID: "b-2"}, Period: "2025-5", CategoryName: "Food", Amount: decimal.RequireFromString("320"),
	}))
	svc.Record(userID, "10.0.0.1", CategoryEvent(ActionRenameCategory, "cat-2", "Fun"))
	svc.Record(testutil.NewUserID(), "10.0.0.2", BudgetDeletedEvent(reporting.Period{Year: 2025, Month: 4}))

	t.Run("lists_only_the_users_entries", func(t *testing.T) {
		result, err := svc.GetUserAuditLog(userID, pagination.PageRequest{}, AuditFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 3 {
			t.Errorf("expected 3 entries, got %d", result.TotalItems)
		}
		if result.Sort != "-created" {
			t.Errorf("expected default sort -created, got %q", result.Sort)
		}
	})

	t.Run("filter_by_period", func(t *testing.T) {
		period := reporting.Period{Year: 2025, Month: 4}
		result, err := svc.GetUserAuditLog(userID, pagination.PageRequest{}, AuditFilter{Period: &period})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Fatalf("expected 1 entry for 2025-4, got %d", result.TotalItems)
		}
		entry := result.Data[0]
		if entry.ResourceID != "b-1" || entry.Category != "Food" || entry.IPAddress != "10.0.0.1" {
			t.Errorf("unexpected entry %+v", entry)
		}
		if !entry.Amount.Valid {
			t.Fatal("expected the stored amount")
		}
		testutil.AssertDecimal(t, "300", entry.Amount.Decimal)
	})

	t.Run("filter_by_category_and_action", func(t *testing.T) {
		result, err := svc.GetUserAuditLog(userID, pagination.PageRequest{}, AuditFilter{Category: "Food", Action: ActionSetBudget})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 Food budget entries, got %d", result.TotalItems)
		}
	})

	t.Run("sort_by_period", func(t *testing.T) {
		result, err := svc.GetUserAuditLog(userID, pagination.PageRequest{Sort: "-period"}, AuditFilter{Action: ActionSetBudget})
		testutil.AssertNoError(t, err)
		if len(result.Data) != 2 || result.Data[0].Period != "2025-5" {
			t.Errorf("expected 2025-5 first, got %+v", result.Data)
		}
	})

	t.Run("unknown_sort_key", func(t *testing.T) {
		_, err := svc.GetUserAuditLog(userID, pagination.PageRequest{Sort: "ip_address"}, AuditFilter{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
