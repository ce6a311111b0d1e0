package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// assertRounded compares a decimal JSON string with want at two places.
func assertRounded(t *testing.T, label, want string, got interface{}) {
	t.Helper()
	s, ok := got.(string)
	if !ok {
		t.Fatalf("%s: expected a decimal string, got %v", label, got)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("%s: %v", label, err)
	}
	if !d.Round(2).Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", label, want, s)
	}
}

func TestReportFlow_MonthlyReport(t *testing.T) {
	app := setupApp(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	base := "/api/v1/users/alice"

	groceriesID := app.createCategory(t, "alice", "Groceries")
	for _, period := range []string{"2025-2", "2025-3", "2025-4"} {
		app.setBudget(t, "alice", period, groceriesID, "500")
	}

	app.addExpense(t, "alice", groceriesID, "2025-02-10", "350")
	app.addExpense(t, "alice", groceriesID, "2025-03-12", "450")
	app.addExpense(t, "alice", groceriesID, "2025-04-03", "100")
	app.addExpense(t, "alice", groceriesID, "2025-04-20", "200")
	app.addIncome(t, "alice", "Salary", "2025-04-01", "2000")

	result := app.mustRequest(t, "GET", base+"/reports/2025/4", "", http.StatusOK)
	report := result["report"].(map[string]interface{})

	if report["period"] != "2025-4" {
		t.Errorf("expected period 2025-4, got %v", report["period"])
	}
	if report["total_budget"] != "500" {
		t.Errorf("expected total budget 500, got %v", report["total_budget"])
	}
	if report["total_spending"] != "300" {
		t.Errorf("expected total spending 300, got %v", report["total_spending"])
	}

	groceries := report["categories"].(map[string]interface{})["Groceries"].(map[string]interface{})
	if groceries["spent"] != "300" {
		t.Errorf("expected spent 300, got %v", groceries["spent"])
	}
	if groceries["over_budget"] != false {
		t.Errorf("expected under budget, got %v", groceries["over_budget"])
	}
	txs := groceries["transactions"].([]interface{})
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].(map[string]interface{})["date"] != "2025-04-03" {
		t.Errorf("expected first transaction on 2025-04-03, got %v", txs[0])
	}

	suggestion := report["suggested_savings"].(map[string]interface{})["Groceries"].(map[string]interface{})
	if suggestion["type"] != "reduce" || suggestion["amount"] != "100" {
		t.Errorf("expected reduce 100, got %v", suggestion)
	}

	// A month without budgets has no report.
	result = app.mustRequest(t, "GET", base+"/reports/2025/5", "", http.StatusOK)
	if result["report"] != nil {
		t.Errorf("expected null report, got %v", result["report"])
	}

	result = app.mustRequest(t, "GET", base+"/reports/2025/13", "", http.StatusBadRequest)
	if code := result["error"].(map[string]interface{})["code"]; code != "INVALID_PERIOD" {
		t.Errorf("expected INVALID_PERIOD, got %v", code)
	}
}

func TestReportFlow_OverBudgetAfterCategoryDelete(t *testing.T) {
	app := setupApp(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	base := "/api/v1/users/dana"

	rentID := app.createCategory(t, "dana", "Rent")
	funID := app.createCategory(t, "dana", "Fun")
	app.setBudget(t, "dana", "2025-3", funID, "50")
	app.setBudget(t, "dana", "2025-4", rentID, "1000")
	app.setBudget(t, "dana", "2025-4", funID, "50")

	app.addExpense(t, "dana", funID, "2025-03-09", "40")
	app.addExpense(t, "dana", rentID, "2025-04-01", "1000")
	app.addExpense(t, "dana", funID, "2025-04-11", "80")

	result := app.mustRequest(t, "GET", base+"/reports/2025/4", "", http.StatusOK)
	report := result["report"].(map[string]interface{})
	fun := report["categories"].(map[string]interface{})["Fun"].(map[string]interface{})
	if fun["over_budget"] != true {
		t.Errorf("expected Fun over budget, got %v", fun)
	}
	cut := report["suggested_savings"].(map[string]interface{})["Fun"].(map[string]interface{})
	if cut["type"] != "cut" || cut["amount"] != "30" {
		t.Errorf("expected cut 30, got %v", cut)
	}

	// The expense stays in the total after its category is gone.
	app.mustRequest(t, "DELETE", base+"/categories/"+funID, "", http.StatusOK)

	result = app.mustRequest(t, "GET", base+"/reports/2025/4", "", http.StatusOK)
	report = result["report"].(map[string]interface{})
	if report["total_spending"] != "1080" {
		t.Errorf("expected total spending 1080, got %v", report["total_spending"])
	}
	fun = report["categories"].(map[string]interface{})["Fun"].(map[string]interface{})
	if fun["spent"] != "0" {
		t.Errorf("expected Fun spent 0 after delete, got %v", fun["spent"])
	}
}

func TestReportFlow_ForecastGoalAndSavings(t *testing.T) {
	app := setupApp(t, time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC))
	base := "/api/v1/users/erin"

	billsID := app.createCategory(t, "erin", "Utilities")
	app.addIncome(t, "erin", "Salary", "2025-01-05", "1000")
	app.addExpense(t, "erin", billsID, "2025-01-20", "900")
	app.addIncome(t, "erin", "Salary", "2025-02-05", "1000")
	app.addExpense(t, "erin", billsID, "2025-02-20", "1050")
	app.addIncome(t, "erin", "Salary", "2025-03-05", "1200")
	app.addExpense(t, "erin", billsID, "2025-03-20", "1000")

	t.Run("forecast", func(t *testing.T) {
		result := app.mustRequest(t, "GET", base+"/reports/forecast?months=2", "", http.StatusOK)
		forecast := result["forecast"].(map[string]interface{})
		if forecast["current_total_savings"] != "250" {
			t.Errorf("expected total 250, got %v", forecast["current_total_savings"])
		}
		assertRounded(t, "trailing average", "83.33", forecast["trailing_average"])
		months := forecast["months"].([]interface{})
		if len(months) != 2 {
			t.Fatalf("expected 2 points, got %d", len(months))
		}
		first := months[0].(map[string]interface{})
		if first["year"] != float64(2025) || first["month"] != float64(4) {
			t.Errorf("expected the forecast to start at 2025-4, got %v", first)
		}
		assertRounded(t, "first point", "333.33", first["forecast_savings"])
		assertRounded(t, "second point", "416.67", months[1].(map[string]interface{})["forecast_savings"])
	})

	t.Run("forecast_horizon_out_of_range", func(t *testing.T) {
		app.mustRequest(t, "GET", base+"/reports/forecast?months=121", "", http.StatusBadRequest)
	})

	t.Run("goal", func(t *testing.T) {
		result := app.mustRequest(t, "GET", base+"/reports/goal?amount=1000", "", http.StatusOK)
		goal := result["goal"].(map[string]interface{})
		if goal["reachable"] != true || goal["months"] != float64(9) {
			t.Errorf("expected 9 months, got %v", goal)
		}
	})

	t.Run("savings", func(t *testing.T) {
		result := app.mustRequest(t, "GET", base+"/reports/savings", "", http.StatusOK)
		savings := result["savings"].([]interface{})
		if len(savings) != 3 {
			t.Fatalf("expected 3 months, got %d", len(savings))
		}
		feb := savings[1].(map[string]interface{})
		if feb["period"] != "2025-2" || feb["net"] != "-50" {
			t.Errorf("unexpected February entry %v", feb)
		}
	})
}
