package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func expense(t *testing.T, id, day, categoryID, amount string) Transaction {
	t.Helper()
	return Transaction{ID: id, Kind: KindExpense, Amount: dec(amount), Currency: "PLN", Date: date(t, day), CategoryID: categoryID}
}

func income(t *testing.T, id, day, amount string) Transaction {
	t.Helper()
	return Transaction{ID: id, Kind: KindIncome, Amount: dec(amount), Currency: "PLN", Date: date(t, day)}
}

func mustPeriod(t *testing.T, s string) Period {
	t.Helper()
	p, err := ParsePeriod(s)
	if err != nil {
		t.Fatalf("bad test period %q: %v", s, err)
	}
	return p
}

func assertDecimal(t *testing.T, name string, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: expected %s, got %s", name, want, got.String())
	}
}

var categories = CategoryNames{"c-food": "Food", "c-fun": "Entertainment"}

func TestFilterMonth(t *testing.T) {
	txs := []Transaction{
		expense(t, "3", "2025-04-20", "c-food", "10"),
		expense(t, "1", "2025-04-02", "c-gone", "5"),
		income(t, "2", "2025-04-10", "1000"),
		expense(t, "4", "2025-05-01", "c-food", "7"),
		expense(t, "5", "2024-04-15", "c-food", "9"),
	}

	got := FilterMonth(txs, categories.Resolve, Period{Year: 2025, Month: 4})

	if len(got) != 3 {
		t.Fatalf("expected 3 transactions in April 2025, got %d", len(got))
	}
	wantOrder := []string{"1", "2", "3"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d: expected id %s, got %s", i, id, got[i].ID)
		}
	}
	if got[0].Category != UnknownCategory {
		t.Errorf("expected unresolved category to be %q, got %q", UnknownCategory, got[0].Category)
	}
	if got[1].Category != "" {
		t.Errorf("expected income to carry no category, got %q", got[1].Category)
	}
	if got[2].Category != "Food" {
		t.Errorf("expected Food, got %q", got[2].Category)
	}
	if txs[0].Category != "" {
		t.Error("input snapshot must not be mutated")
	}
}

func TestMonthlyTotals(t *testing.T) {
	txs := []Transaction{
		income(t, "1", "2025-01-05", "3000"),
		expense(t, "2", "2025-01-09", "c-food", "120.50"),
		expense(t, "3", "2025-01-21", "c-fun", "79.50"),
		expense(t, "4", "2025-02-01", "c-food", "40"),
	}

	totals := MonthlyTotals(txs)

	jan := totals[Period{Year: 2025, Month: 1}]
	assertDecimal(t, "jan income", "3000", jan.IncomeSum)
	assertDecimal(t, "jan expense", "-200", jan.ExpenseSum)
	assertDecimal(t, "jan net", "2800", jan.Net())

	feb := totals[Period{Year: 2025, Month: 2}]
	assertDecimal(t, "feb income", "0", feb.IncomeSum)
	assertDecimal(t, "feb expense", "-40", feb.ExpenseSum)
}

func TestBuildReport(t *testing.T) {
	t.Run("scenario A over budget", func(t *testing.T) {
		april := Period{Year: 2025, Month: 4}
		spending := Enrich([]Transaction{
			expense(t, "1", "2025-04-03", "c-food", "300"),
			expense(t, "2", "2025-04-18", "c-food", "250"),
		}, categories.Resolve)

		report, ok := BuildReport(april, CategoryBudgets{"Food": dec("500")}, spending)
		if !ok {
			t.Fatal("expected a report")
		}

		food := report.Categories["Food"]
		assertDecimal(t, "spent", "550", food.Spent)
		if !food.OverBudget {
			t.Error("expected Food to be over budget")
		}
		assertDecimal(t, "total spending", "550", report.TotalSpending)
		assertDecimal(t, "total budget", "500", report.TotalBudget)
		if len(food.Transactions) != 2 {
			t.Errorf("expected 2 Food transactions, got %d", len(food.Transactions))
		}
	})

	t.Run("unbudgeted spending counts toward total only", func(t *testing.T) {
		april := Period{Year: 2025, Month: 4}
		spending := Enrich([]Transaction{
			expense(t, "1", "2025-04-03", "c-food", "100"),
			expense(t, "2", "2025-04-04", "c-fun", "60"),
		}, categories.Resolve)

		report, _ := BuildReport(april, CategoryBudgets{"Food": dec("500")}, spending)

		assertDecimal(t, "total spending", "160", report.TotalSpending)
		if _, ok := report.Categories["Entertainment"]; ok {
			t.Error("unbudgeted category must not get a row")
		}
		if report.Categories["Food"].OverBudget {
			t.Error("Food should be within budget")
		}
	})

	t.Run("spending equal to budget is not over", func(t *testing.T) {
		spending := Enrich([]Transaction{expense(t, "1", "2025-04-03", "c-food", "500")}, categories.Resolve)
		report, _ := BuildReport(Period{Year: 2025, Month: 4}, CategoryBudgets{"Food": dec("500")}, spending)
		if report.Categories["Food"].OverBudget {
			t.Error("expected not over budget at exactly the limit")
		}
	})

	t.Run("no budget entries means no report", func(t *testing.T) {
		report, ok := BuildReport(Period{Year: 2025, Month: 4}, CategoryBudgets{}, nil)
		if ok || report != nil {
			t.Fatal("expected absent report for a period without budgets")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		snapshot := &Snapshot{
			Transactions: []Transaction{
				expense(t, "1", "2025-03-03", "c-food", "400"),
				expense(t, "2", "2025-04-03", "c-food", "300"),
			},
			Budgets: BudgetBook{
				{Year: 2025, Month: 3}: {"Food": dec("500")},
				{Year: 2025, Month: 4}: {"Food": dec("500")},
			},
			Categories: categories,
		}
		first, _ := Compile(snapshot, Period{Year: 2025, Month: 4})
		second, _ := Compile(snapshot, Period{Year: 2025, Month: 4})

		if !first.TotalSpending.Equal(second.TotalSpending) || !first.TotalBudget.Equal(second.TotalBudget) {
			t.Error("totals differ between identical calls")
		}
		if len(first.SuggestedSavings) != len(second.SuggestedSavings) {
			t.Error("suggestions differ between identical calls")
		}
		for name, s := range first.SuggestedSavings {
			other := second.SuggestedSavings[name]
			if other.Type != s.Type || !other.Amount.Equal(s.Amount) {
				t.Errorf("suggestion for %s differs: %+v vs %+v", name, s, other)
			}
		}
	})
}

func TestSuggestSavings(t *testing.T) {
	t.Run("scenario B no prior periods", func(t *testing.T) {
		snapshot := &Snapshot{
			Transactions: []Transaction{expense(t, "1", "2025-04-03", "c-food", "900")},
			Budgets:      BudgetBook{{Year: 2025, Month: 4}: {"Food": dec("500")}},
			Categories:   categories,
		}
		report, ok := Compile(snapshot, Period{Year: 2025, Month: 4})
		if !ok {
			t.Fatal("expected a report")
		}
		if len(report.SuggestedSavings) != 0 {
			t.Errorf("expected no suggestions, got %v", report.SuggestedSavings)
		}
	})

	t.Run("scenario C reduce", func(t *testing.T) {
		snapshot := &Snapshot{
			Transactions: []Transaction{
				expense(t, "1", "2025-02-10", "c-food", "350"),
				expense(t, "2", "2025-03-10", "c-food", "450"),
				expense(t, "3", "2025-04-10", "c-food", "300"),
			},
			Budgets: BudgetBook{
				{Year: 2025, Month: 2}: {"Food": dec("500")},
				{Year: 2025, Month: 3}: {"Food": dec("500")},
				{Year: 2025, Month: 4}: {"Food": dec("500")},
			},
			Categories: categories,
		}
		report, _ := Compile(snapshot, Period{Year: 2025, Month: 4})

		got, ok := report.SuggestedSavings["Food"]
		if !ok {
			t.Fatal("expected a Food suggestion")
		}
		if got.Type != SuggestionReduce {
			t.Errorf("expected reduce, got %s", got.Type)
		}
		assertDecimal(t, "amount", "100", got.Amount)
	})

	t.Run("cut when over budget and above average", func(t *testing.T) {
		snapshot := &Snapshot{
			Transactions: []Transaction{
				expense(t, "1", "2025-03-10", "c-food", "400"),
				expense(t, "2", "2025-04-10", "c-food", "650"),
			},
			Budgets: BudgetBook{
				{Year: 2025, Month: 3}: {"Food": dec("500")},
				{Year: 2025, Month: 4}: {"Food": dec("500")},
			},
			Categories: categories,
		}
		report, _ := Compile(snapshot, Period{Year: 2025, Month: 4})

		got := report.SuggestedSavings["Food"]
		if got.Type != SuggestionCut {
			t.Fatalf("expected cut, got %q", got.Type)
		}
		assertDecimal(t, "amount", "150", got.Amount)
	})

	t.Run("reduce wins over cut", func(t *testing.T) {
		// Average 800, budget 500, current 600: under average and over budget.
		snapshot := &Snapshot{
			Transactions: []Transaction{
				expense(t, "1", "2025-03-10", "c-food", "800"),
				expense(t, "2", "2025-04-10", "c-food", "600"),
			},
			Budgets: BudgetBook{
				{Year: 2025, Month: 3}: {"Food": dec("900")},
				{Year: 2025, Month: 4}: {"Food": dec("500")},
			},
			Categories: categories,
		}
		report, _ := Compile(snapshot, Period{Year: 2025, Month: 4})

		got := report.SuggestedSavings["Food"]
		if got.Type != SuggestionReduce {
			t.Fatalf("expected reduce, got %q", got.Type)
		}
		assertDecimal(t, "amount", "200", got.Amount)
	})

	t.Run("zero spend periods are excluded from the average", func(t *testing.T) {
		snapshot := &Snapshot{
			Transactions: []Transaction{
				expense(t, "1", "2025-02-10", "c-food", "400"),
				expense(t, "2", "2025-04-10", "c-food", "100"),
			},
			Budgets: BudgetBook{
				{Year: 2025, Month: 2}: {"Food": dec("500")},
				{Year: 2025, Month: 3}: {"Food": dec("500")},
				{Year: 2025, Month: 4}: {"Food": dec("500")},
			},
			Categories: categories,
		}
		report, _ := Compile(snapshot, Period{Year: 2025, Month: 4})

		assertDecimal(t, "reduce amount", "300", report.SuggestedSavings["Food"].Amount)
	})

	t.Run("category with no prior spending gets nothing", func(t *testing.T) {
		snapshot := &Snapshot{
			Transactions: []Transaction{expense(t, "1", "2025-04-10", "c-food", "900")},
			Budgets: BudgetBook{
				{Year: 2025, Month: 3}: {"Food": dec("500")},
				{Year: 2025, Month: 4}: {"Food": dec("500")},
			},
			Categories: categories,
		}
		report, _ := Compile(snapshot, Period{Year: 2025, Month: 4})

		if _, ok := report.SuggestedSavings["Food"]; ok {
			t.Error("expected no suggestion without a positive historical average")
		}
	})

	t.Run("prior periods compare chronologically", func(t *testing.T) {
		// September is before October even though "2025-9" > "2025-10" as strings.
		snapshot := &Snapshot{
			Transactions: []Transaction{
				expense(t, "1", "2025-09-10", "c-food", "400"),
				expense(t, "2", "2025-10-10", "c-food", "300"),
			},
			Budgets: BudgetBook{
				mustPeriod(t, "2025-9"):  {"Food": dec("500")},
				mustPeriod(t, "2025-10"): {"Food": dec("500")},
			},
			Categories: categories,
		}
		report, _ := Compile(snapshot, mustPeriod(t, "2025-10"))

		got, ok := report.SuggestedSavings["Food"]
		if !ok || got.Type != SuggestionReduce {
			t.Fatalf("expected reduce suggestion from September history, got %+v", got)
		}
		assertDecimal(t, "amount", "100", got.Amount)
	})
}

func TestForecaster(t *testing.T) {
	now := time.Date(2030, time.June, 15, 0, 0, 0, 0, time.UTC)

	// Net savings per month: Jan 100, Feb -50, Mar 200.
	scenarioD := []Transaction{
		income(t, "1", "2025-01-05", "1000"),
		expense(t, "2", "2025-01-20", "c-food", "900"),
		income(t, "3", "2025-02-05", "1000"),
		expense(t, "4", "2025-02-20", "c-food", "1050"),
		income(t, "5", "2025-03-05", "1200"),
		expense(t, "6", "2025-03-20", "c-fun", "1000"),
	}

	t.Run("scenario D", func(t *testing.T) {
		f := NewForecaster(scenarioD, DefaultTrailingWindow, now)

		assertDecimal(t, "trailing average", "83.33", f.TrailingAverage().Round(2))
		assertDecimal(t, "current total", "250", f.CurrentTotalSavings())

		points := f.Forecast(2)
		if len(points) != 2 {
			t.Fatalf("expected 2 points, got %d", len(points))
		}
		if points[0].Year != 2025 || points[0].Month != 4 {
			t.Errorf("expected first point 2025-4, got %d-%d", points[0].Year, points[0].Month)
		}
		if points[1].Year != 2025 || points[1].Month != 5 {
			t.Errorf("expected second point 2025-5, got %d-%d", points[1].Year, points[1].Month)
		}
		assertDecimal(t, "first point", "333.33", points[0].ForecastSavings.Round(2))
		assertDecimal(t, "second point", "416.67", points[1].ForecastSavings.Round(2))
	})

	t.Run("monthly savings sum to current total", func(t *testing.T) {
		f := NewForecaster(scenarioD, DefaultTrailingWindow, now)
		sum := decimal.Zero
		for _, v := range MonthlySavings(scenarioD) {
			sum = sum.Add(v)
		}
		if !sum.Equal(f.CurrentTotalSavings()) {
			t.Errorf("expected %s, got %s", sum, f.CurrentTotalSavings())
		}
	})

	t.Run("window keeps the six most recent months", func(t *testing.T) {
		var txs []Transaction
		// 2024-11 .. 2025-06 with net savings 10, 20, ..., 80.
		p := Period{Year: 2024, Month: 11}
		for i := 1; i <= 8; i++ {
			day := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
			txs = append(txs, Transaction{Kind: KindIncome, Amount: decimal.NewFromInt(int64(i * 10)), Date: day})
			p = p.Next()
		}
		f := NewForecaster(txs, DefaultTrailingWindow, now)

		// (30+40+50+60+70+80)/6 = 55
		assertDecimal(t, "trailing average", "55", f.TrailingAverage())
		assertDecimal(t, "current total", "360", f.CurrentTotalSavings())
	})

	t.Run("forecast wraps december", func(t *testing.T) {
		txs := []Transaction{income(t, "1", "2024-11-03", "100")}
		points := NewForecaster(txs, DefaultTrailingWindow, now).Forecast(4)

		want := [][2]int{{2024, 12}, {2025, 1}, {2025, 2}, {2025, 3}}
		for i, w := range want {
			if points[i].Year != w[0] || points[i].Month != w[1] {
				t.Errorf("point %d: expected %d-%d, got %d-%d", i, w[0], w[1], points[i].Year, points[i].Month)
			}
		}
		for i := 1; i < len(points); i++ {
			prev := Period{Year: points[i-1].Year, Month: points[i-1].Month}
			cur := Period{Year: points[i].Year, Month: points[i].Month}
			if !prev.Before(cur) {
				t.Errorf("points %d and %d are not strictly increasing", i-1, i)
			}
		}
	})

	t.Run("no data starts from the current month", func(t *testing.T) {
		f := NewForecaster(nil, DefaultTrailingWindow, now)
		points := f.Forecast(3)

		if len(points) != 3 {
			t.Fatalf("expected 3 points, got %d", len(points))
		}
		if points[0].Year != 2030 || points[0].Month != 7 {
			t.Errorf("expected 2030-7, got %d-%d", points[0].Year, points[0].Month)
		}
		for _, p := range points {
			if !p.ForecastSavings.IsZero() {
				t.Errorf("expected zero savings without data, got %s", p.ForecastSavings)
			}
		}
	})

	t.Run("non positive horizon is empty", func(t *testing.T) {
		f := NewForecaster(scenarioD, DefaultTrailingWindow, now)
		if got := f.Forecast(0); len(got) != 0 {
			t.Errorf("expected empty forecast, got %d points", len(got))
		}
		if got := f.Forecast(-2); len(got) != 0 {
			t.Errorf("expected empty forecast, got %d points", len(got))
		}
	})
}

func TestMonthsToGoal(t *testing.T) {
	now := time.Date(2030, time.June, 15, 0, 0, 0, 0, time.UTC)

	t.Run("ceil of remaining over average", func(t *testing.T) {
		// Months net 100, -50, 200: total 250, average 250/3.
		txs := []Transaction{
			income(t, "1", "2025-01-05", "100"),
			expense(t, "2", "2025-02-05", "c-food", "50"),
			income(t, "3", "2025-03-05", "200"),
		}
		f := NewForecaster(txs, DefaultTrailingWindow, now)

		months, ok := f.MonthsToGoal(dec("1000"))
		if !ok {
			t.Fatal("expected a reachable goal")
		}
		// (1000-250) / 83.33 = 9.0000... -> exactly 9 because 750*3/250 = 9.
		if months != 9 {
			t.Errorf("expected 9 months, got %d", months)
		}

		months, _ = f.MonthsToGoal(dec("1000.01"))
		if months != 10 {
			t.Errorf("expected 10 months, got %d", months)
		}
	})

	t.Run("goal already met", func(t *testing.T) {
		f := NewForecaster([]Transaction{income(t, "1", "2025-01-05", "500")}, DefaultTrailingWindow, now)
		for _, goal := range []string{"500", "100", "0"} {
			months, ok := f.MonthsToGoal(dec(goal))
			if !ok || months != 0 {
				t.Errorf("goal %s: expected (0, true), got (%d, %v)", goal, months, ok)
			}
		}
	})

	t.Run("scenario E negative average is unreachable", func(t *testing.T) {
		// Single month with net -10 but the goal is below the total as well.
		f := NewForecaster([]Transaction{expense(t, "1", "2025-01-05", "c-food", "10")}, DefaultTrailingWindow, now)
		assertDecimal(t, "trailing average", "-10", f.TrailingAverage())

		for _, goal := range []string{"1000", "-100"} {
			if _, ok := f.MonthsToGoal(dec(goal)); ok {
				t.Errorf("goal %s: expected unreachable", goal)
			}
		}
	})

	t.Run("zero average is unreachable", func(t *testing.T) {
		f := NewForecaster(nil, DefaultTrailingWindow, now)
		if _, ok := f.MonthsToGoal(dec("1")); ok {
			t.Error("expected unreachable without data")
		}
	})
}
