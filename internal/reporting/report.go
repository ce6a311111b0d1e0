package reporting

import (
	"github.com/shopspring/decimal"
)

// CategoryReport compares one category's spending with its budget.
type CategoryReport struct {
	Budget       decimal.Decimal `json:"budget"`
	Spent        decimal.Decimal `json:"spent"`
	OverBudget   bool            `json:"over_budget"`
	Transactions []Transaction   `json:"transactions"`
}

// Report is the monthly budget report of a single period.
type Report struct {
	Period           Period                    `json:"period"`
	TotalBudget      decimal.Decimal           `json:"total_budget"`
	TotalSpending    decimal.Decimal           `json:"total_spending"`
	Categories       map[string]CategoryReport `json:"categories"`
	SuggestedSavings map[string]Suggestion     `json:"suggested_savings"`
}

// BuildReport joins a period's spending against that period's budgets.
//
// spending must hold the period's enriched expenses; other kinds are ignored.
// TotalSpending covers every expense, including categories without a budget,
// which get no per-category row. When budgets is empty no report can be built
// and ok is false.
func BuildReport(period Period, budgets CategoryBudgets, spending []Transaction) (report *Report, ok bool) {
	if len(budgets) == 0 {
		return nil, false
	}

	expenses := filterKind(spending, KindExpense)
	report = &Report{
		Period:           period,
		TotalBudget:      budgets.Total(),
		TotalSpending:    SumAmounts(expenses),
		Categories:       make(map[string]CategoryReport, len(budgets)),
		SuggestedSavings: make(map[string]Suggestion),
	}

	for category, budget := range budgets {
		matched := []Transaction{}
		for _, tx := range expenses {
			if tx.Category == category {
				matched = append(matched, tx)
			}
		}
		spent := SumAmounts(matched)
		report.Categories[category] = CategoryReport{
			Budget:       budget,
			Spent:        spent,
			OverBudget:   spent.GreaterThan(budget),
			Transactions: matched,
		}
	}

	return report, true
}

// Compile produces the full monthly report for period out of a snapshot:
// the budget comparison plus savings suggestions derived from earlier periods.
func Compile(snapshot *Snapshot, period Period) (*Report, bool) {
	budgets := snapshot.Budgets[period]
	if len(budgets) == 0 {
		return nil, false
	}

	expenses := snapshot.Expenses()
	periodSpending := FilterMonth(expenses, snapshot.Categories.Resolve, period)

	report, ok := BuildReport(period, budgets, periodSpending)
	if !ok {
		return nil, false
	}
	report.SuggestedSavings = SuggestSavings(report, snapshot.Budgets, expenses)
	return report, true
}
