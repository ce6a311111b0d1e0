package reporting

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SuggestionType says how a category's spending could be adjusted.
type SuggestionType string

const (
	// SuggestionReduce means spending is under the historical average and the
	// difference could be set aside.
	SuggestionReduce SuggestionType = "reduce"
	// SuggestionCut means spending exceeds the budget by Amount.
	SuggestionCut SuggestionType = "cut"
)

// Suggestion is a per-category savings hint.
type Suggestion struct {
	Type   SuggestionType  `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

type categoryHistory struct {
	total decimal.Decimal
	count int64
}

// PriorPeriods returns the budgeted periods strictly before current, oldest first.
func PriorPeriods(book BudgetBook, current Period) []Period {
	var prior []Period
	for p := range book {
		if p.Before(current) {
			prior = append(prior, p)
		}
	}
	sort.Slice(prior, func(i, j int) bool { return prior[i].Before(prior[j]) })
	return prior
}

// HistoricalAverages returns, per category, the mean spend over the prior
// periods in which that category was budgeted and actually had spending.
// Periods with zero spend do not count toward the denominator, and
// categories that never had spending are left out.
func HistoricalAverages(book BudgetBook, expenses []Transaction, current Period) map[string]decimal.Decimal {
	spend := SpendByCategory(expenses)

	history := make(map[string]*categoryHistory)
	for _, p := range PriorPeriods(book, current) {
		for category := range book[p] {
			h, ok := history[category]
			if !ok {
				h = &categoryHistory{total: decimal.Zero}
				history[category] = h
			}
			spent := spend[p][category]
			if spent.IsPositive() {
				h.total = h.total.Add(spent)
				h.count++
			}
		}
	}

	averages := make(map[string]decimal.Decimal, len(history))
	for category, h := range history {
		if h.count == 0 {
			continue
		}
		averages[category] = h.total.Div(decimal.NewFromInt(h.count))
	}
	return averages
}

// SuggestSavings compares each category of report with its historical
// average. Spending below the average yields a "reduce" suggestion for the
// difference; otherwise spending above the budget yields a "cut" suggestion
// for the overrun. "reduce" wins when both hold.
//
// expenses must be the user's enriched expenses across all periods.
func SuggestSavings(report *Report, book BudgetBook, expenses []Transaction) map[string]Suggestion {
	suggestions := make(map[string]Suggestion)
	if report == nil {
		return suggestions
	}

	for category, average := range HistoricalAverages(book, expenses, report.Period) {
		current, ok := report.Categories[category]
		if !ok {
			continue
		}
		switch {
		case current.Spent.LessThan(average):
			suggestions[category] = Suggestion{Type: SuggestionReduce, Amount: average.Sub(current.Spent)}
		case current.Spent.GreaterThan(current.Budget):
			suggestions[category] = Suggestion{Type: SuggestionCut, Amount: current.Spent.Sub(current.Budget)}
		}
	}
	return suggestions
}
