package reporting

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MonthlyAggregate holds the income and expense sums of one month.
// ExpenseSum is accumulated as a negative quantity so that Net is a plain sum.
type MonthlyAggregate struct {
	Period     Period          `json:"period"`
	IncomeSum  decimal.Decimal `json:"income_sum"`
	ExpenseSum decimal.Decimal `json:"expense_sum"`
}

// Net returns the month's net savings.
func (a MonthlyAggregate) Net() decimal.Decimal {
	return a.IncomeSum.Add(a.ExpenseSum)
}

// Enrich returns a copy of txs where every expense carries its category
// display name. Unresolved ids map to UnknownCategory. A nil resolver leaves
// every expense unresolved.
func Enrich(txs []Transaction, resolve CategoryResolver) []Transaction {
	out := make([]Transaction, len(txs))
	for i, tx := range txs {
		if tx.Kind == KindExpense {
			tx.Category = UnknownCategory
			if resolve != nil {
				if name, ok := resolve(tx.CategoryID); ok {
					tx.Category = name
				}
			}
		}
		out[i] = tx
	}
	return out
}

// FilterMonth returns the transactions dated inside period, enriched with
// category names and sorted ascending by date.
func FilterMonth(txs []Transaction, resolve CategoryResolver, period Period) []Transaction {
	var inMonth []Transaction
	for _, tx := range txs {
		if period.Contains(tx.Date) {
			inMonth = append(inMonth, tx)
		}
	}
	out := Enrich(inMonth, resolve)
	SortByDate(out)
	return out
}

// SortByDate orders txs ascending by their ISO date. Transactions on the same
// day keep their relative order.
func SortByDate(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].DateString() < txs[j].DateString()
	})
}

// MonthlyTotals buckets every transaction by year and month in a single pass.
func MonthlyTotals(txs []Transaction) map[Period]MonthlyAggregate {
	totals := make(map[Period]MonthlyAggregate)
	for _, tx := range txs {
		p := tx.Period()
		agg, ok := totals[p]
		if !ok {
			agg = MonthlyAggregate{Period: p, IncomeSum: decimal.Zero, ExpenseSum: decimal.Zero}
		}
		switch tx.Kind {
		case KindIncome:
			agg.IncomeSum = agg.IncomeSum.Add(tx.Amount)
		case KindExpense:
			agg.ExpenseSum = agg.ExpenseSum.Sub(tx.Amount)
		}
		totals[p] = agg
	}
	return totals
}

// SpendByCategory sums expense amounts per (period, category name). The
// expenses must already be enriched.
func SpendByCategory(expenses []Transaction) map[Period]map[string]decimal.Decimal {
	spend := make(map[Period]map[string]decimal.Decimal)
	for _, tx := range expenses {
		if tx.Kind != KindExpense {
			continue
		}
		p := tx.Period()
		byCategory, ok := spend[p]
		if !ok {
			byCategory = make(map[string]decimal.Decimal)
			spend[p] = byCategory
		}
		byCategory[tx.Category] = byCategory[tx.Category].Add(tx.Amount)
	}
	return spend
}

// SumAmounts adds up the amounts of txs.
func SumAmounts(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}

func filterKind(txs []Transaction, kind Kind) []Transaction {
	var out []Transaction
	for _, tx := range txs {
		if tx.Kind == kind {
			out = append(out, tx)
		}
	}
	return out
}
