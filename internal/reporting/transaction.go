package reporting

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date format used for transaction dates.
const DateLayout = "2006-01-02"

// UnknownCategory is the display name of an expense whose category no longer resolves.
const UnknownCategory = "Unknown"

// Kind distinguishes incomes from expenses.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Transaction is an immutable snapshot of a single income or expense.
// Amount is never negative; the sign is applied only when net savings are computed.
type Transaction struct {
	ID         string
	Kind       Kind
	Name       string
	Amount     decimal.Decimal
	Currency   string
	Date       time.Time
	CategoryID string
	// Category is the resolved display name, filled in by Enrich.
	Category string
	Note     string
}

// DateString returns the ISO form of the transaction date.
func (t Transaction) DateString() string {
	return t.Date.Format(DateLayout)
}

// Period returns the budget period the transaction belongs to.
func (t Transaction) Period() Period {
	return PeriodOf(t.Date)
}

// MarshalJSON renders the date as YYYY-MM-DD and omits fields that do not
// apply to the transaction's kind.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string          `json:"id"`
		Kind       Kind            `json:"kind"`
		Name       string          `json:"name,omitempty"`
		Amount     decimal.Decimal `json:"amount"`
		Currency   string          `json:"currency"`
		Date       string          `json:"date"`
		CategoryID string          `json:"category_id,omitempty"`
		Category   string          `json:"category,omitempty"`
		Note       string          `json:"note"`
	}{
		ID:         t.ID,
		Kind:       t.Kind,
		Name:       t.Name,
		Amount:     t.Amount,
		Currency:   t.Currency,
		Date:       t.DateString(),
		CategoryID: t.CategoryID,
		Category:   t.Category,
		Note:       t.Note,
	})
}

// ParseDate parses a strict YYYY-MM-DD calendar date. Out-of-range days such
// as 2025-02-30 are rejected.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// CategoryResolver maps a category id to its display name.
type CategoryResolver func(categoryID string) (string, bool)

// CategoryNames is a snapshot of a user's category id to name mapping.
type CategoryNames map[string]string

// Resolve implements CategoryResolver.
func (c CategoryNames) Resolve(categoryID string) (string, bool) {
	name, ok := c[categoryID]
	return name, ok
}

// BudgetBook holds every configured budget of a user, keyed by period and
// then by category name.
type BudgetBook map[Period]CategoryBudgets

// CategoryBudgets maps category names to budgeted amounts for one period.
type CategoryBudgets map[string]decimal.Decimal

// Total returns the sum of all category budgets.
func (b CategoryBudgets) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range b {
		total = total.Add(amount)
	}
	return total
}

// Snapshot is a consistent, read-once view of one user's records.
type Snapshot struct {
	UserID       string
	Transactions []Transaction
	Budgets      BudgetBook
	Categories   CategoryNames
}

// Expenses returns the snapshot's expenses with category names resolved.
func (s *Snapshot) Expenses() []Transaction {
	return Enrich(filterKind(s.Transactions, KindExpense), s.Categories.Resolve)
}
