package models

import (
	"time"

	"budgetwise/internal/reporting"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes incomes from expenses.
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

// Transaction is a single income or expense. Amount is always non-negative.
type Transaction struct {
	Base
	UserID     string          `gorm:"not null;index" json:"user_id"`
	Kind       TransactionKind `gorm:"not null;index" json:"kind"`
	Name       string          `json:"name,omitempty"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency   string          `gorm:"type:varchar(3);not null" json:"currency"`
	Date       time.Time       `gorm:"type:date;not null;index" json:"date"`
	CategoryID *string         `gorm:"index" json:"category_id,omitempty"`
	Note       string          `json:"note"`
}

// ToReporting converts the row into the engine's value type.
func (t *Transaction) ToReporting() reporting.Transaction {
	out := reporting.Transaction{
		ID:       t.ID,
		Kind:     reporting.Kind(t.Kind),
		Name:     t.Name,
		Amount:   t.Amount,
		Currency: t.Currency,
		Date:     t.Date,
		Note:     t.Note,
	}
	if t.CategoryID != nil {
		out.CategoryID = *t.CategoryID
	}
	return out
}
