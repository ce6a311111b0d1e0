package models

import "github.com/shopspring/decimal"

// Budget is the amount planned for one category in one period. Period uses the
// unpadded "YYYY-M" key and CategoryName is the category's display name at the
// time the budget was set.
type Budget struct {
	Base
	UserID       string          `gorm:"not null;uniqueIndex:idx_budget_user_period_category" json:"user_id"`
	Period       string          `gorm:"not null;uniqueIndex:idx_budget_user_period_category" json:"period"`
	CategoryName string          `gorm:"not null;uniqueIndex:idx_budget_user_period_category" json:"category_name"`
	Amount       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
}
