package models

// DefaultCategoryNames are seeded for a user the first time their categories are read.
var DefaultCategoryNames = []string{
	"Transport", "Health", "Education", "Clothing", "Food",
	"Shopping", "Entertainment", "Bills", "Other", "Shared",
}

// Category is a user-defined expense category. Budgets refer to it by Name.
type Category struct {
	Base
	UserID string `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
}
