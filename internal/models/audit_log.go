package models

import "github.com/shopspring/decimal"

// AuditLog records mutations of a user's budgeting data. Period holds the
// "YYYY-M" budget key a budget or transaction mutation affected and Category
// the category name a budget or category mutation touched.
type AuditLog struct {
	Base
	UserID       string              `gorm:"not null;index" json:"user_id"`
	Action       string              `gorm:"not null" json:"action"`
	ResourceType string              `gorm:"not null" json:"resource_type"`
	ResourceID   string              `json:"resource_id"`
	Period       string              `gorm:"index" json:"period,omitempty"`
	Category     string              `json:"category,omitempty"`
	Amount       decimal.NullDecimal `gorm:"type:numeric(18,6)" json:"amount" swaggertype:"string"`
	IPAddress    string              `json:"ip_address"`
	Changes      string              `json:"changes,omitempty"`
}
