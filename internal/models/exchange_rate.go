package models

import "github.com/shopspring/decimal"

// ExchangeRate stores how many units of ToCurrency one unit of FromCurrency buys.
type ExchangeRate struct {
	Base
	FromCurrency string          `gorm:"type:varchar(3);not null;uniqueIndex:idx_rate_pair" json:"from_currency"`
	ToCurrency   string          `gorm:"type:varchar(3);not null;uniqueIndex:idx_rate_pair" json:"to_currency"`
	Rate         decimal.Decimal `gorm:"type:numeric(18,6);not null" json:"rate"`
}
