// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"budgetwise/internal/reporting"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/currency"
)

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn adds the custom validations to v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("iso4217", validateISO4217)
	_ = v.RegisterValidation("transaction_kind", validateTransactionKind)
	_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
	_ = v.RegisterValidation("iso_date", validateISODate)
}

// IsCurrencyCode reports whether code is an upper-case ISO 4217 code.
func IsCurrencyCode(code string) bool {
	if !currencyCodeRegex.MatchString(code) {
		return false
	}
	_, err := currency.ParseISO(code)
	return err == nil
}

func validateISO4217(fl validator.FieldLevel) bool {
	return IsCurrencyCode(fl.Field().String())
}

func validateTransactionKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	_, err := reporting.ParsePeriod(fl.Field().String())
	return err == nil
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := reporting.ParseDate(fl.Field().String())
	return err == nil
}
