package services

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"budgetwise/internal/currency"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/models"
	"budgetwise/internal/validator"
)

// rateStore is the database-backed currency.RateSource.
type rateStore struct {
	db *gorm.DB
}

// NewRateStore creates a currency.RateSource over the exchange_rates table.
func NewRateStore(db *gorm.DB) currency.RateSource {
	return &rateStore{db: db}
}

func (s *rateStore) LookupRate(ctx context.Context, from, to string) (decimal.Decimal, bool, error) {
	var row models.ExchangeRate
	err := s.db.WithContext(ctx).Where("from_currency = ? AND to_currency = ?", from, to).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return row.Rate, true, nil
}

func (s *rateStore) StoreRates(ctx context.Context, rates []currency.Rate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range rates {
			row := &models.ExchangeRate{FromCurrency: r.From, ToCurrency: r.To, Rate: r.Value}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "from_currency"}, {Name: "to_currency"}},
				DoUpdates: clause.AssignmentColumns([]string{"rate", "updated_at"}),
			}).Create(row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *rateStore) Currencies(ctx context.Context) ([]string, error) {
	var from, to []string
	if err := s.db.WithContext(ctx).Model(&models.ExchangeRate{}).Distinct().Pluck("from_currency", &from).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.ExchangeRate{}).Distinct().Pluck("to_currency", &to).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(from)+len(to))
	codes := []string{}
	for _, code := range append(from, to...) {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

// currencyService exposes exchange rates and conversion to handlers.
type currencyService struct {
	converter *currency.Converter
}

// NewCurrencyService creates a new CurrencyServicer that reads rates from db on every call.
func NewCurrencyService(db *gorm.DB) CurrencyServicer {
	return &currencyService{converter: currency.NewConverter(NewRateStore(db))}
}

func checkCurrencyPair(from, to string) error {
	if !validator.IsCurrencyCode(from) || !validator.IsCurrencyCode(to) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "currencies must be ISO 4217 codes")
	}
	return nil
}

func currencyError(err error) error {
	if errors.Is(err, currency.ErrRateNotFound) {
		return apperrors.Wrap(apperrors.ErrRateNotFound, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// AddRate stores the rate and its inverse.
func (s *currencyService) AddRate(from, to string, rate decimal.Decimal) error {
	if err := checkCurrencyPair(from, to); err != nil {
		return err
	}
	if from == to {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "currencies must differ")
	}
	if !rate.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "rate must be positive")
	}

	if err := s.converter.AddRate(context.Background(), from, to, rate); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetRate returns the from→to rate.
func (s *currencyService) GetRate(from, to string) (decimal.Decimal, error) {
	if err := checkCurrencyPair(from, to); err != nil {
		return decimal.Zero, err
	}
	rate, err := s.converter.Rate(context.Background(), from, to)
	if err != nil {
		return decimal.Zero, currencyError(err)
	}
	return rate, nil
}

// Convert converts amount from one currency to another.
func (s *currencyService) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if err := checkCurrencyPair(from, to); err != nil {
		return decimal.Zero, err
	}
	converted, err := s.converter.Convert(context.Background(), amount, from, to)
	if err != nil {
		return decimal.Zero, currencyError(err)
	}
	return converted, nil
}

// ListCurrencies returns every currency code with a stored rate.
func (s *currencyService) ListCurrencies() ([]string, error) {
	codes, err := s.converter.Currencies(context.Background())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return codes, nil
}
