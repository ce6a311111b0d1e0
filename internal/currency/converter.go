// Package currency converts amounts between currencies using stored
// exchange rates.
package currency

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrRateNotFound is returned when no rate is stored for a currency pair.
var ErrRateNotFound = errors.New("exchange rate not found")

// InversePlaces is the precision of the automatically stored reverse rate.
const InversePlaces = 4

// AmountPlaces is the precision of converted amounts.
const AmountPlaces = 2

// RateSource persists directed exchange rates.
type RateSource interface {
	// LookupRate returns how many units of to one unit of from buys.
	// ok is false when the pair is unknown.
	LookupRate(ctx context.Context, from, to string) (rate decimal.Decimal, ok bool, err error)
	// StoreRates upserts every given pair atomically.
	StoreRates(ctx context.Context, rates []Rate) error
	// Currencies lists every code that appears in a stored pair.
	Currencies(ctx context.Context) ([]string, error)
}

// Rate is one directed exchange rate.
type Rate struct {
	From  string
	To    string
	Value decimal.Decimal
}

type pair struct{ from, to string }

// Converter reads rates from a RateSource on every lookup, so every
// Converter sharing a source sees the latest stored rate. It is safe for
// concurrent use when the source is.
type Converter struct {
	source RateSource
}

// NewConverter creates a Converter over source.
func NewConverter(source RateSource) *Converter {
	return &Converter{source: source}
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// InverseRate returns 1/rate rounded to InversePlaces.
func InverseRate(rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).DivRound(rate, InversePlaces)
}

// Rate returns the rate from one currency to another. The rate between a
// currency and itself is always 1.
func (c *Converter) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	p := pair{from: normalize(from), to: normalize(to)}
	if p.from == p.to {
		return decimal.NewFromInt(1), nil
	}

	rate, ok, err := c.source.LookupRate(ctx, p.from, p.to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("looking up %s/%s: %w", p.from, p.to, err)
	}
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s to %s", ErrRateNotFound, p.from, p.to)
	}
	return rate, nil
}

// Convert converts amount and rounds the result to AmountPlaces. Amounts in
// the same currency are returned unchanged.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if normalize(from) == normalize(to) {
		return amount, nil
	}

	rate, err := c.Rate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate).Round(AmountPlaces), nil
}

// AddRate stores rate for from→to together with its rounded inverse for to→from.
func (c *Converter) AddRate(ctx context.Context, from, to string, rate decimal.Decimal) error {
	from, to = normalize(from), normalize(to)
	if from == to {
		return fmt.Errorf("cannot set a rate from %s to itself", from)
	}
	if !rate.IsPositive() {
		return fmt.Errorf("rate must be positive, got %s", rate)
	}

	if err := c.source.StoreRates(ctx, []Rate{
		{From: from, To: to, Value: rate},
		{From: to, To: from, Value: InverseRate(rate)},
	}); err != nil {
		return fmt.Errorf("storing %s/%s: %w", from, to, err)
	}
	return nil
}

// Currencies returns the currencies that have at least one stored rate.
func (c *Converter) Currencies(ctx context.Context) ([]string, error) {
	return c.source.Currencies(ctx)
}
