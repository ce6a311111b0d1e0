// Package ratesync refreshes the stored exchange-rate table from a market
// data source.
package ratesync

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"budgetwise/internal/logger"
)

// Quoter returns the market rate of a currency pair.
type Quoter interface {
	Quote(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// RateWriter stores a directed rate together with its inverse.
type RateWriter interface {
	AddRate(from, to string, rate decimal.Decimal) error
}

// FetchError is a failed quote for one currency.
type FetchError struct {
	Currency string
	Err      error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to quote %s: %v", e.Currency, e.Err)
}

// Result is the outcome of one sync run.
type Result struct {
	Requested int
	Stored    int
	Errors    []FetchError
	Duration  time.Duration
}

// Syncer quotes each currency against a base and stores the rates.
type Syncer struct {
	quoter Quoter
	writer RateWriter
}

// NewSyncer creates a Syncer.
func NewSyncer(quoter Quoter, writer RateWriter) *Syncer {
	return &Syncer{quoter: quoter, writer: writer}
}

type quote struct {
	currency string
	rate     decimal.Decimal
}

// Run quotes every currency against base concurrently, then stores each
// successful quote as currency -> base. Quote failures are collected in the
// result; a failing write aborts the run.
func (s *Syncer) Run(ctx context.Context, base string, currencies []string) (*Result, error) {
	log := logger.Named("ratesync")
	start := time.Now()

	base = strings.ToUpper(strings.TrimSpace(base))
	if len(base) != 3 {
		return nil, fmt.Errorf("invalid base currency %q", base)
	}

	codes := uniqueCodes(base, currencies)
	result := &Result{Requested: len(codes)}
	if len(codes) == 0 {
		log.Infow("nothing to sync", "base", base)
		result.Duration = time.Since(start)
		return result, nil
	}

	var (
		mu     sync.Mutex
		quotes []quote
		wg     sync.WaitGroup
	)
	for _, code := range codes {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			rate, err := s.quoter.Quote(ctx, code, base)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, FetchError{Currency: code, Err: err})
				return
			}
			quotes = append(quotes, quote{currency: code, rate: rate})
		}(code)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(quotes, func(i, j int) bool { return quotes[i].currency < quotes[j].currency })
	sort.Slice(result.Errors, func(i, j int) bool { return result.Errors[i].Currency < result.Errors[j].Currency })

	for _, q := range quotes {
		if err := s.writer.AddRate(q.currency, base, q.rate); err != nil {
			return nil, fmt.Errorf("storing %s/%s: %w", q.currency, base, err)
		}
		log.Debugw("rate stored", "from", q.currency, "to", base, "rate", q.rate.String())
		result.Stored++
	}

	result.Duration = time.Since(start)
	return result, nil
}

// uniqueCodes upper-cases codes and drops blanks, duplicates and base.
func uniqueCodes(base string, currencies []string) []string {
	seen := map[string]bool{base: true}
	var codes []string
	for _, c := range currencies {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		codes = append(codes, c)
	}
	return codes
}
