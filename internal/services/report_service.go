package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/reporting"
)

// ReportOptions tunes the report service. Zero values pick the defaults.
type ReportOptions struct {
	// TrailingWindow is how many recent months feed the forecast average.
	TrailingWindow int
	// MaxForecastMonths caps the forecast horizon.
	MaxForecastMonths int
	// Now is the clock used when a user has no data yet.
	Now func() time.Time
}

const defaultMaxForecastMonths = 120

// reportService runs the reporting engine over record store snapshots.
type reportService struct {
	store RecordStore
	opts  ReportOptions
}

// NewReportService creates a new ReportServicer.
func NewReportService(store RecordStore, opts ReportOptions) ReportServicer {
	if opts.TrailingWindow <= 0 {
		opts.TrailingWindow = reporting.DefaultTrailingWindow
	}
	if opts.MaxForecastMonths <= 0 {
		opts.MaxForecastMonths = defaultMaxForecastMonths
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &reportService{store: store, opts: opts}
}

// GetMonthlyReport builds the budget report of period. It returns a nil
// report, not an error, when the period has no budgets.
func (s *reportService) GetMonthlyReport(userID string, period reporting.Period) (*reporting.Report, error) {
	if period.IsZero() {
		return nil, apperrors.ErrInvalidPeriod
	}

	snapshot, err := s.store.Snapshot(userID)
	if err != nil {
		return nil, err
	}

	report, ok := reporting.Compile(snapshot, period)
	if !ok {
		return nil, nil
	}
	return report, nil
}

func (s *reportService) forecaster(userID string) (*reporting.Forecaster, error) {
	txs, err := s.store.ListTransactions(userID)
	if err != nil {
		return nil, err
	}
	return reporting.NewForecaster(txs, s.opts.TrailingWindow, s.opts.Now()), nil
}

// GetForecast projects cumulative savings months ahead.
func (s *reportService) GetForecast(userID string, months int) (*ForecastResult, error) {
	if months < 0 || months > s.opts.MaxForecastMonths {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("months must be between 0 and %d", s.opts.MaxForecastMonths))
	}

	f, err := s.forecaster(userID)
	if err != nil {
		return nil, err
	}

	return &ForecastResult{
		CurrentTotalSavings: f.CurrentTotalSavings(),
		TrailingAverage:     f.TrailingAverage(),
		Months:              f.Forecast(months),
	}, nil
}

// GetMonthsToGoal estimates how many months of average savings reach goal.
func (s *reportService) GetMonthsToGoal(userID string, goal decimal.Decimal) (*GoalEstimate, error) {
	f, err := s.forecaster(userID)
	if err != nil {
		return nil, err
	}

	estimate := &GoalEstimate{
		Goal:                goal,
		CurrentTotalSavings: f.CurrentTotalSavings(),
		TrailingAverage:     f.TrailingAverage(),
	}
	if months, ok := f.MonthsToGoal(goal); ok {
		estimate.Reachable = true
		estimate.Months = &months
	}
	return estimate, nil
}

// GetMonthlySavings returns income, expense and net savings per month, oldest first.
func (s *reportService) GetMonthlySavings(userID string) ([]SavingsEntry, error) {
	txs, err := s.store.ListTransactions(userID)
	if err != nil {
		return nil, err
	}

	totals := reporting.MonthlyTotals(txs)
	entries := make([]SavingsEntry, 0, len(totals))
	for period, agg := range totals {
		entries = append(entries, SavingsEntry{
			Period:  period,
			Income:  agg.IncomeSum,
			Expense: agg.ExpenseSum.Neg(),
			Net:     agg.Net(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Period.Before(entries[j].Period) })
	return entries, nil
}
