package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTrailingWindow is how many of the most recent months feed the trailing average.
const DefaultTrailingWindow = 6

// ForecastPoint is the projected cumulative savings at the end of a month.
type ForecastPoint struct {
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	ForecastSavings decimal.Decimal `json:"forecast_savings"`
}

// MonthlySavings returns the net savings (income minus expenses) of every
// month present in txs.
func MonthlySavings(txs []Transaction) map[Period]decimal.Decimal {
	totals := MonthlyTotals(txs)
	savings := make(map[Period]decimal.Decimal, len(totals))
	for p, agg := range totals {
		savings[p] = agg.Net()
	}
	return savings
}

// Forecaster projects savings from one snapshot of transactions. It is
// computed once in NewForecaster and never changes afterwards.
type Forecaster struct {
	savings  map[Period]decimal.Decimal
	months   []Period // most recent first
	total    decimal.Decimal
	trailSum decimal.Decimal
	trailN   int64
	start    Period
}

// NewForecaster prepares a forecast over txs. window is the trailing average
// size (DefaultTrailingWindow when not positive). now decides the starting
// month when txs is empty.
func NewForecaster(txs []Transaction, window int, now time.Time) *Forecaster {
	if window <= 0 {
		window = DefaultTrailingWindow
	}

	f := &Forecaster{
		savings:  MonthlySavings(txs),
		total:    decimal.Zero,
		trailSum: decimal.Zero,
		start:    PeriodOf(now),
	}

	for p, net := range f.savings {
		f.months = append(f.months, p)
		f.total = f.total.Add(net)
	}
	sort.Slice(f.months, func(i, j int) bool { return f.months[j].Before(f.months[i]) })

	for i := 0; i < len(f.months) && i < window; i++ {
		f.trailSum = f.trailSum.Add(f.savings[f.months[i]])
		f.trailN++
	}
	if len(f.months) > 0 {
		f.start = f.months[0]
	}
	return f
}

// CurrentTotalSavings is the sum of every month's net savings.
func (f *Forecaster) CurrentTotalSavings() decimal.Decimal {
	return f.total
}

// TrailingAverage is the mean net savings of the most recent months, or zero
// when there is no data.
func (f *Forecaster) TrailingAverage() decimal.Decimal {
	if f.trailN == 0 {
		return decimal.Zero
	}
	return f.trailSum.Div(decimal.NewFromInt(f.trailN))
}

// Forecast returns exactly monthsAhead points, one per month after the latest month with data,
// each adding the trailing average to the previous cumulative total.
func (f *Forecaster) Forecast(monthsAhead int) []ForecastPoint {
	if monthsAhead <= 0 {
		return []ForecastPoint{}
	}

	average := f.TrailingAverage()
	points := make([]ForecastPoint, 0, monthsAhead)
	running := f.total
	p := f.start
	for i := 0; i < monthsAhead; i++ {
		p = p.Next()
		running = running.Add(average)
		points = append(points, ForecastPoint{Year: p.Year, Month: p.Month, ForecastSavings: running})
	}
	return points
}

// MonthsToGoal returns how many months of trailing-average savings are needed
// to reach goal. ok is false when the trailing average is not positive, in
// which case the goal is unreachable. A goal already met takes zero months.
func (f *Forecaster) MonthsToGoal(goal decimal.Decimal) (months int64, ok bool) {
	if f.trailN == 0 || !f.trailSum.IsPositive() {
		return 0, false
	}

	remaining := goal.Sub(f.total)
	if !remaining.IsPositive() {
		return 0, true
	}

	// remaining / (trailSum / trailN) without rounding the average first.
	q, r := remaining.Mul(decimal.NewFromInt(f.trailN)).QuoRem(f.trailSum, 0)
	months = q.IntPart()
	if r.IsPositive() {
		months++
	}
	return months, true
}
