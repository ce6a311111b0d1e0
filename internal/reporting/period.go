// Package reporting aggregates transactions into monthly summaries, compares
// them against budgets, suggests savings and forecasts future savings.
//
// Every function in this package is pure. Callers pass an immutable snapshot
// of a single user's records and receive plain value types that can be
// serialized directly.
package reporting

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidPeriod is returned when a period string or year/month pair is malformed.
var ErrInvalidPeriod = errors.New("invalid period")

// Period identifies a budget cycle by calendar year and month.
//
// The string form is "{year}-{month}" with an unpadded month ("2025-4"). That
// exact format is used as the stored budget key, so String must never pad.
type Period struct {
	Year  int
	Month int
}

// NewPeriod validates and returns a Period.
func NewPeriod(year, month int) (Period, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: year %d month %d", ErrInvalidPeriod, year, month)
	}
	return Period{Year: year, Month: month}, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// ParsePeriod parses "2025-4" as well as the zero-padded "2025-04".
func ParsePeriod(s string) (Period, error) {
	year, month, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok || len(year) != 4 || len(month) == 0 || len(month) > 2 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	if !allDigits(year) || !allDigits(month) {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return NewPeriod(y, m)
}

// allDigits reports whether s holds only ASCII digits. strconv.Atoi alone
// would accept a leading sign.
func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String returns the unpadded storage key, e.g. "2025-4".
func (p Period) String() string {
	return strconv.Itoa(p.Year) + "-" + strconv.Itoa(p.Month)
}

// DatePrefix returns the "YYYY-MM" prefix shared by every ISO date in the period.
func (p Period) DatePrefix() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Compare orders periods chronologically. It returns -1, 0 or +1.
func (p Period) Compare(other Period) int {
	switch {
	case p.Year < other.Year:
		return -1
	case p.Year > other.Year:
		return 1
	case p.Month < other.Month:
		return -1
	case p.Month > other.Month:
		return 1
	}
	return 0
}

// Before reports whether p is chronologically earlier than other.
// "2025-9" is before "2025-10" even though it sorts after it as a string.
func (p Period) Before(other Period) bool {
	return p.Compare(other) < 0
}

// Next returns the following month, wrapping December into January.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Contains reports whether date falls in the period.
func (p Period) Contains(date time.Time) bool {
	return date.Year() == p.Year && int(date.Month()) == p.Month
}

// IsZero reports whether p is the zero Period.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// MarshalText encodes the period as its storage key. It lets Period be used
// as a JSON object key.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes either the padded or unpadded form.
func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
