// Package datetime provides date and fiscal year utility functions. Fiscal
// years start in April.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/project-report/pkg/constants"
)

const (
	// DateLayout is the format expected in config files.
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a config date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// FiscalYearStart returns the calendar year in which the fiscal year
// containing t starts.
func FiscalYearStart(t time.Time) int {
	if int(t.Month()) >= constants.FiscalYearStartMonth {
		return t.Year()
	}
	return t.Year() - 1
}

// FiscalYearLabel renders the display label of a fiscal year, e.g. "2024-2025".
func FiscalYearLabel(startYear int) string {
	return fmt.Sprintf("%d-%d", startYear, startYear+1)
}

// MonthsIntoFiscalYear returns how many whole months separate the start of
// the fiscal year beginning in fyStartYear from t. Negative values are clamped
// to 0.
func MonthsIntoFiscalYear(fyStartYear int, t time.Time) int {
	months := (t.Year()-fyStartYear)*constants.MonthsPerYear + int(t.Month()) - constants.FiscalYearStartMonth
	if months < 0 {
		return 0
	}
	return months
}

// IsSecondHalf reports whether t falls in the second half (October to March)
// of its fiscal year.
func IsSecondHalf(t time.Time) bool {
	return MonthsIntoFiscalYear(FiscalYearStart(t), t) >= constants.MonthsPerYear/2
}
