package formulas

import (
	"math"
	"time"
)

// YearsBetween returns the elapsed time between two dates in fractional
// years, using the 365.25-day convention.
func YearsBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24 / 365.25
}

// CAGRPercent calculates the Compound Annual Growth Rate between two values
// as a percentage.
//
// Formula: CAGR = (end/start)^(1/years) - 1
//
// Degenerate ranges (years ≤ 0) and non-positive start values return 0
// rather than NaN so a same-day curve never poisons downstream statistics.
func CAGRPercent(start, end float64, startDate, endDate time.Time) float64 {
	years := YearsBetween(startDate, endDate)
	if years <= 0 || start <= 0 || end <= 0 {
		return 0
	}

	return (math.Pow(end/start, 1/years) - 1) * 100
}
