// Package returns converts equity curves into year × month return grids and
// computes calendar-year and trailing-period asset returns from raw prices.
package returns

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/hindsight/internal/series"
)

// YearRow holds the monthly percentage returns of one calendar year plus
// the full-year return. Nil entries mean no trading data for that month.
type YearRow struct {
	Year        int          `json:"year"`
	MonthsPct   [12]*float64 `json:"months_pct"`
	FullYearPct *float64     `json:"full_year_pct"`
}

// Aggregator derives periodic return tables.
type Aggregator struct {
	log zerolog.Logger
}

// NewAggregator creates a new periodic return aggregator.
func NewAggregator(log zerolog.Logger) *Aggregator {
	return &Aggregator{
		log: log.With().Str("service", "returns").Logger(),
	}
}

// yearSlice is the per-year working state while walking a curve.
type yearSlice struct {
	closes     [12]*float64 // last curve value seen in each month
	firstValue float64      // first curve value seen in the year
}

// MonthlyGrid groups an equity curve by (year, month), keeps each month's
// last value as its close and derives monthly plus full-year returns.
//
// The very first month of the very first year has no prior close to compare
// against and is left nil. The first year's full-year return uses the
// year's first curve value as its base.
func (a *Aggregator) MonthlyGrid(curve series.EquityCurve) []YearRow {
	if len(curve) == 0 {
		return nil
	}

	years := make(map[int]*yearSlice)
	var order []int
	for _, p := range curve {
		y := p.Date.Year()
		ys, ok := years[y]
		if !ok {
			ys = &yearSlice{firstValue: p.Value}
			years[y] = ys
			order = append(order, y)
		}
		v := p.Value
		ys.closes[int(p.Date.Month())-1] = &v
	}
	sort.Ints(order)

	rows := make([]YearRow, 0, len(order))
	var prevYearClose *float64

	for _, y := range order {
		ys := years[y]
		row := YearRow{Year: y}

		for m := 0; m < 12; m++ {
			close := ys.closes[m]
			if close == nil {
				continue
			}

			start := startValueFor(ys, m, prevYearClose)
			if start != nil && *start > 0 {
				ret := (*close - *start) / *start * 100
				row.MonthsPct[m] = &ret
			}
		}

		// Full-year return against the prior year's final close, or this
		// year's first value when there is no prior year.
		yearClose := lastClose(ys)
		if yearClose != nil {
			base := prevYearClose
			if base == nil {
				base = &ys.firstValue
			}
			if *base > 0 {
				fy := (*yearClose - *base) / *base * 100
				row.FullYearPct = &fy
			}
			prevYearClose = yearClose
		}

		rows = append(rows, row)
	}

	return rows
}

// startValueFor finds the comparison base for month m: the nearest earlier
// populated month within the year, falling back to the prior year's final
// close. Nil means the month has nothing to compare against (the first
// month of the first year).
func startValueFor(ys *yearSlice, m int, prevYearClose *float64) *float64 {
	for i := m - 1; i >= 0; i-- {
		if ys.closes[i] != nil {
			return ys.closes[i]
		}
	}
	return prevYearClose
}

func lastClose(ys *yearSlice) *float64 {
	for m := 11; m >= 0; m-- {
		if ys.closes[m] != nil {
			return ys.closes[m]
		}
	}
	return nil
}

// CalendarYearReturns computes year-over-year asset returns directly from
// raw prices: the last available price of each calendar year against the
// last available price of the preceding year.
func (a *Aggregator) CalendarYearReturns(table *series.PriceTable, ticker string) map[int]float64 {
	lastPrices := make(map[int]float64)
	var order []int
	for _, row := range table.Rows() {
		price, ok := row.Price(ticker)
		if !ok {
			continue
		}
		y := row.Date.Year()
		if _, seen := lastPrices[y]; !seen {
			order = append(order, y)
		}
		lastPrices[y] = price
	}
	sort.Ints(order)

	out := make(map[int]float64)
	for i := 1; i < len(order); i++ {
		// Only consecutive calendar years compare; a data gap breaks the chain.
		if order[i] != order[i-1]+1 {
			continue
		}
		prev := lastPrices[order[i-1]]
		if prev <= 0 {
			continue
		}
		out[order[i]] = (lastPrices[order[i]] - prev) / prev * 100
	}

	return out
}

// TrailingReturn computes the asset's return from the closest available
// price on/after "years before the last date" to the last available price.
// Nil when the ticker has no usable window.
func (a *Aggregator) TrailingReturn(table *series.PriceTable, ticker string, years int) *float64 {
	rows := table.Rows()
	var lastPrice float64
	var lastDate time.Time
	found := false
	for i := len(rows) - 1; i >= 0; i-- {
		if p, ok := rows[i].Price(ticker); ok {
			lastPrice = p
			lastDate = rows[i].Date
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	cutoff := lastDate.AddDate(-years, 0, 0)
	for i := range rows {
		if rows[i].Date.Before(cutoff) {
			continue
		}
		if p, ok := rows[i].Price(ticker); ok {
			if rows[i].Date.Equal(lastDate) {
				break // only one usable price in the window
			}
			base := p
			if base <= 0 {
				return nil
			}
			ret := (lastPrice - base) / base * 100
			return &ret
		}
	}

	return nil
}
