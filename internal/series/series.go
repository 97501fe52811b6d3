// Package series holds the shared time-series data model: the historical
// price table consumed by every simulator and the equity curves they produce.
package series

import (
	"fmt"
	"time"
)

// PriceRow is one calendar date with a ticker → price mapping.
// A missing key or a non-positive value means "no data that day".
type PriceRow struct {
	Date   time.Time
	Prices map[string]float64
}

// Price returns the price for a ticker and whether a valid (positive)
// price exists on this row.
func (r PriceRow) Price(ticker string) (float64, bool) {
	p, ok := r.Prices[ticker]
	if !ok || p <= 0 {
		return 0, false
	}
	return p, true
}

// PriceTable is an immutable, date-ordered sequence of price rows. It is
// built once per load by the ingestion side and shared read-only between
// concurrent simulations.
type PriceTable struct {
	rows []PriceRow
}

// NewPriceTable builds a table from rows, enforcing strict date ordering
// with no duplicate dates.
func NewPriceTable(rows []PriceRow) (*PriceTable, error) {
	for i := 1; i < len(rows); i++ {
		if !rows[i-1].Date.Before(rows[i].Date) {
			return nil, fmt.Errorf("price rows out of order at %s", rows[i].Date.Format("2006-01-02"))
		}
	}
	return &PriceTable{rows: rows}, nil
}

// Len returns the number of rows in the table.
func (t *PriceTable) Len() int {
	return len(t.rows)
}

// Rows returns all rows in date order.
func (t *PriceTable) Rows() []PriceRow {
	return t.rows
}

// Range returns the rows with start ≤ date ≤ end, in date order.
func (t *PriceTable) Range(start, end time.Time) []PriceRow {
	var out []PriceRow
	for _, row := range t.rows {
		if row.Date.Before(start) || row.Date.After(end) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// FirstDate returns the earliest date in the table, or the zero time for an
// empty table.
func (t *PriceTable) FirstDate() time.Time {
	if len(t.rows) == 0 {
		return time.Time{}
	}
	return t.rows[0].Date
}

// LastDate returns the latest date in the table, or the zero time for an
// empty table.
func (t *PriceTable) LastDate() time.Time {
	if len(t.rows) == 0 {
		return time.Time{}
	}
	return t.rows[len(t.rows)-1].Date
}

// MonthsBetween returns the whole-calendar-month difference between two
// dates: (y2-y1)*12 + (m2-m1). Days within the month are ignored; this is
// the discrete trigger rule shared by rebalancing and withdrawals.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// EquityPoint is one dated point of a simulated equity curve. DrawdownPct
// is the signed percent decline from the running maximum and is always ≤ 0.
type EquityPoint struct {
	Date        time.Time `json:"date"`
	Value       float64   `json:"value"`
	DrawdownPct float64   `json:"drawdown_pct"`
}

// EquityCurve is a date-ordered sequence of equity points.
type EquityCurve []EquityPoint

// Values extracts the value series from the curve.
func (c EquityCurve) Values() []float64 {
	values := make([]float64, len(c))
	for i, p := range c {
		values[i] = p.Value
	}
	return values
}
