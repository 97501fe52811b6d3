package returns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hindsight/internal/series"
	"github.com/aristath/hindsight/pkg/logger"
)

var testLog = logger.New(logger.Config{Level: "error"})

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func point(y int, m time.Month, d int, v float64) series.EquityPoint {
	return series.EquityPoint{Date: day(y, m, d), Value: v}
}

func TestMonthlyGridFirstMonthIsNil(t *testing.T) {
	agg := NewAggregator(testLog)

	curve := series.EquityCurve{
		point(2020, 1, 31, 100),
		point(2020, 2, 28, 110),
		point(2020, 3, 31, 99),
	}

	rows := agg.MonthlyGrid(curve)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, 2020, row.Year)

	// first month of the first year has no prior close: nil by policy
	assert.Nil(t, row.MonthsPct[0])

	require.NotNil(t, row.MonthsPct[1])
	assert.InDelta(t, 10, *row.MonthsPct[1], 1e-9)
	require.NotNil(t, row.MonthsPct[2])
	assert.InDelta(t, -10, *row.MonthsPct[2], 1e-9)

	// first-year full-year return uses the year's first value as base
	require.NotNil(t, row.FullYearPct)
	assert.InDelta(t, -1, *row.FullYearPct, 1e-9)
}

func TestMonthlyGridIntraMonthKeepsLastClose(t *testing.T) {
	agg := NewAggregator(testLog)

	curve := series.EquityCurve{
		point(2020, 1, 10, 100),
		point(2020, 1, 31, 104), // January close
		point(2020, 2, 28, 130),
	}

	rows := agg.MonthlyGrid(curve)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].MonthsPct[1])
	assert.InDelta(t, 25, *rows[0].MonthsPct[1], 1e-9) // 130 vs 104
}

func TestMonthlyGridJanuaryUsesPriorYearClose(t *testing.T) {
	agg := NewAggregator(testLog)

	curve := series.EquityCurve{
		point(2019, 11, 29, 100),
		point(2019, 12, 31, 120),
		point(2020, 1, 31, 132),
	}

	rows := agg.MonthlyGrid(curve)
	require.Len(t, rows, 2)

	jan := rows[1].MonthsPct[0]
	require.NotNil(t, jan)
	assert.InDelta(t, 10, *jan, 1e-9) // 132 vs 120 (prior year's final close)
}

func TestMonthlyGridSkipsEmptyMonths(t *testing.T) {
	agg := NewAggregator(testLog)

	// no February data: March compares against January's close
	curve := series.EquityCurve{
		point(2020, 1, 31, 100),
		point(2020, 3, 31, 90),
	}

	rows := agg.MonthlyGrid(curve)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].MonthsPct[1])
	require.NotNil(t, rows[0].MonthsPct[2])
	assert.InDelta(t, -10, *rows[0].MonthsPct[2], 1e-9)
}

func TestFullYearMatchesCompoundedMonths(t *testing.T) {
	agg := NewAggregator(testLog)

	// a complete second year: FY must equal the product of monthly returns
	curve := series.EquityCurve{point(2019, 12, 31, 100)}
	values := []float64{102, 99, 105, 104, 110, 108, 112, 115, 111, 118, 121, 125}
	for m, v := range values {
		curve = append(curve, point(2020, time.Month(m+1), 28, v))
	}

	rows := agg.MonthlyGrid(curve)
	require.Len(t, rows, 2)
	row := rows[1]

	compounded := 1.0
	for m := 0; m < 12; m++ {
		require.NotNil(t, row.MonthsPct[m], "month %d", m)
		compounded *= 1 + *row.MonthsPct[m]/100
	}

	require.NotNil(t, row.FullYearPct)
	assert.InDelta(t, compounded, 1+*row.FullYearPct/100, 1e-9)
}

func TestCalendarYearReturns(t *testing.T) {
	agg := NewAggregator(testLog)

	rows := []series.PriceRow{
		{Date: day(2018, 6, 29), Prices: map[string]float64{"SPY": 90}},
		{Date: day(2018, 12, 31), Prices: map[string]float64{"SPY": 100}},
		{Date: day(2019, 12, 31), Prices: map[string]float64{"SPY": 110}},
		{Date: day(2020, 12, 31), Prices: map[string]float64{"SPY": 99}},
	}
	table, err := series.NewPriceTable(rows)
	require.NoError(t, err)

	got := agg.CalendarYearReturns(table, "SPY")
	require.Len(t, got, 2)
	assert.InDelta(t, 10, got[2019], 1e-9)
	assert.InDelta(t, -10, got[2020], 1e-9)
	_, has2018 := got[2018] // no preceding year
	assert.False(t, has2018)
}

func TestTrailingReturn(t *testing.T) {
	agg := NewAggregator(testLog)

	rows := []series.PriceRow{
		{Date: day(2017, 12, 29), Prices: map[string]float64{"SPY": 80}},
		{Date: day(2018, 12, 31), Prices: map[string]float64{"SPY": 100}},
		{Date: day(2019, 12, 31), Prices: map[string]float64{"SPY": 110}},
		{Date: day(2020, 12, 31), Prices: map[string]float64{"SPY": 121}},
	}
	table, err := series.NewPriceTable(rows)
	require.NoError(t, err)

	// 2 years back from 2020-12-31 → closest price on/after 2018-12-31
	got := agg.TrailingReturn(table, "SPY", 2)
	require.NotNil(t, got)
	assert.InDelta(t, 21, *got, 1e-9)

	assert.Nil(t, agg.TrailingReturn(table, "MISSING", 2))

	// zero-year window: only the last price qualifies → nil
	assert.Nil(t, agg.TrailingReturn(table, "SPY", 0))
}
