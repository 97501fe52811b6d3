package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/hindsight/internal/modules/returns"
	"github.com/aristath/hindsight/internal/series"
	"github.com/aristath/hindsight/pkg/logger"
)

var testLog = logger.New(logger.Config{Level: "error"})

func newTestService() *Service {
	return NewService(returns.NewAggregator(testLog), testLog)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rankingTable(t *testing.T) *series.PriceTable {
	t.Helper()
	rows := []series.PriceRow{
		{Date: day(2019, 12, 31), Prices: map[string]float64{
			"SPY": 100, "EWJ": 50, "AGG": 80, "JPYEUR": 2.0,
		}},
		{Date: day(2020, 12, 31), Prices: map[string]float64{
			"SPY": 120, "EWJ": 55, "AGG": 76, "JPYEUR": 1.8,
		}},
	}
	table, err := series.NewPriceTable(rows)
	require.NoError(t, err)
	return table
}

func TestAnnualRankingOrder(t *testing.T) {
	svc := newTestService()
	assets := []Asset{
		{Ticker: "AGG"},
		{Ticker: "SPY"},
		{Ticker: "EWJ", FXTicker: "JPYEUR"},
		{Ticker: "MISSING"},
	}

	ranked := svc.Annual(rankingTable(t), assets, 2020)
	require.Len(t, ranked, 3) // MISSING omitted

	// descending by local return: SPY +20%, EWJ +10%, AGG -5%
	assert.Equal(t, "SPY", ranked[0].Ticker)
	assert.Equal(t, "EWJ", ranked[1].Ticker)
	assert.Equal(t, "AGG", ranked[2].Ticker)

	assert.InDelta(t, 20, ranked[0].LocalPct, 1e-9)
	assert.InDelta(t, 20, ranked[0].FXAdjustedPct, 1e-9) // no FX ticker

	// EWJ: (1+0.10)×(1−0.10)−1 = −1%
	assert.InDelta(t, 10, ranked[1].LocalPct, 1e-9)
	assert.InDelta(t, -1, ranked[1].FXAdjustedPct, 1e-9)
}

func TestAnnualRankingYearWithoutData(t *testing.T) {
	svc := newTestService()
	ranked := svc.Annual(rankingTable(t), []Asset{{Ticker: "SPY"}}, 2019)
	assert.Empty(t, ranked) // 2019 has no preceding year in the table
}

func TestTrailingRanking(t *testing.T) {
	svc := newTestService()
	assets := []Asset{
		{Ticker: "SPY"},
		{Ticker: "EWJ", FXTicker: "JPYEUR"},
	}

	ranked := svc.Trailing(rankingTable(t), assets, 1)
	require.Len(t, ranked, 2)

	assert.Equal(t, "SPY", ranked[0].Ticker)
	assert.InDelta(t, 20, ranked[0].LocalPct, 1e-9)
	assert.InDelta(t, -1, ranked[1].FXAdjustedPct, 1e-9)
}
