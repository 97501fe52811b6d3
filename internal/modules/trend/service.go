// Package trend implements the single-asset moving-average strategy
// simulator: a 10-month SMA signal traded against a buy-and-hold benchmark,
// with transaction costs and cash-earning out-of-market periods.
package trend

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/hindsight/internal/modules/statistics"
	"github.com/aristath/hindsight/internal/series"
	"github.com/aristath/hindsight/pkg/formulas"
)

// Simulator runs the SMA trend-following strategy.
type Simulator struct {
	stats *statistics.Calculator
	log   zerolog.Logger
}

// NewSimulator creates a new trend-following simulator.
func NewSimulator(stats *statistics.Calculator, log zerolog.Logger) *Simulator {
	return &Simulator{
		stats: stats,
		log:   log.With().Str("service", "trend").Logger(),
	}
}

// Simulate reduces the ticker to monthly closes within the date range and
// replays the SMA-10 signal from the 10th monthly observation onward.
// Returns nil when fewer than 10 monthly observations are available.
//
// annualRiskFreeRate and commissionRate are decimals (0.02 = 2%).
func (s *Simulator) Simulate(ticker string, table *series.PriceTable, start, end time.Time, annualRiskFreeRate, commissionRate float64) *Result {
	closes := series.MonthlyCloses(table.Range(start, end), ticker)
	if len(closes) < smaWindow {
		s.log.Debug().
			Str("ticker", ticker).
			Int("months", len(closes)).
			Msg("Not enough monthly observations for trend analysis")
		return nil
	}

	prices := make([]float64, len(closes))
	for i, c := range closes {
		prices[i] = c.Close
	}
	sma := formulas.SMASeries(prices, smaWindow)

	monthlyRiskFree := math.Pow(1+annualRiskFreeRate, 1.0/12) - 1

	// Both curves start at 1.0 at the first SMA-eligible month. The initial
	// event fixes the starting state; no return or commission applies yet.
	first := smaWindow - 1
	state := signalFor(prices[first], sma[first])

	benchmark := 1.0
	strategy := 1.0
	benchmarkCurve := series.EquityCurve{{Date: closes[first].Date, Value: benchmark}}
	strategyCurve := series.EquityCurve{{Date: closes[first].Date, Value: strategy}}
	signals := []SignalChangeEvent{{
		Date:           closes[first].Date,
		NewState:       state,
		Price:          prices[first],
		BenchmarkValue: benchmark,
	}}

	benchmarkPeak := benchmark
	strategyPeak := strategy

	for i := first + 1; i < len(closes); i++ {
		monthReturn := prices[i]/prices[i-1] - 1

		benchmark *= 1 + monthReturn
		if state == Invested {
			strategy *= 1 + monthReturn
		} else {
			strategy *= 1 + monthlyRiskFree
		}

		// Commission applies before the event is recorded: it models the
		// cost of the trade that caused the flip.
		if next := signalFor(prices[i], sma[i]); next != state {
			strategy *= 1 - commissionRate
			signals = append(signals, SignalChangeEvent{
				Date:           closes[i].Date,
				NewState:       next,
				Price:          prices[i],
				BenchmarkValue: benchmark,
			})
			state = next
		}

		benchmarkCurve = append(benchmarkCurve, point(closes[i].Date, benchmark, &benchmarkPeak))
		strategyCurve = append(strategyCurve, point(closes[i].Date, strategy, &strategyPeak))
	}

	result := &Result{
		Ticker:         ticker,
		Benchmark:      benchmarkCurve,
		Strategy:       strategyCurve,
		Signals:        signals,
		BenchmarkStats: s.curveStats(benchmarkCurve, annualRiskFreeRate),
		StrategyStats:  s.curveStats(strategyCurve, annualRiskFreeRate),
		SuccessRate:    successRate(signals),
	}

	return result
}

// curveStats derives statistics for one curve, replacing the plain
// return/risk Sharpe with the risk-free-adjusted variant used for trend
// comparisons.
func (s *Simulator) curveStats(curve series.EquityCurve, annualRiskFreeRate float64) *statistics.Statistics {
	stats := s.stats.Compute(curve)
	if stats == nil {
		return nil
	}

	stats.Sharpe = 0
	if stats.VolatilityPct > 0 {
		stats.Sharpe = (stats.CAGRPct - annualRiskFreeRate*100) / stats.VolatilityPct
	}
	return stats
}

// successRate walks the signal log: every OUT_OF_MARKET event followed by
// an INVESTED event is one round trip, successful when the re-entry price
// is strictly below the exit price. Nil when there are no round trips.
func successRate(signals []SignalChangeEvent) *float64 {
	roundTrips := 0
	successes := 0
	exitPrice := 0.0
	inExit := false

	for _, ev := range signals {
		switch ev.NewState {
		case OutOfMarket:
			exitPrice = ev.Price
			inExit = true
		case Invested:
			if inExit {
				roundTrips++
				if ev.Price < exitPrice {
					successes++
				}
				inExit = false
			}
		}
	}

	if roundTrips == 0 {
		return nil
	}

	rate := float64(successes) / float64(roundTrips)
	return &rate
}

func signalFor(price, sma float64) SignalState {
	if price > sma {
		return Invested
	}
	return OutOfMarket
}

func point(date time.Time, value float64, peak *float64) series.EquityPoint {
	if value > *peak {
		*peak = value
	}
	drawdown := 0.0
	if *peak > 0 {
		drawdown = (value - *peak) / *peak * 100
	}
	return series.EquityPoint{Date: date, Value: value, DrawdownPct: drawdown}
}
