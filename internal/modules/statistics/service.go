// Package statistics derives risk/return summary statistics from equity
// curves.
package statistics

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/hindsight/internal/series"
	"github.com/aristath/hindsight/pkg/formulas"
)

// Statistics summarizes an equity curve. Volatility assumes the curve is
// monthly sampled (annualized with √12); Sharpe is the plain CAGR over
// volatility ratio with no risk-free subtraction.
type Statistics struct {
	TotalReturnPct     float64 `json:"total_return_pct"`
	CAGRPct            float64 `json:"cagr_pct"`
	VolatilityPct      float64 `json:"volatility_pct"`
	Sharpe             float64 `json:"sharpe"`
	MaxDrawdownPct     float64 `json:"max_drawdown_pct"`
	CurrentDrawdownPct float64 `json:"current_drawdown_pct"`
	Years              float64 `json:"years"`
}

// Calculator computes statistics over equity curves.
type Calculator struct {
	log zerolog.Logger
}

// NewCalculator creates a new statistics calculator.
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{
		log: log.With().Str("service", "statistics").Logger(),
	}
}

// Compute derives statistics from an equity curve, or nil for fewer than 2
// points.
func (c *Calculator) Compute(curve series.EquityCurve) *Statistics {
	if len(curve) < 2 {
		return nil
	}

	c.warnOnNonMonthlyCadence(curve)

	first := curve[0]
	last := curve[len(curve)-1]
	values := curve.Values()

	totalReturn := 0.0
	if first.Value != 0 {
		totalReturn = (last.Value - first.Value) / first.Value * 100
	}

	years := formulas.YearsBetween(first.Date, last.Date)
	cagr := formulas.CAGRPercent(first.Value, last.Value, first.Date, last.Date)

	returns := formulas.Returns(values)
	volatility := formulas.AnnualizedVolatility(returns) * 100

	sharpe := 0.0
	if volatility > 0 {
		sharpe = cagr / volatility
	}

	maxDD := curve[0].DrawdownPct
	for _, p := range curve {
		if p.DrawdownPct < maxDD {
			maxDD = p.DrawdownPct
		}
	}

	return &Statistics{
		TotalReturnPct:     totalReturn,
		CAGRPct:            cagr,
		VolatilityPct:      volatility,
		Sharpe:             sharpe,
		MaxDrawdownPct:     maxDD,
		CurrentDrawdownPct: last.DrawdownPct,
		Years:              years,
	}
}

// warnOnNonMonthlyCadence logs when the curve's sampling looks denser than
// monthly, since the √12 annualization would then understate volatility.
// The caller owns the cadence of the underlying table; this only flags it.
func (c *Calculator) warnOnNonMonthlyCadence(curve series.EquityCurve) {
	if len(curve) < 3 {
		return
	}

	gaps := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		gaps = append(gaps, curve[i].Date.Sub(curve[i-1].Date).Hours()/24)
	}
	sort.Float64s(gaps)

	median := gaps[len(gaps)/2]
	if median < 20 {
		c.log.Debug().
			Float64("median_gap_days", median).
			Time("start", curve[0].Date).
			Msg("Curve cadence looks denser than monthly, √12 annualization may understate volatility")
	}
}
