// Package simulation implements the portfolio rebalancing engine: it turns a
// weighted allocation plus a historical price table into a share-accurate
// equity and drawdown curve.
package simulation

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/hindsight/internal/series"
)

// Simulator replays weighted allocations against a price table.
type Simulator struct {
	log zerolog.Logger
}

// NewSimulator creates a new portfolio simulator.
func NewSimulator(log zerolog.Logger) *Simulator {
	return &Simulator{
		log: log.With().Str("service", "simulation").Logger(),
	}
}

// Simulate replays the allocation over the table's rows within the
// parameter date range and returns one equity point per in-range date.
//
// Validation failures return a typed InvalidPortfolio with a human-readable
// reason; the curve is nil in that case.
func (s *Simulator) Simulate(legs []AllocationLeg, table *series.PriceTable, params Parameters) (series.EquityCurve, *InvalidPortfolio) {
	if invalid := validate(legs, params); invalid != nil {
		return nil, invalid
	}

	rows := table.Range(params.Start, params.End)
	if len(rows) < 2 {
		return nil, &InvalidPortfolio{Reason: "fewer than 2 price rows in the selected date range"}
	}

	// Initial purchase: convert each leg's capital share into a share
	// quantity at the first in-range date. Legs without a usable price get
	// 0 shares; no retroactive fix, a later rebalance may buy them in.
	shares := make([]float64, len(legs))
	for i, leg := range legs {
		price, ok := adjustedPrice(rows[0], leg)
		if !ok {
			s.log.Debug().
				Str("ticker", leg.Ticker).
				Time("date", rows[0].Date).
				Msg("No usable price at range start, leg starts empty")
			continue
		}
		shares[i] = params.StartingCapital * leg.WeightPct / 100 / price
	}

	curve := make(series.EquityCurve, 0, len(rows))
	runningMax := params.StartingCapital
	lastRebalance := rows[0].Date
	monthsRequired := params.Rebalance.monthsRequired()

	for idx, row := range rows {
		value := 0.0
		for i, leg := range legs {
			price, ok := adjustedPrice(row, leg)
			if !ok {
				// Leg contributes 0 today; its shares persist unchanged.
				continue
			}
			value += shares[i] * price
		}

		// Rebalancing never occurs at the first data point.
		if idx > 0 && series.MonthsBetween(lastRebalance, row.Date) >= monthsRequired {
			for i, leg := range legs {
				price, ok := adjustedPrice(row, leg)
				if !ok {
					continue
				}
				shares[i] = value * leg.WeightPct / 100 / price
			}
			lastRebalance = row.Date
		}

		if value > runningMax {
			runningMax = value
		}

		drawdown := 0.0
		if runningMax > 0 {
			drawdown = (value - runningMax) / runningMax * 100
		}

		curve = append(curve, series.EquityPoint{
			Date:        row.Date,
			Value:       value,
			DrawdownPct: drawdown,
		})
	}

	return curve, nil
}

// adjustedPrice returns the FX-adjusted price of a leg on a row. A missing
// or non-positive FX rate falls back to ×1; a missing asset price means
// the leg has no usable price at all.
func adjustedPrice(row series.PriceRow, leg AllocationLeg) (float64, bool) {
	price, ok := row.Price(leg.Ticker)
	if !ok {
		return 0, false
	}

	if leg.FXTicker != "" {
		if rate, ok := row.Price(leg.FXTicker); ok {
			price *= rate
		}
	}

	return price, true
}

func validate(legs []AllocationLeg, params Parameters) *InvalidPortfolio {
	if len(legs) == 0 {
		return &InvalidPortfolio{Reason: "allocation has no legs"}
	}

	if params.StartingCapital <= 0 {
		return &InvalidPortfolio{Reason: "starting capital must be positive"}
	}

	weightSum := 0.0
	for _, leg := range legs {
		weightSum += leg.WeightPct
	}
	if math.Abs(weightSum-100) > weightTolerance {
		return &InvalidPortfolio{
			Reason: fmt.Sprintf("invalid — weights do not sum to 100%% (got %.2f%%)", weightSum),
		}
	}

	return nil
}
