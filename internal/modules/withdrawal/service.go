// Package withdrawal replays an equity curve with annual proportional
// withdrawals whose rate compounds with inflation.
package withdrawal

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/hindsight/internal/series"
)

// YearRecord exposes every intermediate number of one annual withdrawal
// event so the arithmetic can be reproduced exactly.
type YearRecord struct {
	YearIndex          int     `json:"year_index"`
	StartingValue      float64 `json:"starting_value"`
	YearReturnPct      float64 `json:"year_return_pct"`
	PreWithdrawalValue float64 `json:"pre_withdrawal_value"`
	EffectiveRatePct   float64 `json:"effective_rate_pct"`
	WithdrawalAmount   float64 `json:"withdrawal_amount"`
	EndingValue        float64 `json:"ending_value"`
}

// Overlay applies withdrawal schedules on top of computed equity curves.
type Overlay struct {
	log zerolog.Logger
}

// NewOverlay creates a new withdrawal overlay.
func NewOverlay(log zerolog.Logger) *Overlay {
	return &Overlay{
		log: log.With().Str("service", "withdrawal").Logger(),
	}
}

// Apply replays the curve's period-to-period ratios onto an overlay value
// and deducts a withdrawal every 12 whole months. The effective rate grows
// by the inflation rate each year, keeping withdrawals a constant share of
// that year's pre-withdrawal balance while tracking inflation nominally.
func (o *Overlay) Apply(curve series.EquityCurve, annualRatePct, annualInflationPct float64) series.EquityCurve {
	overlay, _ := o.walk(curve, annualRatePct, annualInflationPct)
	return overlay
}

// Detail returns one record per withdrawal year with every intermediate
// value of the computation.
func (o *Overlay) Detail(curve series.EquityCurve, annualRatePct, annualInflationPct float64) []YearRecord {
	_, records := o.walk(curve, annualRatePct, annualInflationPct)
	return records
}

func (o *Overlay) walk(curve series.EquityCurve, annualRatePct, annualInflationPct float64) (series.EquityCurve, []YearRecord) {
	if len(curve) == 0 {
		return nil, nil
	}

	value := curve[0].Value
	runningMax := value
	lastWithdrawal := curve[0].Date
	yearIndex := 0
	effectiveRate := annualRatePct

	// per-year bookkeeping for the detail records
	yearStartValue := value
	curveAtYearStart := curve[0].Value

	out := make(series.EquityCurve, 0, len(curve))
	out = append(out, series.EquityPoint{Date: curve[0].Date, Value: value})
	var records []YearRecord

	for i := 1; i < len(curve); i++ {
		// scale by the same ratio the underlying curve moved this period,
		// isolating market growth from the withdrawal effect
		if curve[i-1].Value != 0 {
			value *= curve[i].Value / curve[i-1].Value
		}

		if series.MonthsBetween(lastWithdrawal, curve[i].Date) >= 12 {
			pre := value
			withdrawal := value * effectiveRate / 100
			value -= withdrawal

			yearReturn := 0.0
			if curveAtYearStart > 0 {
				yearReturn = (curve[i].Value - curveAtYearStart) / curveAtYearStart * 100
			}

			records = append(records, YearRecord{
				YearIndex:          yearIndex,
				StartingValue:      yearStartValue,
				YearReturnPct:      yearReturn,
				PreWithdrawalValue: pre,
				EffectiveRatePct:   effectiveRate,
				WithdrawalAmount:   withdrawal,
				EndingValue:        value,
			})

			yearIndex++
			effectiveRate = annualRatePct * math.Pow(1+annualInflationPct/100, float64(yearIndex))
			lastWithdrawal = curve[i].Date
			yearStartValue = value
			curveAtYearStart = curve[i].Value
		}

		if value > runningMax {
			runningMax = value
		}
		drawdown := 0.0
		if runningMax > 0 {
			drawdown = (value - runningMax) / runningMax * 100
		}

		out = append(out, series.EquityPoint{
			Date:        curve[i].Date,
			Value:       value,
			DrawdownPct: drawdown,
		})
	}

	return out, records
}
