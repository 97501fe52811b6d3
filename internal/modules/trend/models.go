package trend

import (
	"time"

	"github.com/aristath/hindsight/internal/modules/statistics"
	"github.com/aristath/hindsight/internal/series"
)

// SignalState is the monthly trading signal derived from comparing the
// price to its trailing moving average.
type SignalState string

const (
	Invested    SignalState = "INVESTED"
	OutOfMarket SignalState = "OUT_OF_MARKET"
)

// SignalChangeEvent is emitted when the signal flips relative to the
// previous month, plus once at the first eligible month to fix the
// starting state.
type SignalChangeEvent struct {
	Date           time.Time   `json:"date"`
	NewState       SignalState `json:"new_state"`
	Price          float64     `json:"price"`
	BenchmarkValue float64     `json:"benchmark_value"`
}

// Result holds the dual equity curves of a trend-following run, the signal
// log and the derived statistics. SuccessRate is nil when the log contains
// no completed round trip.
type Result struct {
	Ticker         string                 `json:"ticker"`
	Benchmark      series.EquityCurve     `json:"benchmark"`
	Strategy       series.EquityCurve     `json:"strategy"`
	Signals        []SignalChangeEvent    `json:"signals"`
	BenchmarkStats *statistics.Statistics `json:"benchmark_stats"`
	StrategyStats  *statistics.Statistics `json:"strategy_stats"`
	SuccessRate    *float64               `json:"success_rate,omitempty"`
}

// smaWindow is the trailing window of monthly closes behind the signal.
const smaWindow = 10
