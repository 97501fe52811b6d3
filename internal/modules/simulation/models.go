package simulation

import "time"

// RebalanceFrequency controls how often held shares are reset to target
// weights during a replay.
type RebalanceFrequency string

const (
	RebalanceMonthly   RebalanceFrequency = "monthly"
	RebalanceQuarterly RebalanceFrequency = "quarterly"
	RebalanceYearly    RebalanceFrequency = "yearly"
)

// monthsRequired returns the whole-month difference that triggers a
// rebalance for this frequency. Unknown values fall back to monthly.
func (f RebalanceFrequency) monthsRequired() int {
	switch f {
	case RebalanceQuarterly:
		return 3
	case RebalanceYearly:
		return 12
	default:
		return 1
	}
}

// AllocationLeg is one weighted position of a portfolio. FXTicker, when
// set, names a price-table column whose rate is multiplied into the leg's
// price before valuation.
type AllocationLeg struct {
	Ticker    string  `json:"ticker"`
	WeightPct float64 `json:"weight_pct"`
	FXTicker  string  `json:"fx_ticker,omitempty"`
}

// Parameters are the replay controls for one portfolio simulation.
type Parameters struct {
	StartingCapital float64            `json:"starting_capital"`
	Rebalance       RebalanceFrequency `json:"rebalance"`
	Start           time.Time          `json:"start"`
	End             time.Time          `json:"end"`
}

// InvalidPortfolio is the typed "cannot simulate" result. It is a value the
// caller decides to surface or skip, not an error crossing the engine
// boundary.
type InvalidPortfolio struct {
	Reason string `json:"reason"`
}

func (p *InvalidPortfolio) String() string {
	return p.Reason
}

// weightTolerance is how far the weight sum may drift from 100%.
const weightTolerance = 0.01
