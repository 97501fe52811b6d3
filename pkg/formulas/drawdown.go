package formulas

// DrawdownSeries calculates the signed percent decline from the running peak
// for every value in the series.
//
// Drawdown Formula:
//
//	Drawdown = (Value - Peak) / Peak × 100
//
// The peak is seeded with initialPeak so that points before any growth are
// already measured against the starting level. A non-positive peak means
// "no drawdown yet" and produces 0, never NaN.
//
// Every element is ≤ 0 and equals 0 exactly at a new running maximum.
func DrawdownSeries(values []float64, initialPeak float64) []float64 {
	drawdowns := make([]float64, len(values))
	peak := initialPeak

	for i, value := range values {
		if value > peak {
			peak = value
		}

		if peak > 0 {
			drawdowns[i] = (value - peak) / peak * 100
		}
	}

	return drawdowns
}

// MaxDrawdown returns the deepest (most negative) drawdown in a series, or 0
// for an empty series.
func MaxDrawdown(drawdowns []float64) float64 {
	maxDD := 0.0
	for _, dd := range drawdowns {
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
