package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SMASeries calculates the trailing Simple Moving Average at every index of
// the series, using go-talib. Entry i (for i ≥ length-1) is the unweighted
// mean of closes[i-length+1 .. i]; entries inside the warmup window are NaN.
//
// Returns nil when the series is shorter than the window.
func SMASeries(closes []float64, length int) []float64 {
	if length <= 0 || len(closes) < length {
		return nil
	}

	sma := talib.Sma(closes, length)
	for i := 0; i < length-1 && i < len(sma); i++ {
		sma[i] = math.NaN()
	}

	return sma
}
