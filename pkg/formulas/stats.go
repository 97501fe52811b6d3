package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// PopVariance calculates the population variance of a slice of float64 values.
// gonum's stat.Variance is the unbiased (n-1) estimator, so scale it back.
func PopVariance(data []float64) float64 {
	n := len(data)
	if n < 2 {
		return 0
	}
	return stat.Variance(data, nil) * float64(n-1) / float64(n)
}

// PopStdDev calculates the population standard deviation
func PopStdDev(data []float64) float64 {
	return math.Sqrt(PopVariance(data))
}

// Returns converts a value series to point-to-point simple returns.
// Returns[i] = (v[i+1] - v[i]) / v[i]; zero-base steps yield 0.
func Returns(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			returns[i-1] = (values[i] - values[i-1]) / values[i-1]
		}
	}

	return returns
}

// AnnualizedVolatility calculates annualized volatility from monthly returns
// Formula: population std dev of monthly returns × sqrt(12)
func AnnualizedVolatility(monthlyReturns []float64) float64 {
	if len(monthlyReturns) == 0 {
		return 0
	}
	return PopStdDev(monthlyReturns) * math.Sqrt(12)
}
