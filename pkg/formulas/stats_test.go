package formulas

import (
	"math"
	"testing"
	"time"
)

func TestReturns(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected []float64
	}{
		{
			name:     "empty",
			values:   []float64{},
			expected: []float64{},
		},
		{
			name:     "single value",
			values:   []float64{100},
			expected: []float64{},
		},
		{
			name:     "simple growth",
			values:   []float64{100, 110, 99},
			expected: []float64{0.10, -0.10},
		},
		{
			name:     "zero base yields zero return",
			values:   []float64{0, 100},
			expected: []float64{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Returns(tt.values)
			if len(result) != len(tt.expected) {
				t.Fatalf("Returns() length = %d, want %d", len(result), len(tt.expected))
			}
			for i := range result {
				if math.Abs(result[i]-tt.expected[i]) > 1e-9 {
					t.Errorf("Returns()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestPopVariance(t *testing.T) {
	tests := []struct {
		name      string
		data      []float64
		expected  float64
		tolerance float64
	}{
		{
			name:      "empty",
			data:      []float64{},
			expected:  0,
			tolerance: 0,
		},
		{
			name:      "single value",
			data:      []float64{5},
			expected:  0,
			tolerance: 0,
		},
		{
			name:      "constant series",
			data:      []float64{2, 2, 2, 2},
			expected:  0,
			tolerance: 1e-12,
		},
		{
			name:      "known population variance",
			data:      []float64{1, 2, 3, 4},
			expected:  1.25, // mean 2.5, squared deviations 2.25+0.25+0.25+2.25 over 4
			tolerance: 1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PopVariance(tt.data)
			if math.Abs(result-tt.expected) > tt.tolerance {
				t.Errorf("PopVariance() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestAnnualizedVolatility(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.03, 0.005}
	expected := PopStdDev(returns) * math.Sqrt(12)

	result := AnnualizedVolatility(returns)
	if math.Abs(result-expected) > 1e-12 {
		t.Errorf("AnnualizedVolatility() = %v, want %v", result, expected)
	}

	if AnnualizedVolatility(nil) != 0 {
		t.Error("AnnualizedVolatility(nil) should be 0")
	}
}

func TestCAGRPercent(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name      string
		start     float64
		end       float64
		startDate time.Time
		endDate   time.Time
		expected  float64
		tolerance float64
	}{
		{
			name:      "doubling in one 365.25-day year",
			start:     100,
			end:       200,
			startDate: day(2020, 1, 1),
			endDate:   day(2020, 1, 1).Add(time.Duration(365.25 * 24 * float64(time.Hour))),
			expected:  100,
			tolerance: 0.01,
		},
		{
			name:      "same-day range guards to zero",
			start:     100,
			end:       150,
			startDate: day(2020, 6, 1),
			endDate:   day(2020, 6, 1),
			expected:  0,
			tolerance: 0,
		},
		{
			name:      "non-positive start guards to zero",
			start:     0,
			end:       150,
			startDate: day(2019, 1, 1),
			endDate:   day(2020, 1, 1),
			expected:  0,
			tolerance: 0,
		},
		{
			name:      "flat over two years",
			start:     100,
			end:       100,
			startDate: day(2018, 1, 1),
			endDate:   day(2020, 1, 1),
			expected:  0,
			tolerance: 1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CAGRPercent(tt.start, tt.end, tt.startDate, tt.endDate)
			if math.Abs(result-tt.expected) > tt.tolerance {
				t.Errorf("CAGRPercent() = %v, want %v (±%v)", result, tt.expected, tt.tolerance)
			}
		})
	}
}
