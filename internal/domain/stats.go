package domain

import (
	"math"
	"sort"
)

// Summary holds standard statistics over a grid's valid (non-missing) cells.
type Summary struct {
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"std_dev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	ValidCount int     `json:"valid_count"`
}

// Summarize computes summary statistics over g's valid cells.
// ok is false when the grid has no valid cells; the zero Summary is
// returned in that case.
func Summarize(g Grid) (Summary, bool) {
	values := ValidValues(g)
	if len(values) == 0 {
		return Summary{}, false
	}

	s := Summary{
		Mean:       Mean(values),
		Median:     median(values),
		Min:        values[0],
		Max:        values[0],
		ValidCount: len(values),
	}
	for _, v := range values {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}

	// Population standard deviation, matching the source dashboard.
	var sq float64
	for _, v := range values {
		d := v - s.Mean
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(len(values)))

	return s, true
}

// ValidValues returns every non-missing cell value in row-major order.
func ValidValues(g Grid) []float64 {
	values := make([]float64, 0, len(g.Lats)*len(g.Lons))
	for _, row := range g.Values {
		for _, v := range row {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
	}
	return values
}

// CategoryCounts tallies g's valid cells by severity category.
func CategoryCounts(g Grid) [NumCategories]int {
	var counts [NumCategories]int
	for _, row := range g.Values {
		for _, v := range row {
			if !math.IsNaN(v) {
				counts[Classify(v)]++
			}
		}
	}
	return counts
}

// CategoryPercentages returns the share of valid cells in each category,
// in percent. All zeros when the grid has no valid cells.
func CategoryPercentages(g Grid) [NumCategories]float64 {
	var pct [NumCategories]float64
	counts := CategoryCounts(g)
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return pct
	}
	for i, c := range counts {
		pct[i] = float64(c) / float64(total) * 100
	}
	return pct
}

// Mean returns the arithmetic mean of values, or NaN for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
