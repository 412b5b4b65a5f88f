package domain

import "math"

// SampleNeighborhood returns the non-missing values in a window x window
// block of cells centered on the grid cell nearest to (lat, lon).
//
// The block is clamped to the grid bounds on each axis independently, so a
// sample near an edge is smaller than requested rather than shifted inward.
// Order of the returned values is unspecified beyond being deterministic.
// An empty grid or non-positive window yields an empty result; sampling
// never fails.
func SampleNeighborhood(g Grid, lat, lon float64, window int) []float64 {
	if g.Empty() || window <= 0 {
		return nil
	}

	latIdx := nearestIndex(g.Lats, lat)
	lonIdx := nearestIndex(g.Lons, lon)

	half := window / 2
	latStart := max(0, latIdx-half)
	latEnd := min(len(g.Lats)-1, latIdx+half)
	lonStart := max(0, lonIdx-half)
	lonEnd := min(len(g.Lons)-1, lonIdx+half)

	values := make([]float64, 0, window*window)
	for i := latStart; i <= latEnd && i < len(g.Values); i++ {
		row := g.Values[i]
		for j := lonStart; j <= lonEnd && j < len(row); j++ {
			if !math.IsNaN(row[j]) {
				values = append(values, row[j])
			}
		}
	}
	return values
}

// nearestIndex returns the index of the axis value closest to target.
// Ties resolve to the lowest index.
func nearestIndex(axis []float64, target float64) int {
	best := 0
	bestDiff := math.Abs(axis[0] - target)
	for i := 1; i < len(axis); i++ {
		if d := math.Abs(axis[i] - target); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}
