package domain

// AxisRange returns the inclusive index range [start, end] of the axis
// positions whose coordinate falls within [lo, hi]. The axis may be ordered
// ascending or descending; the scan selects by value, so the same geographic
// bound picks the same set of cells either way. An empty selection is
// reported as start > end.
//
// Callers must supply lo <= hi; behavior for inverted bounds is undefined.
func AxisRange(axis []float64, lo, hi float64) (start, end int) {
	start, end = 0, -1
	if len(axis) == 0 {
		return start, end
	}

	for i, v := range axis {
		if v < lo || v > hi {
			continue
		}
		if end < start {
			start = i
		}
		end = i
	}
	if end < start {
		return 0, -1
	}
	return start, end
}

// SliceGrid returns the sub-grid of g covered by region. The result shares
// backing storage with g. A region that covers no cells yields an empty grid.
func SliceGrid(g Grid, r Region) Grid {
	latStart, latEnd := AxisRange(g.Lats, r.LatMin, r.LatMax)
	lonStart, lonEnd := AxisRange(g.Lons, r.LonMin, r.LonMax)
	if latEnd < latStart || lonEnd < lonStart {
		return Grid{}
	}

	rows := g.Values[latStart : latEnd+1]
	values := make([][]float64, len(rows))
	for i, row := range rows {
		values[i] = row[lonStart : lonEnd+1]
	}

	return Grid{
		Lats:   g.Lats[latStart : latEnd+1],
		Lons:   g.Lons[lonStart : lonEnd+1],
		Values: values,
	}
}
