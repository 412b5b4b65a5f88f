package domain

import "math"

// PointCloud holds parallel coordinate and value sequences for map
// rendering. Index i of each slice describes the same grid cell.
type PointCloud struct {
	Lats   []float64 `json:"lats"`
	Lons   []float64 `json:"lons"`
	Values []float64 `json:"values"`
}

// Len returns the number of points.
func (p PointCloud) Len() int { return len(p.Values) }

// Flatten expands a grid into a point cloud, dropping missing cells.
// Iteration is row-major (latitude outer, longitude inner), matching the
// grid's stored layout, so the three slices stay aligned.
func Flatten(g Grid) PointCloud {
	n := len(g.Lats) * len(g.Lons)
	p := PointCloud{
		Lats:   make([]float64, 0, n),
		Lons:   make([]float64, 0, n),
		Values: make([]float64, 0, n),
	}

	for i, lat := range g.Lats {
		if i >= len(g.Values) {
			break
		}
		row := g.Values[i]
		for j, lon := range g.Lons {
			if j >= len(row) || math.IsNaN(row[j]) {
				continue
			}
			p.Lats = append(p.Lats, lat)
			p.Lons = append(p.Lons, lon)
			p.Values = append(p.Values, row[j])
		}
	}
	return p
}
