package domain

import "time"

// Grid is a 2-D slice of the SPEI field, indexed by latitude rows and
// longitude columns. Missing cells hold NaN. Coordinate axes may run
// ascending or descending; functions that care detect the direction
// rather than assume it.
type Grid struct {
	Lats   []float64
	Lons   []float64
	Values [][]float64 // [lat][lon]
}

// Empty reports whether the grid covers no cells.
func (g Grid) Empty() bool {
	return len(g.Lats) == 0 || len(g.Lons) == 0 || len(g.Values) == 0
}

// Dataset is the full time x lat x lon SPEI field. It is loaded once per
// process and treated as read-only afterwards, so concurrent queries need
// no locking.
type Dataset struct {
	Times  []time.Time
	Lats   []float64
	Lons   []float64
	Values [][][]float64 // [time][lat][lon]
}

// At returns the grid for one time step. The grid shares backing storage
// with the dataset; callers must not mutate it.
func (d *Dataset) At(timeIdx int) Grid {
	return Grid{Lats: d.Lats, Lons: d.Lons, Values: d.Values[timeIdx]}
}

// Region is a rectangular geographic bound. Min <= max on both axes as
// stored, regardless of how the underlying grid orders its coordinates.
type Region struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
}

// Global covers the entire grid.
var Global = Region{LatMin: -90, LatMax: 90, LonMin: -180, LonMax: 180}

// Center returns the geographic midpoint of the region.
func (r Region) Center() (lat, lon float64) {
	return (r.LatMin + r.LatMax) / 2, (r.LonMin + r.LonMax) / 2
}
