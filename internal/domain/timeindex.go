package domain

import "time"

// NearestTimeIndex returns the index of the timestamp closest to target,
// measured by absolute whole-day difference. The first minimum wins when
// two timestamps are equidistant.
//
// Callers must supply a non-empty slice; behavior is undefined otherwise.
func NearestTimeIndex(times []time.Time, target time.Time) int {
	best := 0
	bestDiff := absDays(times[0], target)
	for i := 1; i < len(times); i++ {
		if d := absDays(times[i], target); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}

func absDays(a, b time.Time) int64 {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int64(d / (24 * time.Hour))
}
