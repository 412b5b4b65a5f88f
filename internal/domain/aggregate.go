package domain

// Policy selects how a set of sampled values reduces to one category.
type Policy int

const (
	// MeanThenClassify averages the values and classifies the mean.
	// Suited to very large entities where a single dominant cell count
	// would wash out the signal.
	MeanThenClassify Policy = iota

	// VoteThenClassify classifies each value individually and picks the
	// most frequent category.
	VoteThenClassify
)

// String returns the config-file spelling of the policy.
func (p Policy) String() string {
	if p == VoteThenClassify {
		return "vote"
	}
	return "mean"
}

// Aggregate reduces values to a single severity category under the given
// policy. Under VoteThenClassify, ties break toward the lowest (driest)
// category index.
//
// Callers must not pass an empty slice: the empty-sample fallback is an
// orchestration decision, not an aggregation one. (MeanThenClassify on an
// empty slice degrades to Classify(NaN) = Normal; VoteThenClassify returns
// Extreme. Neither is meaningful.)
func Aggregate(values []float64, p Policy) Category {
	if p == VoteThenClassify {
		var counts [NumCategories]int
		for _, v := range values {
			counts[Classify(v)]++
		}
		best := Category(0)
		for c := Category(1); c < NumCategories; c++ {
			if counts[c] > counts[best] {
				best = c
			}
		}
		return best
	}
	return Classify(Mean(values))
}
