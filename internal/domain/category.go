package domain

import "math"

// Category is an ordinal drought severity class, ordered driest (0) to
// wettest (6).
type Category int

const (
	Extreme Category = iota
	Severe
	Moderate
	Mild
	Normal
	Wet
	VeryWet
)

// NumCategories is the size of the severity taxonomy.
const NumCategories = 7

var categoryLabels = [NumCategories]string{
	"Extreme", "Severe", "Moderate", "Mild", "Normal", "Wet", "Very Wet",
}

var categoryColors = [NumCategories]string{
	"#8B0000", "#FF4500", "#FFA500", "#FFD700", "#90EE90", "#00FF00", "#0000FF",
}

// Label returns the display name for the category.
func (c Category) Label() string {
	if c < 0 || c >= NumCategories {
		return ""
	}
	return categoryLabels[c]
}

// Color returns the hex map color for the category.
func (c Category) Color() string {
	if c < 0 || c >= NumCategories {
		return ""
	}
	return categoryColors[c]
}

// Classify maps a SPEI value to its severity category.
//
// The boundary pattern is deliberate and asymmetric: -0.5 and 0.5 both fall
// in Normal, with Wet starting strictly above 0.5. Missing values (NaN)
// classify as Normal rather than erroring, so a sparse sample still yields
// a usable category.
func Classify(v float64) Category {
	switch {
	case math.IsNaN(v):
		return Normal
	case v < -2:
		return Extreme
	case v < -1.5:
		return Severe
	case v < -1:
		return Moderate
	case v < -0.5:
		return Mild
	case v <= 0.5:
		return Normal
	case v <= 1.5:
		return Wet
	default:
		return VeryWet
	}
}
