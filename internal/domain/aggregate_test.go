package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateVoteThenClassify(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected Category
	}{
		{"majority wins", []float64{-3, -3, 0, 0, 0}, Normal},
		{"unanimous", []float64{-2.5, -2.1, -3.0}, Extreme},
		{"tie breaks toward driest", []float64{-3, -3, 0, 0}, Extreme},
		{"three way tie", []float64{-3, -1.2, 2.0}, Extreme},
		{"wet majority", []float64{0.7, 0.8, 1.2, -2.5}, Wet},
		{"nan votes count as normal", []float64{nan, nan, -3}, Normal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Aggregate(tt.values, VoteThenClassify))
		})
	}
}

func TestAggregateMeanThenClassify(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected Category
	}{
		{"mean lands in normal", []float64{-3, -3, 0, 0, 0, 3, 3}, Normal},
		{"mean lands in severe", []float64{-1.6, -1.8}, Severe},
		{"single value", []float64{1.6}, VeryWet},
		{"outlier drags the mean", []float64{0, 0, 0, 0, -8}, Severe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Aggregate(tt.values, MeanThenClassify))
		})
	}
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "mean", MeanThenClassify.String())
	assert.Equal(t, "vote", VoteThenClassify.String())
}
