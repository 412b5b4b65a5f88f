package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func monthly(dates ...string) []time.Time {
	times := make([]time.Time, len(dates))
	for i, d := range dates {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			panic(err)
		}
		times[i] = t
	}
	return times
}

func TestNearestTimeIndex(t *testing.T) {
	times := monthly("2020-01-16", "2020-02-16", "2020-03-16")

	tests := []struct {
		name     string
		target   string
		expected int
	}{
		{"early february snaps to february", "2020-02-01", 1},
		{"exact match", "2020-03-16", 2},
		{"before the range clamps to first", "2019-06-01", 0},
		{"after the range clamps to last", "2021-01-01", 2},
		{"late january snaps to january", "2020-01-20", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := time.Parse("2006-01-02", tt.target)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, NearestTimeIndex(times, target))
		})
	}
}

func TestNearestTimeIndexTieBreaksToFirst(t *testing.T) {
	times := monthly("2020-01-10", "2020-01-20")
	target, _ := time.Parse("2006-01-02", "2020-01-15")

	assert.Equal(t, 0, NearestTimeIndex(times, target))
}
