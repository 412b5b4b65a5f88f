package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFloat64s(t *testing.T) {
	t.Run("float64 passthrough", func(t *testing.T) {
		in := []float64{1.5, 2.5}
		out, err := toFloat64s(in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("float32", func(t *testing.T) {
		out, err := toFloat64s([]float32{1.5, -0.5})
		require.NoError(t, err)
		assert.Equal(t, []float64{1.5, -0.5}, out)
	})

	t.Run("int32", func(t *testing.T) {
		out, err := toFloat64s([]int32{0, 31})
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 31}, out)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := toFloat64s([]string{"x"})
		assert.ErrorContains(t, err, "unsupported element type")
	})
}

func TestToCube(t *testing.T) {
	t.Run("float32", func(t *testing.T) {
		out, err := toCube([][][]float32{{{1.5, 2}, {3, 4}}})
		require.NoError(t, err)
		assert.Equal(t, [][][]float64{{{1.5, 2}, {3, 4}}}, out)
	})

	t.Run("unsupported shape", func(t *testing.T) {
		_, err := toCube([][]float64{{1}})
		assert.ErrorContains(t, err, "unsupported element type")
	})
}

func TestApplyFillValue(t *testing.T) {
	cube := [][][]float64{{{-9999, 1.5}, {0.5, -9999}}}
	applyFillValue(cube, -9999)

	assert.True(t, math.IsNaN(cube[0][0][0]))
	assert.Equal(t, 1.5, cube[0][0][1])
	assert.Equal(t, 0.5, cube[0][1][0])
	assert.True(t, math.IsNaN(cube[0][1][1]))
}

func TestAttrScalar(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected float64
		ok       bool
	}{
		{"float64", float64(-9999), -9999, true},
		{"float32", float32(2), 2, true},
		{"single element slice", []float32{3}, 3, true},
		{"multi element slice", []float64{1, 2}, 0, false},
		{"string", "x", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := attrScalar(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}
