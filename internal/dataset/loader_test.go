package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFixture(t, "spei.json", `{
		"times": ["2020-01-16", "2020-02-16"],
		"lats": [10, 20],
		"lons": [100, 110],
		"values": [
			[[1.5, null], [-0.5, 2.5]],
			[[null, null], [0.1, 0.2]]
		]
	}`)

	ds, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		time.Date(2020, 1, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 2, 16, 0, 0, 0, 0, time.UTC),
	}, ds.Times)
	assert.Equal(t, []float64{10, 20}, ds.Lats)
	assert.Equal(t, []float64{100, 110}, ds.Lons)

	assert.Equal(t, 1.5, ds.Values[0][0][0])
	assert.True(t, math.IsNaN(ds.Values[0][0][1]))
	assert.Equal(t, -0.5, ds.Values[0][1][0])
	assert.True(t, math.IsNaN(ds.Values[1][0][0]))
	assert.Equal(t, 0.2, ds.Values[1][1][1])
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	path := writeFixture(t, "spei.csv", "a,b\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported format")
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/spei.json")
	assert.Error(t, err)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := writeFixture(t, "spei.json", "{not json")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"no time steps",
			`{"times": [], "lats": [1], "lons": [2], "values": []}`,
			"no time steps",
		},
		{
			"empty axes",
			`{"times": ["2020-01-16"], "lats": [], "lons": [2], "values": [[]]}`,
			"empty coordinate axes",
		},
		{
			"layer count mismatch",
			`{"times": ["2020-01-16", "2020-02-16"], "lats": [1], "lons": [2], "values": [[[0.5]]]}`,
			"do not match time steps",
		},
		{
			"row count mismatch",
			`{"times": ["2020-01-16"], "lats": [1, 2], "lons": [3], "values": [[[0.5]]]}`,
			"rows for",
		},
		{
			"column count mismatch",
			`{"times": ["2020-01-16"], "lats": [1], "lons": [3, 4], "values": [[[0.5]]]}`,
			"columns for",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, "spei.json", tt.content)
			_, err := Load(path)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
