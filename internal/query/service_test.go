package query

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/drought-monitor-service/internal/domain"
	"github.com/couchcryptid/drought-monitor-service/internal/observability"
	"github.com/couchcryptid/drought-monitor-service/internal/refdata"
)

const testContinents = `{
  "Testland": {
    "region": {"lat": [0, 30], "lon": [0, 30]},
    "countries": ["Alpha", "Beta", "Gamma"],
    "aggregation": "vote"
  }
}`

// Gamma has no centroid on purpose: it exercises the regional fallback.
const testCentroids = `{
  "Testland": {
    "Alpha": [0, 0],
    "Beta": [30, 30]
  }
}`

// testDataset is a 4x4 grid over three months. The south-west quadrant
// is in extreme drought, the north-east quadrant is wet, and the rest
// is normal.
func testDataset() *domain.Dataset {
	layer := [][]float64{
		{-3, -3, 0, 0},
		{-3, -3, 0, 0},
		{0, 0, 1, 1},
		{0, 0, 1, 1},
	}
	times := []time.Time{
		time.Date(2020, time.January, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.February, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.March, 16, 0, 0, 0, 0, time.UTC),
	}
	values := make([][][]float64, len(times))
	for t := range values {
		values[t] = layer
	}
	return &domain.Dataset{
		Times:  times,
		Lats:   []float64{0, 10, 20, 30},
		Lons:   []float64{0, 10, 20, 30},
		Values: values,
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	dir := t.TempDir()
	continentsPath := filepath.Join(dir, "continents.json")
	centroidsPath := filepath.Join(dir, "centroids.json")
	require.NoError(t, os.WriteFile(continentsPath, []byte(testContinents), 0o644))
	require.NoError(t, os.WriteFile(centroidsPath, []byte(testCentroids), 0o644))

	ref, err := refdata.Load(continentsPath, centroidsPath, 3)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(testDataset(), ref, logger, observability.NewMetricsForTesting())
}

func TestSnapshot_Region(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	defer SetClock(nil)

	svc := newTestService(t)
	snap, err := svc.Snapshot(Request{
		Region:        "Testland",
		Year:          2020,
		Month:         time.February,
		IncludePoints: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Testland", snap.Region)
	assert.Equal(t, "Country", snap.EntityLabel)
	assert.Equal(t, 1, snap.TimeIndex)
	assert.Equal(t, time.Date(2020, time.February, 16, 0, 0, 0, 0, time.UTC), snap.Time)
	assert.Equal(t, now, snap.GeneratedAt)

	assert.Equal(t, 16, snap.Summary.ValidCount)
	assert.InDelta(t, -0.5, snap.Summary.Mean, 1e-9)

	// Alpha samples the drought quadrant, Beta the wet quadrant, and
	// Gamma falls back to the category of the regional mean.
	assert.Equal(t, []string{"Alpha"}, snap.Categories[domain.Extreme].Entities)
	assert.Equal(t, []string{"Beta"}, snap.Categories[domain.Wet].Entities)
	assert.Equal(t, []string{"Gamma"}, snap.Categories[domain.Normal].Entities)

	assert.InDelta(t, 25.0, snap.Categories[domain.Extreme].Percent, 1e-9)
	assert.InDelta(t, 50.0, snap.Categories[domain.Normal].Percent, 1e-9)
	assert.InDelta(t, 25.0, snap.Categories[domain.Wet].Percent, 1e-9)

	require.NotNil(t, snap.Points)
	assert.Equal(t, snap.Summary.ValidCount, snap.Points.Len())

	assert.InDelta(t, 15.0, snap.CenterLat, 1e-9)
	assert.InDelta(t, 15.0, snap.CenterLon, 1e-9)
	assert.Equal(t, 4, snap.Zoom)
}

func TestSnapshot_DefaultsToLatestTime(t *testing.T) {
	svc := newTestService(t)

	snap, err := svc.Snapshot(Request{Region: "Testland"})
	require.NoError(t, err)
	assert.Equal(t, 2, snap.TimeIndex)
	assert.Equal(t, time.Date(2020, time.March, 16, 0, 0, 0, 0, time.UTC), snap.Time)
}

func TestSnapshot_EmptyRegionNameIsGlobal(t *testing.T) {
	svc := newTestService(t)

	snap, err := svc.Snapshot(Request{})
	require.NoError(t, err)
	assert.Equal(t, refdata.GlobalRegion, snap.Region)
	assert.Equal(t, 16, snap.Summary.ValidCount)
	assert.Equal(t, 1, snap.Zoom)
	assert.Nil(t, snap.Points)
}

func TestSnapshot_UnknownRegion(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Snapshot(Request{Region: "Atlantis"})
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func TestSnapshot_CustomBounds(t *testing.T) {
	svc := newTestService(t)

	snap, err := svc.Snapshot(Request{
		Custom:        &domain.Region{LatMin: 0, LatMax: 10, LonMin: 0, LonMax: 10},
		IncludePoints: true,
	})
	require.NoError(t, err)

	assert.Equal(t, CustomRegion, snap.Region)
	assert.Equal(t, 4, snap.Summary.ValidCount)
	assert.InDelta(t, -3.0, snap.Summary.Mean, 1e-9)
	assert.InDelta(t, 100.0, snap.Categories[domain.Extreme].Percent, 1e-9)
	for _, group := range snap.Categories {
		assert.Empty(t, group.Entities)
	}
}

func TestSnapshot_NoValidData(t *testing.T) {
	svc := newTestService(t)

	snap, err := svc.Snapshot(Request{
		Custom:        &domain.Region{LatMin: 50, LatMax: 60, LonMin: 50, LonMax: 60},
		IncludePoints: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Summary.ValidCount)
	assert.Equal(t, 0, snap.Points.Len())
	for _, group := range snap.Categories {
		assert.Zero(t, group.Percent)
	}
}

func TestSnapshot_NearestTimeRounding(t *testing.T) {
	svc := newTestService(t)

	// The lookup target is anchored to the 16th, so a requested month
	// lands exactly on its own layer.
	snap, err := svc.Snapshot(Request{Region: "Testland", Year: 2020, Month: time.January})
	require.NoError(t, err)
	assert.Equal(t, 0, snap.TimeIndex)
}

func TestRegions(t *testing.T) {
	svc := newTestService(t)

	regions := svc.Regions()
	require.Len(t, regions, 2)
	assert.Equal(t, refdata.GlobalRegion, regions[0].Name)
	assert.Equal(t, "Testland", regions[1].Name)
	assert.Equal(t, 3, regions[1].EntityCount)
	assert.Equal(t, domain.Region{LatMin: 0, LatMax: 30, LonMin: 0, LonMax: 30}, regions[1].Bounds)
}

func TestTimeRange(t *testing.T) {
	svc := newTestService(t)

	tr := svc.TimeRange()
	assert.Equal(t, time.Date(2020, time.January, 16, 0, 0, 0, 0, time.UTC), tr.First)
	assert.Equal(t, time.Date(2020, time.March, 16, 0, 0, 0, 0, time.UTC), tr.Last)
	assert.Equal(t, 3, tr.Steps)
}

func TestCheckReadiness(t *testing.T) {
	svc := newTestService(t)
	assert.NoError(t, svc.CheckReadiness(context.Background()))

	empty := NewService(&domain.Dataset{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
	assert.Error(t, empty.CheckReadiness(context.Background()))
}

func TestZoomFor(t *testing.T) {
	tests := []struct {
		name   string
		region domain.Region
		want   int
	}{
		{"global", domain.Global, 1},
		{"continental", domain.Region{LatMin: -35, LatMax: 38, LonMin: -18, LonMax: 52}, 2},
		{"large country", domain.Region{LatMin: 0, LatMax: 10, LonMin: 0, LonMax: 45}, 3},
		{"small area", domain.Region{LatMin: 0, LatMax: 10, LonMin: 0, LonMax: 10}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, zoomFor(tt.region))
		})
	}
}

func TestSnapshot_FallbackUsesRegionalMean(t *testing.T) {
	svc := newTestService(t)

	snap, err := svc.Snapshot(Request{Region: "Testland"})
	require.NoError(t, err)

	want := domain.Classify(-0.5)
	assert.Contains(t, snap.Categories[want].Entities, "Gamma")
	assert.False(t, math.IsNaN(snap.Summary.Mean))
}
