// Package query orchestrates one dashboard interaction: locate the time
// layer, slice the region, and reduce it to statistics, a severity
// breakdown, and a point cloud. Every call recomputes from the shared
// read-only dataset; nothing derived is cached between queries.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/drought-monitor-service/internal/domain"
	"github.com/couchcryptid/drought-monitor-service/internal/observability"
	"github.com/couchcryptid/drought-monitor-service/internal/refdata"
)

// ErrUnknownRegion is returned for a region name with no configuration.
var ErrUnknownRegion = errors.New("unknown region")

// CustomRegion is the region name reported for caller-supplied bounds.
const CustomRegion = "Custom"

// datasetDayOfMonth anchors a requested month to the dataset's mid-month
// timestamp convention before the nearest-time lookup.
const datasetDayOfMonth = 16

// Request selects one snapshot. Zero Year selects the dataset's latest
// time step. Custom, when set, overrides Region with explicit bounds.
type Request struct {
	Region        string
	Custom        *domain.Region
	Year          int
	Month         time.Month
	IncludePoints bool
}

// CategoryGroup is one severity bucket of a snapshot: its share of the
// region's valid cells and the entities classified into it.
type CategoryGroup struct {
	Category domain.Category `json:"category"`
	Label    string          `json:"label"`
	Color    string          `json:"color"`
	Percent  float64         `json:"percent"`
	Entities []string        `json:"entities,omitempty"`
}

// Snapshot is the full result of one dashboard interaction.
type Snapshot struct {
	Region      string        `json:"region"`
	EntityLabel string        `json:"entity_label,omitempty"`
	Bounds      domain.Region `json:"bounds"`
	Time        time.Time     `json:"time"`
	TimeIndex   int           `json:"time_index"`

	Summary    domain.Summary                      `json:"summary"`
	Categories [domain.NumCategories]CategoryGroup `json:"categories"`
	Points     *domain.PointCloud                  `json:"points,omitempty"`

	// Map hints for the rendering layer.
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
	Zoom      int     `json:"zoom"`

	GeneratedAt time.Time `json:"generated_at"`
}

// RegionInfo describes one selectable region for the UI.
type RegionInfo struct {
	Name        string        `json:"name"`
	Bounds      domain.Region `json:"bounds"`
	EntityLabel string        `json:"entity_label,omitempty"`
	EntityCount int           `json:"entity_count"`
}

// TimeRange describes the dataset's temporal extent.
type TimeRange struct {
	First time.Time `json:"first"`
	Last  time.Time `json:"last"`
	Steps int       `json:"steps"`
}

// Service executes snapshot queries against the loaded dataset and
// reference tables. Both are read-only, so a Service is safe for
// concurrent use.
type Service struct {
	ds      *domain.Dataset
	ref     *refdata.Reference
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService creates a query service over the given dataset and
// reference tables.
func NewService(ds *domain.Dataset, ref *refdata.Reference, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{ds: ds, ref: ref, logger: logger, metrics: metrics}
}

// CheckReadiness reports whether the service can answer queries.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.ds == nil || len(s.ds.Times) == 0 {
		return errors.New("dataset not loaded")
	}
	return nil
}

// Regions lists the selectable regions, Global first.
func (s *Service) Regions() []RegionInfo {
	configs := s.ref.Regions()
	out := make([]RegionInfo, len(configs))
	for i, rc := range configs {
		out[i] = RegionInfo{
			Name:        rc.Name,
			Bounds:      rc.Bounds,
			EntityLabel: rc.EntityLabel,
			EntityCount: len(rc.Countries),
		}
	}
	return out
}

// TimeRange returns the dataset's temporal extent.
func (s *Service) TimeRange() TimeRange {
	return TimeRange{
		First: s.ds.Times[0],
		Last:  s.ds.Times[len(s.ds.Times)-1],
		Steps: len(s.ds.Times),
	}
}

// Snapshot runs one full recomputation pass for the request.
func (s *Service) Snapshot(req Request) (Snapshot, error) {
	start := time.Now()

	rc, err := s.resolveRegion(req)
	if err != nil {
		s.metrics.SnapshotQueries.WithLabelValues(req.Region, "error").Inc()
		return Snapshot{}, err
	}

	timeIdx := s.resolveTimeIndex(req)
	grid := domain.SliceGrid(s.ds.At(timeIdx), rc.Bounds)

	summary, ok := domain.Summarize(grid)
	if !ok {
		// A selection with no valid cells is reported, not failed.
		s.logger.Warn("no valid data for selection",
			"region", rc.Name, "time", s.ds.Times[timeIdx])
	}

	snap := Snapshot{
		Region:      rc.Name,
		EntityLabel: rc.EntityLabel,
		Bounds:      rc.Bounds,
		Time:        s.ds.Times[timeIdx],
		TimeIndex:   timeIdx,
		Summary:     summary,
		Zoom:        zoomFor(rc.Bounds),
		GeneratedAt: clock.Now(),
	}
	snap.CenterLat, snap.CenterLon = rc.Bounds.Center()

	percentages := domain.CategoryPercentages(grid)
	tally := s.entityTally(grid, rc)
	for c := 0; c < domain.NumCategories; c++ {
		cat := domain.Category(c)
		snap.Categories[c] = CategoryGroup{
			Category: cat,
			Label:    cat.Label(),
			Color:    cat.Color(),
			Percent:  percentages[c],
			Entities: tally[c],
		}
	}

	if req.IncludePoints {
		points := domain.Flatten(grid)
		snap.Points = &points
		s.metrics.PointCloudSize.Observe(float64(points.Len()))
	}

	s.metrics.SnapshotQueries.WithLabelValues(rc.Name, "ok").Inc()
	s.metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	s.logger.Debug("snapshot computed",
		"region", rc.Name,
		"time", snap.Time,
		"valid_cells", summary.ValidCount,
		"duration", time.Since(start),
	)
	return snap, nil
}

func (s *Service) resolveRegion(req Request) (refdata.RegionConfig, error) {
	if req.Custom != nil {
		return refdata.RegionConfig{Name: CustomRegion, Bounds: *req.Custom}, nil
	}
	name := req.Region
	if name == "" {
		name = refdata.GlobalRegion
	}
	rc, ok := s.ref.Region(name)
	if !ok {
		return refdata.RegionConfig{}, fmt.Errorf("%w: %s", ErrUnknownRegion, name)
	}
	return rc, nil
}

func (s *Service) resolveTimeIndex(req Request) int {
	if req.Year == 0 {
		return len(s.ds.Times) - 1
	}
	target := time.Date(req.Year, req.Month, datasetDayOfMonth, 0, 0, 0, 0, time.UTC)
	return domain.NearestTimeIndex(s.ds.Times, target)
}

// entityTally buckets the region's entities by severity category.
//
// Each entity is sampled around its centroid on the region-sliced grid
// and aggregated under the region's policy. Entities with no centroid on
// record or no valid cells near it fall back to the category of the
// whole region's mean.
func (s *Service) entityTally(g domain.Grid, rc refdata.RegionConfig) [domain.NumCategories][]string {
	var tally [domain.NumCategories][]string
	if len(rc.Countries) == 0 {
		return tally
	}

	fallback := domain.Category(-1) // computed on first use
	fallbackCategory := func() domain.Category {
		if fallback < 0 {
			fallback = domain.Classify(domain.Mean(domain.ValidValues(g)))
		}
		return fallback
	}

	for _, name := range rc.Countries {
		centroid, ok := s.ref.Centroid(rc.Name, name)
		if !ok {
			s.metrics.EntityFallbacks.Inc()
			c := fallbackCategory()
			tally[c] = append(tally[c], name)
			continue
		}

		values := domain.SampleNeighborhood(g, centroid.Lat, centroid.Lon, rc.SampleWindow)
		if len(values) == 0 {
			s.metrics.EntityFallbacks.Inc()
			c := fallbackCategory()
			tally[c] = append(tally[c], name)
			continue
		}

		c := domain.Aggregate(values, rc.Policy)
		tally[c] = append(tally[c], name)
	}
	return tally
}

// zoomFor picks a map zoom level from the region's angular extent.
func zoomFor(r domain.Region) int {
	maxRange := max(r.LatMax-r.LatMin, r.LonMax-r.LonMin)
	switch {
	case maxRange > 120:
		return 1
	case maxRange > 60:
		return 2
	case maxRange > 30:
		return 3
	default:
		return 4
	}
}
