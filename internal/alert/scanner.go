// Package alert scans the most recent dataset layer for regions in
// severe drought and hands them to a publisher.
package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/drought-monitor-service/internal/domain"
	"github.com/couchcryptid/drought-monitor-service/internal/observability"
	"github.com/couchcryptid/drought-monitor-service/internal/refdata"
)

// Alert flags one region whose extreme-drought share crossed the
// configured threshold in the latest month.
type Alert struct {
	Region      string    `json:"region"`
	Time        time.Time `json:"time"`
	ExtremePct  float64   `json:"extreme_pct"`
	DroughtPct  float64   `json:"drought_pct"`
	MeanIndex   float64   `json:"mean_index"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Publisher delivers alerts to an external sink.
type Publisher interface {
	PublishAlerts(ctx context.Context, alerts []Alert) error
}

// Scanner evaluates the latest layer of a dataset against the regional
// reference tables.
type Scanner struct {
	ds         *domain.Dataset
	ref        *refdata.Reference
	extremePct float64
	logger     *slog.Logger
	metrics    *observability.Metrics
	clock      clockwork.Clock
}

// NewScanner creates a scanner that alerts when a region's share of
// extreme-drought cells reaches extremePct.
func NewScanner(ds *domain.Dataset, ref *refdata.Reference, extremePct float64, logger *slog.Logger, metrics *observability.Metrics) *Scanner {
	return &Scanner{
		ds:         ds,
		ref:        ref,
		extremePct: extremePct,
		logger:     logger,
		metrics:    metrics,
		clock:      clockwork.NewRealClock(),
	}
}

// SetClock swaps the time source used for alert stamping.
func (s *Scanner) SetClock(c clockwork.Clock) {
	s.clock = c
}

// Scan evaluates every continental region against the latest time layer
// and returns the regions over the threshold.
func (s *Scanner) Scan() []Alert {
	timeIdx := len(s.ds.Times) - 1
	layer := s.ds.At(timeIdx)
	now := s.clock.Now()

	var alerts []Alert
	for _, rc := range s.ref.Regions() {
		if rc.Name == refdata.GlobalRegion {
			continue
		}

		grid := domain.SliceGrid(layer, rc.Bounds)
		summary, ok := domain.Summarize(grid)
		if !ok {
			continue
		}

		pct := domain.CategoryPercentages(grid)
		extreme := pct[domain.Extreme]
		if extreme < s.extremePct {
			continue
		}

		alerts = append(alerts, Alert{
			Region:      rc.Name,
			Time:        s.ds.Times[timeIdx],
			ExtremePct:  extreme,
			DroughtPct:  pct[domain.Extreme] + pct[domain.Severe] + pct[domain.Moderate],
			MeanIndex:   summary.Mean,
			GeneratedAt: now,
		})
	}
	return alerts
}

// Run performs one scan and publishes the results.
func (s *Scanner) Run(ctx context.Context, pub Publisher) error {
	alerts := s.Scan()
	if len(alerts) == 0 {
		s.logger.Info("drought scan complete, no regions over threshold",
			"threshold_pct", s.extremePct)
		return nil
	}

	if err := pub.PublishAlerts(ctx, alerts); err != nil {
		return fmt.Errorf("publish alerts: %w", err)
	}

	s.metrics.AlertsPublished.Add(float64(len(alerts)))
	for _, a := range alerts {
		s.logger.Warn("drought alert published",
			"region", a.Region,
			"extreme_pct", a.ExtremePct,
			"mean_index", a.MeanIndex,
		)
	}
	return nil
}
