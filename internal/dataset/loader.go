// Package dataset loads the gridded SPEI field the service computes over.
// The dataset is read once at startup; a load failure is fatal to the
// session. Two formats are supported: NetCDF (the distribution format of
// SPEIbase) and a JSON fixture format produced by cmd/genmock for tests
// and local development.
package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/drought-monitor-service/internal/domain"
)

// Load reads the dataset at path, choosing the decoder by file extension.
func Load(path string) (*domain.Dataset, error) {
	var (
		ds  *domain.Dataset
		err error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".nc":
		ds, err = loadNetCDF(path)
	case ".json":
		ds, err = loadJSON(path)
	default:
		return nil, fmt.Errorf("dataset %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}

	if err := validate(ds); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

// validate checks that the dataset is non-empty and shaped consistently,
// so downstream code can index without bounds anxiety.
func validate(ds *domain.Dataset) error {
	if len(ds.Times) == 0 {
		return fmt.Errorf("no time steps")
	}
	if len(ds.Lats) == 0 || len(ds.Lons) == 0 {
		return fmt.Errorf("empty coordinate axes")
	}
	if len(ds.Values) != len(ds.Times) {
		return fmt.Errorf("value layers (%d) do not match time steps (%d)", len(ds.Values), len(ds.Times))
	}
	for t, layer := range ds.Values {
		if len(layer) != len(ds.Lats) {
			return fmt.Errorf("time %d: %d rows for %d latitudes", t, len(layer), len(ds.Lats))
		}
		for i, row := range layer {
			if len(row) != len(ds.Lons) {
				return fmt.Errorf("time %d row %d: %d columns for %d longitudes", t, i, len(row), len(ds.Lons))
			}
		}
	}
	return nil
}
