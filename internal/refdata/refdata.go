// Package refdata holds the immutable reference tables the query layer
// depends on: selectable regions with their constituent entities, and the
// entity centroids used for neighborhood sampling. Tables load once at
// startup and are read-only afterwards. Embedded defaults ship in the
// binary so the service runs with no external files beyond the dataset.
package refdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/couchcryptid/drought-monitor-service/internal/domain"
)

//go:embed continents.json
var defaultContinents []byte

//go:embed country_centroids.json
var defaultCentroids []byte

// GlobalRegion is the name of the built-in whole-world region.
const GlobalRegion = "Global"

// Centroid is a single representative point for a named entity.
type Centroid struct {
	Lat float64
	Lon float64
}

// RegionConfig describes one selectable region: its rectangular bounds
// and, for continental regions, how its constituent entities are
// categorized in the severity tally.
type RegionConfig struct {
	Name      string
	Bounds    domain.Region
	Countries []string

	// EntityLabel names what the entities are ("Country", or "State"
	// for Australia).
	EntityLabel string

	// Policy and SampleWindow drive per-entity categorization. Australia
	// uses a mean policy over a 50-cell window because its states are far
	// larger than a default sampling neighborhood.
	Policy       domain.Policy
	SampleWindow int
}

// Reference is the loaded, immutable set of lookup tables.
type Reference struct {
	order     []string
	regions   map[string]RegionConfig
	centroids map[string]map[string]Centroid
}

// continentEntry mirrors the continents JSON layout:
//
//	{"Africa": {"region": {"lat": [-35, 38], "lon": [-18, 52]},
//	            "countries": [...], "aggregation": "vote"}}
type continentEntry struct {
	Region struct {
		Lat [2]float64 `json:"lat"`
		Lon [2]float64 `json:"lon"`
	} `json:"region"`
	Countries    []string `json:"countries"`
	EntityLabel  string   `json:"entity_label,omitempty"`
	Aggregation  string   `json:"aggregation,omitempty"`
	SampleWindow int      `json:"sample_window,omitempty"`
}

// Load builds the reference tables from the given JSON files. An empty
// path selects the embedded default for that table. defaultWindow is the
// sampling window applied to regions that do not configure their own.
func Load(continentsPath, centroidsPath string, defaultWindow int) (*Reference, error) {
	continentsRaw, err := readOrDefault(continentsPath, defaultContinents)
	if err != nil {
		return nil, err
	}
	centroidsRaw, err := readOrDefault(centroidsPath, defaultCentroids)
	if err != nil {
		return nil, err
	}

	var continents map[string]continentEntry
	if err := json.Unmarshal(continentsRaw, &continents); err != nil {
		return nil, fmt.Errorf("parse continents: %w", err)
	}

	var rawCentroids map[string]map[string][2]float64
	if err := json.Unmarshal(centroidsRaw, &rawCentroids); err != nil {
		return nil, fmt.Errorf("parse centroids: %w", err)
	}

	r := &Reference{
		regions:   make(map[string]RegionConfig, len(continents)+1),
		centroids: make(map[string]map[string]Centroid, len(rawCentroids)),
	}

	// Global is built in and always listed first.
	r.regions[GlobalRegion] = RegionConfig{
		Name:         GlobalRegion,
		Bounds:       domain.Global,
		Policy:       domain.VoteThenClassify,
		SampleWindow: defaultWindow,
	}
	r.order = append(r.order, GlobalRegion)

	names := make([]string, 0, len(continents))
	for name := range continents {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cfg, err := buildRegion(name, continents[name], defaultWindow)
		if err != nil {
			return nil, err
		}
		r.regions[name] = cfg
		r.order = append(r.order, name)
	}

	for region, entities := range rawCentroids {
		table := make(map[string]Centroid, len(entities))
		for entity, coords := range entities {
			table[entity] = Centroid{Lat: coords[0], Lon: coords[1]}
		}
		r.centroids[region] = table
	}

	return r, nil
}

func buildRegion(name string, entry continentEntry, defaultWindow int) (RegionConfig, error) {
	cfg := RegionConfig{
		Name: name,
		Bounds: domain.Region{
			LatMin: entry.Region.Lat[0], LatMax: entry.Region.Lat[1],
			LonMin: entry.Region.Lon[0], LonMax: entry.Region.Lon[1],
		},
		Countries:    entry.Countries,
		EntityLabel:  entry.EntityLabel,
		SampleWindow: entry.SampleWindow,
	}

	if cfg.Bounds.LatMin > cfg.Bounds.LatMax || cfg.Bounds.LonMin > cfg.Bounds.LonMax {
		return RegionConfig{}, fmt.Errorf("region %s: inverted bounds", name)
	}

	switch entry.Aggregation {
	case "", "vote":
		cfg.Policy = domain.VoteThenClassify
	case "mean":
		cfg.Policy = domain.MeanThenClassify
	default:
		return RegionConfig{}, fmt.Errorf("region %s: unknown aggregation %q", name, entry.Aggregation)
	}

	if cfg.EntityLabel == "" {
		cfg.EntityLabel = "Country"
	}
	if cfg.SampleWindow <= 0 {
		cfg.SampleWindow = defaultWindow
	}
	return cfg, nil
}

func readOrDefault(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	return data, nil
}

// Region returns the configuration for a named region.
func (r *Reference) Region(name string) (RegionConfig, bool) {
	cfg, ok := r.regions[name]
	return cfg, ok
}

// Regions returns all regions, Global first and continents in name order.
func (r *Reference) Regions() []RegionConfig {
	out := make([]RegionConfig, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.regions[name])
	}
	return out
}

// Centroid returns the representative point for an entity within a region.
func (r *Reference) Centroid(region, entity string) (Centroid, bool) {
	table, ok := r.centroids[region]
	if !ok {
		return Centroid{}, false
	}
	c, ok := table[entity]
	return c, ok
}
