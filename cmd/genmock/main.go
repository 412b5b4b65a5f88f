// Command genmock generates a synthetic drought-index dataset in the
// service's JSON fixture format. It uses the actual domain package for
// classification so the printed stats match real service behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/spei_mock.json -months 24 -seed 1
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/drought-monitor-service/internal/domain"
)

// fixture mirrors the JSON dataset layout the loader reads: values are
// time x lat x lon, with null for cells outside the land mask.
type fixture struct {
	Times  []string       `json:"times"`
	Lats   []float64      `json:"lats"`
	Lons   []float64      `json:"lons"`
	Values [][][]*float64 `json:"values"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the JSON fixture")
	months := flag.Int("months", 24, "number of monthly layers")
	step := flag.Float64("step", 5, "grid resolution in degrees")
	missing := flag.Float64("missing", 0.3, "fraction of cells masked as missing")
	seed := flag.Int64("seed", 1, "random seed for reproducible fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *months <= 0 {
		return fmt.Errorf("-months must be positive")
	}

	rng := rand.New(rand.NewSource(*seed))
	fx := generate(rng, *months, *step, *missing)

	if err := writeJSON(*out, fx); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s (%d months, %dx%d grid)",
		*out, len(fx.Times), len(fx.Lats), len(fx.Lons))

	printStats(fx)
	return nil
}

func generate(rng *rand.Rand, months int, step, missing float64) fixture {
	var fx fixture
	for lat := 90.0; lat >= -90; lat -= step {
		fx.Lats = append(fx.Lats, lat)
	}
	for lon := -180.0; lon < 180; lon += step {
		fx.Lons = append(fx.Lons, lon)
	}

	// A fixed per-cell land mask so the missing pattern is stable
	// across months, as it is in real data.
	mask := make([][]bool, len(fx.Lats))
	for i := range mask {
		mask[i] = make([]bool, len(fx.Lons))
		for j := range mask[i] {
			mask[i][j] = rng.Float64() < missing
		}
	}

	start := time.Date(2020, time.January, 16, 0, 0, 0, 0, time.UTC)
	for m := 0; m < months; m++ {
		ts := start.AddDate(0, m, 0)
		fx.Times = append(fx.Times, ts.Format("2006-01-02"))

		// Drift the climate signal so later months trend drier in the
		// tropics and wetter near the poles.
		drift := float64(m) / float64(months)
		layer := make([][]*float64, len(fx.Lats))
		for i, lat := range fx.Lats {
			row := make([]*float64, len(fx.Lons))
			for j := range fx.Lons {
				if mask[i][j] {
					continue
				}
				bias := drift * (math.Abs(lat)/90 - 0.5) * 3
				v := rng.NormFloat64() + bias
				row[j] = &v
			}
			layer[i] = row
		}
		fx.Values = append(fx.Values, layer)
	}
	return fx
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats classifies the final layer and reports the category
// distribution, for updating test assertions against the fixture.
func printStats(fx fixture) {
	last := fx.Values[len(fx.Values)-1]

	var counts [domain.NumCategories]int
	var valid int
	for _, row := range last {
		for _, v := range row {
			if v == nil {
				continue
			}
			counts[domain.Classify(*v)]++
			valid++
		}
	}

	fmt.Println("\n=== Final month category distribution ===")
	fmt.Printf("Valid cells: %d of %d\n", valid, len(fx.Lats)*len(fx.Lons))
	for c := 0; c < domain.NumCategories; c++ {
		cat := domain.Category(c)
		pct := 0.0
		if valid > 0 {
			pct = float64(counts[c]) / float64(valid) * 100
		}
		fmt.Printf("  %-16s %5d  (%.1f%%)\n", cat.Label(), counts[c], pct)
	}
}
