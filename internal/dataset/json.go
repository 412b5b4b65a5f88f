package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/drought-monitor-service/internal/domain"
)

// jsonTimeLayout is the timestamp format of the JSON fixture files.
const jsonTimeLayout = "2006-01-02"

// jsonDataset mirrors the fixture layout written by cmd/genmock.
// JSON has no NaN literal, so missing cells are encoded as null.
type jsonDataset struct {
	Times  []string       `json:"times"`
	Lats   []float64      `json:"lats"`
	Lons   []float64      `json:"lons"`
	Values [][][]*float64 `json:"values"`
}

func loadJSON(path string) (*domain.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw jsonDataset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse json dataset: %w", err)
	}

	times := make([]time.Time, len(raw.Times))
	for i, s := range raw.Times {
		t, err := time.Parse(jsonTimeLayout, s)
		if err != nil {
			return nil, fmt.Errorf("parse time %q: %w", s, err)
		}
		times[i] = t
	}

	values := make([][][]float64, len(raw.Values))
	for t, layer := range raw.Values {
		values[t] = make([][]float64, len(layer))
		for i, row := range layer {
			values[t][i] = make([]float64, len(row))
			for j, v := range row {
				if v == nil {
					values[t][i][j] = math.NaN()
				} else {
					values[t][i][j] = *v
				}
			}
		}
	}

	return &domain.Dataset{
		Times:  times,
		Lats:   raw.Lats,
		Lons:   raw.Lons,
		Values: values,
	}, nil
}
