package dataset

import (
	"fmt"
	"math"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/couchcryptid/drought-monitor-service/internal/domain"
)

// Variable names as distributed in SPEIbase files.
const (
	speiVarName = "spei"
	latVarName  = "lat"
	lonVarName  = "lon"
	timeVarName = "time"
)

func loadNetCDF(path string) (*domain.Dataset, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open netcdf: %w", err)
	}
	defer nc.Close()

	lats, err := axisValues(nc, latVarName)
	if err != nil {
		return nil, err
	}
	lons, err := axisValues(nc, lonVarName)
	if err != nil {
		return nil, err
	}

	timeVar, err := nc.GetVariable(timeVarName)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", timeVarName, err)
	}
	units := attrString(timeVar.Attributes, "units")
	rawTimes, err := toFloat64s(timeVar.Values)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", timeVarName, err)
	}
	times, err := decodeTimes(rawTimes, units)
	if err != nil {
		return nil, err
	}

	speiVar, err := nc.GetVariable(speiVarName)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", speiVarName, err)
	}
	if len(speiVar.Dimensions) != 3 || speiVar.Dimensions[0] != timeVarName ||
		speiVar.Dimensions[1] != latVarName || speiVar.Dimensions[2] != lonVarName {
		return nil, fmt.Errorf("variable %s: expected dimensions [time lat lon], got %v",
			speiVarName, speiVar.Dimensions)
	}

	cube, err := toCube(speiVar.Values)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", speiVarName, err)
	}

	if fill, ok := fillValue(speiVar.Attributes); ok {
		applyFillValue(cube, fill)
	}

	return &domain.Dataset{
		Times:  times,
		Lats:   lats,
		Lons:   lons,
		Values: cube,
	}, nil
}

func axisValues(nc api.Group, name string) ([]float64, error) {
	v, err := nc.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	values, err := toFloat64s(v.Values)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	return values, nil
}

// toFloat64s converts a 1-D NetCDF payload to float64, accepting the
// numeric element types SPEIbase and its derivatives use in practice.
func toFloat64s(values any) ([]float64, error) {
	switch vs := values.(type) {
	case []float64:
		return vs, nil
	case []float32:
		out := make([]float64, len(vs))
		for i, v := range vs {
			out[i] = float64(v)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(vs))
		for i, v := range vs {
			out[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(vs))
		for i, v := range vs {
			out[i] = float64(v)
		}
		return out, nil
	case []int16:
		out := make([]float64, len(vs))
		for i, v := range vs {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported element type %T", values)
	}
}

// toCube converts a 3-D NetCDF payload to float64.
func toCube(values any) ([][][]float64, error) {
	switch vs := values.(type) {
	case [][][]float64:
		return vs, nil
	case [][][]float32:
		out := make([][][]float64, len(vs))
		for t, layer := range vs {
			out[t] = make([][]float64, len(layer))
			for i, row := range layer {
				converted := make([]float64, len(row))
				for j, v := range row {
					converted[j] = float64(v)
				}
				out[t][i] = converted
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported element type %T", values)
	}
}

// fillValue reads the missing-value sentinel from the variable attributes.
// SPEIbase writes NaN directly, but derived files sometimes carry an
// explicit _FillValue or missing_value instead.
func fillValue(attrs api.AttributeMap) (float64, bool) {
	for _, key := range []string{"_FillValue", "missing_value"} {
		raw, has := attrs.Get(key)
		if !has {
			continue
		}
		if v, ok := attrScalar(raw); ok {
			return v, true
		}
	}
	return 0, false
}

func attrScalar(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int32:
		return float64(v), true
	case int16:
		return float64(v), true
	case []float64:
		if len(v) == 1 {
			return v[0], true
		}
	case []float32:
		if len(v) == 1 {
			return float64(v[0]), true
		}
	}
	return 0, false
}

func attrString(attrs api.AttributeMap, key string) string {
	raw, has := attrs.Get(key)
	if !has {
		return ""
	}
	s, _ := raw.(string)
	return s
}

func applyFillValue(cube [][][]float64, fill float64) {
	if math.IsNaN(fill) {
		return
	}
	for _, layer := range cube {
		for _, row := range layer {
			for j, v := range row {
				if v == fill {
					row[j] = math.NaN()
				}
			}
		}
	}
}
