package dataset

import (
	"fmt"
	"strings"
	"time"
)

// decodeTimes converts raw CF-convention time values ("<n> <unit> since
// <epoch>") into timestamps using the variable's units attribute, e.g.
// "days since 1900-1-1".
func decodeTimes(raw []float64, units string) ([]time.Time, error) {
	unit, epoch, err := parseTimeUnits(units)
	if err != nil {
		return nil, err
	}

	times := make([]time.Time, len(raw))
	for i, v := range raw {
		times[i] = epoch.Add(time.Duration(v * float64(unit)))
	}
	return times, nil
}

// parseTimeUnits decodes a CF units attribute into the duration of one
// unit and the epoch it counts from.
func parseTimeUnits(units string) (time.Duration, time.Time, error) {
	fields := strings.Fields(units)
	if len(fields) < 3 || !strings.EqualFold(fields[1], "since") {
		return 0, time.Time{}, fmt.Errorf("unsupported time units %q", units)
	}

	var unit time.Duration
	switch strings.ToLower(fields[0]) {
	case "days", "day":
		unit = 24 * time.Hour
	case "hours", "hour":
		unit = time.Hour
	case "minutes", "minute":
		unit = time.Minute
	case "seconds", "second":
		unit = time.Second
	default:
		return 0, time.Time{}, fmt.Errorf("unsupported time unit %q", fields[0])
	}

	epochStr := strings.Join(fields[2:], " ")
	epoch, err := parseEpoch(epochStr)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("unsupported time epoch %q", epochStr)
	}
	return unit, epoch, nil
}

// parseEpoch accepts the epoch spellings seen in climate files, including
// unpadded dates ("1900-1-1") and fractional seconds ("00:00:0.0").
func parseEpoch(s string) (time.Time, error) {
	layouts := []string{
		"2006-1-2 15:4:5.9",
		"2006-1-2 15:4:5",
		"2006-1-2T15:4:5Z",
		"2006-1-2",
	}

	var lastErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
