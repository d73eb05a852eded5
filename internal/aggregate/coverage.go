package aggregate

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/woundlab/segreport/internal/dataset"
)

// CoverageStats is the four-number descriptive summary (mean, sample standard
// deviation, min, max) of one numeric column. The coverage charts use it per
// class; the bounding-box and channel statistics reuse it per column.
type CoverageStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// describe reduces a non-empty column to its CoverageStats. The deviation is
// the sample standard deviation (N-1); a single observation gets deviation 0
// rather than the NaN the N-1 formula would produce.
func describe(column []float64) CoverageStats {
	s := CoverageStats{
		Mean: stat.Mean(column, nil),
		Min:  floats.Min(column),
		Max:  floats.Max(column),
	}
	if len(column) > 1 {
		s.StdDev = stat.StdDev(column, nil)
	}
	return s
}

// ComputeCoverageStats summarizes each class's coverage column across all
// records. Statistics over an empty record list are undefined and fail with
// ErrInvalidInput rather than returning NaN or zero.
func ComputeCoverageStats(records []dataset.MetadataRecord, order []dataset.Class) (map[dataset.Class]CoverageStats, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: coverage statistics are undefined for an empty record list", ErrInvalidInput)
	}

	stats := make(map[dataset.Class]CoverageStats, len(order))
	column := make([]float64, len(records))
	for _, c := range order {
		for i, r := range records {
			column[i] = r.CoveragePct(c)
		}
		stats[c] = describe(column)
	}
	return stats, nil
}
