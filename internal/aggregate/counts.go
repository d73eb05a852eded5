package aggregate

import (
	"fmt"
	"math"

	"github.com/woundlab/segreport/internal/dataset"
)

// ClassCount pairs the actual number of records targeting a class with the
// count the target distribution implies for the same record total.
type ClassCount struct {
	Actual int `json:"actual"`
	Target int `json:"target"`
}

// ClassCountSummary holds one ClassCount per class of the active order.
type ClassCountSummary map[dataset.Class]ClassCount

// TotalActual returns the sum of the actual counts, which equals the number
// of records tallied.
func (s ClassCountSummary) TotalActual() int {
	total := 0
	for _, c := range s {
		total += c.Actual
	}
	return total
}

// ComputeClassCounts tallies the records per target class and derives each
// class's target count as round(share/100 * len(records)). Rounding is half
// away from zero, so a target of x.5 records rounds up. Every class in order
// must have an entry in target; a missing entry fails with ErrInvalidInput.
func ComputeClassCounts(records []dataset.MetadataRecord, target dataset.TargetDistribution, order []dataset.Class) (ClassCountSummary, error) {
	counts := make(ClassCountSummary, len(order))
	total := float64(len(records))
	for _, c := range order {
		share, ok := target[c]
		if !ok {
			return nil, fmt.Errorf("%w: target distribution has no entry for class %q", ErrInvalidInput, c)
		}
		counts[c] = ClassCount{Target: int(math.Round(share / 100 * total))}
	}

	for _, r := range records {
		cc, ok := counts[r.TargetClass]
		if !ok {
			// Classes outside the active order are not tallied.
			continue
		}
		cc.Actual++
		counts[r.TargetClass] = cc
	}
	return counts, nil
}
