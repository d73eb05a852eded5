package aggregate

import (
	"fmt"
	"sort"

	"github.com/woundlab/segreport/internal/dataset"
)

// UsageHistogram maps every source-image index in 1..poolSize to the number
// of records derived from that source. Indices with zero count are retained
// so renderers can decide whether to show unused sources.
type UsageHistogram map[int]int

// Total returns the sum of all counts, which for a validated summary equals
// the number of records.
func (h UsageHistogram) Total() int {
	total := 0
	for _, count := range h {
		total += count
	}
	return total
}

// UsedSources returns the source indices with a non-zero count, ascending.
func (h UsageHistogram) UsedSources() []int {
	used := make([]int, 0, len(h))
	for idx, count := range h {
		if count > 0 {
			used = append(used, idx)
		}
	}
	sort.Ints(used)
	return used
}

// ComputeUsageHistogram tallies how many records reference each source image
// in the pool. Every index 1..poolSize appears in the result; an empty record
// list yields an all-zero histogram. Records whose SourceIndex falls outside
// the pool are ignored (a validated summary never contains any).
func ComputeUsageHistogram(records []dataset.MetadataRecord, poolSize int) (UsageHistogram, error) {
	if poolSize < 1 {
		return nil, fmt.Errorf("%w: source pool size %d must be >= 1", ErrInvalidInput, poolSize)
	}

	h := make(UsageHistogram, poolSize)
	for i := 1; i <= poolSize; i++ {
		h[i] = 0
	}
	for _, r := range records {
		if r.SourceIndex >= 1 && r.SourceIndex <= poolSize {
			h[r.SourceIndex]++
		}
	}
	return h, nil
}
