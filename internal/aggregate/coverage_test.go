package aggregate

import (
	"errors"
	"math"
	"testing"

	"github.com/woundlab/segreport/internal/dataset"
)

const tolerance = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestComputeCoverageStats(t *testing.T) {
	records := []dataset.MetadataRecord{
		{SourceIndex: 1, TargetClass: dataset.ClassScar, ScarPct: 10, BackgroundPct: 90},
		{SourceIndex: 2, TargetClass: dataset.ClassScar, ScarPct: 20, BackgroundPct: 80},
		{SourceIndex: 3, TargetClass: dataset.ClassScar, ScarPct: 30, BackgroundPct: 70},
	}

	stats, err := ComputeCoverageStats(records, dataset.DefaultClassOrder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	scar := stats[dataset.ClassScar]
	if !approxEqual(scar.Mean, 20) {
		t.Errorf("scar mean = %v, want 20", scar.Mean)
	}
	if !approxEqual(scar.StdDev, 10) {
		// Sample deviation: sqrt((100+0+100)/2) = 10.
		t.Errorf("scar stddev = %v, want 10", scar.StdDev)
	}
	if !approxEqual(scar.Min, 10) || !approxEqual(scar.Max, 30) {
		t.Errorf("scar min/max = %v/%v, want 10/30", scar.Min, scar.Max)
	}

	// Columns that are all zero stay exactly zero, not NaN.
	necrosis := stats[dataset.ClassNecrosis]
	if necrosis.Mean != 0 || necrosis.StdDev != 0 || necrosis.Min != 0 || necrosis.Max != 0 {
		t.Errorf("necrosis stats = %+v, want all zeros", necrosis)
	}
}

func TestComputeCoverageStatsOrdering(t *testing.T) {
	records := []dataset.MetadataRecord{
		{SourceIndex: 1, ScarPct: 42.5, RednessPct: 7.25},
		{SourceIndex: 2, ScarPct: 18.75, RednessPct: 63.5},
		{SourceIndex: 3, ScarPct: 91, RednessPct: 12},
		{SourceIndex: 4, ScarPct: 3.5, RednessPct: 55.125},
	}

	stats, err := ComputeCoverageStats(records, dataset.DefaultClassOrder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, c := range dataset.DefaultClassOrder {
		s := stats[c]
		if s.Min > s.Mean || s.Mean > s.Max {
			t.Errorf("%s: want min <= mean <= max, got %v <= %v <= %v", c, s.Min, s.Mean, s.Max)
		}
		if s.StdDev < 0 {
			t.Errorf("%s: stddev %v is negative", c, s.StdDev)
		}
	}
}

func TestComputeCoverageStatsSingleRecord(t *testing.T) {
	records := []dataset.MetadataRecord{
		{SourceIndex: 1, TargetClass: dataset.ClassRedness, RednessPct: 37.5},
	}

	stats, err := ComputeCoverageStats(records, dataset.DefaultClassOrder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	redness := stats[dataset.ClassRedness]
	if !approxEqual(redness.Mean, 37.5) {
		t.Errorf("mean = %v, want 37.5", redness.Mean)
	}
	if redness.StdDev != 0 {
		t.Errorf("single-record stddev = %v, want 0", redness.StdDev)
	}
	if !approxEqual(redness.Min, 37.5) || !approxEqual(redness.Max, 37.5) {
		t.Errorf("min/max = %v/%v, want 37.5/37.5", redness.Min, redness.Max)
	}
}

func TestComputeCoverageStatsEmptyRecords(t *testing.T) {
	_, err := ComputeCoverageStats(nil, dataset.DefaultClassOrder)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	_, err = ComputeCoverageStats([]dataset.MetadataRecord{}, dataset.DefaultClassOrder)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty slice, got %v", err)
	}
}
