package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/woundlab/segreport/internal/fsutil"
)

const summaryJSON = `{
	"source_pool_size": 306,
	"target_distribution": {
		"scar": 25,
		"redness": 25,
		"hematoma": 20,
		"necrosis": 10,
		"background": 20
	},
	"records": [
		{
			"source_index": 61,
			"target_class": "redness",
			"scar_pct": 4.2,
			"redness_pct": 38.7,
			"hematoma_pct": 1.1,
			"necrosis_pct": 0.0,
			"background_pct": 56.0,
			"bbox": {"x": 40, "y": 32, "width": 128, "height": 96},
			"channel_means": {"r": 0.61, "g": 0.42, "b": 0.39}
		},
		{
			"source_index": 7,
			"target_class": "scar",
			"scar_pct": 22.0,
			"redness_pct": 3.0,
			"hematoma_pct": 0.0,
			"necrosis_pct": 0.0,
			"background_pct": 75.0
		}
	]
}`

func TestParseSummary(t *testing.T) {
	s, err := ParseSummary([]byte(summaryJSON))
	if err != nil {
		t.Fatalf("ParseSummary failed: %v", err)
	}

	if s.SourcePoolSize != 306 {
		t.Errorf("SourcePoolSize = %d, want 306", s.SourcePoolSize)
	}
	if len(s.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(s.Records))
	}

	first := s.Records[0]
	if first.SourceIndex != 61 {
		t.Errorf("SourceIndex = %d, want 61", first.SourceIndex)
	}
	if first.TargetClass != ClassRedness {
		t.Errorf("TargetClass = %q, want %q", first.TargetClass, ClassRedness)
	}
	if first.RednessPct != 38.7 {
		t.Errorf("RednessPct = %v, want 38.7", first.RednessPct)
	}
	if first.BBox == nil || first.BBox.Width != 128 {
		t.Errorf("unexpected bbox %+v", first.BBox)
	}
	if first.ChannelMeans == nil || first.ChannelMeans.G != 0.42 {
		t.Errorf("unexpected channel means %+v", first.ChannelMeans)
	}

	// Older exports omit the optional tensors entirely.
	second := s.Records[1]
	if second.BBox != nil || second.ChannelMeans != nil {
		t.Errorf("expected nil optional tensors, got bbox=%+v channels=%+v", second.BBox, second.ChannelMeans)
	}

	if s.Target[ClassHematoma] != 20 {
		t.Errorf("target hematoma share = %v, want 20", s.Target[ClassHematoma])
	}
}

func TestParseSummaryMalformedJSON(t *testing.T) {
	_, err := ParseSummary([]byte(`{"records": [`))
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestParseSummaryInvalidContent(t *testing.T) {
	bad := strings.Replace(summaryJSON, `"source_index": 61`, `"source_index": 0`, 1)

	_, err := ParseSummary([]byte(bad))
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestLoadSummary(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	if err := mfs.WriteFile("/data/summary.json", []byte(summaryJSON), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s, err := LoadSummary(mfs, "/data/summary.json")
	if err != nil {
		t.Fatalf("LoadSummary failed: %v", err)
	}
	if len(s.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(s.Records))
	}
}

func TestLoadSummaryRejectsWrongExtension(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	if err := mfs.WriteFile("/data/summary.yaml", []byte(summaryJSON), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := LoadSummary(mfs, "/data/summary.yaml")
	if err == nil || !strings.Contains(err.Error(), ".json") {
		t.Errorf("expected extension error, got %v", err)
	}
}

func TestLoadSummaryMissingFile(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	_, err := LoadSummary(mfs, "/data/summary.json")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
