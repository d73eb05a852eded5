package store

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/woundlab/segreport/internal/dataset"
	"github.com/woundlab/segreport/internal/fsutil"
)

func TestReplaceSummaryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	want := testSummary()

	if err := db.ReplaceSummary(want); err != nil {
		t.Fatalf("ReplaceSummary failed: %v", err)
	}

	got, err := db.LoadSummary()
	if err != nil {
		t.Fatalf("LoadSummary failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceSummaryOverwrites(t *testing.T) {
	db := newTestDB(t)

	first := testSummary()
	if err := db.ReplaceSummary(first); err != nil {
		t.Fatalf("first ReplaceSummary failed: %v", err)
	}

	second := testSummary()
	second.Records = second.Records[:1]
	second.SourcePoolSize = 400
	if err := db.ReplaceSummary(second); err != nil {
		t.Fatalf("second ReplaceSummary failed: %v", err)
	}

	got, err := db.LoadSummary()
	if err != nil {
		t.Fatalf("LoadSummary failed: %v", err)
	}
	if len(got.Records) != 1 {
		t.Errorf("expected 1 record after overwrite, got %d", len(got.Records))
	}
	if got.SourcePoolSize != 400 {
		t.Errorf("expected pool size 400 after overwrite, got %d", got.SourcePoolSize)
	}
}

func TestReplaceSummaryInvalidLeavesStoreIntact(t *testing.T) {
	db := newTestDB(t)

	if err := db.ReplaceSummary(testSummary()); err != nil {
		t.Fatalf("ReplaceSummary failed: %v", err)
	}

	bad := testSummary()
	bad.SourcePoolSize = 0
	if err := db.ReplaceSummary(bad); !errors.Is(err, dataset.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}

	got, err := db.LoadSummary()
	if err != nil {
		t.Fatalf("LoadSummary after failed replace: %v", err)
	}
	if got.SourcePoolSize != testSummary().SourcePoolSize {
		t.Errorf("previous summary should survive a rejected replace, pool size = %d", got.SourcePoolSize)
	}
}

func TestLoadSummaryEmpty(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.LoadSummary(); !errors.Is(err, ErrNoSummary) {
		t.Errorf("expected ErrNoSummary on empty store, got %v", err)
	}
}

func TestTargetDistribution(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.TargetDistribution(); !errors.Is(err, ErrNoSummary) {
		t.Fatalf("expected ErrNoSummary before any import, got %v", err)
	}

	want := testSummary().Target
	if err := db.ReplaceTargetDistribution(want); err != nil {
		t.Fatalf("ReplaceTargetDistribution failed: %v", err)
	}

	got, err := db.TargetDistribution()
	if err != nil {
		t.Fatalf("TargetDistribution failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("target mismatch (-want +got):\n%s", diff)
	}

	incomplete := dataset.TargetDistribution{dataset.ClassScar: 100}
	if err := db.ReplaceTargetDistribution(incomplete); !errors.Is(err, dataset.ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord for incomplete distribution, got %v", err)
	}
}

func TestSourcePoolSize(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.SourcePoolSize(); !errors.Is(err, ErrNoSummary) {
		t.Fatalf("expected ErrNoSummary before set, got %v", err)
	}

	if err := db.SetSourcePoolSize(0); !errors.Is(err, dataset.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for pool size 0, got %v", err)
	}

	if err := db.SetSourcePoolSize(306); err != nil {
		t.Fatalf("SetSourcePoolSize failed: %v", err)
	}

	n, err := db.SourcePoolSize()
	if err != nil {
		t.Fatalf("SourcePoolSize failed: %v", err)
	}
	if n != 306 {
		t.Errorf("SourcePoolSize = %d, want 306", n)
	}
}

func TestImportedAt(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.ImportedAt(); !errors.Is(err, ErrNoSummary) {
		t.Fatalf("expected ErrNoSummary before import, got %v", err)
	}

	if err := db.ReplaceSummary(testSummary()); err != nil {
		t.Fatalf("ReplaceSummary failed: %v", err)
	}

	at, err := db.ImportedAt()
	if err != nil {
		t.Fatalf("ImportedAt failed: %v", err)
	}
	if at.IsZero() {
		t.Error("expected non-zero import timestamp")
	}
}

func TestImportSummaryJSON(t *testing.T) {
	want := testSummary()
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}

	memFS := fsutil.NewMemoryFileSystem()
	if err := memFS.WriteFile("data/dataset_summary.json", data, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	db := newTestDB(t)
	n, err := db.ImportSummaryJSON(memFS, "data/dataset_summary.json")
	if err != nil {
		t.Fatalf("ImportSummaryJSON failed: %v", err)
	}
	if n != len(want.Records) {
		t.Errorf("imported %d records, want %d", n, len(want.Records))
	}

	got, err := db.LoadSummary()
	if err != nil {
		t.Fatalf("LoadSummary failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestImportSummaryJSONMalformed(t *testing.T) {
	memFS := fsutil.NewMemoryFileSystem()
	if err := memFS.WriteFile("data/bad.json", []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	db := newTestDB(t)
	if _, err := db.ImportSummaryJSON(memFS, "data/bad.json"); err == nil {
		t.Error("expected error for malformed summary JSON")
	}

	n, err := db.CountRecords()
	if err != nil {
		t.Fatalf("CountRecords failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no rows after failed import, got %d", n)
	}
}
