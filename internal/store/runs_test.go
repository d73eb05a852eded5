package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRecordReportRun(t *testing.T) {
	db := newTestDB(t)

	runID, err := db.RecordReportRun("reports/20260215_104500", 5)
	if err != nil {
		t.Fatalf("RecordReportRun failed: %v", err)
	}
	if _, err := uuid.Parse(runID); err != nil {
		t.Errorf("run ID %q is not a valid UUID: %v", runID, err)
	}

	runs, err := db.ListReportRuns(10)
	if err != nil {
		t.Fatalf("ListReportRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	run := runs[0]
	if run.RunID != runID {
		t.Errorf("RunID = %q, want %q", run.RunID, runID)
	}
	if run.OutputDir != "reports/20260215_104500" {
		t.Errorf("OutputDir = %q, want reports/20260215_104500", run.OutputDir)
	}
	if run.ChartCount != 5 {
		t.Errorf("ChartCount = %d, want 5", run.ChartCount)
	}
	if time.Since(run.CreatedAt) > time.Minute {
		t.Errorf("CreatedAt %v is not recent", run.CreatedAt)
	}
}

func TestListReportRunsNewestFirst(t *testing.T) {
	db := newTestDB(t)

	// Insert with explicit timestamps so ordering does not depend on clock
	// resolution between calls.
	base := time.Now().UnixNano()
	for i := 0; i < 3; i++ {
		_, err := db.Exec(
			"INSERT INTO report_runs (run_id, output_dir, chart_count, created_at_ns) VALUES (?, ?, ?, ?)",
			uuid.New().String(), "reports/run", i, base+int64(i),
		)
		if err != nil {
			t.Fatalf("failed to insert run %d: %v", i, err)
		}
	}

	runs, err := db.ListReportRuns(10)
	if err != nil {
		t.Fatalf("ListReportRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i := 0; i < len(runs)-1; i++ {
		if runs[i].CreatedAt.Before(runs[i+1].CreatedAt) {
			t.Errorf("runs out of order at %d: %v before %v", i, runs[i].CreatedAt, runs[i+1].CreatedAt)
		}
	}
	if runs[0].ChartCount != 2 {
		t.Errorf("newest run should be last inserted, got chart count %d", runs[0].ChartCount)
	}
}

func TestListReportRunsLimit(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 5; i++ {
		if _, err := db.RecordReportRun("reports/run", i); err != nil {
			t.Fatalf("RecordReportRun failed: %v", err)
		}
	}

	runs, err := db.ListReportRuns(2)
	if err != nil {
		t.Fatalf("ListReportRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected limit of 2 runs, got %d", len(runs))
	}

	// Zero limit falls back to the default instead of returning nothing.
	runs, err = db.ListReportRuns(0)
	if err != nil {
		t.Fatalf("ListReportRuns with zero limit failed: %v", err)
	}
	if len(runs) != 5 {
		t.Errorf("expected all 5 runs with default limit, got %d", len(runs))
	}
}
