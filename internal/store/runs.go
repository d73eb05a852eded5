package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReportRun is one recorded report generation: where the charts were written
// and how many were rendered.
type ReportRun struct {
	RunID      string    `json:"run_id"`
	OutputDir  string    `json:"output_dir"`
	ChartCount int       `json:"chart_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecordReportRun stores a new report run and returns its generated ID.
func (db *DB) RecordReportRun(outputDir string, chartCount int) (string, error) {
	runID := uuid.New().String()

	_, err := db.Exec(
		"INSERT INTO report_runs (run_id, output_dir, chart_count, created_at_ns) VALUES (?, ?, ?, ?)",
		runID, outputDir, chartCount, time.Now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record report run: %w", err)
	}
	return runID, nil
}

// ListReportRuns returns the most recent runs, newest first. A non-positive
// limit falls back to 20.
func (db *DB) ListReportRuns(limit int) ([]ReportRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT run_id, output_dir, chart_count, created_at_ns
		FROM report_runs
		ORDER BY created_at_ns DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer rows.Close()

	var runs []ReportRun
	for rows.Next() {
		var run ReportRun
		var createdAtNs int64
		if err := rows.Scan(&run.RunID, &run.OutputDir, &run.ChartCount, &createdAtNs); err != nil {
			return nil, fmt.Errorf("failed to scan report run: %w", err)
		}
		run.CreatedAt = time.Unix(0, createdAtNs)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}

	return runs, nil
}
