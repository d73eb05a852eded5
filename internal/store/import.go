package store

import (
	"github.com/woundlab/segreport/internal/dataset"
	"github.com/woundlab/segreport/internal/fsutil"
)

// ImportSummaryJSON loads a summary export from jsonPath and replaces the
// stored summary with it. Returns the number of records imported.
func (db *DB) ImportSummaryJSON(fsys fsutil.FileSystem, jsonPath string) (int, error) {
	s, err := dataset.LoadSummary(fsys, jsonPath)
	if err != nil {
		return 0, err
	}
	if err := db.ReplaceSummary(s); err != nil {
		return 0, err
	}
	return len(s.Records), nil
}
