package main

import (
	"fmt"

	"github.com/woundlab/segreport/internal/fsutil"
	"github.com/woundlab/segreport/internal/pathutil"
	"github.com/woundlab/segreport/internal/store"
)

// RunImport migrates the store at dbPath and replaces its summary with the
// export at summaryPath, probing the platform path conventions to find it.
// Returns the number of records imported.
func RunImport(fsys fsutil.FileSystem, dbPath, migrationsDir, summaryPath, mountRoot string) (int, error) {
	resolved, err := pathutil.ResolveFirst(fsys, pathutil.CrossPlatformCandidates(summaryPath, mountRoot)...)
	if err != nil {
		return 0, err
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if err := db.MigrateUp(migrationsDir); err != nil {
		return 0, fmt.Errorf("failed to migrate store: %w", err)
	}

	return db.ImportSummaryJSON(fsys, resolved)
}
