package main

import (
	"flag"
	"log"

	"github.com/woundlab/segreport/internal/fsutil"
	"github.com/woundlab/segreport/internal/pathutil"
)

func main() {
	summaryPath := flag.String("summary", "data/dataset_summary.json", "path to the summary JSON export")
	dbPath := flag.String("db", "data/segreport.db", "path to the SQLite store")
	migrationsDir := flag.String("migrations", "migrations", "path to the schema migrations directory")
	mountRoot := flag.String("mount-root", pathutil.DefaultMountRoot, "mount root for drive-letter path translation")
	flag.Parse()

	count, err := RunImport(fsutil.OSFileSystem{}, *dbPath, *migrationsDir, *summaryPath, *mountRoot)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("done: imported %d records into %s", count, *dbPath)
}
