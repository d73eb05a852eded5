package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/woundlab/segreport/internal/config"
	"github.com/woundlab/segreport/internal/dataset"
	"github.com/woundlab/segreport/internal/fsutil"
	"github.com/woundlab/segreport/internal/pathutil"
	"github.com/woundlab/segreport/internal/report"
	"github.com/woundlab/segreport/internal/store"
	"github.com/woundlab/segreport/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a report config JSON file")
	summaryPath = flag.String("summary", "", "Path to the dataset summary JSON export")
	dbPath      = flag.String("db", "", "Path to the SQLite store")
	fromStore   = flag.Bool("from-store", false, "Load the summary from the SQLite store instead of a JSON export")
	outputDir   = flag.String("out", "", "Base directory for report output")
	chartList   = flag.String("charts", "", "Comma-separated charts to render (default: all)")
	usedOnly    = flag.Bool("used-only", true, "Show only used sources on the usage histogram")
	mountRoot   = flag.String("mount-root", "", "Mount root for Windows drive-letter path translation")
	noRunLog    = flag.Bool("no-run-log", false, "Skip recording the run in the SQLite store")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

// parseCharts splits a comma-separated chart selection, dropping empty
// entries. Returns nil for an empty selection so the config default applies.
func parseCharts(s string) []string {
	var charts []string
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		charts = append(charts, name)
	}
	return charts
}

// loadConfig reads the configured report settings. An explicit -config path
// must load; the default config file is used only when present.
func loadConfig(fsys fsutil.FileSystem) *config.ReportConfig {
	if *configPath != "" {
		cfg, err := config.LoadReportConfig(fsys, *configPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
		return cfg
	}
	if fsys.Exists(config.DefaultConfigPath) {
		cfg, err := config.LoadReportConfig(fsys, config.DefaultConfigPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", config.DefaultConfigPath, err)
		}
		log.Printf("Using defaults from %s", config.DefaultConfigPath)
		return cfg
	}
	return config.EmptyReportConfig()
}

// loadSummaryFromExport resolves the summary export path across platform
// conventions and loads it.
func loadSummaryFromExport(fsys fsutil.FileSystem, cfg *config.ReportConfig) (*dataset.Summary, string) {
	path := *summaryPath
	if path == "" {
		path = cfg.GetSummaryPath()
	}
	mount := *mountRoot
	if mount == "" {
		mount = cfg.GetMountRoot()
	}

	resolved, err := pathutil.ResolveFirst(fsys, pathutil.CrossPlatformCandidates(path, mount)...)
	if err != nil {
		log.Fatalf("Failed to locate summary export: %v", err)
	}

	summary, err := dataset.LoadSummary(fsys, resolved)
	if err != nil {
		log.Fatalf("Failed to load summary %s: %v", resolved, err)
	}
	log.Printf("Loaded %d records from %s", len(summary.Records), resolved)
	return summary, resolved
}

// loadSummaryFromStore reads the previously imported summary out of SQLite.
func loadSummaryFromStore(dbFile string) *dataset.Summary {
	db, err := store.Open(dbFile)
	if err != nil {
		log.Fatalf("Failed to open store %s: %v", dbFile, err)
	}
	defer db.Close()

	summary, err := db.LoadSummary()
	if errors.Is(err, store.ErrNoSummary) {
		log.Fatalf("Store %s has no summary; run summary-import first", dbFile)
	}
	if err != nil {
		log.Fatalf("Failed to load summary from store: %v", err)
	}
	log.Printf("Loaded %d records from store %s", len(summary.Records), dbFile)
	return summary
}

// applyOverrides replaces the summary's target distribution and pool size
// with configured values, revalidating the result.
func applyOverrides(summary *dataset.Summary, cfg *config.ReportConfig) {
	if target := cfg.GetTargetDistribution(); target != nil {
		summary.Target = target
	}
	if pool := cfg.GetSourcePoolSize(); pool > 0 {
		summary.SourcePoolSize = pool
	}
	if err := summary.Validate(); err != nil {
		log.Fatalf("Summary invalid after config overrides: %v", err)
	}
}

// recordRun notes the finished report in the SQLite store when one exists.
func recordRun(fsys fsutil.FileSystem, dbFile, outDir string, charts int) {
	if !fsys.Exists(dbFile) {
		log.Printf("Store %s not found; skipping run log", dbFile)
		return
	}

	db, err := store.Open(dbFile)
	if err != nil {
		log.Printf("Failed to open store for run log: %v", err)
		return
	}
	defer db.Close()

	runID, err := db.RecordReportRun(outDir, charts)
	if err != nil {
		log.Printf("Failed to record report run: %v", err)
		return
	}
	log.Printf("Recorded report run %s", runID)
}

// Main
func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	osfs := fsutil.OSFileSystem{}
	cfg := loadConfig(osfs)

	dbFile := *dbPath
	if dbFile == "" {
		dbFile = cfg.GetDatabasePath()
	}

	var summary *dataset.Summary
	var summaryFile string
	if *fromStore {
		summary = loadSummaryFromStore(dbFile)
	} else {
		summary, summaryFile = loadSummaryFromExport(osfs, cfg)
	}

	applyOverrides(summary, cfg)

	charts := parseCharts(*chartList)
	if charts == nil {
		charts = cfg.GetCharts()
	}

	showUsedOnly := cfg.GetUsedSourcesOnly()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "used-only" {
			showUsedOnly = *usedOnly
		}
	})

	outBase := *outputDir
	if outBase == "" {
		outBase = cfg.GetOutputDir()
	}
	outDir := report.MakeReportOutputDir(outBase, summaryFile)

	builder, err := report.NewBuilder(summary, report.Options{UsedSourcesOnly: showUsedOnly})
	if err != nil {
		log.Fatalf("Failed to build report: %v", err)
	}

	rendered, err := builder.Render(outDir, charts)
	if err != nil {
		log.Fatalf("Failed to render report: %v", err)
	}
	log.Printf("Report complete: %d charts in %s", rendered, outDir)

	if !*noRunLog {
		recordRun(osfs, dbFile, outDir, rendered)
	}
}
