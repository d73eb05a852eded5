package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/woundlab/segreport/internal/config"
	"github.com/woundlab/segreport/internal/fsutil"
	"github.com/woundlab/segreport/internal/imaging"
)

func main() {
	dir := flag.String("dir", "", "directory of images to scan")
	configPath := flag.String("config", "", "path to a report config JSON file")
	threshold := flag.Float64("threshold", imaging.DefaultWhiteThreshold, "white threshold in [0, 1]")
	csvOut := flag.String("csv", "", "write per-image results CSV to this path (default: stdout)")
	summaryOut := flag.String("summary-csv", "", "write the batch summary CSV to this path")
	maskDir := flag.String("masks", "", "write mask and overlay PNGs to this directory")
	flag.Parse()

	if *dir == "" {
		log.Fatal("-dir is required")
	}

	osfs := fsutil.OSFileSystem{}

	thr := *threshold
	if *configPath != "" {
		cfg, err := config.LoadReportConfig(osfs, *configPath)
		if err != nil {
			log.Fatalf("failed to load config %s: %v", *configPath, err)
		}
		thr = cfg.GetWhiteThreshold()
		flag.Visit(func(f *flag.Flag) {
			if f.Name == "threshold" {
				thr = *threshold
			}
		})
	}

	results, summary, err := RunScan(osfs, *dir, ScanOptions{Threshold: thr, MaskDir: *maskDir})
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}

	var out io.Writer = os.Stdout
	if *csvOut != "" {
		f, err := osfs.Create(*csvOut)
		if err != nil {
			log.Fatalf("failed to create CSV output: %v", err)
		}
		defer f.Close()
		out = f
	}
	if err := WriteResultsCSV(out, results); err != nil {
		log.Fatalf("failed to write results CSV: %v", err)
	}

	if *summaryOut != "" {
		f, err := osfs.Create(*summaryOut)
		if err != nil {
			log.Fatalf("failed to create summary CSV output: %v", err)
		}
		defer f.Close()
		if err := WriteSummaryCSV(f, summary); err != nil {
			log.Fatalf("failed to write summary CSV: %v", err)
		}
	}

	log.Printf("scanned %d images at threshold %.2f: white%% min=%.2f max=%.2f mean=%.2f median=%.2f",
		len(results), thr, summary.Min, summary.Max, summary.Mean, summary.Median)
}
