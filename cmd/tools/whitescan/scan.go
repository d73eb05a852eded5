package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/woundlab/segreport/internal/fsutil"
	"github.com/woundlab/segreport/internal/imaging"
)

// ScanResult is the white-region classification of one scanned image.
type ScanResult struct {
	Path       string
	WhitePct   float64
	WhiteCount int
	TotalCount int
}

// ScanOptions controls a directory scan.
type ScanOptions struct {
	Threshold float64
	MaskDir   string // when set, mask and overlay PNGs are written here
}

// overlayHighlight paints classified pixels in the overlays.
var overlayHighlight = color.RGBA{R: 0xff, G: 0x52, B: 0x52, A: 0xff}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}

// RunScan classifies every image in dir against the white threshold and
// reduces the batch to its summary statistics. Non-image files are skipped;
// an unreadable or undecodable image fails the scan.
func RunScan(fsys fsutil.FileSystem, dir string, opts ScanOptions) ([]ScanResult, imaging.WhiteRegionSummary, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, imaging.WhiteRegionSummary{}, fmt.Errorf("failed to read scan directory: %w", err)
	}

	if opts.MaskDir != "" {
		if err := fsys.MkdirAll(opts.MaskDir, 0o755); err != nil {
			return nil, imaging.WhiteRegionSummary{}, fmt.Errorf("failed to create mask directory: %w", err)
		}
	}

	var results []ScanResult
	var images []*imaging.Image
	for _, entry := range entries {
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}

		imgPath := filepath.Join(dir, entry.Name())
		img, err := imaging.DecodeFile(fsys, imgPath)
		if err != nil {
			return nil, imaging.WhiteRegionSummary{}, err
		}

		res, err := imaging.ExtractWhiteRegions(img, opts.Threshold)
		if err != nil {
			return nil, imaging.WhiteRegionSummary{}, fmt.Errorf("%s: %w", imgPath, err)
		}

		if opts.MaskDir != "" {
			if err := saveMaskArtifacts(fsys, opts.MaskDir, entry.Name(), img, res.Mask); err != nil {
				return nil, imaging.WhiteRegionSummary{}, err
			}
		}

		results = append(results, ScanResult{
			Path:       imgPath,
			WhitePct:   res.Percentage,
			WhiteCount: res.WhiteCount,
			TotalCount: res.TotalCount,
		})
		images = append(images, img)
	}

	summary, err := imaging.SummarizeWhiteRegions(images, opts.Threshold)
	if err != nil {
		return nil, imaging.WhiteRegionSummary{}, fmt.Errorf("failed to summarize scan: %w", err)
	}

	return results, summary, nil
}

// saveMaskArtifacts writes the binary mask and the source-with-highlight
// overlay for one image.
func saveMaskArtifacts(fsys fsutil.FileSystem, maskDir, name string, img *imaging.Image, mask imaging.Mask) error {
	base := strings.TrimSuffix(name, filepath.Ext(name))

	var maskBuf bytes.Buffer
	if err := png.Encode(&maskBuf, mask.Render()); err != nil {
		return fmt.Errorf("failed to encode mask for %s: %w", name, err)
	}
	if err := fsys.WriteFile(filepath.Join(maskDir, base+"_mask.png"), maskBuf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write mask for %s: %w", name, err)
	}

	var overlayBuf bytes.Buffer
	if err := png.Encode(&overlayBuf, imaging.OverlayMask(img, mask, overlayHighlight)); err != nil {
		return fmt.Errorf("failed to encode overlay for %s: %w", name, err)
	}
	if err := fsys.WriteFile(filepath.Join(maskDir, base+"_overlay.png"), overlayBuf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write overlay for %s: %w", name, err)
	}
	return nil
}

// WriteResultsCSV writes one row per scanned image.
func WriteResultsCSV(w io.Writer, results []ScanResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"path", "white_pct", "white_pixels", "total_pixels"}); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Path,
			strconv.FormatFloat(r.WhitePct, 'f', 2, 64),
			strconv.Itoa(r.WhiteCount),
			strconv.Itoa(r.TotalCount),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes the batch reduction as a single CSV row.
func WriteSummaryCSV(w io.Writer, s imaging.WhiteRegionSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"min_pct", "max_pct", "mean_pct", "median_pct"}); err != nil {
		return err
	}
	row := []string{
		strconv.FormatFloat(s.Min, 'f', 2, 64),
		strconv.FormatFloat(s.Max, 'f', 2, 64),
		strconv.FormatFloat(s.Mean, 'f', 2, 64),
		strconv.FormatFloat(s.Median, 'f', 2, 64),
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
