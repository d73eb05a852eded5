// Package report renders dataset statistics to PNG chart files.
//
// A Builder takes one loaded summary and draws the requested chart set into a
// timestamped output directory, one PNG per chart. Charts whose inputs are
// absent from the summary (older exports without bbox or channel tensors) are
// skipped with a log line rather than failing the whole run.
package report

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/woundlab/segreport/internal/aggregate"
	"github.com/woundlab/segreport/internal/dataset"
	"github.com/woundlab/segreport/internal/security"
)

// Chart names accepted by Render.
const (
	ChartUsage    = "usage"
	ChartBalance  = "balance"
	ChartCoverage = "coverage"
	ChartBBoxes   = "bboxes"
	ChartChannels = "channels"
)

// DefaultCharts returns the full chart set in render order.
func DefaultCharts() []string {
	return []string{ChartUsage, ChartBalance, ChartCoverage, ChartBBoxes, ChartChannels}
}

// Options configures how a Builder draws its charts.
type Options struct {
	// UsedSourcesOnly drops zero-count sources from the usage histogram axis.
	UsedSourcesOnly bool

	// ClassOrder overrides the class axis order. Nil means the default order.
	ClassOrder []dataset.Class
}

// Builder renders charts for one summary.
type Builder struct {
	summary *dataset.Summary
	opts    Options
	order   []dataset.Class
}

// NewBuilder creates a Builder over an already-validated summary.
func NewBuilder(summary *dataset.Summary, opts Options) (*Builder, error) {
	if summary == nil {
		return nil, fmt.Errorf("summary is required")
	}
	order := opts.ClassOrder
	if len(order) == 0 {
		order = dataset.DefaultClassOrder
	}
	return &Builder{summary: summary, opts: opts, order: order}, nil
}

// Render draws the named charts into outputDir, creating the directory if
// needed. An empty chart list means the full default set. Returns the number
// of chart files written, which can be lower than len(charts) when a chart's
// inputs are absent from the summary.
func (b *Builder) Render(outputDir string, charts []string) (int, error) {
	if len(charts) == 0 {
		charts = DefaultCharts()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output dir: %w", err)
	}

	rendered := 0
	for _, name := range charts {
		err := b.renderChart(name, outputDir)
		if errors.Is(err, aggregate.ErrInvalidInput) {
			log.Printf("skipping %s chart: %v", name, err)
			continue
		}
		if err != nil {
			return rendered, fmt.Errorf("%s chart: %w", name, err)
		}
		rendered++
	}
	return rendered, nil
}

func (b *Builder) renderChart(name, outputDir string) error {
	switch name {
	case ChartUsage:
		return b.renderUsageChart(filepath.Join(outputDir, "usage_histogram.png"))
	case ChartBalance:
		return b.renderBalanceChart(filepath.Join(outputDir, "class_balance.png"))
	case ChartCoverage:
		return b.renderCoverageChart(filepath.Join(outputDir, "coverage_stats.png"))
	case ChartBBoxes:
		return b.renderBBoxChart(filepath.Join(outputDir, "bbox_dimensions.png"))
	case ChartChannels:
		return b.renderChannelChart(filepath.Join(outputDir, "channel_means.png"))
	default:
		return fmt.Errorf("unknown chart %q", name)
	}
}

// FormatTimestamp generates a timestamp string for directory naming.
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// MakeReportOutputDir builds a timestamped output directory for one report
// run. With a summary file: <baseDir>/<summary_basename>/<timestamp>.
// Without one: <baseDir>/report_<timestamp>. The basename is sanitized so
// exports named with spaces or drive-path remnants still yield a portable
// directory name.
func MakeReportOutputDir(baseDir, summaryFile string) string {
	ts := FormatTimestamp(time.Now())
	if summaryFile != "" {
		base := filepath.Base(summaryFile)
		ext := filepath.Ext(base)
		name := security.SanitizeFilename(base[:len(base)-len(ext)])
		return filepath.Join(baseDir, name, ts)
	}
	return filepath.Join(baseDir, "report_"+ts)
}
