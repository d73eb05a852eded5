package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/woundlab/segreport/internal/dataset"
	"github.com/woundlab/segreport/internal/fsutil"
)

// DefaultConfigPath is the path to the canonical report defaults file.
// This is the single source of truth for all default report settings.
const DefaultConfigPath = "config/report.defaults.json"

// ChartNames lists every chart the report and viewer know how to render, in
// the order reports emit them.
var ChartNames = []string{"usage", "balance", "coverage", "bboxes", "channels"}

// ReportConfig is the root configuration for the reporting tools. Fields are
// pointers so a partial JSON file only overrides what it names; the Get*
// methods supply defaults for everything else.
type ReportConfig struct {
	// Input locations
	SummaryPath  *string `json:"summary_path,omitempty"`
	DatabasePath *string `json:"database_path,omitempty"`
	MountRoot    *string `json:"mount_root,omitempty"`

	// Aggregation params
	TargetDistribution map[string]float64 `json:"target_distribution,omitempty"`
	SourcePoolSize     *int               `json:"source_pool_size,omitempty"`

	// Classifier params
	WhiteThreshold *float64 `json:"white_threshold,omitempty"`

	// Report output params
	OutputDir       *string  `json:"output_dir,omitempty"`
	Charts          []string `json:"charts,omitempty"`
	UsedSourcesOnly *bool    `json:"used_sources_only,omitempty"`

	// Viewer params
	ListenAddr *string `json:"listen_addr,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyReportConfig returns a ReportConfig with all fields set to nil.
// Use LoadReportConfig to load actual values from a file.
func EmptyReportConfig() *ReportConfig {
	return &ReportConfig{}
}

// LoadReportConfig loads a ReportConfig from a JSON file on the given
// filesystem. The file is validated to ensure it has a .json extension and
// is under the max file size. Fields omitted from the JSON file fall back to
// the Get* defaults, so partial configs are safe.
func LoadReportConfig(fsys fsutil.FileSystem, path string) (*ReportConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyReportConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical report defaults from
// DefaultConfigPath, searching the current directory and common parents.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *ReportConfig {
	osfs := fsutil.OSFileSystem{}
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/tools/
	}
	for _, path := range candidates {
		if cfg, err := LoadReportConfig(osfs, path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *ReportConfig) Validate() error {
	if c.WhiteThreshold != nil {
		if *c.WhiteThreshold < 0 || *c.WhiteThreshold > 1 {
			return fmt.Errorf("white_threshold must be between 0 and 1, got %f", *c.WhiteThreshold)
		}
	}

	if c.SourcePoolSize != nil {
		if *c.SourcePoolSize < 1 {
			return fmt.Errorf("source_pool_size must be at least 1, got %d", *c.SourcePoolSize)
		}
	}

	for class, share := range c.TargetDistribution {
		if !dataset.KnownClass(dataset.Class(class)) {
			return fmt.Errorf("target_distribution names unknown class %q", class)
		}
		if share < 0 || share > 100 {
			return fmt.Errorf("target_distribution share for %s must be between 0 and 100, got %f", class, share)
		}
	}

	for _, chart := range c.Charts {
		if !knownChart(chart) {
			return fmt.Errorf("unknown chart %q, valid charts: %v", chart, ChartNames)
		}
	}

	return nil
}

func knownChart(name string) bool {
	for _, c := range ChartNames {
		if c == name {
			return true
		}
	}
	return false
}

// GetSummaryPath returns the summary_path value or the default.
func (c *ReportConfig) GetSummaryPath() string {
	if c.SummaryPath == nil || *c.SummaryPath == "" {
		return "data/dataset_summary.json"
	}
	return *c.SummaryPath
}

// GetDatabasePath returns the database_path value or the default.
func (c *ReportConfig) GetDatabasePath() string {
	if c.DatabasePath == nil || *c.DatabasePath == "" {
		return "data/segreport.db"
	}
	return *c.DatabasePath
}

// GetMountRoot returns the mount_root value or the default.
func (c *ReportConfig) GetMountRoot() string {
	if c.MountRoot == nil || *c.MountRoot == "" {
		return "/mnt"
	}
	return *c.MountRoot
}

// GetTargetDistribution returns the configured distribution override, or nil
// when the store's distribution should be used.
func (c *ReportConfig) GetTargetDistribution() dataset.TargetDistribution {
	if len(c.TargetDistribution) == 0 {
		return nil
	}
	target := make(dataset.TargetDistribution, len(c.TargetDistribution))
	for class, share := range c.TargetDistribution {
		target[dataset.Class(class)] = share
	}
	return target
}

// GetSourcePoolSize returns the source_pool_size override, or 0 when the
// summary's own pool size should be used.
func (c *ReportConfig) GetSourcePoolSize() int {
	if c.SourcePoolSize == nil {
		return 0
	}
	return *c.SourcePoolSize
}

// GetWhiteThreshold returns the white_threshold value or the default.
func (c *ReportConfig) GetWhiteThreshold() float64 {
	if c.WhiteThreshold == nil {
		return 0.8 // default, matches the classifier's DefaultWhiteThreshold
	}
	return *c.WhiteThreshold
}

// GetOutputDir returns the output_dir value or the default.
func (c *ReportConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "reports"
	}
	return *c.OutputDir
}

// GetCharts returns the chart selection, defaulting to every known chart.
func (c *ReportConfig) GetCharts() []string {
	if len(c.Charts) == 0 {
		charts := make([]string, len(ChartNames))
		copy(charts, ChartNames)
		return charts
	}
	return c.Charts
}

// GetUsedSourcesOnly reports whether the usage chart should show only
// sources with a non-zero count.
func (c *ReportConfig) GetUsedSourcesOnly() bool {
	if c.UsedSourcesOnly == nil {
		return true // default: unused sources clutter the axis
	}
	return *c.UsedSourcesOnly
}

// GetListenAddr returns the viewer listen address or the default.
func (c *ReportConfig) GetListenAddr() string {
	if c.ListenAddr == nil || *c.ListenAddr == "" {
		return ":8080"
	}
	return *c.ListenAddr
}
