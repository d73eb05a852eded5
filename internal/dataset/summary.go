package dataset

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/woundlab/segreport/internal/fsutil"
)

// maxSummaryFileSize caps summary reads at 64MB. Real exports for the wound
// dataset are under 10MB; anything larger is a wrong file.
const maxSummaryFileSize = 64 * 1024 * 1024

// ParseSummary decodes and validates a summary JSON document.
func ParseSummary(data []byte) (*Summary, error) {
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse summary JSON: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid summary: %w", err)
	}
	return &s, nil
}

// LoadSummary reads a summary export from the given filesystem. The file must
// have a .json extension and stay under the size cap; the decoded summary is
// validated before being returned.
func LoadSummary(fsys fsutil.FileSystem, path string) (*Summary, error) {
	if filepath.Ext(path) != ".json" {
		return nil, fmt.Errorf("summary file must have .json extension: %s", path)
	}

	info, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat summary file: %w", err)
	}
	if info.Size() > maxSummaryFileSize {
		return nil, fmt.Errorf("summary file too large: %d bytes (max %d)", info.Size(), maxSummaryFileSize)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary file: %w", err)
	}

	return ParseSummary(data)
}
