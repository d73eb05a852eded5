// Package dataset defines the metadata model for the wound-segmentation
// dataset summary: per-image records, the class label set, and the target
// class distribution the dataset was balanced against.
//
// A summary is produced by the training pipeline, loaded once at process
// start, and held immutable for the lifetime of a reporting run. All derived
// statistics are computed on demand from these types by the aggregate package.
package dataset

import (
	"errors"
	"fmt"
)

// Class identifies one of the semantic segmentation classes annotated in the
// wound dataset.
type Class string

const (
	ClassScar       Class = "scar"
	ClassRedness    Class = "redness"
	ClassHematoma   Class = "hematoma"
	ClassNecrosis   Class = "necrosis"
	ClassBackground Class = "background"
)

// DefaultClassOrder is the canonical ordering of the five classes. Every
// aggregation and rendering step shares it so chart axes and legends line up
// across the whole report.
var DefaultClassOrder = []Class{
	ClassScar,
	ClassRedness,
	ClassHematoma,
	ClassNecrosis,
	ClassBackground,
}

// ErrInvalidRecord is wrapped by every validation failure in this package so
// loaders can detect malformed summaries with errors.Is.
var ErrInvalidRecord = errors.New("invalid dataset record")

// KnownClass reports whether c is one of the five annotated classes.
func KnownClass(c Class) bool {
	for _, k := range DefaultClassOrder {
		if c == k {
			return true
		}
	}
	return false
}

// BBox is the wound bounding box of one image in pixel coordinates.
type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the box area in pixels.
func (b BBox) Area() int {
	return b.Width * b.Height
}

// ChannelMeans holds the per-channel mean intensity of one image, with each
// channel normalised to [0, 1].
type ChannelMeans struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// MetadataRecord is one dataset image's metadata entry. SourceIndex refers to
// the original (pre-augmentation) image the sample was derived from, 1-based
// within a fixed source pool. The five coverage percentages are the fraction
// of the image's pixels assigned to each class by the segmentation masks and
// always sum to roughly 100.
//
// BBox and ChannelMeans are optional per-image tensors carried by newer
// summary exports; nil when the export predates them.
type MetadataRecord struct {
	SourceIndex int   `json:"source_index"`
	TargetClass Class `json:"target_class"`

	ScarPct       float64 `json:"scar_pct"`
	RednessPct    float64 `json:"redness_pct"`
	HematomaPct   float64 `json:"hematoma_pct"`
	NecrosisPct   float64 `json:"necrosis_pct"`
	BackgroundPct float64 `json:"background_pct"`

	BBox         *BBox         `json:"bbox,omitempty"`
	ChannelMeans *ChannelMeans `json:"channel_means,omitempty"`
}

// CoveragePct returns the coverage percentage column for the given class.
// Unknown classes return 0; callers are expected to iterate a class order
// that passed validation.
func (r MetadataRecord) CoveragePct(c Class) float64 {
	switch c {
	case ClassScar:
		return r.ScarPct
	case ClassRedness:
		return r.RednessPct
	case ClassHematoma:
		return r.HematomaPct
	case ClassNecrosis:
		return r.NecrosisPct
	case ClassBackground:
		return r.BackgroundPct
	default:
		return 0
	}
}

// Validate checks the record's field ranges: SourceIndex must be >= 1, the
// target class must be a known class, and every coverage percentage must lie
// in [0, 100]. Optional tensors are range-checked only when present.
func (r MetadataRecord) Validate() error {
	if r.SourceIndex < 1 {
		return fmt.Errorf("%w: source_index %d must be >= 1", ErrInvalidRecord, r.SourceIndex)
	}
	if !KnownClass(r.TargetClass) {
		return fmt.Errorf("%w: unknown target_class %q", ErrInvalidRecord, r.TargetClass)
	}
	for _, c := range DefaultClassOrder {
		pct := r.CoveragePct(c)
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%w: %s coverage %.4f outside [0, 100]", ErrInvalidRecord, c, pct)
		}
	}
	if r.BBox != nil {
		if r.BBox.Width < 0 || r.BBox.Height < 0 {
			return fmt.Errorf("%w: bbox %dx%d has negative extent", ErrInvalidRecord, r.BBox.Width, r.BBox.Height)
		}
	}
	if r.ChannelMeans != nil {
		for _, ch := range []struct {
			name string
			v    float64
		}{{"r", r.ChannelMeans.R}, {"g", r.ChannelMeans.G}, {"b", r.ChannelMeans.B}} {
			if ch.v < 0 || ch.v > 1 {
				return fmt.Errorf("%w: channel %s mean %.4f outside [0, 1]", ErrInvalidRecord, ch.name, ch.v)
			}
		}
	}
	return nil
}

// TargetDistribution maps each class to the percentage share the dataset was
// balanced towards. Shares are expected to sum to roughly 100; the aggregation
// only requires that every class of the active order has an entry.
type TargetDistribution map[Class]float64

// Validate checks that every class in order has a share and that each share
// lies in [0, 100].
func (t TargetDistribution) Validate(order []Class) error {
	for _, c := range order {
		share, ok := t[c]
		if !ok {
			return fmt.Errorf("%w: target distribution missing class %q", ErrInvalidRecord, c)
		}
		if share < 0 || share > 100 {
			return fmt.Errorf("%w: target share for %s is %.4f, outside [0, 100]", ErrInvalidRecord, c, share)
		}
	}
	return nil
}

// Summary is the loaded dataset summary: the ordered record list, the target
// distribution, and the size of the source-image pool usage counts are
// tracked against. Treated as read-only after loading.
type Summary struct {
	Records        []MetadataRecord   `json:"records"`
	Target         TargetDistribution `json:"target_distribution"`
	SourcePoolSize int                `json:"source_pool_size"`
}

// Validate checks the pool size, every record, and the target distribution
// against the default class order. Returns the first failure with its record
// position.
func (s *Summary) Validate() error {
	if s.SourcePoolSize < 1 {
		return fmt.Errorf("%w: source_pool_size %d must be >= 1", ErrInvalidRecord, s.SourcePoolSize)
	}
	for i, r := range s.Records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if r.SourceIndex > s.SourcePoolSize {
			return fmt.Errorf("%w: record %d source_index %d exceeds pool size %d",
				ErrInvalidRecord, i, r.SourceIndex, s.SourcePoolSize)
		}
	}
	if err := s.Target.Validate(DefaultClassOrder); err != nil {
		return err
	}
	return nil
}
