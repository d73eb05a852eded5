package aggregate

import (
	"fmt"

	"github.com/woundlab/segreport/internal/dataset"
)

// BoundingBoxStats summarizes the wound bounding boxes of the records that
// carry one: column statistics for width, height, and area in pixels, plus
// the number of contributing records.
type BoundingBoxStats struct {
	Width  CoverageStats `json:"width"`
	Height CoverageStats `json:"height"`
	Area   CoverageStats `json:"area"`
	Count  int           `json:"count"`
}

// ComputeBoundingBoxStats reduces the bounding boxes of every record carrying
// one. Older summary exports have no bbox tensors at all; that case fails
// with ErrInvalidInput so callers can skip the chart instead of drawing an
// empty one.
func ComputeBoundingBoxStats(records []dataset.MetadataRecord) (BoundingBoxStats, error) {
	var widths, heights, areas []float64
	for _, r := range records {
		if r.BBox == nil {
			continue
		}
		widths = append(widths, float64(r.BBox.Width))
		heights = append(heights, float64(r.BBox.Height))
		areas = append(areas, float64(r.BBox.Area()))
	}
	if len(widths) == 0 {
		return BoundingBoxStats{}, fmt.Errorf("%w: no record carries a bounding box", ErrInvalidInput)
	}

	return BoundingBoxStats{
		Width:  describe(widths),
		Height: describe(heights),
		Area:   describe(areas),
		Count:  len(widths),
	}, nil
}

// ChannelStats summarizes the per-channel mean intensities of the records
// that carry channel tensors. Values are normalized to [0, 1].
type ChannelStats struct {
	R     CoverageStats `json:"r"`
	G     CoverageStats `json:"g"`
	B     CoverageStats `json:"b"`
	Count int           `json:"count"`
}

// ComputeChannelStats reduces the channel-mean tensors of every record
// carrying one. Summaries without channel tensors fail with ErrInvalidInput.
func ComputeChannelStats(records []dataset.MetadataRecord) (ChannelStats, error) {
	var rs, gs, bs []float64
	for _, r := range records {
		if r.ChannelMeans == nil {
			continue
		}
		rs = append(rs, r.ChannelMeans.R)
		gs = append(gs, r.ChannelMeans.G)
		bs = append(bs, r.ChannelMeans.B)
	}
	if len(rs) == 0 {
		return ChannelStats{}, fmt.Errorf("%w: no record carries channel means", ErrInvalidInput)
	}

	return ChannelStats{
		R:     describe(rs),
		G:     describe(gs),
		B:     describe(bs),
		Count: len(rs),
	}, nil
}
