package imaging

import (
	"fmt"
	"sort"
)

// DefaultWhiteThreshold is the brightness cutoff used when no threshold is
// configured. Chosen to match the calibration-marker detection the dataset
// was annotated with.
const DefaultWhiteThreshold = 0.8

// WhiteRegionResult is the outcome of classifying one image: the binary mask
// (same dimensions as the input), the pixel tallies, the percentage of white
// pixels, and the threshold that produced it. Derived fresh per image and
// never persisted.
type WhiteRegionResult struct {
	Mask       Mask
	WhiteCount int
	TotalCount int
	Percentage float64
	Threshold  float64
}

// ExtractWhiteRegions classifies each pixel of img as white iff all three
// channels are >= threshold, and returns the mask with its summary tallies.
// The threshold must lie in [0, 1] and the image must have at least one
// pixel; both violations fail with ErrInvalidInput. Pure and deterministic:
// the same image and threshold always produce an identical mask.
func ExtractWhiteRegions(img *Image, threshold float64) (WhiteRegionResult, error) {
	if threshold < 0 || threshold > 1 {
		return WhiteRegionResult{}, fmt.Errorf("%w: threshold %.4f outside [0, 1]", ErrInvalidInput, threshold)
	}
	if img == nil || img.PixelCount() == 0 {
		return WhiteRegionResult{}, fmt.Errorf("%w: image has no pixels", ErrInvalidInput)
	}

	mask := NewMask(img.Width, img.Height)
	white := 0
	for i, p := range img.Pixels {
		if p.R >= threshold && p.G >= threshold && p.B >= threshold {
			mask.Bits[i] = true
			white++
		}
	}

	total := img.PixelCount()
	return WhiteRegionResult{
		Mask:       mask,
		WhiteCount: white,
		TotalCount: total,
		Percentage: 100 * float64(white) / float64(total),
		Threshold:  threshold,
	}, nil
}

// WhiteRegionSummary reduces the white percentages of an image batch to four
// numbers.
type WhiteRegionSummary struct {
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// SummarizeWhiteRegions runs ExtractWhiteRegions over every image and reduces
// the per-image percentages to min, max, mean, and median. The median is the
// middle element of the sorted percentages, or the mean of the two middles
// for an even count. An empty image list fails with ErrInvalidInput, as does
// any image the classifier rejects.
func SummarizeWhiteRegions(images []*Image, threshold float64) (WhiteRegionSummary, error) {
	if len(images) == 0 {
		return WhiteRegionSummary{}, fmt.Errorf("%w: no images to summarize", ErrInvalidInput)
	}

	percentages := make([]float64, len(images))
	for i, img := range images {
		result, err := ExtractWhiteRegions(img, threshold)
		if err != nil {
			return WhiteRegionSummary{}, fmt.Errorf("image %d: %w", i, err)
		}
		percentages[i] = result.Percentage
	}

	sort.Float64s(percentages)
	sum := 0.0
	for _, p := range percentages {
		sum += p
	}

	n := len(percentages)
	median := percentages[n/2]
	if n%2 == 0 {
		median = (percentages[n/2-1] + percentages[n/2]) / 2
	}

	return WhiteRegionSummary{
		Min:    percentages[0],
		Max:    percentages[n-1],
		Mean:   sum / float64(n),
		Median: median,
	}, nil
}
