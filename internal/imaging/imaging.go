// Package imaging holds the pixel-level half of the reporting pipeline: a
// normalized in-memory image type, decoders for the formats wound photos
// arrive in, and the white-region threshold classifier used to flag
// calibration markers and glare artifacts.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"io"

	// Wound photos arrive as PNG or JPEG from the capture app and as BMP or
	// TIFF from the older clinic scanners.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/woundlab/segreport/internal/fsutil"
)

// ErrInvalidInput marks classifier calls whose result is undefined for the
// given input: a zero-pixel image, a threshold outside [0, 1], or an empty
// image list. Callers check it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Pixel is one image pixel with channels normalized to [0, 1].
type Pixel struct {
	R float64
	G float64
	B float64
}

// Image is a dense row-major pixel grid with normalized channels.
type Image struct {
	Width  int
	Height int
	Pixels []Pixel
}

// NewImage allocates a zeroed image of the given dimensions.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]Pixel, width*height),
	}
}

// At returns the pixel at (x, y). Out-of-bounds access panics like a slice.
func (img *Image) At(x, y int) Pixel {
	return img.Pixels[y*img.Width+x]
}

// Set stores the pixel at (x, y).
func (img *Image) Set(x, y int, p Pixel) {
	img.Pixels[y*img.Width+x] = p
}

// PixelCount returns the total number of pixels.
func (img *Image) PixelCount() int {
	return img.Width * img.Height
}

// FromImage converts a decoded standard-library image into the normalized
// grid the classifier works on. Channel values are scaled from the 16-bit
// range RGBA() reports into [0, 1]; alpha is discarded.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	img := NewImage(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			img.Set(x-bounds.Min.X, y-bounds.Min.Y, Pixel{
				R: float64(r) / 0xffff,
				G: float64(g) / 0xffff,
				B: float64(b) / 0xffff,
			})
		}
	}
	return img
}

// Decode reads one image in any registered format and converts it to the
// normalized grid.
func Decode(r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(src), nil
}

// DecodeFile opens and decodes one image from the given filesystem.
func DecodeFile(fsys fsutil.FileSystem, path string) (*Image, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
