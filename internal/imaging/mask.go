package imaging

import (
	"image"
	"image/color"
)

// Mask is a binary pixel grid with the same dimensions as the image it was
// derived from, stored row-major.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask allocates an all-false mask of the given dimensions.
func NewMask(width, height int) Mask {
	return Mask{
		Width:  width,
		Height: height,
		Bits:   make([]bool, width*height),
	}
}

// At reports whether the pixel at (x, y) is in the mask.
func (m Mask) At(x, y int) bool {
	return m.Bits[y*m.Width+x]
}

// Count returns the number of set pixels.
func (m Mask) Count() int {
	count := 0
	for _, b := range m.Bits {
		if b {
			count++
		}
	}
	return count
}

// Equal reports whether two masks have identical dimensions and bits.
func (m Mask) Equal(other Mask) bool {
	if m.Width != other.Width || m.Height != other.Height {
		return false
	}
	for i := range m.Bits {
		if m.Bits[i] != other.Bits[i] {
			return false
		}
	}
	return true
}

// Render converts the mask to a grayscale image, set pixels white, for
// saving as a standalone artifact.
func (m Mask) Render() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) {
				out.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return out
}

// OverlayMask paints the masked pixels of src in the highlight color and
// returns the result, leaving src untouched. Used by the scan tool to save
// inspection overlays next to the raw masks.
func OverlayMask(src *Image, m Mask, highlight color.RGBA) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, src.Width, src.Height))
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			if m.At(x, y) {
				out.SetRGBA(x, y, highlight)
				continue
			}
			p := src.At(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: uint8(p.R*255 + 0.5),
				G: uint8(p.G*255 + 0.5),
				B: uint8(p.B*255 + 0.5),
				A: 0xff,
			})
		}
	}
	return out
}
