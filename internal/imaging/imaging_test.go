package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/woundlab/segreport/internal/fsutil"
)

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	src.SetRGBA(1, 0, color.RGBA{R: 51, G: 102, B: 204, A: 255})

	img := FromImage(src)

	if img.Width != 2 || img.Height != 1 {
		t.Fatalf("dimensions %dx%d, want 2x1", img.Width, img.Height)
	}

	first := img.At(0, 0)
	if first.R != 1 || first.G != 0 || first.B != 0 {
		t.Errorf("pixel (0,0) = %+v, want pure red", first)
	}

	second := img.At(1, 0)
	for name, got := range map[string]struct{ got, want float64 }{
		"R": {second.R, 51.0 / 255.0},
		"G": {second.G, 102.0 / 255.0},
		"B": {second.B, 204.0 / 255.0},
	} {
		if math.Abs(got.got-got.want) > 1e-9 {
			t.Errorf("pixel (1,0) channel %s = %v, want %v", name, got.got, got.want)
		}
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(3, 5, 5, 6))
	src.SetRGBA(3, 5, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	img := FromImage(src)

	if img.Width != 2 || img.Height != 1 {
		t.Fatalf("dimensions %dx%d, want 2x1", img.Width, img.Height)
	}
	if img.At(0, 0).R != 1 {
		t.Error("expected offset origin to map to (0,0)")
	}
}

func TestDecode(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 230, G: 230, B: 230, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}

	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if img.PixelCount() != 4 {
		t.Errorf("PixelCount() = %d, want 4", img.PixelCount())
	}
	if math.Abs(img.At(1, 1).G-230.0/255.0) > 1e-9 {
		t.Errorf("pixel green = %v, want %v", img.At(1, 1).G, 230.0/255.0)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")))
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDecodeFile(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 250, G: 250, B: 250, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}

	mfs := fsutil.NewMemoryFileSystem()
	if err := mfs.WriteFile("/photos/wound_1.png", buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	img, err := DecodeFile(mfs, "/photos/wound_1.png")
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	if img.PixelCount() != 1 {
		t.Errorf("PixelCount() = %d, want 1", img.PixelCount())
	}

	if _, err := DecodeFile(mfs, "/photos/missing.png"); err == nil {
		t.Error("expected error for missing file")
	}
}
