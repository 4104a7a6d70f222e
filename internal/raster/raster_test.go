package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/danmuck/zplctl/internal/bitpack"
)

func grayImage(values ...uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, len(values), 1))
	for x, v := range values {
		img.SetGray(x, 0, color.Gray{Y: v})
	}
	return img
}

func TestRasterizeRoundTrip(t *testing.T) {
	src := grayImage(0, 128, 255)
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	img, err := Rasterize(buf.Bytes())
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 1 {
		t.Fatalf("bounds: %v", img.Bounds())
	}
}

func TestRasterizeRejectsGarbage(t *testing.T) {
	if _, err := Rasterize([]byte("definitely not an image")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestThresholdReduction(t *testing.T) {
	img := grayImage(0, 100, 200, 255)
	m, err := ReduceToMonochrome(img, ReduceOptions{Threshold: 128})
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	want := []bool{true, true, false, false}
	for x, black := range want {
		if m.BlackAt(x, 0) != black {
			t.Fatalf("pixel %d: got black=%v, want %v", x, m.BlackAt(x, 0), black)
		}
	}
}

func TestThresholdReductionInverted(t *testing.T) {
	img := grayImage(0, 255)
	m, err := ReduceToMonochrome(img, ReduceOptions{Threshold: 128, Invert: true})
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if m.BlackAt(0, 0) || !m.BlackAt(1, 0) {
		t.Fatalf("invert not applied: %v %v", m.BlackAt(0, 0), m.BlackAt(1, 0))
	}
}

func TestDitherUniformImageIsStable(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	// Leave at zero: uniformly black.
	m, err := ReduceToMonochrome(img, ReduceOptions{Dither: true})
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if !m.BlackAt(x, y) {
				t.Fatalf("pixel (%d,%d) should dither to black", x, y)
			}
		}
	}
}

func TestRenderRoundTrip(t *testing.T) {
	src := grayImage(0, 255, 0, 255, 0)
	m, err := ReduceToMonochrome(src, ReduceOptions{Threshold: 128})
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	back, err := ReduceToMonochrome(Render(m), ReduceOptions{Threshold: 128})
	if err != nil {
		t.Fatalf("re-reduce: %v", err)
	}
	if !bitpack.Equal(m, back) {
		t.Fatalf("render round trip mismatch")
	}
}

func TestResizeDimensions(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 4))
	if got := Resize(src, 0, 0); got != src {
		t.Fatalf("identity resize should return the source")
	}
	got := Resize(src, 20, 0)
	if got.Bounds().Dx() != 20 || got.Bounds().Dy() != 4 {
		t.Fatalf("resize bounds: %v", got.Bounds())
	}
	got = Resize(src, 5, 2)
	if got.Bounds().Dx() != 5 || got.Bounds().Dy() != 2 {
		t.Fatalf("resize bounds: %v", got.Bounds())
	}
}

func TestRotateQuarterTurns(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 0})
	src.SetGray(1, 0, color.Gray{Y: 255})

	rotated, err := Rotate(src, 90)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if rotated.Bounds().Dx() != 1 || rotated.Bounds().Dy() != 2 {
		t.Fatalf("rotate 90 bounds: %v", rotated.Bounds())
	}
	if !isBlack(rotated.At(0, 1)) || isBlack(rotated.At(0, 0)) {
		t.Fatalf("rotate 90 moved pixels wrong")
	}

	rotated, err = Rotate(src, 180)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if !isBlack(rotated.At(1, 0)) || isBlack(rotated.At(0, 0)) {
		t.Fatalf("rotate 180 moved pixels wrong")
	}

	if same, err := Rotate(src, 0); err != nil || same != image.Image(src) {
		t.Fatalf("rotate 0 should be identity")
	}
	if _, err := Rotate(src, 45); err == nil {
		t.Fatalf("expected error for unsupported angle")
	}
}

func TestEncodePNG(t *testing.T) {
	m, err := ReduceToMonochrome(grayImage(0, 255), ReduceOptions{Threshold: 128})
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodePNG(&buf, m); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 1 {
		t.Fatalf("bounds: %v", img.Bounds())
	}
}

func isBlack(c color.Color) bool {
	g := color.GrayModel.Convert(c).(color.Gray)
	return g.Y < 128
}
