// Package raster bridges pixel images and packed monochrome bitmaps: it
// decodes image bytes, reduces them to 1-bit, and renders decoded bitmaps
// back into images. The graphic-field codec itself never touches pixels.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"

	"github.com/danmuck/zplctl/internal/bitpack"
)

// Rasterize decodes PNG, JPEG or GIF bytes into a pixel image.
func Rasterize(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("raster: decode image: %w", err)
	}
	return img, nil
}

// ReduceOptions controls the 1-bit reduction.
type ReduceOptions struct {
	// Dither applies Floyd-Steinberg error diffusion; otherwise a hard
	// luminance threshold decides each pixel.
	Dither bool
	// Threshold is the gray cutoff for the undithered path: pixels at or
	// below it come out black.
	Threshold uint8
	// Invert swaps black and white in the result.
	Invert bool
}

// ReduceToMonochrome converts a pixel image into a packed 1-bit bitmap.
func ReduceToMonochrome(img image.Image, opts ReduceOptions) (*bitpack.Monochrome, error) {
	if opts.Dither {
		return bitpack.Pack(ditheredBitmap(img), opts.Invert)
	}
	return bitpack.Pack(thresholdBitmap{img: img, cutoff: opts.Threshold}, opts.Invert)
}

func ditheredBitmap(img image.Image) bitpack.Bitmap {
	d := dither.NewDitherer([]color.Color{color.Black, color.White})
	d.Matrix = dither.FloydSteinberg
	d.Serpentine = true
	paletted := d.DitherPaletted(img)

	// Palette index of black depends on how the ditherer ordered it.
	blackIndex := uint8(paletted.Palette.Index(color.Black))
	return palettedBitmap{img: paletted, black: blackIndex}
}

type palettedBitmap struct {
	img   *image.Paletted
	black uint8
}

func (p palettedBitmap) Width() int  { return p.img.Rect.Dx() }
func (p palettedBitmap) Height() int { return p.img.Rect.Dy() }

func (p palettedBitmap) BlackAt(x, y int) bool {
	return p.img.ColorIndexAt(p.img.Rect.Min.X+x, p.img.Rect.Min.Y+y) == p.black
}

type thresholdBitmap struct {
	img    image.Image
	cutoff uint8
}

func (t thresholdBitmap) Width() int  { return t.img.Bounds().Dx() }
func (t thresholdBitmap) Height() int { return t.img.Bounds().Dy() }

func (t thresholdBitmap) BlackAt(x, y int) bool {
	b := t.img.Bounds()
	g := color.GrayModel.Convert(t.img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
	return g.Y <= t.cutoff
}

// Resize scales img to width x height with Catmull-Rom interpolation. A
// zero dimension keeps the source value, so Resize(img, 0, 0) is identity.
func Resize(img image.Image, width, height int) image.Image {
	if width <= 0 {
		width = img.Bounds().Dx()
	}
	if height <= 0 {
		height = img.Bounds().Dy()
	}
	if width == img.Bounds().Dx() && height == img.Bounds().Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// Rotate turns img counterclockwise by 0, 90, 180 or 270 degrees, swapping
// dimensions for the quarter turns.
func Rotate(img image.Image, degrees int) (image.Image, error) {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()

	var dst *image.RGBA
	var place func(x, y int) (int, int)
	switch degrees {
	case 0:
		return img, nil
	case 90:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		place = func(x, y int) (int, int) { return y, w - 1 - x }
	case 180:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		place = func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 270:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		place = func(x, y int) (int, int) { return h - 1 - y, x }
	default:
		return nil, fmt.Errorf("raster: rotation must be 0, 90, 180 or 270, got %d", degrees)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := place(x, y)
			dst.Set(dx, dy, img.At(src.Min.X+x, src.Min.Y+y))
		}
	}
	return dst, nil
}

// Render draws a packed bitmap as a grayscale image, black bits to black
// pixels.
func Render(m *bitpack.Monochrome) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width(), m.Height()))
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.BlackAt(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// EncodePNG writes a packed bitmap to w as a PNG image.
func EncodePNG(w io.Writer, m *bitpack.Monochrome) error {
	return png.Encode(w, Render(m))
}
