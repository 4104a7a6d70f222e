// Package bitpack packs 1-bit-per-pixel bitmaps into the byte-row layout
// graphic fields transmit: bits MSB-first, each row right-padded with zero
// bits to the next byte boundary, rows concatenated with no separator.
package bitpack

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimensions = errors.New("bitpack: invalid dimensions")
	ErrLengthMismatch    = errors.New("bitpack: data length mismatch")
)

// Bitmap is a readable 1-bit pixel source.
type Bitmap interface {
	Width() int
	Height() int
	// BlackAt reports whether the pixel at (x, y) is black.
	BlackAt(x, y int) bool
}

// Monochrome is a packed bitmap. It is immutable after construction and
// itself satisfies Bitmap, so it can be re-packed or rendered directly.
type Monochrome struct {
	data   []byte
	width  int
	height int
	stride int
}

func (m *Monochrome) Width() int  { return m.width }
func (m *Monochrome) Height() int { return m.height }

// Stride is the number of bytes storing one pixel row.
func (m *Monochrome) Stride() int { return m.stride }

// Data is the packed row-major bytes, len == Stride()*Height().
func (m *Monochrome) Data() []byte { return m.data }

func (m *Monochrome) BlackAt(x, y int) bool {
	b := m.data[y*m.stride+x/8]
	return b>>(7-uint(x%8))&1 == 1
}

// Pack reads every pixel of b and packs it MSB-first. A bit is set when the
// source pixel is black XOR invert. Zero-size bitmaps are rejected.
func Pack(b Bitmap, invert bool) (*Monochrome, error) {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}
	stride := (w + 7) / 8
	data := make([]byte, stride*h)

	for y := 0; y < h; y++ {
		row := data[y*stride:]
		for x := 0; x < w; x++ {
			if b.BlackAt(x, y) != invert {
				row[x/8] |= 1 << (7 - uint(x%8))
			}
		}
	}
	return &Monochrome{data: data, width: w, height: h, stride: stride}, nil
}

// Unpack wraps wire bytes as a packed bitmap, discarding the trailing pad
// bits of every row so equality checks see only real pixels.
func Unpack(data []byte, bytesPerRow, width, height int) (*Monochrome, error) {
	if width <= 0 || height <= 0 || bytesPerRow <= 0 {
		return nil, fmt.Errorf("%w: %dx%d stride %d", ErrInvalidDimensions, width, height, bytesPerRow)
	}
	if bytesPerRow*8 < width {
		return nil, fmt.Errorf("%w: stride %d too small for width %d", ErrInvalidDimensions, bytesPerRow, width)
	}
	if len(data) != bytesPerRow*height {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrLengthMismatch, len(data), bytesPerRow*height)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	maskPadBits(buf, bytesPerRow, width, height)
	return &Monochrome{data: buf, width: width, height: height, stride: bytesPerRow}, nil
}

func maskPadBits(data []byte, stride, width, height int) {
	pad := stride*8 - width
	if pad == 0 {
		return
	}
	first := width / 8
	for y := 0; y < height; y++ {
		row := data[y*stride : (y+1)*stride]
		i := first
		if width%8 != 0 {
			row[i] &= 0xFF << uint(8-width%8)
			i++
		}
		for ; i < stride; i++ {
			row[i] = 0
		}
	}
}

// Equal reports bit-for-bit equality of dimensions and pixel data.
func Equal(a, b *Monochrome) bool {
	if a.width != b.width || a.height != b.height {
		return false
	}
	for y := 0; y < a.height; y++ {
		for x := 0; x < a.width; x++ {
			if a.BlackAt(x, y) != b.BlackAt(x, y) {
				return false
			}
		}
	}
	return true
}
