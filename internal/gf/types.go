package gf

import "fmt"

// Encoding selects the textual representation of graphic-field data.
type Encoding uint8

const (
	// EncodingHex is ASCII hexadecimal, the most compatible encoding.
	EncodingHex Encoding = iota
	// EncodingBase64 is plain Base64 with a CRC suffix (:B64: framing).
	EncodingBase64
	// EncodingCompressedBase64 is zlib-deflated Base64 with a CRC suffix
	// (:Z64: framing), the densest encoding.
	EncodingCompressedBase64
)

// Letter returns the single-letter encoding tag used in the ^GF header.
func (e Encoding) Letter() byte {
	switch e {
	case EncodingBase64:
		return 'B'
	case EncodingCompressedBase64:
		return 'C'
	default:
		return 'A'
	}
}

func (e Encoding) String() string {
	switch e {
	case EncodingHex:
		return "ASCII"
	case EncodingBase64:
		return "B64"
	case EncodingCompressedBase64:
		return "Z64"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// ParseEncoding accepts both the header letters and the framing names.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "A", "a", "ASCII", "ascii", "hex", "HEX":
		return EncodingHex, nil
	case "B", "b", "B64", "b64":
		return EncodingBase64, nil
	case "C", "c", "Z64", "z64":
		return EncodingCompressedBase64, nil
	default:
		return EncodingHex, fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
	}
}

// Field is one ^GF command: the declared header values, the payload text and
// the placement taken from the preceding ^FO command.
type Field struct {
	Encoding        Encoding
	BinaryByteCount int
	TotalByteCount  int
	BytesPerRow     int
	Payload         string
	PosX            int
	PosY            int
}

// Width is the pixel width implied by the row stride.
func (f Field) Width() int {
	return f.BytesPerRow * 8
}

// Height is derivable only from a nonzero row stride.
func (f Field) Height() int {
	if f.BytesPerRow == 0 {
		return 0
	}
	return f.TotalByteCount / f.BytesPerRow
}

// Validate checks the header bookkeeping invariants.
func (f Field) Validate() error {
	if f.BytesPerRow <= 0 {
		return fmt.Errorf("%w: bytes per row must be positive", ErrMalformedField)
	}
	if f.TotalByteCount <= 0 {
		return fmt.Errorf("%w: total byte count must be positive", ErrMalformedField)
	}
	if f.TotalByteCount%f.BytesPerRow != 0 {
		return fmt.Errorf("%w: total byte count %d not divisible by row stride %d",
			ErrMalformedField, f.TotalByteCount, f.BytesPerRow)
	}
	return nil
}
