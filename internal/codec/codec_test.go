package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/zplctl/internal/bitpack"
	"github.com/danmuck/zplctl/internal/gf"
)

type testBitmap struct {
	w, h  int
	black func(x, y int) bool
}

func (b testBitmap) Width() int            { return b.w }
func (b testBitmap) Height() int           { return b.h }
func (b testBitmap) BlackAt(x, y int) bool { return b.black(x, y) }

func solid(w, h int, black bool) testBitmap {
	return testBitmap{w: w, h: h, black: func(int, int) bool { return black }}
}

func checker(w, h int) testBitmap {
	return testBitmap{w: w, h: h, black: func(x, y int) bool { return (x+y)%2 == 0 }}
}

func TestRoundTripAllEncodings(t *testing.T) {
	// Width off the byte boundary so pad-bit handling is exercised.
	src := checker(10, 3)
	for _, enc := range []gf.Encoding{gf.EncodingHex, gf.EncodingBase64, gf.EncodingCompressedBase64} {
		opts := Options{Encoding: enc, PosX: 7, PosY: 9, Wrap: true}
		zpl, err := Encode(src, opts)
		if err != nil {
			t.Fatalf("%v encode: %v", enc, err)
		}

		decoded, warnings := Decode(zpl, DecodeOptions{})
		if len(warnings) != 0 {
			t.Fatalf("%v warnings: %v", enc, warnings)
		}
		if len(decoded) != 1 {
			t.Fatalf("%v: got %d fields, want 1", enc, len(decoded))
		}
		got := decoded[0]
		if got.Field.PosX != 7 || got.Field.PosY != 9 {
			t.Fatalf("%v position: got %d,%d", enc, got.Field.PosX, got.Field.PosY)
		}
		if got.Field.Encoding != enc {
			t.Fatalf("%v: decoded as %v", enc, got.Field.Encoding)
		}

		want, err := bitpack.Pack(src, false)
		if err != nil {
			t.Fatalf("pack reference: %v", err)
		}
		// The decoded bitmap is stride*8 wide; compare the real pixels.
		for y := 0; y < src.h; y++ {
			for x := 0; x < src.w; x++ {
				if got.Bitmap.BlackAt(x, y) != want.BlackAt(x, y) {
					t.Fatalf("%v: pixel (%d,%d) mismatch", enc, x, y)
				}
			}
		}
	}
}

func TestEncodedFieldBookkeeping(t *testing.T) {
	zpl, err := Encode(checker(16, 8), Options{Encoding: gf.EncodingHex})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, _ := Decode(zpl, DecodeOptions{})
	if len(decoded) != 1 {
		t.Fatalf("fields: %d", len(decoded))
	}
	f := decoded[0].Field
	if f.TotalByteCount != f.BytesPerRow*f.Height() {
		t.Fatalf("total %d != stride %d * height %d", f.TotalByteCount, f.BytesPerRow, f.Height())
	}
	if f.BinaryByteCount != f.TotalByteCount {
		t.Fatalf("hex binary count %d != total %d", f.BinaryByteCount, f.TotalByteCount)
	}
}

func TestCompressedEncodingShrinksUniformData(t *testing.T) {
	zpl, err := Encode(solid(64, 64, true), Options{Encoding: gf.EncodingCompressedBase64})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, _ := Decode(zpl, DecodeOptions{})
	if len(decoded) != 1 {
		t.Fatalf("fields: %d", len(decoded))
	}
	f := decoded[0].Field
	if f.BinaryByteCount >= f.TotalByteCount {
		t.Fatalf("compression did not shrink: binary %d, total %d", f.BinaryByteCount, f.TotalByteCount)
	}
}

func TestInvertEquivalence(t *testing.T) {
	inverted, err := Encode(solid(16, 8, true), Options{Encoding: gf.EncodingHex, Invert: true})
	if err != nil {
		t.Fatalf("encode inverted: %v", err)
	}
	white, err := Encode(solid(16, 8, false), Options{Encoding: gf.EncodingHex})
	if err != nil {
		t.Fatalf("encode white: %v", err)
	}
	if inverted != white {
		t.Fatalf("invert(black) != plain(white):\n%q\n%q", inverted, white)
	}
}

func TestEncodePagesSingleLabelAndSplit(t *testing.T) {
	pages := []bitpack.Bitmap{checker(8, 4), solid(8, 4, true)}

	joined, err := EncodePages(pages, Options{Encoding: gf.EncodingHex, Wrap: true}, false)
	if err != nil {
		t.Fatalf("encode joined: %v", err)
	}
	if strings.Count(joined, "^XA") != 1 {
		t.Fatalf("joined should be one label: %q", joined)
	}
	decoded, _ := Decode(joined, DecodeOptions{})
	if len(decoded) != 2 {
		t.Fatalf("joined fields: %d", len(decoded))
	}

	split, err := EncodePages(pages, Options{Encoding: gf.EncodingHex, Wrap: true}, true)
	if err != nil {
		t.Fatalf("encode split: %v", err)
	}
	if strings.Count(split, "^XA") != 2 || strings.Count(split, "^XZ") != 2 {
		t.Fatalf("split should be two labels: %q", split)
	}
}

func TestDecodePreservesDistinctPositions(t *testing.T) {
	a, err := Encode(checker(8, 2), Options{Encoding: gf.EncodingHex, PosX: 11, PosY: 22})
	if err != nil {
		t.Fatalf("encode a: %v", err)
	}
	b, err := Encode(checker(8, 2), Options{Encoding: gf.EncodingBase64, PosX: 33, PosY: 44})
	if err != nil {
		t.Fatalf("encode b: %v", err)
	}
	decoded, warnings := Decode("^XA\n"+a+"\n"+b+"\n^XZ\n", DecodeOptions{})
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
	if len(decoded) != 2 {
		t.Fatalf("fields: %d", len(decoded))
	}
	if decoded[0].Field.PosX != 11 || decoded[0].Field.PosY != 22 {
		t.Fatalf("first position: %d,%d", decoded[0].Field.PosX, decoded[0].Field.PosY)
	}
	if decoded[1].Field.PosX != 33 || decoded[1].Field.PosY != 44 {
		t.Fatalf("second position: %d,%d", decoded[1].Field.PosX, decoded[1].Field.PosY)
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	decoded, warnings := Decode("^XA^FO0,0^FDno graphics here^FS^XZ", DecodeOptions{})
	if len(decoded) != 0 {
		t.Fatalf("fields: %d", len(decoded))
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
}

func TestDecodeChecksumMismatchIsolatedToOneField(t *testing.T) {
	good, err := Encode(checker(8, 2), Options{Encoding: gf.EncodingBase64})
	if err != nil {
		t.Fatalf("encode good: %v", err)
	}
	bad, err := Encode(solid(8, 2, true), Options{Encoding: gf.EncodingBase64})
	if err != nil {
		t.Fatalf("encode bad: %v", err)
	}
	bad = corruptChecksum(t, bad)

	doc := "^XA\n" + bad + "\n" + good + "\n^XZ\n"

	decoded, warnings := Decode(doc, DecodeOptions{})
	if len(decoded) != 1 {
		t.Fatalf("strict fields: %d, want 1", len(decoded))
	}
	if len(warnings) != 1 || !errors.Is(warnings[0].Err, gf.ErrChecksumMismatch) {
		t.Fatalf("strict warnings: %v", warnings)
	}
	if warnings[0].Index != 0 {
		t.Fatalf("warning index: %d, want 0", warnings[0].Index)
	}

	decoded, warnings = Decode(doc, DecodeOptions{LenientChecksum: true})
	if len(decoded) != 2 {
		t.Fatalf("lenient fields: %d, want 2", len(decoded))
	}
	if len(warnings) != 1 || !errors.Is(warnings[0].Err, gf.ErrChecksumMismatch) {
		t.Fatalf("lenient warnings: %v", warnings)
	}
}

func TestDecodeRejectsPayloadCountMismatch(t *testing.T) {
	// Header declares 4 bytes, payload carries 2.
	decoded, warnings := Decode("^GFA,4,4,2,A5B6^FS", DecodeOptions{})
	if len(decoded) != 0 {
		t.Fatalf("fields: %d", len(decoded))
	}
	if len(warnings) != 1 || !errors.Is(warnings[0].Err, gf.ErrMalformedPayload) {
		t.Fatalf("warnings: %v", warnings)
	}
}

func TestDecodeTrustsFramingOverLetter(t *testing.T) {
	// Printers commonly emit ^GFA with a framed Z64 payload.
	z64, err := Encode(solid(16, 4, true), Options{Encoding: gf.EncodingCompressedBase64})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	doc := strings.Replace(z64, "^GFC,", "^GFA,", 1)
	decoded, warnings := Decode(doc, DecodeOptions{})
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
	if len(decoded) != 1 || decoded[0].Field.Encoding != gf.EncodingCompressedBase64 {
		t.Fatalf("decoded: %+v", decoded)
	}
}

func TestEncodeRejectsInvalidInput(t *testing.T) {
	if _, err := Encode(solid(0, 4, true), Options{Encoding: gf.EncodingHex}); !errors.Is(err, gf.ErrInvalidBitmap) {
		t.Fatalf("zero width: expected ErrInvalidBitmap, got %v", err)
	}
	if _, err := Encode(checker(8, 8), Options{Encoding: gf.Encoding(9)}); !errors.Is(err, gf.ErrUnknownEncoding) {
		t.Fatalf("bad encoding: expected ErrUnknownEncoding, got %v", err)
	}
	if _, err := Encode(checker(8, 8), Options{Encoding: gf.EncodingHex, PosX: -1}); err == nil {
		t.Fatalf("negative position should be rejected")
	}
	if _, err := EncodePages(nil, Options{Encoding: gf.EncodingHex}, false); !errors.Is(err, gf.ErrInvalidBitmap) {
		t.Fatalf("no pages: expected ErrInvalidBitmap, got %v", err)
	}
}

func corruptChecksum(t *testing.T, field string) string {
	t.Helper()
	end := strings.LastIndex(field, "^FS")
	if end < 0 || end == 0 {
		t.Fatalf("no ^FS in %q", field)
	}
	last := field[end-1]
	replacement := byte('0')
	if last == '0' {
		replacement = '1'
	}
	return field[:end-1] + string(replacement) + field[end:]
}
