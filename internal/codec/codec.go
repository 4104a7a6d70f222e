// Package codec is the facade over the graphic-field pipeline: bitmaps in,
// ZPL text out, and back. It holds no state between calls; concurrent
// encodes and decodes need no coordination.
package codec

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danmuck/zplctl/internal/bitpack"
	"github.com/danmuck/zplctl/internal/gf"
)

// Options configures a single encode call. Validated once up front; never
// mutated afterwards.
type Options struct {
	Encoding gf.Encoding
	// Invert flips black and white during packing.
	Invert bool
	// PosX, PosY place the field on the label, in dots.
	PosX int
	PosY int
	// LineBreak > 0 wraps Hex and Base64 payload text every N characters.
	LineBreak int
	// Wrap emits a complete printable ^XA...^XZ document instead of the
	// bare field.
	Wrap bool
}

func (o Options) validate() error {
	switch o.Encoding {
	case gf.EncodingHex, gf.EncodingBase64, gf.EncodingCompressedBase64:
	default:
		return fmt.Errorf("%w: %d", gf.ErrUnknownEncoding, o.Encoding)
	}
	if o.PosX < 0 || o.PosY < 0 {
		return fmt.Errorf("%w: negative position %d,%d", gf.ErrMalformedField, o.PosX, o.PosY)
	}
	if o.LineBreak < 0 {
		return fmt.Errorf("%w: negative line break width", gf.ErrMalformedField)
	}
	return nil
}

// Encode packs one bitmap and renders it as ZPL. Errors are always fatal to
// the call; there is no partial encode.
func Encode(b bitpack.Bitmap, opts Options) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	field, err := encodeField(b, opts)
	if err != nil {
		return "", err
	}
	rendered := gf.ComposeField(field)
	if opts.Wrap {
		return gf.WrapDocument(rendered), nil
	}
	return rendered, nil
}

// EncodePages renders one field per source page. With splitPages each page
// becomes its own ^XA...^XZ document; otherwise all fields share one label.
func EncodePages(pages []bitpack.Bitmap, opts Options, splitPages bool) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("%w: no pages", gf.ErrInvalidBitmap)
	}
	rendered := make([]string, 0, len(pages))
	for _, page := range pages {
		field, err := encodeField(page, opts)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, gf.ComposeField(field))
	}
	if !opts.Wrap {
		var out string
		for _, r := range rendered {
			out += r
		}
		return out, nil
	}
	if splitPages {
		return gf.WrapDocuments(rendered...), nil
	}
	return gf.WrapDocument(rendered...), nil
}

func encodeField(b bitpack.Bitmap, opts Options) (gf.Field, error) {
	packed, err := bitpack.Pack(b, opts.Invert)
	if err != nil {
		return gf.Field{}, fmt.Errorf("%w: %v", gf.ErrInvalidBitmap, err)
	}
	payload, binaryCount, err := gf.EncodePayload(packed.Data(), opts.Encoding, opts.LineBreak)
	if err != nil {
		return gf.Field{}, err
	}
	return gf.Field{
		Encoding:        opts.Encoding,
		BinaryByteCount: binaryCount,
		TotalByteCount:  len(packed.Data()),
		BytesPerRow:     packed.Stride(),
		Payload:         payload,
		PosX:            opts.PosX,
		PosY:            opts.PosY,
	}, nil
}

// Decoded is one successfully recovered graphic field.
type Decoded struct {
	Bitmap *bitpack.Monochrome
	Field  gf.Field
}

// Warning records a field that was found but could not be fully decoded.
// Index is the field's encounter order among all ^GF occurrences, so
// callers can tell "no fields found" from "fields found but invalid".
type Warning struct {
	Index int
	Err   error
}

// DecodeOptions configures a single decode call.
type DecodeOptions struct {
	// LenientChecksum keeps payloads whose checksum does not verify,
	// recording the mismatch as a warning instead of dropping the field.
	LenientChecksum bool
}

// Decode recovers every graphic field from arbitrary ZPL text, in encounter
// order. It is total: unrecognized input is never an error, fields that
// fail to parse or validate are skipped with a warning, and a document with
// no valid fields yields an empty result.
func Decode(zpl string, opts DecodeOptions) ([]Decoded, []Warning) {
	candidates, parseWarns := gf.ParseDocument(zpl)

	var (
		results  []Decoded
		warnings []Warning
	)
	for _, w := range parseWarns {
		warnings = append(warnings, Warning{Index: w.Index, Err: w.Err})
	}

	for _, cand := range candidates {
		payload, err := gf.DecodePayload(cand.Payload)
		if err != nil {
			if !errors.Is(err, gf.ErrChecksumMismatch) || !opts.LenientChecksum {
				warnings = append(warnings, Warning{Index: cand.Index, Err: err})
				continue
			}
			warnings = append(warnings, Warning{Index: cand.Index, Err: err})
		}

		field := cand.Field
		field.Encoding = payload.Encoding
		if len(payload.Data) != field.TotalByteCount {
			warnings = append(warnings, Warning{Index: cand.Index, Err: fmt.Errorf(
				"%w: payload is %d bytes, header declares %d",
				gf.ErrMalformedPayload, len(payload.Data), field.TotalByteCount)})
			continue
		}

		bitmap, err := bitpack.Unpack(payload.Data, field.BytesPerRow, field.Width(), field.Height())
		if err != nil {
			warnings = append(warnings, Warning{Index: cand.Index, Err: fmt.Errorf(
				"%w: %v", gf.ErrMalformedPayload, err)})
			continue
		}
		results = append(results, Decoded{Bitmap: bitmap, Field: field})
	}

	sort.SliceStable(warnings, func(i, j int) bool { return warnings[i].Index < warnings[j].Index })
	return results, warnings
}
