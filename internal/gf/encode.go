package gf

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// EncodePayload renders raw packed bitmap bytes as graphic-field payload
// text under enc. It returns the payload and the binary byte count to
// declare in the ^GF header: the raw length for Hex and Base64, the
// post-deflate length for CompressedBase64.
//
// lineBreak > 0 inserts a newline every lineBreak characters of encoded
// text for transport readability. It applies to Hex and Base64 only; the
// Z64 body is left opaque. Checksums are always computed over the unbroken
// Base64 text.
func EncodePayload(raw []byte, enc Encoding, lineBreak int) (string, int, error) {
	if len(raw) == 0 {
		return "", 0, ErrInvalidBitmap
	}
	switch enc {
	case EncodingHex:
		text := strings.ToUpper(hex.EncodeToString(raw))
		return insertLineBreaks(text, lineBreak), len(raw), nil

	case EncodingBase64:
		text := base64.StdEncoding.EncodeToString(raw)
		crc := ChecksumHex([]byte(text))
		return ":B64:" + insertLineBreaks(text, lineBreak) + ":" + crc, len(raw), nil

	case EncodingCompressedBase64:
		compressed, err := deflate(raw)
		if err != nil {
			return "", 0, err
		}
		text := base64.StdEncoding.EncodeToString(compressed)
		crc := ChecksumHex([]byte(text))
		return ":Z64:" + text + ":" + crc, len(compressed), nil

	default:
		return "", 0, ErrUnknownEncoding
	}
}

func deflate(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func insertLineBreaks(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + len(text)/width)
	for i := 0; i < len(text); i += width {
		if i > 0 {
			b.WriteByte('\n')
		}
		end := i + width
		if end > len(text) {
			end = len(text)
		}
		b.WriteString(text[i:end])
	}
	return b.String()
}
