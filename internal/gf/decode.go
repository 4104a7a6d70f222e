package gf

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Payload is a decoded graphic-field payload.
type Payload struct {
	Data     []byte
	Encoding Encoding
}

// DecodePayload turns payload text back into raw packed bitmap bytes. The
// encoding is detected from the :B64:/:Z64: framing; unframed text is ASCII
// hexadecimal. The header letter is deliberately ignored: printers in the
// field emit ^GFA with framed payloads, so the framing is the truth.
//
// On ErrChecksumMismatch the returned payload still carries the fully
// decoded data; lenient callers may keep it after recording the mismatch.
// All other errors return an empty payload.
func DecodePayload(text string) (Payload, error) {
	switch {
	case strings.HasPrefix(text, ":B64:"):
		return decodeFramed(text[len(":B64:"):], EncodingBase64)
	case strings.HasPrefix(text, ":Z64:"):
		return decodeFramed(text[len(":Z64:"):], EncodingCompressedBase64)
	default:
		return decodeHex(text)
	}
}

func decodeHex(text string) (Payload, error) {
	clean := stripSpace(text)
	if len(clean)%2 != 0 {
		return Payload{}, fmt.Errorf("%w: odd hex length %d", ErrMalformedPayload, len(clean))
	}
	data, err := hex.DecodeString(clean)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return Payload{Data: data, Encoding: EncodingHex}, nil
}

func decodeFramed(body string, enc Encoding) (Payload, error) {
	sep := strings.LastIndexByte(body, ':')
	if sep < 0 || len(body)-sep-1 != 4 {
		return Payload{}, fmt.Errorf("%w: missing checksum suffix", ErrMalformedPayload)
	}
	declared := strings.ToUpper(body[sep+1:])
	encoded := stripSpace(body[:sep])

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if enc == EncodingCompressedBase64 {
		data, err = inflate(data)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
	}

	if computed := ChecksumHex([]byte(encoded)); computed != declared {
		return Payload{Data: data, Encoding: enc},
			fmt.Errorf("%w: declared %s, computed %s", ErrChecksumMismatch, declared, computed)
	}
	return Payload{Data: data, Encoding: enc}, nil
}

func inflate(compressed []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
