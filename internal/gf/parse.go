package gf

import (
	"fmt"
	"strconv"
	"strings"
)

// Candidate is one ^GF occurrence found in a document, tagged with its
// encounter index among all occurrences, parseable or not. Indexes stay
// stable across skipped candidates so warnings line up with the document.
type Candidate struct {
	Index int
	Field
}

// ParseWarning records a ^GF candidate that had to be skipped.
type ParseWarning struct {
	Index int
	Err   error
}

// ParseDocument scans arbitrary ZPL text for graphic fields in encounter
// order. Malformed candidates are skipped with a warning; the rest of the
// document is always scanned. Text with no ^GF at all yields an empty
// candidate list and no warnings.
//
// A ^FO command immediately preceding a ^GF supplies that field's
// placement; any other intervening command resets it to the (0,0) default.
// The payload runs to the next ^ or end of input, so an embedded : (as in
// the :B64:/:Z64: framing) never terminates a field.
func ParseDocument(zpl string) ([]Candidate, []ParseWarning) {
	var (
		candidates []Candidate
		warnings   []ParseWarning
		posX, posY int
		havePos    bool
		index      int
	)

	for i := 0; i < len(zpl); {
		caret := strings.IndexByte(zpl[i:], '^')
		if caret < 0 {
			break
		}
		i += caret + 1
		rest := zpl[i:]

		switch {
		case strings.HasPrefix(rest, "FO"):
			x, y, ok := parsePosition(segment(rest[2:]))
			posX, posY, havePos = x, y, ok

		case strings.HasPrefix(rest, "GF"):
			seg := segment(rest[2:])
			field, err := parseFieldHeader(seg)
			if err != nil {
				warnings = append(warnings, ParseWarning{Index: index, Err: err})
			} else {
				if havePos {
					field.PosX, field.PosY = posX, posY
				}
				candidates = append(candidates, Candidate{Index: index, Field: field})
			}
			index++
			havePos = false
			i += len(seg)

		default:
			havePos = false
		}
	}
	return candidates, warnings
}

// segment returns the text up to but not including the next command start.
func segment(s string) string {
	if end := strings.IndexByte(s, '^'); end >= 0 {
		return s[:end]
	}
	return s
}

func parsePosition(seg string) (int, int, bool) {
	x, rest, found := strings.Cut(seg, ",")
	if !found {
		return 0, 0, false
	}
	px, err := strconv.Atoi(strings.TrimSpace(x))
	if err != nil || px < 0 {
		return 0, 0, false
	}
	py, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || py < 0 {
		return 0, 0, false
	}
	return px, py, true
}

func parseFieldHeader(seg string) (Field, error) {
	parts := strings.SplitN(seg, ",", 5)
	if len(parts) != 5 {
		return Field{}, fmt.Errorf("%w: truncated header", ErrMalformedField)
	}

	field := Field{Encoding: EncodingHex}
	if letters := strings.TrimSpace(parts[0]); letters != "" {
		enc, err := ParseEncoding(letters[:1])
		if err != nil {
			return Field{}, fmt.Errorf("%w: encoding letter %q", ErrMalformedField, letters)
		}
		field.Encoding = enc
	}

	counts := [3]*int{&field.BinaryByteCount, &field.TotalByteCount, &field.BytesPerRow}
	for n, dst := range counts {
		v, err := strconv.Atoi(strings.TrimSpace(parts[n+1]))
		if err != nil || v <= 0 {
			return Field{}, fmt.Errorf("%w: byte count %q", ErrMalformedField, parts[n+1])
		}
		*dst = v
	}

	field.Payload = strings.TrimSuffix(parts[4], "\n")
	if field.Payload == "" {
		return Field{}, fmt.Errorf("%w: empty payload", ErrMalformedField)
	}
	if err := field.Validate(); err != nil {
		return Field{}, err
	}
	return field, nil
}
