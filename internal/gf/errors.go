package gf

import "errors"

var (
	ErrInvalidBitmap    = errors.New("gf: invalid bitmap")
	ErrUnknownEncoding  = errors.New("gf: unknown encoding")
	ErrMalformedPayload = errors.New("gf: malformed payload")
	ErrChecksumMismatch = errors.New("gf: checksum mismatch")
	ErrMalformedField   = errors.New("gf: malformed field")
)
